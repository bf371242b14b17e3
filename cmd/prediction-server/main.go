package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-approval-service/internal/api"
	"loan-approval-service/internal/common/camunda"
	"loan-approval-service/internal/common/config"
	commonhttp "loan-approval-service/internal/common/http"
	"loan-approval-service/internal/common/logger"
	"loan-approval-service/internal/common/observability"
	"loan-approval-service/internal/gateway"
	"loan-approval-service/internal/prediction"
	"loan-approval-service/pkg/modelcard"

	score "loan-approval-service/internal/workers/loan/score-loan-application"
	validate "loan-approval-service/internal/workers/loan/validate-loan-application"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(logger.New("info", "json"), "config load failed", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting service", map[string]interface{}{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	card, err := modelcard.Load(cfg.Docs.CatalogPath)
	if err != nil {
		fatal(log, "model documentation load failed", err)
	}

	gw := gateway.New(cfg.Model.ArtifactPath, log)
	if cfg.Model.WarmLoad {
		// The outcome is cached either way. A missing artifact starts the
		// service degraded rather than aborting it.
		_ = gw.Load()
	}

	svc := prediction.NewService(gw, log)

	handler := api.NewHandler(api.HandlerParams{
		Service:    svc,
		Gateway:    gw,
		Card:       card,
		ImagePath:  cfg.Model.ImportanceImagePath,
		AppName:    cfg.App.Name,
		AppVersion: cfg.App.Version,
		Logger:     log,
	})

	srv := commonhttp.NewServer(cfg.Server, api.NewRouter(handler, log), log)
	go func() {
		if err := srv.Start(); err != nil {
			fatal(log, "http server failed", err)
		}
	}()

	var (
		camundaClient *camunda.Client
		workers       []*camunda.CamundaWorker
	)
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 5, 2*time.Second, log, "camunda broker connection")
		if err != nil {
			fatal(log, "camunda broker connection failed after retries", err)
		}
		zeebe := camundaClient.GetClient()

		if wc := cfg.GetWorkerConfig(validate.TaskType); wc.Enabled {
			h := validate.NewHandler(validate.NewConfig(cfg), svc, log)
			workers = append(workers, startWorker(zeebe, validate.TaskType, wc, h, log))
		}

		if wc := cfg.GetWorkerConfig(score.TaskType); wc.Enabled {
			h := score.NewHandler(score.NewConfig(cfg), svc, obs, log)
			workers = append(workers, startWorker(zeebe, score.TaskType, wc, h, log))
		}

		log.Info("workflow workers registered", map[string]interface{}{"count": len(workers)})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if camundaClient != nil {
		if err := camundaClient.Close(); err != nil {
			log.WithError(err).Error("camunda client close failed", nil)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown failed", nil)
	}

	log.Info("service stopped", nil)
}

func startWorker(client zbc.Client, taskType string, wc config.WorkerConfig, handler camunda.JobHandler, log logger.Logger) *camunda.CamundaWorker {
	w := camunda.NewWorker(client, taskType, wc.MaxJobsActive, config.GetDuration(wc.Timeout), handler, log)
	w.Start()
	return w
}

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.WithError(err).Warn(operationName+" failed, retrying", map[string]interface{}{
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func fatal(log logger.Logger, msg string, err error) {
	log.WithError(err).Error(msg, nil)
	os.Exit(1)
}
