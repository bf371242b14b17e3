package gateway

import (
	"context"
	"os"
	"sync"

	"loan-approval-service/internal/common/errors"
	"loan-approval-service/internal/common/logger"
	"loan-approval-service/internal/common/metrics"
)

// Status describes the gateway's artifact state without triggering a load.
type Status struct {
	Loaded   bool       `json:"loaded"`
	Degraded bool       `json:"degraded"`
	Error    string     `json:"error,omitempty"`
	Model    *ModelInfo `json:"model,omitempty"`
}

// Gateway owns the scoring artifact for the process. The artifact path is
// fixed at construction and read at most once: the first Load (or Score)
// attempt caches either the pipeline or the failure, and every later call
// reuses that outcome without touching the filesystem again.
type Gateway struct {
	path   string
	logger logger.Logger

	mu        sync.RWMutex
	attempted bool
	pipeline  *Pipeline
	loadErr   error
}

func New(path string, log logger.Logger) *Gateway {
	return &Gateway{
		path:   path,
		logger: log.WithFields(map[string]interface{}{"component": "gateway"}),
	}
}

// Load reads and parses the artifact if no attempt has been made yet, and
// returns the cached outcome otherwise. A missing artifact is reported as
// ARTIFACT_NOT_FOUND so callers can keep serving in degraded mode.
func (g *Gateway) Load() error {
	g.mu.RLock()
	if g.attempted {
		err := g.loadErr
		g.mu.RUnlock()
		return err
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.attempted {
		return g.loadErr
	}

	g.pipeline, g.loadErr = g.load()
	g.attempted = true

	if g.loadErr != nil {
		metrics.ModelLoaded.Set(0)
		g.logger.WithError(g.loadErr).Error("scoring artifact unavailable, serving degraded",
			map[string]interface{}{"path": g.path})
		return g.loadErr
	}

	metrics.ModelLoaded.Set(1)
	model := g.pipeline.Model()
	g.logger.Info("scoring artifact loaded", map[string]interface{}{
		"path":    g.path,
		"model":   model.Name,
		"version": model.Version,
		"classes": model.Classes,
	})
	return nil
}

func (g *Gateway) load() (*Pipeline, error) {
	raw, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewArtifactNotFoundError(g.path)
		}
		return nil, errors.NewArtifactInvalidError(g.path, err)
	}

	pipeline, err := NewPipeline(raw)
	if err != nil {
		return nil, errors.NewArtifactInvalidError(g.path, err)
	}
	return pipeline, nil
}

// Score runs the pipeline on one feature row and returns the probability of
// the positive class. Load failures short-circuit with the cached error;
// pipeline failures come back as SCORING_ERROR and are never retried here.
func (g *Gateway) Score(ctx context.Context, features map[string]interface{}) (float64, error) {
	if err := g.Load(); err != nil {
		return 0, err
	}

	if err := ctx.Err(); err != nil {
		return 0, errors.NewScoringError(err)
	}

	probs, err := g.pipeline.PredictProba(features)
	if err != nil {
		scoringErr := errors.NewScoringError(err)
		metrics.ScoringErrorsTotal.WithLabelValues(string(scoringErr.Code)).Inc()
		return 0, scoringErr
	}

	return probs[g.pipeline.PositiveIndex()], nil
}

// Status reports the current artifact state. It never triggers a load, so
// readiness probes stay read-only.
func (g *Gateway) Status() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.attempted {
		return Status{}
	}
	if g.loadErr != nil {
		return Status{Degraded: true, Error: g.loadErr.Error()}
	}

	model := g.pipeline.Model()
	return Status{Loaded: true, Model: &model}
}

// Importance returns the loaded artifact's importance table, nil when the
// artifact is unavailable or carries none.
func (g *Gateway) Importance() []ImportanceEntry {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.pipeline == nil {
		return nil
	}
	return g.pipeline.Importance()
}
