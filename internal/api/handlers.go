// Package api exposes the prediction service over HTTP: the predict
// endpoint, model status, and the documentation pages the original UI
// shipped alongside the form.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"loan-approval-service/internal/common/errors"
	"loan-approval-service/internal/common/logger"
	"loan-approval-service/internal/gateway"
	"loan-approval-service/internal/prediction"
	"loan-approval-service/pkg/modelcard"
)

type Handler struct {
	service    *prediction.Service
	gateway    *gateway.Gateway
	card       *modelcard.Card
	imagePath  string
	appName    string
	appVersion string
	logger     logger.Logger
}

type HandlerParams struct {
	Service    *prediction.Service
	Gateway    *gateway.Gateway
	Card       *modelcard.Card
	ImagePath  string
	AppName    string
	AppVersion string
	Logger     logger.Logger
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{
		service:    p.Service,
		gateway:    p.Gateway,
		card:       p.Card,
		imagePath:  p.ImagePath,
		appName:    p.AppName,
		appVersion: p.AppVersion,
		logger:     p.Logger.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Predict scores one raw application and returns the flat result contract:
// probability, decision, recommendations.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, errors.NewValidationError([]errors.FieldError{{
			Field:   "body",
			Code:    errors.FieldCodeInvalidType,
			Message: "request body must be a JSON object",
		}}))
		return
	}

	result, err := h.service.Predict(r.Context(), raw)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Model reports the artifact state: loaded model identity, or the degraded
// condition.
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.gateway.Status())
}

func (h *Handler) Variables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"variables": h.card.Variables,
	})
}

// Importance serves the artifact's importance table when one is loaded and
// falls back to the illustrative card figures otherwise, mirroring the
// original chart behavior.
func (h *Handler) Importance(w http.ResponseWriter, r *http.Request) {
	source := "artifact"
	var entries interface{} = h.gateway.Importance()

	if imp, ok := entries.([]gateway.ImportanceEntry); !ok || len(imp) == 0 {
		source = "fallback"
		entries = h.card.Importance
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"source":         source,
		"importance":     entries,
		"interpretation": h.card.Interpretation,
	})
}

func (h *Handler) ImportanceImage(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.imagePath); err != nil {
		writeJSON(w, http.StatusNotFound, errorEnvelope{
			Error: errorBody{
				Code:    "IMAGE_NOT_FOUND",
				Message: "The feature importance chart is not available",
			},
		})
		return
	}
	http.ServeFile(w, r, h.imagePath)
}

func (h *Handler) Guide(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"guide":      h.card.Guide,
		"disclaimer": h.card.Disclaimer,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.appName,
		"version": h.appVersion,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready answers 200 whenever the process is serving. A degraded model does
// not fail readiness; the body carries the model state so orchestration can
// still see it.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.gateway.Status()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ready",
		"model_loaded": status.Loaded,
		"degraded":     status.Degraded,
		"time":         time.Now().UTC().Format(time.RFC3339),
	})
}
