package api

import (
	"net/http"

	"loan-approval-service/internal/common/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every endpoint behind the middleware chain:
// recovery, request IDs, access logging, and route metrics.
func NewRouter(h *Handler, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/predict", h.Predict)
	mux.HandleFunc("GET /api/v1/model", h.Model)
	mux.HandleFunc("GET /api/v1/docs/variables", h.Variables)
	mux.HandleFunc("GET /api/v1/docs/feature-importance", h.Importance)
	mux.HandleFunc("GET /api/v1/docs/feature-importance/image", h.ImportanceImage)
	mux.HandleFunc("GET /api/v1/docs/guide", h.Guide)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	return Recover(log)(RequestID(AccessLog(log)(Measure(mux))))
}
