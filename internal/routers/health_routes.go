package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/iam-sarthakdev/MockMate-AI/internal/handlers"
	"github.com/iam-sarthakdev/MockMate-AI/internal/metrics"
)

func HealthRoutes(router chi.Router, healthHandler *handlers.HealthHandler) {
	router.Get("/healthz", healthHandler.HealthzHandler)
	router.Get("/readyz", healthHandler.ReadyzHandler)
	router.Handle("/metrics", metrics.Handler())
}
