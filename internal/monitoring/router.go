package monitoring

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter exposes /health and /metrics
func NewRouter(health *HealthChecker) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	r.Get("/health", health.ServeHTTP)
	r.Get("/metrics", MetricsHandler().ServeHTTP)

	return r
}
