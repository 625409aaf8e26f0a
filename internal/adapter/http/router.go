package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gomoney/internal/adapter/http/handler"
	"github.com/iho/gomoney/internal/adapter/http/middleware"
	"github.com/iho/gomoney/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EvaluationHandler *handler.EvaluationHandler
	RateHandler       *handler.RateHandler
	CurrencyHandler   *handler.CurrencyHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/evaluate", cfg.EvaluationHandler.Evaluate)
		r.Post("/distribute", cfg.EvaluationHandler.Distribute)

		// Exchange rates
		r.Route("/rates", func(r chi.Router) {
			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
			}

			r.Get("/", cfg.RateHandler.List)
			r.Put("/", cfg.RateHandler.Set)
			r.Delete("/{source}/{target}", cfg.RateHandler.Delete)
		})

		// Currencies
		r.Route("/currencies", func(r chi.Router) {
			r.Get("/", cfg.CurrencyHandler.List)
			r.Get("/{code}", cfg.CurrencyHandler.Get)
		})
	})

	return r
}
