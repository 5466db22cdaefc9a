package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/coinsync/internal/adapter/http/handler"
	"github.com/iho/coinsync/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler   *handler.LedgerHandler
	IdentityHandler *handler.IdentityHandler
	HealthHandler   *handler.HealthHandler
	Logging         *middleware.LoggingMiddleware
	RateLimiter     *middleware.RateLimiter

	// ExposeSeeding enables POST /api/v1/identities. Kept off in
	// production: identities there arrive through provisioning, not the API.
	ExposeSeeding bool
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and telemetry endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/ledger", func(r chi.Router) {
			r.Post("/mutate", cfg.LedgerHandler.Mutate)
			r.Post("/batch", cfg.LedgerHandler.Batch)
		})

		r.Route("/identities", func(r chi.Router) {
			if cfg.ExposeSeeding {
				r.Post("/", cfg.IdentityHandler.Create)
			}
			r.Get("/{external_id}/balance", cfg.IdentityHandler.GetBalance)
			r.Get("/{external_id}/records", cfg.IdentityHandler.GetRecords)
		})
	})

	return r
}
