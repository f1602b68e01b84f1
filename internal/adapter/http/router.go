package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerstat/internal/adapter/http/handler"
	"github.com/iho/ledgerstat/internal/adapter/http/middleware"
	"github.com/iho/ledgerstat/internal/infrastructure/auth"
	"github.com/iho/ledgerstat/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AnalyticsHandler *handler.AnalyticsHandler
	ReconcileHandler *handler.ReconcileHandler
	HealthHandler    *handler.HealthHandler
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
	RateLimiter      *middleware.RateLimiter
	// JWTManager enables bearer auth on /api/v1 when set.
	JWTManager *auth.JWTManager
	Metrics    *metrics.Metrics
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.Metrics))
		}

		r.Route("/users/{"+middleware.UserIDParam+"}", func(r chi.Router) {
			r.Use(middleware.UserScope)
			ledgerRoutes(r, cfg)
		})

		if cfg.JWTManager != nil {
			r.Route("/me", func(r chi.Router) {
				r.Use(middleware.CurrentUser)
				ledgerRoutes(r, cfg)
			})
		}
	})

	return r
}

func ledgerRoutes(r chi.Router, cfg RouterConfig) {
	r.Get("/summary", cfg.AnalyticsHandler.Summary)
	r.Get("/accounts", cfg.AnalyticsHandler.Accounts)

	r.Route("/trends", func(r chi.Router) {
		r.Get("/line", cfg.AnalyticsHandler.LineTrend)
		r.Get("/categories", cfg.AnalyticsHandler.CategoryTrend)
		r.Get("/accounts", cfg.AnalyticsHandler.AccountTrend)
	})

	r.Route("/top", func(r chi.Router) {
		r.Get("/categories", cfg.AnalyticsHandler.TopCategories)
		r.Get("/accounts", cfg.AnalyticsHandler.TopAccounts)
	})

	r.Post("/reconcile", cfg.ReconcileHandler.Reconcile)
}
