package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/erpledger/internal/adapter/http/handler"
	"github.com/iho/erpledger/internal/adapter/http/middleware"
	"github.com/iho/erpledger/internal/infrastructure/auth"
	"github.com/iho/erpledger/internal/infrastructure/metrics"
	"github.com/iho/erpledger/internal/usecase"
)

// RouterConfig holds dependencies for the router. JWTManager, RateLimiter,
// IdempotencyStore, Metrics and MetricsHandler are optional.
type RouterConfig struct {
	VoucherHandler   *handler.VoucherHandler
	LedgerHandler    *handler.LedgerHandler
	AccountHandler   *handler.AccountHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	JWTManager       *auth.JWTManager
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1/companies/{companyID}", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.Authenticate(cfg.JWTManager, cfg.Metrics))
		}
		// Keys are scoped per caller, so this runs after authentication.
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/vouchers", func(r chi.Router) {
			r.Post("/", cfg.VoucherHandler.Create)
			r.Get("/", cfg.VoucherHandler.List)
			r.Get("/{id}", cfg.VoucherHandler.Get)
			r.Put("/{id}", cfg.VoucherHandler.Update)
			r.Post("/{id}/submit", cfg.VoucherHandler.Submit)
			r.Post("/{id}/approve", cfg.VoucherHandler.Approve)
			r.Post("/{id}/lock", cfg.VoucherHandler.Lock)
			r.Post("/{id}/cancel", cfg.VoucherHandler.Cancel)
			r.Post("/{id}/reverse", cfg.VoucherHandler.Reverse)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{code}", cfg.AccountHandler.Get)
			r.Get("/{code}/postability", cfg.AccountHandler.Postability)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/trial-balance", cfg.LedgerHandler.TrialBalance)
			r.Get("/general-ledger", cfg.LedgerHandler.GeneralLedger)
			r.Get("/journal", cfg.LedgerHandler.Journal)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
			r.Get("/integrity", cfg.LedgerHandler.Integrity)
		})
	})

	return r
}
