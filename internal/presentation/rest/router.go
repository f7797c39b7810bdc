package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bibbank/collections/internal/application/usecase"
	"github.com/bibbank/collections/internal/presentation/rest/middleware"
	"github.com/bibbank/collections/pkg/auth"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Service        *usecase.CaseLedgerService
	JWT            *auth.JWTService
	Health         *HealthHandler
	MetricsHandler http.Handler
	RateLimitRPS   int
	Logger         *slog.Logger
}

// NewRouter builds the HTTP handler. Probes and metrics are public; the
// API under /api/v1 requires a bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(cfg.Logger))

	cfg.Health.Register(r)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimitRPS)))
		r.Use(middleware.AuthMiddleware(cfg.JWT, nil))

		NewCaseHandler(cfg.Service, cfg.Logger).Register(r)
		NewRuleHandler(cfg.Service, cfg.Logger).Register(r)
	})
	return r
}
