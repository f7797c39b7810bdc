package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Checker reports whether a dependency can serve traffic.
type Checker func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes over HTTP.
type HealthHandler struct {
	service  string
	checkers map[string]Checker
	timeout  time.Duration
	logger   *slog.Logger
}

// NewHealthHandler creates a health check HTTP handler. Readiness runs every
// checker and fails when any of them does.
func NewHealthHandler(service string, checkers map[string]Checker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service:  service,
		checkers: checkers,
		timeout:  2 * time.Second,
		logger:   logger,
	}
}

// Register attaches health-check routes to r.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/healthz", h.liveness)
	r.Get("/readyz", h.readiness)
}

func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.service,
	})
}

func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := make(map[string]string, len(h.checkers))
	for name, check := range h.checkers {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "check", name, "error", err)
			checks[name] = err.Error()
			status, code = "unavailable", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, code, map[string]any{
		"status":  status,
		"service": h.service,
		"checks":  checks,
	})
}
