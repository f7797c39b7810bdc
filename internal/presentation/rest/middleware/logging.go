package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bibbank/collections/pkg/auth"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

type actorKey struct{}

// requestActor is filled in by AuthMiddleware further down the chain so
// that the request log line can name the caller.
type requestActor struct {
	name string
}

// recordActor stores the authenticated actor for the request log line.
func recordActor(ctx context.Context, actor string) {
	if h, ok := ctx.Value(actorKey{}).(*requestActor); ok {
		h.name = actor
	}
}

// LoggingMiddleware logs every HTTP request with its route pattern, status,
// duration and the acting operator. Server errors are logged at error level.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			actor := &requestActor{name: auth.SystemActor}
			r = r.WithContext(context.WithValue(r.Context(), actorKey{}, actor))
			next.ServeHTTP(rw, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			level := slog.LevelInfo
			if rw.statusCode >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"route", route,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"actor", actor.name,
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}
