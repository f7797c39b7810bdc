package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bibbank/collections/pkg/auth"
)

// AuthMiddleware validates JWT tokens on incoming requests.
// Requests whose path starts with one of skipPrefixes bypass authentication.
func AuthMiddleware(jwtService *auth.JWTService, skipPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeDenied(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeDenied(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				writeDenied(w, http.StatusUnauthorized, "invalid token")
				return
			}

			recordActor(r.Context(), claims.Actor())
			next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole rejects requests whose claims carry none of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				writeDenied(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range roles {
				if claims.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeDenied(w, http.StatusForbidden, "access denied")
		})
	}
}

// writeDenied renders an authentication or authorization failure in the
// same body shape as the service's other errors.
func writeDenied(w http.ResponseWriter, status int, message string) {
	kind := "AccessDenied"
	if status == http.StatusUnauthorized {
		kind = "Unauthenticated"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
		"message":   message,
		"error":     kind,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
