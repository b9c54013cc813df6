package middleware

import (
	"net/http"
	"strings"

	"epc-api/internal/service/auth"
	"epc-api/pkg/logger"
)

// AdminAuth creates a middleware guarding admin routes with a bearer session
// token issued by the auth service
func AdminAuth(authService *auth.Service, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "authorization header is required", nil)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization header format", nil)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "token is required", nil)
				return
			}

			if err := authService.Verify(token); err != nil {
				logger.WithError(err).Warn("Admin session validation failed")
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired session", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
