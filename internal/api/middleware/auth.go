package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/mcoot/fantasyhockey/internal/api/apierr"
)

// AdminToken creates middleware that requires the bearer token on every
// request. An empty token disables the check.
func AdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := extractToken(r)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
