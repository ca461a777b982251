package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"sre-dashboard/internal/domain"
)

// TokenPrincipal is the principal recorded for requests that present the
// static API token.
const TokenPrincipal = "api-token"

// BearerAuth requires "Authorization: Bearer <token>" matching token. An
// empty token disables the check.
func BearerAuth(token string) func(http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			presented, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(presented)), expected) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="sre-dashboard"`)
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized: provide a valid Bearer token")
				return
			}
			next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), TokenPrincipal)))
		})
	}
}
