package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/quanghm/coindex/internal/auth"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalMiddleware resolves the session token on every request and stores
// the owning principal in the request context. A nil manager (local mode)
// passes every request through with no principal.
func PrincipalMiddleware(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
				return
			}
			principal, err := manager.Verify(token)
			if err != nil {
				respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session"})
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerFrom returns the principal id stored by PrincipalMiddleware, or the
// empty string under the local backend.
func OwnerFrom(ctx context.Context) string {
	owner, _ := ctx.Value(principalKey).(string)
	return owner
}

// CORSMiddleware adds permissive CORS headers and answers preflights.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
