package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/filegate/service/internal/response"
)

// Authenticator verifies a bearer token and resolves the caller's identity.
// Implementations must be safe for concurrent use. The context bounds any
// backend call made during verification.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity string, err error)
}

// contextKey is an unexported type for context keys in this package.
type contextKey string

// identityKey is the context key for the authenticated subject identity.
const identityKey contextKey = "identity"

// IdentityFromContext returns the subject identity attached by RequireAuth.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey).(string)
	return identity, ok
}

// RequireAuth returns middleware that guards protected routes. The
// Authorization header must be present and match "Bearer <token>"; the token
// is then verified by the Authenticator. Every verification failure —
// expired, malformed, bad signature, backend unreachable — collapses to a
// 401 with the cause carried only as diagnostic detail. On success the
// resolved identity is attached to the request context.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.Unauthorized(w, "Token is missing or invalid!", nil)
				return
			}

			identity, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				response.Unauthorized(w, "Token is invalid!", err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
