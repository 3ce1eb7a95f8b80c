package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkotenko/user-accounts/internal/logger"
)

// TokenResolver resolves an opaque session token to a user id,
// refreshing the token's last-used timestamp on success.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	ID int64
}

type identityKey struct{}

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the authenticated identity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// BearerToken extracts the bearer token from the Authorization header.
// Returns "" when the header is absent or not bearer-shaped.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// AuthMiddleware resolves a bearer token to an identity on every
// request. A missing, malformed or expired token is not an error here:
// the request proceeds anonymously and downstream guards decide whether
// that is acceptable.
func AuthMiddleware(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				logger.Log.Debugw("token did not resolve", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{ID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
