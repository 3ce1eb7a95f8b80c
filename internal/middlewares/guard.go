package middlewares

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ErrorWriter renders the uniform error body for a status and message key.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, key string)

// RequireOwner guards routes shaped /users/{id}: the authenticated
// identity must match the path id. Both sides are compared as int64 so
// the check never depends on string-to-number coercion. Anonymous
// callers and mismatches get 403 with the route-specific message key.
func RequireOwner(messageKey string, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				writeError(w, r, http.StatusForbidden, messageKey)
				return
			}

			pathID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil || pathID != identity.ID {
				writeError(w, r, http.StatusForbidden, messageKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
