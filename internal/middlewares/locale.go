package middlewares

import (
	"net/http"

	"github.com/dkotenko/user-accounts/internal/i18n"
)

// LocaleMiddleware negotiates the response language from the
// Accept-Language header and stores it in the request context.
func LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.Negotiate(r.Header.Get("Accept-Language"))
		ctx := i18n.WithLang(r.Context(), lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
