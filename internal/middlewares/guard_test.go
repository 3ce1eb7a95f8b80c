package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/dkotenko/user-accounts/internal/i18n"
)

func TestRequireOwner(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		identity     *Identity
		expectedCode int
		expectNext   bool
	}{
		{
			name:         "owner passes",
			path:         "/users/5",
			identity:     &Identity{ID: 5},
			expectedCode: http.StatusOK,
			expectNext:   true,
		},
		{
			name:         "anonymous is forbidden",
			path:         "/users/5",
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "other user is forbidden",
			path:         "/users/5",
			identity:     &Identity{ID: 6},
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "non-numeric id is forbidden",
			path:         "/users/abc",
			identity:     &Identity{ID: 5},
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nextCalled bool
			var gotKey string

			writeError := func(w http.ResponseWriter, r *http.Request, status int, key string) {
				gotKey = key
				w.WriteHeader(status)
			}

			router := chi.NewRouter()
			router.With(RequireOwner(i18n.UnauthorizedUserUpdate, writeError)).
				Put("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
					nextCalled = true
					w.WriteHeader(http.StatusOK)
				})

			req := httptest.NewRequest(http.MethodPut, tt.path, nil)
			if tt.identity != nil {
				req = req.WithContext(WithIdentity(req.Context(), *tt.identity))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
			if tt.expectedCode == http.StatusForbidden {
				assert.Equal(t, i18n.UnauthorizedUserUpdate, gotKey)
			}
		})
	}
}

func TestLocaleMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		acceptLanguage string
		expectedLang   string
	}{
		{name: "no header defaults to english", expectedLang: "en"},
		{name: "turkish", acceptLanguage: "tr", expectedLang: "tr"},
		{name: "turkish with region", acceptLanguage: "tr-TR,tr;q=0.9", expectedLang: "tr"},
		{name: "unsupported falls back", acceptLanguage: "de-DE", expectedLang: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLang string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotLang = i18n.Lang(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}

			LocaleMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.expectedLang, gotLang)
		})
	}
}
