package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/dkotenko/user-accounts/internal/sessions"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "absent", header: "", expected: ""},
		{name: "bearer", header: "Bearer token123", expected: "token123"},
		{name: "case insensitive scheme", header: "bearer token123", expected: "token123"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", expected: ""},
		{name: "scheme only", header: "Bearer", expected: ""},
		{name: "extra parts", header: "Bearer one two", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.expected, BearerToken(req))
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name             string
		authorization    string
		mockSetup        func(m *MockTokenResolver)
		expectedIdentity *Identity
	}{
		{
			name:      "no header passes anonymously",
			mockSetup: func(m *MockTokenResolver) {},
		},
		{
			name:          "unknown token passes anonymously",
			authorization: "Bearer stale",
			mockSetup: func(m *MockTokenResolver) {
				m.EXPECT().
					Resolve(gomock.Any(), "stale").
					Return(int64(0), sessions.ErrTokenNotFound)
			},
		},
		{
			name:          "valid token attaches identity",
			authorization: "Bearer token123",
			mockSetup: func(m *MockTokenResolver) {
				m.EXPECT().
					Resolve(gomock.Any(), "token123").
					Return(int64(7), nil)
			},
			expectedIdentity: &Identity{ID: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockResolver := NewMockTokenResolver(ctrl)
			tt.mockSetup(mockResolver)

			var gotIdentity *Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if identity, ok := IdentityFrom(r.Context()); ok {
					gotIdentity = &identity
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(mockResolver)(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expectedIdentity, gotIdentity)
		})
	}
}
