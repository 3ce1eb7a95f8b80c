package handlers

import (
	"context"
	"net/http"

	"github.com/dkotenko/user-accounts/internal/logger"
	"github.com/dkotenko/user-accounts/internal/middlewares"
)

// Logouter defines the interface that the service must implement.
type Logouter interface {
	Logout(ctx context.Context, token string) error
}

// NewLogoutHandler returns an HTTP handler for logout.
// @Summary Log out
// @Description Revokes the presented bearer token. Always answers 200, with or without a token.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 "Logged out"
// @Router /logout [post]
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Logout always succeeds for the caller; revocation failures
		// are only logged.
		if err := svc.Logout(r.Context(), middlewares.BearerToken(r)); err != nil {
			logger.Log.Errorw("token revocation failed", "err", err)
		}
		w.WriteHeader(http.StatusOK)
	}
}
