package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkotenko/user-accounts/internal/i18n"
)

// Activator defines the interface that the service must implement.
type Activator interface {
	Activate(ctx context.Context, token string) error
}

// NewActivateHandler returns an HTTP handler for account activation.
// @Summary Activate an account
// @Description Flips an account to active using the token from the activation e-mail.
// @Tags users
// @Produce json
// @Param token path string true "Activation token"
// @Success 200 {object} handlers.MessageResponse "Account is activated"
// @Failure 400 {object} handlers.ErrorResponse "Unknown or already used token"
// @Router /users/token/{token} [post]
func NewActivateHandler(svc Activator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		if err := svc.Activate(r.Context(), token); err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeMessage(w, r, http.StatusOK, i18n.AccountActivationSuccess)
	}
}
