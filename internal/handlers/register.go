package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkotenko/user-accounts/internal/i18n"
	"github.com/dkotenko/user-accounts/internal/models"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, req models.RegisterRequest) error
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates an inactive user account and sends an activation e-mail. The account stays invisible until activated.
// @Tags users
// @Accept json
// @Produce json
// @Param registerRequest body models.RegisterRequest true "User registration request"
// @Success 200 {object} handlers.MessageResponse "User created"
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 502 {object} handlers.ErrorResponse "Activation e-mail could not be sent"
// @Router /users [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, i18n.InvalidRequestBody)
			return
		}

		if err := svc.Register(r.Context(), req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeMessage(w, r, http.StatusOK, i18n.UserCreateSuccess)
	}
}
