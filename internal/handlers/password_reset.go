package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkotenko/user-accounts/internal/i18n"
	"github.com/dkotenko/user-accounts/internal/models"
)

// PasswordResetRequester defines the interface that the service must implement.
type PasswordResetRequester interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

// PasswordResetter defines the interface that the service must implement.
type PasswordResetter interface {
	ResetPassword(ctx context.Context, req models.PasswordUpdateRequest) error
}

// NewPasswordResetRequestHandler returns an HTTP handler that starts a
// password reset by e-mailing a reset token.
// @Summary Request a password reset
// @Description Sends a reset token to the given e-mail when it belongs to a known account.
// @Tags user
// @Accept json
// @Produce json
// @Param passwordResetRequest body models.PasswordResetRequest true "Password reset request"
// @Success 200 {object} handlers.MessageResponse "Reset e-mail queued"
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 404 {object} handlers.ErrorResponse "Unknown e-mail"
// @Failure 502 {object} handlers.ErrorResponse "Reset e-mail could not be sent"
// @Router /user/password [post]
func NewPasswordResetRequestHandler(svc PasswordResetRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PasswordResetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, i18n.InvalidRequestBody)
			return
		}

		if verr := req.Validate(); verr != nil {
			writeValidationError(w, r, verr)
			return
		}

		if err := svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeMessage(w, r, http.StatusOK, i18n.PasswordResetRequestSuccess)
	}
}

// NewPasswordUpdateHandler returns an HTTP handler that sets a new
// password using a reset token. Unknown tokens fail with 403 before the
// new password is even validated.
// @Summary Set a new password
// @Description Replaces the password of the account holding the reset token. Also activates a still-pending account and revokes all of its sessions.
// @Tags user
// @Accept json
// @Produce json
// @Param passwordUpdateRequest body models.PasswordUpdateRequest true "Password update request"
// @Success 200 "Password updated"
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 403 {object} handlers.ErrorResponse "Unknown reset token"
// @Router /user/password [put]
func NewPasswordUpdateHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PasswordUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, i18n.InvalidRequestBody)
			return
		}

		if err := svc.ResetPassword(r.Context(), req); err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
