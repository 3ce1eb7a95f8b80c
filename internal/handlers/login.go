package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkotenko/user-accounts/internal/i18n"
	"github.com/dkotenko/user-accounts/internal/models"
	"github.com/dkotenko/user-accounts/internal/services"
)

// Loginer defines the interface that the service must implement.
type Loginer interface {
	Login(ctx context.Context, req models.LoginRequest) (services.LoginResult, error)
}

// NewLoginHandler returns an HTTP handler for authentication.
// @Summary Authenticate
// @Description Verifies the credentials and issues an opaque session token. Inactive accounts with correct credentials get 403.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login request"
// @Success 200 {object} services.LoginResult
// @Failure 401 {object} handlers.ErrorResponse "Incorrect credentials"
// @Failure 403 {object} handlers.ErrorResponse "Account is inactive"
// @Router /auth [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, i18n.InvalidRequestBody)
			return
		}

		result, err := svc.Login(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
