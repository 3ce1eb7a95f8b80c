package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dkotenko/user-accounts/internal/i18n"
	"github.com/dkotenko/user-accounts/internal/logger"
	"github.com/dkotenko/user-accounts/internal/models"
	"github.com/dkotenko/user-accounts/internal/services"
)

// ErrorResponse is the uniform error body for every failing request.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Request path
	// example: /api/v1/users
	Path string `json:"path"`

	// Milliseconds since epoch
	Timestamp int64 `json:"timestamp"`

	// Localized message
	Message string `json:"message"`

	// Per-field localized messages, present on validation failures only
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// MessageResponse is the body of successful message-only responses.
// swagger:model MessageResponse
type MessageResponse struct {
	// Localized message
	// example: User created
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeMessage renders {message} with the localized text for key.
func writeMessage(w http.ResponseWriter, r *http.Request, status int, key string) {
	writeJSON(w, status, MessageResponse{
		Message: i18n.Translate(i18n.Lang(r.Context()), key),
	})
}

// WriteError renders the uniform error body for a status and message
// key. Exported because route guards outside this package produce the
// same body.
func WriteError(w http.ResponseWriter, r *http.Request, status int, key string) {
	writeJSON(w, status, ErrorResponse{
		Path:      r.URL.Path,
		Timestamp: time.Now().UnixMilli(),
		Message:   i18n.Translate(i18n.Lang(r.Context()), key),
	})
}

// writeValidationError renders a 400 carrying per-field localized messages.
func writeValidationError(w http.ResponseWriter, r *http.Request, verr *models.ValidationError) {
	lang := i18n.Lang(r.Context())
	fields := make(map[string]string, len(verr.Fields))
	for field, key := range verr.Fields {
		fields[field] = i18n.Translate(lang, key)
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Path:             r.URL.Path,
		Timestamp:        time.Now().UnixMilli(),
		Message:          i18n.Translate(lang, i18n.ValidationFailure),
		ValidationErrors: fields,
	})
}

// writeServiceError is the single translator from service failures to
// HTTP status plus localized message. Handlers never hand-format error
// bodies.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		writeValidationError(w, r, verr)
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		WriteError(w, r, http.StatusUnauthorized, i18n.AuthenticationFailure)
	case errors.Is(err, services.ErrUserInactive):
		WriteError(w, r, http.StatusForbidden, i18n.InactiveAuthFailure)
	case errors.Is(err, services.ErrInvalidResetToken):
		WriteError(w, r, http.StatusForbidden, i18n.UnauthorizedPasswordReset)
	case errors.Is(err, services.ErrInvalidActivationToken):
		WriteError(w, r, http.StatusBadRequest, i18n.AccountActivationFailure)
	case errors.Is(err, services.ErrUserNotFound):
		WriteError(w, r, http.StatusNotFound, i18n.UserNotFound)
	case errors.Is(err, services.ErrEmailNotFound):
		WriteError(w, r, http.StatusNotFound, i18n.EmailNotInUse)
	case errors.Is(err, services.ErrEmailDelivery):
		WriteError(w, r, http.StatusBadGateway, i18n.EmailFailure)
	default:
		logger.Log.Errorw("internal server error", "err", err)
		WriteError(w, r, http.StatusInternalServerError, i18n.InternalError)
	}
}
