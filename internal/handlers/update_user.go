package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dkotenko/user-accounts/internal/i18n"
	"github.com/dkotenko/user-accounts/internal/models"
)

// ProfileUpdater defines the interface that the service must implement.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, id int64, req models.UserUpdateRequest) (models.UserPublic, error)
}

// NewUpdateUserHandler returns an HTTP handler for profile updates.
// The ownership guard runs before this handler, so the path id is
// already known to match the authenticated identity.
// @Summary Update own profile
// @Description Changes the username and optionally replaces the profile image (base64, PNG or JPEG, max 2MB decoded).
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param userUpdateRequest body models.UserUpdateRequest true "Profile update request"
// @Success 200 {object} models.UserPublic
// @Failure 400 {object} handlers.ErrorResponse "Validation failure"
// @Failure 403 {object} handlers.ErrorResponse "Not the resource owner"
// @Router /users/{id} [put]
func NewUpdateUserHandler(svc ProfileUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			WriteError(w, r, http.StatusForbidden, i18n.UnauthorizedUserUpdate)
			return
		}

		var req models.UserUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, i18n.InvalidRequestBody)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
