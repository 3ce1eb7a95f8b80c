package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dkotenko/user-accounts/internal/i18n"
)

// UserDeleter defines the interface that the service must implement.
type UserDeleter interface {
	DeleteUser(ctx context.Context, id int64) error
}

// NewDeleteUserHandler returns an HTTP handler for account deletion.
// The ownership guard runs before this handler.
// @Summary Delete own account
// @Description Removes the account, revokes all of its session tokens and deletes the stored profile image.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Success 200 "Account deleted"
// @Failure 403 {object} handlers.ErrorResponse "Not the resource owner"
// @Router /users/{id} [delete]
func NewDeleteUserHandler(svc UserDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			WriteError(w, r, http.StatusForbidden, i18n.UnauthorizedUserDelete)
			return
		}

		if err := svc.DeleteUser(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
