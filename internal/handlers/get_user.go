package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dkotenko/user-accounts/internal/i18n"
	"github.com/dkotenko/user-accounts/internal/models"
)

// UserGetter defines the interface that the service must implement.
type UserGetter interface {
	GetUser(ctx context.Context, id int64) (models.UserPublic, error)
}

// NewGetUserHandler returns an HTTP handler for fetching one user.
// @Summary Get a user
// @Description Returns the public fields of an active user. Inactive users are reported as not found.
// @Tags users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} models.UserPublic
// @Failure 404 {object} handlers.ErrorResponse "Unknown or inactive user"
// @Router /users/{id} [get]
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			WriteError(w, r, http.StatusNotFound, i18n.UserNotFound)
			return
		}

		user, err := svc.GetUser(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
