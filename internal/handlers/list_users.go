package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dkotenko/user-accounts/internal/middlewares"
	"github.com/dkotenko/user-accounts/internal/models"
)

// defaultPageSize is also the upper bound for the size parameter.
const defaultPageSize = 10

// UserLister defines the interface that the service must implement.
type UserLister interface {
	ListUsers(ctx context.Context, page, size int, excludeID int64) (models.UserPage, error)
}

// clampPage parses the page parameter: negative or non-numeric falls
// back to 0.
func clampPage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0
	}
	return page
}

// clampSize parses the size parameter: anything outside (0, 10] or
// non-numeric falls back to the default.
func clampSize(raw string) int {
	size, err := strconv.Atoi(raw)
	if err != nil || size <= 0 || size > defaultPageSize {
		return defaultPageSize
	}
	return size
}

// NewListUsersHandler returns an HTTP handler for the paginated user listing.
// @Summary List users
// @Description Returns one page of active users. The authenticated caller is excluded from the listing.
// @Tags users
// @Produce json
// @Param page query int false "Page index, zero-based" default(0)
// @Param size query int false "Page size, 1-10" default(10)
// @Success 200 {object} models.UserPage
// @Router /users [get]
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := clampPage(r.URL.Query().Get("page"))
		size := clampSize(r.URL.Query().Get("size"))

		var excludeID int64
		if identity, ok := middlewares.IdentityFrom(r.Context()); ok {
			excludeID = identity.ID
		}

		result, err := svc.ListUsers(r.Context(), page, size, excludeID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
