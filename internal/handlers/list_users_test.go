package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/dkotenko/user-accounts/internal/middlewares"
	"github.com/dkotenko/user-accounts/internal/models"
)

func TestListUsersHandler_Paging(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		query        string
		expectedPage int
		expectedSize int
	}{
		{name: "defaults", query: "", expectedPage: 0, expectedSize: 10},
		{name: "explicit", query: "?page=3&size=5", expectedPage: 3, expectedSize: 5},
		{name: "negative page", query: "?page=-5", expectedPage: 0, expectedSize: 10},
		{name: "zero size", query: "?size=0", expectedPage: 0, expectedSize: 10},
		{name: "oversized", query: "?size=1000", expectedPage: 0, expectedSize: 10},
		{name: "size at bound", query: "?size=10", expectedPage: 0, expectedSize: 10},
		{name: "non-numeric", query: "?page=abc&size=xyz", expectedPage: 0, expectedSize: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockUserLister(ctrl)
			mockSvc.EXPECT().
				ListUsers(gomock.Any(), tt.expectedPage, tt.expectedSize, int64(0)).
				Return(models.UserPage{Content: []models.UserPublic{}, Page: tt.expectedPage, Size: tt.expectedSize}, nil)

			req := httptest.NewRequest(http.MethodGet, "/users"+tt.query, nil)
			rec := httptest.NewRecorder()

			NewListUsersHandler(mockSvc).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestListUsersHandler_ExcludesAuthenticatedCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserLister(ctrl)
	mockSvc.EXPECT().
		ListUsers(gomock.Any(), 0, 10, int64(7)).
		Return(models.UserPage{
			Content:    []models.UserPublic{{ID: 8, Username: "alice", Email: "alice@example.com"}},
			Page:       0,
			Size:       10,
			TotalPages: 1,
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req = req.WithContext(middlewares.WithIdentity(req.Context(), middlewares.Identity{ID: 7}))
	rec := httptest.NewRecorder()

	NewListUsersHandler(mockSvc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var page models.UserPage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Content, 1)
	assert.Equal(t, int64(8), page.Content[0].ID)
	assert.Equal(t, 1, page.TotalPages)
}
