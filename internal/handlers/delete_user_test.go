package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestDeleteUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		mockSetup    func(m *MockUserDeleter)
		expectedCode int
	}{
		{
			name: "success",
			mockSetup: func(m *MockUserDeleter) {
				m.EXPECT().
					DeleteUser(gomock.Any(), int64(5)).
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "internal error",
			mockSetup: func(m *MockUserDeleter) {
				m.EXPECT().
					DeleteUser(gomock.Any(), int64(5)).
					Return(errors.New("database failure"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockUserDeleter(ctrl)
			tt.mockSetup(mockSvc)

			router := chi.NewRouter()
			router.Delete("/users/{id}", NewDeleteUserHandler(mockSvc))

			req := httptest.NewRequest(http.MethodDelete, "/users/5", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}
