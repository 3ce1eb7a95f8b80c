package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/dkotenko/user-accounts/internal/services"
)

func TestActivateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name            string
		token           string
		mockSetup       func(m *MockActivator)
		expectedCode    int
		expectedMessage string
	}{
		{
			name:  "success",
			token: "activ-token",
			mockSetup: func(m *MockActivator) {
				m.EXPECT().
					Activate(gomock.Any(), "activ-token").
					Return(nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "Account is activated",
		},
		{
			name:  "unknown token",
			token: "stale-token",
			mockSetup: func(m *MockActivator) {
				m.EXPECT().
					Activate(gomock.Any(), "stale-token").
					Return(services.ErrInvalidActivationToken)
			},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "This account is either active or the token is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockActivator(ctrl)
			tt.mockSetup(mockSvc)

			router := chi.NewRouter()
			router.Post("/users/token/{token}", NewActivateHandler(mockSvc))

			req := httptest.NewRequest(http.MethodPost, "/users/token/"+tt.token, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)

			var resp map[string]any
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedMessage, resp["message"])
		})
	}
}
