package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/dkotenko/user-accounts/internal/models"
	"github.com/dkotenko/user-accounts/internal/services"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creds := models.LoginRequest{Email: "john@example.com", Password: "P4ssword"}

	tests := []struct {
		name            string
		mockSetup       func(m *MockLoginer)
		expectedCode    int
		expectedMessage string
	}{
		{
			name: "success",
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), creds).
					Return(services.LoginResult{ID: 5, Username: "john_doe", Token: "token123"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "wrong credentials",
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), creds).
					Return(services.LoginResult{}, services.ErrInvalidCredentials)
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Incorrect credentials",
		},
		{
			name: "inactive account",
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), creds).
					Return(services.LoginResult{}, services.ErrUserInactive)
			},
			expectedCode:    http.StatusForbidden,
			expectedMessage: "Account is inactive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			tt.mockSetup(mockSvc)

			raw, _ := json.Marshal(creds)
			req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewBuffer(raw))
			rec := httptest.NewRecorder()

			NewLoginHandler(mockSvc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedCode == http.StatusOK {
				var result services.LoginResult
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
				assert.Equal(t, int64(5), result.ID)
				assert.Equal(t, "john_doe", result.Username)
				assert.Equal(t, "token123", result.Token)
				assert.Nil(t, result.Image)
				return
			}

			var resp ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedMessage, resp.Message)
		})
	}
}
