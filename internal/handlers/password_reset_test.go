package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/dkotenko/user-accounts/internal/i18n"
	"github.com/dkotenko/user-accounts/internal/models"
	"github.com/dkotenko/user-accounts/internal/services"
)

func TestPasswordResetRequestHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name            string
		body            models.PasswordResetRequest
		mockSetup       func(m *MockPasswordResetRequester)
		expectedCode    int
		expectedMessage string
		expectedFields  map[string]string
	}{
		{
			name: "success",
			body: models.PasswordResetRequest{Email: "john@example.com"},
			mockSetup: func(m *MockPasswordResetRequester) {
				m.EXPECT().
					RequestPasswordReset(gomock.Any(), "john@example.com").
					Return(nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "Check your e-mail for resetting your password",
		},
		{
			name: "unknown e-mail",
			body: models.PasswordResetRequest{Email: "nobody@example.com"},
			mockSetup: func(m *MockPasswordResetRequester) {
				m.EXPECT().
					RequestPasswordReset(gomock.Any(), "nobody@example.com").
					Return(services.ErrEmailNotFound)
			},
			expectedCode:    http.StatusNotFound,
			expectedMessage: "E-mail not found",
		},
		{
			name:            "invalid e-mail",
			body:            models.PasswordResetRequest{Email: "not-an-email"},
			mockSetup:       func(m *MockPasswordResetRequester) {},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Validation failure",
			expectedFields: map[string]string{
				"email": "E-mail is not valid",
			},
		},
		{
			name: "mail delivery failure",
			body: models.PasswordResetRequest{Email: "john@example.com"},
			mockSetup: func(m *MockPasswordResetRequester) {
				m.EXPECT().
					RequestPasswordReset(gomock.Any(), "john@example.com").
					Return(services.ErrEmailDelivery)
			},
			expectedCode:    http.StatusBadGateway,
			expectedMessage: "E-mail failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockPasswordResetRequester(ctrl)
			tt.mockSetup(mockSvc)

			raw, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/user/password", bytes.NewBuffer(raw))
			rec := httptest.NewRecorder()

			NewPasswordResetRequestHandler(mockSvc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedCode == http.StatusOK {
				var resp MessageResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMessage, resp.Message)
				return
			}

			var resp ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedMessage, resp.Message)
			assert.Equal(t, tt.expectedFields, resp.ValidationErrors)
		})
	}
}

func TestPasswordUpdateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name            string
		body            models.PasswordUpdateRequest
		mockSetup       func(m *MockPasswordResetter)
		expectedCode    int
		expectedMessage string
	}{
		{
			name: "success",
			body: models.PasswordUpdateRequest{Password: "N3wPassword", PasswordResetToken: "reset-token"},
			mockSetup: func(m *MockPasswordResetter) {
				m.EXPECT().
					ResetPassword(gomock.Any(), models.PasswordUpdateRequest{Password: "N3wPassword", PasswordResetToken: "reset-token"}).
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "unknown reset token",
			body: models.PasswordUpdateRequest{Password: "N3wPassword", PasswordResetToken: "stale"},
			mockSetup: func(m *MockPasswordResetter) {
				m.EXPECT().
					ResetPassword(gomock.Any(), gomock.Any()).
					Return(services.ErrInvalidResetToken)
			},
			expectedCode:    http.StatusForbidden,
			expectedMessage: "You are not authorized to update your password. Please follow the password reset steps again",
		},
		{
			name: "weak password",
			body: models.PasswordUpdateRequest{Password: "short", PasswordResetToken: "reset-token"},
			mockSetup: func(m *MockPasswordResetter) {
				m.EXPECT().
					ResetPassword(gomock.Any(), gomock.Any()).
					Return(&models.ValidationError{Fields: map[string]string{
						"password": i18n.PasswordSize,
					}})
			},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Validation failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockPasswordResetter(ctrl)
			tt.mockSetup(mockSvc)

			raw, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPut, "/user/password", bytes.NewBuffer(raw))
			rec := httptest.NewRecorder()

			NewPasswordUpdateHandler(mockSvc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedMessage != "" {
				var resp ErrorResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMessage, resp.Message)
			}
		})
	}
}
