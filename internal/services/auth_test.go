package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkotenko/user-accounts/internal/models"
	"github.com/dkotenko/user-accounts/internal/repositories"
	"github.com/dkotenko/user-accounts/internal/services"
)

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("P4ssword"), bcrypt.DefaultCost)

	tests := []struct {
		name      string
		req       models.LoginRequest
		user      *models.UserDB
		readerErr error
		wantErr   error
		wantToken string
	}{
		{
			name:      "success",
			req:       models.LoginRequest{Email: "user1@mail.com", Password: "P4ssword"},
			user:      &models.UserDB{ID: 1, Username: "user1", Email: "user1@mail.com", PasswordHash: string(hashed)},
			wantToken: "token123",
		},
		{
			name:      "unknown email",
			req:       models.LoginRequest{Email: "nobody@mail.com", Password: "P4ssword"},
			readerErr: repositories.ErrNotFound,
			wantErr:   services.ErrInvalidCredentials,
		},
		{
			name:    "wrong password",
			req:     models.LoginRequest{Email: "user1@mail.com", Password: "WrongP4ss"},
			user:    &models.UserDB{ID: 1, PasswordHash: string(hashed)},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:    "inactive account with correct credentials",
			req:     models.LoginRequest{Email: "user1@mail.com", Password: "P4ssword"},
			user:    &models.UserDB{ID: 1, PasswordHash: string(hashed), Inactive: true},
			wantErr: services.ErrUserInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockReader := services.NewMockUserReader(ctrl)
			mockTokens := services.NewMockTokenIssuer(ctrl)
			svc := services.NewAuthService(mockReader, mockTokens)

			mockReader.EXPECT().GetByEmail(gomock.Any(), tt.req.Email).Return(tt.user, tt.readerErr)
			if tt.wantErr == nil {
				mockTokens.EXPECT().Issue(gomock.Any(), tt.user.ID).Return(tt.wantToken, nil)
			}

			result, err := svc.Login(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.user.ID, result.ID)
			assert.Equal(t, tt.user.Username, result.Username)
			assert.Equal(t, tt.wantToken, result.Token)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockTokens := services.NewMockTokenIssuer(ctrl)
	svc := services.NewAuthService(mockReader, mockTokens)

	// Empty token never reaches the store.
	assert.NoError(t, svc.Logout(context.Background(), ""))

	// Revoking an unknown token is a success too.
	mockTokens.EXPECT().Revoke(gomock.Any(), "gone").Return(nil)
	assert.NoError(t, svc.Logout(context.Background(), "gone"))

	// Store failures surface to the caller, the handler decides.
	mockTokens.EXPECT().Revoke(gomock.Any(), "tok").Return(errors.New("redis down"))
	assert.Error(t, svc.Logout(context.Background(), "tok"))
}
