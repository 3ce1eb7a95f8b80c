package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkotenko/user-accounts/internal/logger"
	"github.com/dkotenko/user-accounts/internal/models"
	"github.com/dkotenko/user-accounts/internal/repositories"
)

// TokenIssuer issues and revokes opaque session tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, userID int64) (string, error)
	Revoke(ctx context.Context, token string) error
}

// LoginResult is what a successful authentication returns.
type LoginResult struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Image    *string `json:"image,omitempty"`
	Token    string  `json:"token"`
}

// AuthService handles login and logout.
type AuthService struct {
	reader UserReader
	tokens TokenIssuer
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, tokens TokenIssuer) *AuthService {
	return &AuthService{reader: reader, tokens: tokens}
}

// Login verifies the credentials and issues a session token. An
// inactive account with correct credentials fails with ErrUserInactive,
// distinct from bad credentials.
func (svc *AuthService) Login(ctx context.Context, req models.LoginRequest) (LoginResult, error) {
	user, err := svc.reader.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if user.Inactive {
		return LoginResult{}, ErrUserInactive
	}

	token, err := svc.tokens.Issue(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to issue session token", "user_id", user.ID, "err", err)
		return LoginResult{}, err
	}

	return LoginResult{
		ID:       user.ID,
		Username: user.Username,
		Image:    user.Image,
		Token:    token,
	}, nil
}

// Logout revokes the presented token. Idempotent: an empty, unknown or
// already-revoked token is not an error.
func (svc *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return svc.tokens.Revoke(ctx, token)
}
