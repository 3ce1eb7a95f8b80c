package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkotenko/user-accounts/internal/i18n"
	"github.com/dkotenko/user-accounts/internal/logger"
	"github.com/dkotenko/user-accounts/internal/models"
	"github.com/dkotenko/user-accounts/internal/repositories"
)

// Error variables
var (
	ErrEmailDelivery          = errors.New("e-mail delivery failure")
	ErrInvalidActivationToken = errors.New("invalid activation token")
	ErrInvalidResetToken      = errors.New("invalid password reset token")
	ErrEmailNotFound          = errors.New("e-mail not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCredentials     = errors.New("invalid e-mail or password")
	ErrUserInactive           = errors.New("account is inactive")
)

// maxImageBytes is the decoded profile image size limit.
const maxImageBytes = 2 * 1024 * 1024

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetActiveByID(ctx context.Context, id int64) (*models.UserDB, error)
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
	GetByActivationToken(ctx context.Context, token string) (*models.UserDB, error)
	GetByPasswordResetToken(ctx context.Context, token string) (*models.UserDB, error)
	ListActive(ctx context.Context, page, size int, excludeID int64) ([]models.UserDB, int, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, username, email, passwordHash, activationToken string) (int64, error)
	Activate(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, id int64, username string, image *string) error
	SetPasswordResetToken(ctx context.Context, id int64, token *string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// TokenRevoker invalidates issued session tokens.
type TokenRevoker interface {
	RevokeAll(ctx context.Context, userID int64) error
}

// Mailer queues outgoing e-mails.
type Mailer interface {
	SendActivation(ctx context.Context, email, token string) error
	SendPasswordReset(ctx context.Context, email, token string) error
}

// ImageStore persists profile images.
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// KeyFactory generates object names for stored images.
type KeyFactory func() string

// AccountService orchestrates registration, activation, password reset,
// profile updates and deletion.
type AccountService struct {
	reader UserReader
	writer UserWriter
	tokens TokenRevoker
	mailer Mailer
	images ImageStore
	newKey KeyFactory
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(reader UserReader, writer UserWriter, tokens TokenRevoker, mailer Mailer, images ImageStore, newKey KeyFactory) *AccountService {
	return &AccountService{
		reader: reader,
		writer: writer,
		tokens: tokens,
		mailer: mailer,
		images: images,
		newKey: newKey,
	}
}

// newSecret returns a 16-byte hex string for activation and reset tokens.
func newSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Register validates the request, creates an inactive user and queues
// the activation e-mail. The insert and the e-mail form one logical
// unit: when the e-mail cannot be queued the user row is deleted again
// and ErrEmailDelivery is returned.
func (svc *AccountService) Register(ctx context.Context, req models.RegisterRequest) error {
	verr := req.Validate()

	if verr == nil || verr.Fields["email"] == "" {
		existing, err := svc.reader.GetByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		if existing != nil {
			if verr == nil {
				verr = &models.ValidationError{Fields: map[string]string{}}
			}
			verr.Fields["email"] = i18n.EmailInUse
		}
	}
	if verr != nil {
		return verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	activationToken, err := newSecret()
	if err != nil {
		return err
	}

	id, err := svc.writer.Create(ctx, req.Username, req.Email, string(hash), activationToken)
	if err != nil {
		logger.Log.Errorw("failed to create user", "err", err)
		return err
	}

	if err := svc.mailer.SendActivation(ctx, req.Email, activationToken); err != nil {
		logger.Log.Errorw("activation e-mail failed, rolling back user", "user_id", id, "err", err)
		if derr := svc.writer.Delete(ctx, id); derr != nil {
			logger.Log.Errorw("compensating delete failed", "user_id", id, "err", derr)
		}
		return ErrEmailDelivery
	}

	return nil
}

// Activate flips an account to active by its activation token.
func (svc *AccountService) Activate(ctx context.Context, token string) error {
	user, err := svc.reader.GetByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidActivationToken
		}
		return err
	}
	return svc.writer.Activate(ctx, user.ID)
}

// ListUsers returns one page of active users, excluding excludeID when
// non-zero. Page and size are expected pre-clamped by the caller.
func (svc *AccountService) ListUsers(ctx context.Context, page, size int, excludeID int64) (models.UserPage, error) {
	users, total, err := svc.reader.ListActive(ctx, page, size, excludeID)
	if err != nil {
		return models.UserPage{}, err
	}

	content := make([]models.UserPublic, 0, len(users))
	for i := range users {
		content = append(content, users[i].Public())
	}

	return models.UserPage{
		Content:    content,
		Page:       page,
		Size:       size,
		TotalPages: (total + size - 1) / size,
	}, nil
}

// GetUser returns the public fields of an active user.
func (svc *AccountService) GetUser(ctx context.Context, id int64) (models.UserPublic, error) {
	user, err := svc.reader.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.UserPublic{}, ErrUserNotFound
		}
		return models.UserPublic{}, err
	}
	return user.Public(), nil
}

// UpdateProfile changes the username and optionally replaces the
// profile image. The previous image object is deleted after a
// successful replacement and left untouched when no image is supplied.
func (svc *AccountService) UpdateProfile(ctx context.Context, id int64, req models.UserUpdateRequest) (models.UserPublic, error) {
	if verr := req.Validate(); verr != nil {
		return models.UserPublic{}, verr
	}

	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.UserPublic{}, ErrUserNotFound
		}
		return models.UserPublic{}, err
	}

	var imageKey *string
	if req.Image != "" {
		key, err := svc.storeImage(ctx, req.Image)
		if err != nil {
			return models.UserPublic{}, err
		}
		imageKey = &key
	}

	if err := svc.writer.UpdateProfile(ctx, id, req.Username, imageKey); err != nil {
		return models.UserPublic{}, err
	}

	if imageKey != nil && user.Image != nil {
		if err := svc.images.Delete(ctx, *user.Image); err != nil {
			logger.Log.Warnw("failed to delete previous image", "key", *user.Image, "err", err)
		}
	}

	user.Username = req.Username
	if imageKey != nil {
		user.Image = imageKey
	}
	return user.Public(), nil
}

// storeImage decodes, validates and persists a base64 image, returning
// the generated object key.
func (svc *AccountService) storeImage(ctx context.Context, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &models.ValidationError{Fields: map[string]string{"image": i18n.ProfileImageUnsupported}}
	}
	if len(data) > maxImageBytes {
		return "", &models.ValidationError{Fields: map[string]string{"image": i18n.ProfileImageSize}}
	}

	// Accept by content, not by claimed name or extension.
	contentType := http.DetectContentType(data)
	if contentType != "image/png" && contentType != "image/jpeg" {
		return "", &models.ValidationError{Fields: map[string]string{"image": i18n.ProfileImageUnsupported}}
	}

	key := svc.newKey()
	if err := svc.images.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return key, nil
}

// DeleteUser removes the user record, revokes every session token the
// user holds and deletes the stored profile image.
func (svc *AccountService) DeleteUser(ctx context.Context, id int64) error {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := svc.writer.Delete(ctx, id); err != nil {
		return err
	}

	if err := svc.tokens.RevokeAll(ctx, id); err != nil {
		logger.Log.Errorw("failed to revoke sessions of deleted user", "user_id", id, "err", err)
	}
	if user.Image != nil {
		if err := svc.images.Delete(ctx, *user.Image); err != nil {
			logger.Log.Warnw("failed to delete image of deleted user", "key", *user.Image, "err", err)
		}
	}
	return nil
}

// RequestPasswordReset stores a fresh reset token and queues the reset
// e-mail. When the e-mail cannot be queued the token is cleared again
// so both e-mail flows share one rollback policy.
func (svc *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmailNotFound
		}
		return err
	}

	token, err := newSecret()
	if err != nil {
		return err
	}
	if err := svc.writer.SetPasswordResetToken(ctx, user.ID, &token); err != nil {
		return err
	}

	if err := svc.mailer.SendPasswordReset(ctx, email, token); err != nil {
		logger.Log.Errorw("reset e-mail failed, clearing reset token", "user_id", user.ID, "err", err)
		if cerr := svc.writer.SetPasswordResetToken(ctx, user.ID, nil); cerr != nil {
			logger.Log.Errorw("failed to clear reset token", "user_id", user.ID, "err", cerr)
		}
		return ErrEmailDelivery
	}

	return nil
}

// ResetPassword sets a new password for the holder of the reset token.
// A successful reset also activates a still-pending account and revokes
// every session token of the user.
func (svc *AccountService) ResetPassword(ctx context.Context, req models.PasswordUpdateRequest) error {
	user, err := svc.reader.GetByPasswordResetToken(ctx, req.PasswordResetToken)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if verr := req.Validate(); verr != nil {
		return verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := svc.writer.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	if err := svc.tokens.RevokeAll(ctx, user.ID); err != nil {
		logger.Log.Errorw("failed to revoke sessions after password reset", "user_id", user.ID, "err", err)
	}
	return nil
}
