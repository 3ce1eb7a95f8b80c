package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/dkotenko/user-accounts/internal/logger"
	"github.com/dkotenko/user-accounts/internal/models"
)

// ErrNotFound is returned when a user record does not exist.
var ErrNotFound = errors.New("user not found")

// collapse flattens a multi-line query for single-line logging.
func collapse(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// UserReadRepository provides read-only access to users.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

const userColumns = `id, username, email, password_hash, inactive, activation_token, password_reset_token, image, created_at, updated_at`

func (r *UserReadRepository) getOne(ctx context.Context, query string, args ...any) (*models.UserDB, error) {
	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Log.Errorw("user query failed", "query", collapse(query), "error", err)
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the user with the given e-mail, active or not.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

// GetActiveByID returns an activated user by id. Inactive users are
// invisible through this accessor.
func (r *UserReadRepository) GetActiveByID(ctx context.Context, id int64) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND inactive = FALSE`
	return r.getOne(ctx, query, id)
}

// GetByID returns a user by id regardless of activation state.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByActivationToken returns the user holding the given activation token.
func (r *UserReadRepository) GetByActivationToken(ctx context.Context, token string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE activation_token = $1`
	return r.getOne(ctx, query, token)
}

// GetByPasswordResetToken returns the user holding the given reset token.
func (r *UserReadRepository) GetByPasswordResetToken(ctx context.Context, token string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE password_reset_token = $1`
	return r.getOne(ctx, query, token)
}

// ListActive returns one page of active users ordered by id, excluding
// excludeID when it is non-zero, together with the total count of rows
// matching the same filter.
func (r *UserReadRepository) ListActive(ctx context.Context, page, size int, excludeID int64) ([]models.UserDB, int, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE inactive = FALSE AND ($1 = 0 OR id <> $1)
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	users := []models.UserDB{}
	if err := r.db.SelectContext(ctx, &users, query, excludeID, size, page*size); err != nil {
		logger.Log.Errorw("user list query failed", "error", err)
		return nil, 0, err
	}

	const countQuery = `
		SELECT COUNT(*) FROM users
		WHERE inactive = FALSE AND ($1 = 0 OR id <> $1)
	`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, excludeID); err != nil {
		logger.Log.Errorw("user count query failed", "error", err)
		return nil, 0, err
	}

	return users, total, nil
}

// UserWriteRepository provides write access to users.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts an inactive user and returns the generated id.
func (r *UserWriteRepository) Create(ctx context.Context, username, email, passwordHash, activationToken string) (int64, error) {
	const query = `
		INSERT INTO users (username, email, password_hash, inactive, activation_token, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, NOW(), NOW())
		RETURNING id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query, username, email, passwordHash, activationToken)
	logger.Log.Infow("insert user", "query", collapse(query), "username", username, "error", err)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *UserWriteRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	var affected int64
	if res != nil {
		affected, _ = res.RowsAffected()
	}
	logger.Log.Infow("update users", "query", collapse(query), "rows", affected, "error", err)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Activate clears the inactive flag and the activation token.
func (r *UserWriteRepository) Activate(ctx context.Context, id int64) error {
	const query = `
		UPDATE users
		SET inactive = FALSE, activation_token = NULL, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, id)
}

// UpdateProfile sets the username and, when image is non-nil, the
// stored profile image name.
func (r *UserWriteRepository) UpdateProfile(ctx context.Context, id int64, username string, image *string) error {
	if image == nil {
		const query = `UPDATE users SET username = $2, updated_at = NOW() WHERE id = $1`
		return r.exec(ctx, query, id, username)
	}
	const query = `UPDATE users SET username = $2, image = $3, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, username, *image)
}

// SetPasswordResetToken sets or clears (nil) the reset token.
func (r *UserWriteRepository) SetPasswordResetToken(ctx context.Context, id int64, token *string) error {
	const query = `UPDATE users SET password_reset_token = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, token)
}

// UpdatePassword stores a new password hash, clears the reset token and
// any pending activation: a successful reset proves control of the
// e-mail, which is what activation proves too.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2,
		    password_reset_token = NULL,
		    activation_token = NULL,
		    inactive = FALSE,
		    updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, passwordHash)
}

// Delete removes the user record.
func (r *UserWriteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	return r.exec(ctx, query, id)
}
