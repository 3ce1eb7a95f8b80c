package models

import (
	"time"
)

// UserDB represents a user record in the database.
type UserDB struct {
	ID                 int64     `db:"id"`                   // Primary key
	Username           string    `db:"username"`             // Display name, 4-32 chars
	Email              string    `db:"email"`                // Unique e-mail
	PasswordHash       string    `db:"password_hash"`        // bcrypt hash, never plaintext
	Inactive           bool      `db:"inactive"`             // True until activation
	ActivationToken    *string   `db:"activation_token"`     // Set only while pending activation
	PasswordResetToken *string   `db:"password_reset_token"` // Set only during an in-flight reset
	Image              *string   `db:"image"`                // Stored profile image object name
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// UserPublic is the externally visible projection of a user.
// swagger:model UserPublic
type UserPublic struct {
	// User id
	// example: 1
	ID int64 `json:"id"`

	// Username
	// example: john_doe
	Username string `json:"username"`

	// Email
	// example: john@example.com
	Email string `json:"email"`

	// Profile image object name, omitted when not set
	Image *string `json:"image,omitempty"`
}

// Public projects the record to its externally visible fields.
func (u *UserDB) Public() UserPublic {
	return UserPublic{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Image:    u.Image,
	}
}

// UserPage is one page of the user listing.
// swagger:model UserPage
type UserPage struct {
	Content    []UserPublic `json:"content"`
	Page       int          `json:"page"`
	Size       int          `json:"size"`
	TotalPages int          `json:"totalPages"`
}
