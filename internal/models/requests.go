package models

import (
	"errors"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dkotenko/user-accounts/internal/i18n"
)

// ValidationError carries per-field message keys for a 400 response.
// Field names follow the json tags of the request model.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failure"
}

// passwordPattern requires at least one lowercase letter, one uppercase
// letter and one digit. Implemented as a custom rule because RE2 has no
// lookaheads.
var passwordPattern = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return errors.New(i18n.PasswordPattern)
	}
	return nil
})

var (
	usernameRules = []validation.Rule{
		validation.Required.Error(i18n.UsernameNull),
		validation.Length(4, 32).Error(i18n.UsernameSize),
	}
	emailRules = []validation.Rule{
		validation.Required.Error(i18n.EmailNull),
		is.Email.Error(i18n.EmailInvalid),
	}
	passwordRules = []validation.Rule{
		validation.Required.Error(i18n.PasswordNull),
		validation.Length(6, 0).Error(i18n.PasswordSize),
		passwordPattern,
	}
)

// toValidationError converts an ozzo validation result into a
// *ValidationError, or returns nil when validation passed.
func toValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	if errs, ok := err.(validation.Errors); ok {
		for field, ferr := range errs {
			fields[field] = ferr.Error()
		}
	} else {
		fields["_"] = err.Error()
	}
	return &ValidationError{Fields: fields}
}

// RegisterRequest is the JSON body for user registration.
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// example: john_doe
	Username string `json:"username"`

	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Password, min 6 chars with 1 lowercase, 1 uppercase and 1 digit
	// required: true
	// example: P4ssword
	Password string `json:"password"`
}

// Validate checks the registration fields and returns a
// *ValidationError with message keys per failing field, or nil.
func (r RegisterRequest) Validate() *ValidationError {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Username, usernameRules...),
		validation.Field(&r.Email, emailRules...),
		validation.Field(&r.Password, passwordRules...),
	))
}

// UserUpdateRequest is the JSON body for a profile update.
// swagger:model UserUpdateRequest
type UserUpdateRequest struct {
	// Username
	// required: true
	// example: john_doe
	Username string `json:"username"`

	// New profile image as base64, optional
	Image string `json:"image,omitempty"`
}

func (r UserUpdateRequest) Validate() *ValidationError {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Username, usernameRules...),
	))
}

// PasswordResetRequest asks for a password-reset e-mail.
// swagger:model PasswordResetRequest
type PasswordResetRequest struct {
	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`
}

func (r PasswordResetRequest) Validate() *ValidationError {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, emailRules...),
	))
}

// PasswordUpdateRequest sets a new password using a reset token.
// swagger:model PasswordUpdateRequest
type PasswordUpdateRequest struct {
	// New password
	// required: true
	// example: P4ssword
	Password string `json:"password"`

	// Reset token from the password-reset e-mail
	// required: true
	PasswordResetToken string `json:"passwordResetToken"`
}

func (r PasswordUpdateRequest) Validate() *ValidationError {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Password, passwordRules...),
	))
}

// LoginRequest is the JSON body for authentication.
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: P4ssword
	Password string `json:"password"`
}
