package auth

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyField     = errors.New("field is required")
	ErrInvalidCharset = errors.New("field contains characters outside the allowed set")
	ErrTooLong        = errors.New("field exceeds maximum length")

	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrHashingFailure     = errors.New("password hashing failed")
	ErrStorageUnavailable = errors.New("account storage unavailable")

	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Field names reported back to clients.
const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// ValidationError is a user-displayable rejection of a single input field.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// Message returns the text shown to the user for this error.
func (e *ValidationError) Message() string {
	switch {
	case errors.Is(e.Reason, ErrEmptyField):
		return "Please provide both a username and a password"
	case errors.Is(e.Reason, ErrInvalidCharset) && e.Field == FieldUsername:
		return "Username may only contain letters, digits, '_', '.' and '-'"
	case errors.Is(e.Reason, ErrInvalidCharset):
		return "Password contains unsupported characters"
	case errors.Is(e.Reason, ErrTooLong) && e.Field == FieldUsername:
		return fmt.Sprintf("Username must be at most %d characters", MaxUsernameLength)
	case errors.Is(e.Reason, ErrTooLong):
		return fmt.Sprintf("Password must be at most %d characters", MaxPasswordLength)
	default:
		return "Invalid " + e.Field
	}
}

// IsUnauthenticated reports whether err means "no valid session" rather than a failure.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrAccountNotFound)
}
