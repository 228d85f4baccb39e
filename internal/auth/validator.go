package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 64
	// MaxPasswordLength is bcrypt's input limit in bytes; the charset is ASCII so bytes == characters.
	MaxPasswordLength = 72
)

// Allowed character sets. ASCII only, no minimum length.
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-!@#$%^&*()\[\]{}|;:,.<>?]+$`)
)

// Credentials is a username/password pair that passed validation.
type Credentials struct {
	Username string
	Password string
}

// ValidateCredentials trims both values and checks them against the allowed character sets.
// The returned error is always a *ValidationError.
func ValidateCredentials(username, password string) (Credentials, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" {
		return Credentials{}, &ValidationError{Field: FieldUsername, Reason: ErrEmptyField}
	}
	if password == "" {
		return Credentials{}, &ValidationError{Field: FieldPassword, Reason: ErrEmptyField}
	}

	if !usernamePattern.MatchString(username) {
		return Credentials{}, &ValidationError{Field: FieldUsername, Reason: ErrInvalidCharset}
	}
	if !passwordPattern.MatchString(password) {
		return Credentials{}, &ValidationError{Field: FieldPassword, Reason: ErrInvalidCharset}
	}

	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return Credentials{}, &ValidationError{Field: FieldUsername, Reason: ErrTooLong}
	}
	if len(password) > MaxPasswordLength {
		return Credentials{}, &ValidationError{Field: FieldPassword, Reason: ErrTooLong}
	}

	return Credentials{Username: username, Password: password}, nil
}
