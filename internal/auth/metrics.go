package auth

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	verifyResultValid   = "valid"
	verifyResultInvalid = "invalid"
	verifyResultExpired = "expired"

	outcomeSuccess            = "success"
	outcomeValidationError    = "validation_error"
	outcomeDuplicateUsername  = "duplicate_username"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeError              = "error"
)

var (
	// tokenVerifications counts token checks by result. Invalid and expired are
	// treated the same by callers and only told apart here.
	tokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_token_verifications_total",
		Help: "Total number of session token verifications by result",
	}, []string{"result"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Total number of registration attempts by outcome",
	}, []string{"outcome"})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})
)

// outcomeOf maps a register/login error onto a metric label.
func outcomeOf(err error) string {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.As(err, &validationErr):
		return outcomeValidationError
	case errors.Is(err, ErrDuplicateUsername):
		return outcomeDuplicateUsername
	case errors.Is(err, ErrInvalidCredentials):
		return outcomeInvalidCredentials
	default:
		return outcomeError
	}
}
