package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, outcomeSuccess},
		{&ValidationError{Field: FieldUsername, Reason: ErrEmptyField}, outcomeValidationError},
		{ErrDuplicateUsername, outcomeDuplicateUsername},
		{ErrInvalidCredentials, outcomeInvalidCredentials},
		{fmt.Errorf("%w: timeout", ErrStorageUnavailable), outcomeError},
		{errors.New("boom"), outcomeError},
	}

	for _, tt := range tests {
		if got := outcomeOf(tt.err); got != tt.want {
			t.Errorf("outcomeOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMetrics_CountOutcomes(t *testing.T) {
	ctx := context.Background()
	manager, _ := setupManager(testAuthConfig())

	registered := testutil.ToFloat64(registrations.WithLabelValues(outcomeSuccess))
	duplicates := testutil.ToFloat64(registrations.WithLabelValues(outcomeDuplicateUsername))
	failedLogins := testutil.ToFloat64(logins.WithLabelValues(outcomeInvalidCredentials))
	expired := testutil.ToFloat64(tokenVerifications.WithLabelValues(verifyResultExpired))

	_, _ = manager.Register(ctx, httptest.NewRecorder(), "metrics01", "pw", false)
	_, _ = manager.Register(ctx, httptest.NewRecorder(), "metrics01", "pw", false)
	_, _ = manager.Login(ctx, httptest.NewRecorder(), "metrics01", "wrong", false)

	token, _, err := manager.tokens.Issue("acc-1", -time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	_, _ = manager.tokens.Verify(token)

	if got := testutil.ToFloat64(registrations.WithLabelValues(outcomeSuccess)) - registered; got != 1 {
		t.Errorf("successful registrations delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(registrations.WithLabelValues(outcomeDuplicateUsername)) - duplicates; got != 1 {
		t.Errorf("duplicate registrations delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(logins.WithLabelValues(outcomeInvalidCredentials)) - failedLogins; got != 1 {
		t.Errorf("failed logins delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(tokenVerifications.WithLabelValues(verifyResultExpired)) - expired; got != 1 {
		t.Errorf("expired verifications delta = %v, want 1", got)
	}
}
