package audit

import (
	"context"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/authkeeper/internal/entities"
)

// Column sizes of the audit_events table.
const (
	maxUsernameLength  = 64
	maxReasonLength    = 100
	maxUserAgentLength = 500
)

// Store persists audit events. Implemented by the SQLite and PostgreSQL stores.
type Store interface {
	LogEvent(ctx context.Context, event *entities.AuditEvent) error
	GetEvents(ctx context.Context, accountID string, limit, offset int) ([]entities.AuditEvent, int64, error)
	DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error)
}

// Service provides high-level audit logging functionality.
type Service struct {
	store   Store
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Log records an audit event synchronously.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	event.Username = truncate(event.Username, maxUsernameLength)
	event.Reason = truncate(event.Reason, maxReasonLength)
	event.UserAgent = truncate(event.UserAgent, maxUserAgentLength)
	return s.store.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.Log(context.Background(), event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogAuth records a register, login or logout outcome without blocking the request.
func (s *Service) LogAuth(event *entities.AuditEvent) {
	s.LogAsync(event)
}

// Wait blocks until all background writes finish or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, accountID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.store.GetEvents(ctx, accountID, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.store.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens s to at most maxLen bytes without splitting a UTF-8 sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - len("...")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
