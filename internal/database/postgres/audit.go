package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/authkeeper/internal/entities"
)

const defaultAuditPageSize = 50

// LogEvent saves an audit event.
func (s *Store) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO audit_events (id, account_id, username, action, reason, ip_address, user_agent, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.AccountID, event.Username, string(event.Action), event.Reason,
		event.IPAddress, event.UserAgent, string(event.Status), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event (action=%s): %w", event.Action, err)
	}
	return nil
}

// GetEvents retrieves paginated audit events, most recent first.
// An empty accountID returns events for all accounts.
func (s *Store) GetEvents(ctx context.Context, accountID string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM audit_events WHERE ($1 = '' OR account_id = $1)`,
		accountID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit events: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, account_id, username, action, reason, ip_address, user_agent, status, created_at
		 FROM audit_events WHERE ($1 = '' OR account_id = $1)
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []entities.AuditEvent
	for rows.Next() {
		var e entities.AuditEvent
		var action, status string
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Username, &action, &e.Reason,
			&e.IPAddress, &e.UserAgent, &status, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit event row: %w", err)
		}
		e.Action = entities.AuditAction(action)
		e.Status = entities.AuditStatus(status)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating audit events: %w", err)
	}
	return events, total, nil
}

// DeleteOldEvents removes audit events older than the specified time.
func (s *Store) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM audit_events WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit events: %w", err)
	}
	return tag.RowsAffected(), nil
}
