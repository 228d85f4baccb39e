// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// AuditPruner deletes audit events older than a retention period.
type AuditPruner interface {
	DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

// ParseSchedule validates a five-field cron expression.
func ParseSchedule(schedule string) (cron.Schedule, error) {
	return cron.ParseStandard(schedule)
}

// AuditRetentionScheduler prunes old audit events on a cron schedule.
type AuditRetentionScheduler struct {
	pruner    AuditPruner
	retention time.Duration
	schedule  string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
	isPruning bool
}

// NewAuditRetentionScheduler creates a new scheduler instance.
func NewAuditRetentionScheduler(pruner AuditPruner, retention time.Duration, schedule string) *AuditRetentionScheduler {
	return &AuditRetentionScheduler{
		pruner:    pruner,
		retention: retention,
		schedule:  schedule,
		cron:      cron.New(),
	}
}

// Start registers the prune job and starts the cron loop.
func (s *AuditRetentionScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	sched, err := ParseSchedule(s.schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	s.entryID = s.cron.Schedule(sched, cron.FuncJob(func() {
		if _, err := s.RunNow(context.Background()); err != nil {
			log.Printf("Audit retention: %v", err)
		}
	}))

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit retention scheduler: started with schedule '%s', keeping %s. Next run: %v",
		s.schedule, s.retention, s.cron.Entry(s.entryID).Next)
	return nil
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *AuditRetentionScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	log.Printf("Audit retention scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *AuditRetentionScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// RunNow prunes immediately. Overlapping runs are skipped.
func (s *AuditRetentionScheduler) RunNow(ctx context.Context) (int64, error) {
	s.mu.Lock()
	if s.isPruning {
		s.mu.Unlock()
		return 0, nil
	}
	s.isPruning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isPruning = false
		s.mu.Unlock()
	}()

	deleted, err := s.pruner.DeleteOldEvents(ctx, s.retention)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit events: %w", err)
	}
	if deleted > 0 {
		log.Printf("Audit retention: deleted %d events older than %s", deleted, s.retention)
	}
	return deleted, nil
}
