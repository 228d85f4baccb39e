package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/authkeeper/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.AuditEvent{
		AccountID: "acc-1",
		Username:  "alice01",
		Action:    entities.AuditActionLogin,
		Status:    entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Len(t, event.ID, 36)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	base := time.Now().Add(-time.Hour)
	for i, accountID := range []string{"acc-1", "acc-2", "acc-1"} {
		err := repo.LogEvent(ctx, &entities.AuditEvent{
			AccountID: accountID,
			Action:    entities.AuditActionLogin,
			Status:    entities.AuditStatusSuccess,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	t.Run("all accounts", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, "", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, events, 3)
		assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))
	})

	t.Run("single account", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, "acc-1", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, e := range events {
			assert.Equal(t, "acc-1", e.AccountID)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, "", 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, events, 1)
	})
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		Action: entities.AuditActionLogout, Status: entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		Action: entities.AuditActionLogout, Status: entities.AuditStatusSuccess,
	}))

	deleted, err := repo.DeleteOldEvents(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := repo.GetEvents(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
