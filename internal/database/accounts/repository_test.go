package accounts

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/authkeeper/internal/auth"
	"github.com/mrlokans/authkeeper/internal/database"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "accounts.db")

	db, err := database.NewDatabase(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db.DB)
}

func TestRepository_Create(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	account, err := repo.Create(ctx, "alice01", "hash")
	require.NoError(t, err)
	assert.Len(t, account.ID, 36)
	assert.Equal(t, "alice01", account.Username)
	assert.Equal(t, "hash", account.PasswordHash)
	assert.False(t, account.CreatedAt.IsZero())

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create(ctx, "alice01", "other")
		assert.ErrorIs(t, err, auth.ErrDuplicateUsername)
	})

	t.Run("usernames are case-sensitive", func(t *testing.T) {
		other, err := repo.Create(ctx, "Alice01", "hash")
		require.NoError(t, err)
		assert.NotEqual(t, account.ID, other.ID)
	})
}

func TestRepository_FindByUsername(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice01", "hash")
	require.NoError(t, err)

	found, err := repo.FindByUsername(ctx, "alice01")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)

	_, err = repo.FindByUsername(ctx, "ALICE01")
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)
}

func TestRepository_FindByID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice01", "hash")
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice01", found.Username)

	_, err = repo.FindByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)
}

func TestRepository_ConcurrentCreate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, "racer", "hash")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, duplicates int
	for err := range errs {
		if err == nil {
			successes++
		} else if assert.ErrorIs(t, err, auth.ErrDuplicateUsername) {
			duplicates++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_StorageUnavailable(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	sqlDB, err := repo.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.FindByUsername(ctx, "alice01")
	assert.ErrorIs(t, err, auth.ErrStorageUnavailable)

	_, err = repo.Create(ctx, "alice01", "hash")
	assert.ErrorIs(t, err, auth.ErrStorageUnavailable)

	assert.Error(t, repo.Ping(ctx))
}
