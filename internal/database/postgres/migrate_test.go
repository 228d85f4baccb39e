package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/authkeeper/internal/database/postgres/migrations"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "00001_create_accounts.sql")
	assert.Contains(t, files, "00002_create_audit_events.sql")
}

func TestRunMigrations(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	t.Run("success", func(t *testing.T) {
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			if dir != "." {
				return errors.New("unexpected dir")
			}
			return nil
		}
		assert.NoError(t, RunMigrations(context.Background(), nil))
	})

	t.Run("error is wrapped", func(t *testing.T) {
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			return errors.New("boom")
		}
		err := RunMigrations(context.Background(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to run database migrations")
	})
}
