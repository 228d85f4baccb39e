package entrypoint

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/authkeeper/internal/audit"
	"github.com/mrlokans/authkeeper/internal/auth"
	"github.com/mrlokans/authkeeper/internal/config"
	"github.com/mrlokans/authkeeper/internal/database"
	"github.com/mrlokans/authkeeper/internal/database/accounts"
	auditRepo "github.com/mrlokans/authkeeper/internal/database/audit"
	"github.com/mrlokans/authkeeper/internal/database/postgres"
)

// Stores bundles the account and audit stores of the configured backend.
type Stores struct {
	Accounts auth.AccountStore
	Audit    audit.Store

	close func()
}

// Close releases the underlying database connections.
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStores connects to PostgreSQL when DATABASE_URL is a postgres URL and to
// SQLite otherwise. In both cases the schema is brought up to date.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	if cfg.Database.UsePostgres() {
		return openPostgres(ctx, cfg.Database.URL)
	}
	return openSQLite(cfg.Database.Path)
}

func openPostgres(ctx context.Context, dsn string) (*Stores, error) {
	pool, err := postgres.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Printf("Database initialized successfully (PostgreSQL)")

	store := postgres.NewStore(pool)
	return &Stores{
		Accounts: store,
		Audit:    store,
		close:    pool.Close,
	}, nil
}

func openSQLite(path string) (*Stores, error) {
	if path == "" {
		return nil, fmt.Errorf("DATABASE_PATH is empty")
	}
	db, err := database.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	return &Stores{
		Accounts: accounts.NewRepository(db.DB),
		Audit:    auditRepo.NewRepository(db.DB),
		close: func() {
			if err := db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		},
	}, nil
}
