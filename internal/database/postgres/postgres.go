// Package postgres provides the PostgreSQL account and audit stores.
//
// It is selected when DATABASE_URL is set to a postgres:// URL. The schema is
// managed by goose migrations embedded in the migrations sub-package.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrlokans/authkeeper/internal/audit"
	"github.com/mrlokans/authkeeper/internal/auth"
)

var (
	_ auth.AccountStore = (*Store)(nil)
	_ audit.Store       = (*Store)(nil)
)

// DBTX is the subset of *pgxpool.Pool used by Store.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Store implements account and audit persistence on PostgreSQL.
type Store struct {
	db DBTX
}

// NewStore creates a store on top of a pool (or a pgxmock pool in tests).
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", auth.ErrStorageUnavailable, op, err)
}
