package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mrlokans/authkeeper/internal/auth"
	"github.com/mrlokans/authkeeper/internal/entities"
)

// Create inserts an account. A username taken concurrently surfaces as a
// unique violation on idx_accounts_username and maps to auth.ErrDuplicateUsername.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (*entities.Account, error) {
	account := &entities.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO accounts (id, username, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		account.ID, account.Username, account.PasswordHash,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, auth.ErrDuplicateUsername
		}
		return nil, storageError("create account", err)
	}

	return account, nil
}

// FindByUsername retrieves an account by exact, case-sensitive username.
func (s *Store) FindByUsername(ctx context.Context, username string) (*entities.Account, error) {
	return s.findOne(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM accounts WHERE username = $1`, username)
}

// FindByID retrieves an account by ID.
func (s *Store) FindByID(ctx context.Context, id string) (*entities.Account, error) {
	return s.findOne(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM accounts WHERE id = $1`, id)
}

func (s *Store) findOne(ctx context.Context, query string, arg string) (*entities.Account, error) {
	var a entities.Account
	err := s.db.QueryRow(ctx, query, arg).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, auth.ErrAccountNotFound
	}
	if err != nil {
		return nil, storageError("query account", err)
	}
	return &a, nil
}
