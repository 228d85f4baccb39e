// Package accounts provides the SQLite account store.
//
// # Usage
//
//	repo := accounts.NewRepository(db)
//	account, err := repo.Create(ctx, "alice01", passwordHash)
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/authkeeper/internal/auth"
	"github.com/mrlokans/authkeeper/internal/entities"
)

var _ auth.AccountStore = (*Repository)(nil)

// Repository handles all account database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new accounts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an account. Uniqueness is enforced by the username index, so a
// concurrent registration that loses the race gets auth.ErrDuplicateUsername.
func (r *Repository) Create(ctx context.Context, username, passwordHash string) (*entities.Account, error) {
	account := &entities.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, auth.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("%w: failed to create account: %v", auth.ErrStorageUnavailable, err)
	}

	return account, nil
}

// FindByUsername retrieves an account by exact, case-sensitive username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err != nil {
		return nil, translateLookupError(err)
	}
	return &account, nil
}

// FindByID retrieves an account by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, translateLookupError(err)
	}
	return &account, nil
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Count returns the number of stored accounts.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Account{}).Count(&count).Error
	return count, err
}

func translateLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.ErrAccountNotFound
	}
	return fmt.Errorf("%w: %v", auth.ErrStorageUnavailable, err)
}

// isUniqueViolation recognizes a unique index conflict whether or not gorm translated it.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
