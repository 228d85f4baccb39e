package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/authkeeper/internal/config"
	"github.com/mrlokans/authkeeper/internal/entities"
)

// memoryStore is an in-memory AccountStore for tests.
type memoryStore struct {
	mu         sync.Mutex
	byUsername map[string]*entities.Account
	byID       map[string]*entities.Account
	seq        int

	// err, when set, is returned by every operation.
	err error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		byUsername: make(map[string]*entities.Account),
		byID:       make(map[string]*entities.Account),
	}
}

func (s *memoryStore) Create(_ context.Context, username, passwordHash string) (*entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if _, exists := s.byUsername[username]; exists {
		return nil, ErrDuplicateUsername
	}
	s.seq++
	account := &entities.Account{
		ID:           fmt.Sprintf("acc-%d", s.seq),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.byUsername[username] = account
	s.byID[account.ID] = account
	return account, nil
}

func (s *memoryStore) FindByUsername(_ context.Context, username string) (*entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	account, ok := s.byUsername[username]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *memoryStore) FindByID(_ context.Context, id string) (*entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	account, ok := s.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *memoryStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *memoryStore) delete(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.byUsername[username]; ok {
		delete(s.byID, account.ID)
		delete(s.byUsername, username)
	}
}

func (s *memoryStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

const testSecret = "0123456789abcdef0123456789abcdef"

func testAuthConfig() config.Auth {
	return config.Auth{
		JWTSecret:     testSecret,
		SessionTTL:    24 * time.Hour,
		RememberMeTTL: config.RememberMeTTL,
		BcryptCost:    bcrypt.MinCost,
		CookieName:    config.DefaultCookieName,
	}
}

func setupManager(cfg config.Auth) (*Manager, *memoryStore) {
	store := newMemoryStore()
	manager := NewManager(store, NewBcryptHasher(cfg.BcryptCost), NewTokenService([]byte(cfg.JWTSecret)), cfg)
	return manager, store
}
