package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/mrlokans/authkeeper/internal/config"
	"github.com/mrlokans/authkeeper/internal/entities"
)

// AccountStore persists accounts. Implementations must enforce username
// uniqueness atomically and report a lost race as ErrDuplicateUsername.
type AccountStore interface {
	Create(ctx context.Context, username, passwordHash string) (*entities.Account, error)
	FindByUsername(ctx context.Context, username string) (*entities.Account, error)
	FindByID(ctx context.Context, id string) (*entities.Account, error)
	Ping(ctx context.Context) error
}

// Session is a freshly issued token together with its cookie lifetime.
type Session struct {
	Token      string
	ExpiresAt  time.Time
	TTL        time.Duration
	Persistent bool // "remember me": the cookie outlives the browser session
}

// Result is the outcome of a successful register or login.
// Session is nil when no session was started.
type Result struct {
	Account *entities.PublicAccount
	Session *Session
}

// AuthStatus is what CheckAuth reports for a request.
type AuthStatus struct {
	Authenticated bool
	Account       *entities.PublicAccount
}

// dummyPassword is hashed once and compared against when a login names an
// unknown account, so that both failure paths cost one bcrypt comparison.
const dummyPassword = "dummy-password-for-timing"

// Manager runs register, login, logout and check-auth on top of the account
// store, the password hasher and the token service.
type Manager struct {
	accounts AccountStore
	hasher   PasswordHasher
	tokens   *TokenService
	cookies  *SessionCookies
	config   config.Auth

	dummyOnce sync.Once
	dummyHash string
}

// NewManager creates a session manager.
func NewManager(accounts AccountStore, hasher PasswordHasher, tokens *TokenService, cfg config.Auth) *Manager {
	return &Manager{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		cookies:  NewSessionCookies(cfg),
		config:   cfg,
	}
}

// Register validates the credentials and creates an account.
// A session is only started when LoginOnRegister is configured.
func (m *Manager) Register(ctx context.Context, w http.ResponseWriter, username, password string, rememberMe bool) (*Result, error) {
	result, err := m.register(ctx, w, username, password, rememberMe)
	registrations.WithLabelValues(outcomeOf(err)).Inc()
	return result, err
}

func (m *Manager) register(ctx context.Context, w http.ResponseWriter, username, password string, rememberMe bool) (*Result, error) {
	creds, err := ValidateCredentials(username, password)
	if err != nil {
		return nil, err
	}

	// Fast path only; the store's unique index is what actually guarantees uniqueness.
	_, err = m.accounts.FindByUsername(ctx, creds.Username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	passwordHash, err := m.hasher.Hash(creds.Password)
	if err != nil {
		return nil, err
	}

	account, err := m.accounts.Create(ctx, creds.Username, passwordHash)
	if err != nil {
		return nil, err
	}

	result := &Result{Account: account.Public()}
	if m.config.LoginOnRegister {
		session, err := m.startSession(w, account.ID, rememberMe)
		if err != nil {
			return nil, err
		}
		result.Session = session
	}
	return result, nil
}

// Login verifies the credentials and, on success, sets the session cookie.
// An unknown username and a wrong password both return ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, username, password string, rememberMe bool) (*Result, error) {
	result, err := m.login(ctx, w, username, password, rememberMe)
	logins.WithLabelValues(outcomeOf(err)).Inc()
	return result, err
}

func (m *Manager) login(ctx context.Context, w http.ResponseWriter, username, password string, rememberMe bool) (*Result, error) {
	creds, err := ValidateCredentials(username, password)
	if err != nil {
		return nil, err
	}

	account, err := m.accounts.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			m.burnDummyComparison(creds.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := m.hasher.Verify(creds.Password, account.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	session, err := m.startSession(w, account.ID, rememberMe)
	if err != nil {
		return nil, err
	}
	return &Result{Account: account.Public(), Session: session}, nil
}

// Logout clears the session cookie. It never fails, with or without a cookie.
func (m *Manager) Logout(w http.ResponseWriter) {
	m.cookies.Clear(w)
}

// CheckAuth reports whether token identifies an existing account.
// Invalid, expired and orphaned tokens are reported as anonymous, never as errors.
func (m *Manager) CheckAuth(ctx context.Context, token string) *AuthStatus {
	if token == "" {
		return &AuthStatus{}
	}

	accountID, err := m.tokens.Verify(token)
	if err != nil {
		return &AuthStatus{}
	}

	account, err := m.accounts.FindByID(ctx, accountID)
	if err != nil {
		if !IsUnauthenticated(err) {
			log.Printf("Auth check error: %v", err)
		}
		return &AuthStatus{}
	}

	return &AuthStatus{Authenticated: true, Account: account.Public()}
}

// TokenFromRequest returns the session token carried by r, or "".
func (m *Manager) TokenFromRequest(r *http.Request) string {
	return m.cookies.Read(r)
}

// startSession issues a token for accountID and writes it as the session cookie.
func (m *Manager) startSession(w http.ResponseWriter, accountID string, rememberMe bool) (*Session, error) {
	ttl := m.config.SessionTTL
	if rememberMe {
		ttl = m.config.RememberMeTTL
	}

	token, expiresAt, err := m.tokens.Issue(accountID, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	session := &Session{
		Token:      token,
		ExpiresAt:  expiresAt,
		TTL:        ttl,
		Persistent: rememberMe,
	}
	m.cookies.Write(w, session)
	return session, nil
}

func (m *Manager) burnDummyComparison(password string) {
	m.dummyOnce.Do(func() {
		hash, err := m.hasher.Hash(dummyPassword)
		if err != nil {
			log.Printf("Failed to prepare dummy password hash: %v", err)
			return
		}
		m.dummyHash = hash
	})
	if m.dummyHash != "" {
		_, _ = m.hasher.Verify(password, m.dummyHash)
	}
}
