package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/authkeeper/internal/scheduler"
)

type Env string

const (
	EnvDevelopment Env = "development" // Local development, insecure defaults allowed
	EnvProduction  Env = "production"  // Any deployed profile
)

var (
	ErrMissingSecret   = errors.New("AUTH_JWT_SECRET is required outside development")
	ErrShortSecret     = fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes", MinSecretLength)
	ErrInsecureCookies = errors.New("AUTH_SECURE_COOKIES cannot be disabled outside development")
	ErrInvalidCost     = fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	ErrInvalidTTL      = errors.New("session TTLs must be positive")
	ErrUnknownEnv      = errors.New("APP_ENV must be 'development' or 'production'")
	ErrInvalidSchedule = errors.New("AUDIT_PRUNE_SCHEDULE is not a valid cron expression")
	ErrNegativeRetain  = errors.New("AUDIT_RETENTION must not be negative")
)

type (
	Config struct {
		App
		HTTP
		Global
		Database
		Auth
		Audit
	}

	App struct {
		Env Env
	}
	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string // SQLite file, used when URL is empty
		URL  string // postgres:// connection string
	}
	Auth struct {
		JWTSecret       string
		SessionTTL      time.Duration // Token lifetime behind a browser-session cookie
		RememberMeTTL   time.Duration // Token and cookie lifetime when "remember me" is set
		BcryptCost      int
		SecureCookies   bool // Only false for local dev without HTTPS
		CookieName      string
		LoginOnRegister bool   // Start a session right after registration
		CSRFSecret      string // Empty disables CSRF protection
	}
	Audit struct {
		Enabled       bool
		Retention     time.Duration // Zero keeps events forever
		PruneSchedule string
	}
)

// IsDevelopment reports whether the local development profile is active.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}

// UsePostgres reports whether accounts live in PostgreSQL rather than SQLite.
func (d Database) UsePostgres() bool {
	return strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://")
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("app_env", string(EnvDevelopment))
	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")

	// Auth defaults
	v.SetDefault("auth_jwt_secret", "")          // Required in production
	v.SetDefault("auth_session_ttl", "24h")      // Token lifetime behind a session cookie
	v.SetDefault("auth_remember_me_ttl", "720h") // 30 days
	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("auth_cookie_name", DefaultCookieName)
	v.SetDefault("auth_login_on_register", false)
	v.SetDefault("auth_csrf_secret", "")
	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention", "2160h") // 90 days
	v.SetDefault("audit_prune_schedule", "0 3 * * *")

	env := Env(strings.ToLower(v.GetString("APP_ENV")))

	// Cookies are HTTPS-only unless running locally
	v.SetDefault("auth_secure_cookies", env != EnvDevelopment)

	return &Config{
		App: App{
			Env: env,
		},
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
			URL:  v.GetString("DATABASE_URL"),
		},
		Auth: Auth{
			JWTSecret:       v.GetString("AUTH_JWT_SECRET"),
			SessionTTL:      v.GetDuration("AUTH_SESSION_TTL"),
			RememberMeTTL:   v.GetDuration("AUTH_REMEMBER_ME_TTL"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
			CookieName:      v.GetString("AUTH_COOKIE_NAME"),
			LoginOnRegister: v.GetBool("AUTH_LOGIN_ON_REGISTER"),
			CSRFSecret:      v.GetString("AUTH_CSRF_SECRET"),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			Retention:     v.GetDuration("AUDIT_RETENTION"),
			PruneSchedule: v.GetString("AUDIT_PRUNE_SCHEDULE"),
		},
	}
}

// Validate rejects configurations that must not be served.
// A missing secret is only tolerated in development, where the caller generates a random one.
func (c *Config) Validate() error {
	switch c.App.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownEnv, c.App.Env)
	}

	if !c.IsDevelopment() {
		if c.Auth.JWTSecret == "" {
			return ErrMissingSecret
		}
		if len(c.Auth.JWTSecret) < MinSecretLength {
			return ErrShortSecret
		}
		if !c.Auth.SecureCookies {
			return ErrInsecureCookies
		}
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return ErrInvalidCost
	}
	if c.Auth.SessionTTL <= 0 || c.Auth.RememberMeTTL <= 0 {
		return ErrInvalidTTL
	}

	if c.Audit.Retention < 0 {
		return ErrNegativeRetain
	}
	if c.Audit.Enabled && c.Audit.Retention > 0 {
		if _, err := scheduler.ParseSchedule(c.Audit.PruneSchedule); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
	}
	return nil
}

// PruneEnabled reports whether old audit events are deleted on a schedule.
func (a Audit) PruneEnabled() bool {
	return a.Enabled && a.Retention > 0
}
