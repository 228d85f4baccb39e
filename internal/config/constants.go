package config

import "time"

const (
	// DefaultDatabasePath is the default path for the SQLite account database
	DefaultDatabasePath = "./authkeeper.db"

	// DefaultCookieName matches the cookie name existing clients read
	DefaultCookieName = "token"

	// DefaultCSRFCookieName holds the gorilla/csrf token when CSRF protection is on
	DefaultCSRFCookieName = "_csrf"

	// RememberMeTTL is how long a "remember me" session lasts
	RememberMeTTL = 30 * 24 * time.Hour

	// MinSecretLength is the minimum signing secret size accepted in production (HS256 key size)
	MinSecretLength = 32
)
