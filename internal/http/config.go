package http

import (
	"github.com/mrlokans/authkeeper/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Authentication
	Manager *auth.Manager
	Auditor auth.Auditor // Optional

	// Health checks
	Pinger Pinger

	// CSRF protection is enabled when CSRFSecret is set
	CSRFSecret     []byte
	CSRFCookieName string
	SecureCookies  bool

	// Application info
	Version string
}
