package auth

import (
	"net/http"
	"time"

	"github.com/mrlokans/authkeeper/internal/config"
)

// SessionCookies writes and reads the cookie that carries the session token.
// The cookie is only a transport: identity always comes from verifying the token.
type SessionCookies struct {
	name   string
	secure bool
}

// NewSessionCookies creates the cookie policy from config.
func NewSessionCookies(cfg config.Auth) *SessionCookies {
	name := cfg.CookieName
	if name == "" {
		name = config.DefaultCookieName
	}
	return &SessionCookies{name: name, secure: cfg.SecureCookies}
}

// Name returns the cookie name.
func (sc *SessionCookies) Name() string {
	return sc.name
}

// Write sets the session cookie. Persistent sessions get an expiry matching the
// token TTL; others are browser-session cookies with no expiry attribute.
func (sc *SessionCookies) Write(w http.ResponseWriter, s *Session) {
	cookie := sc.base()
	cookie.Value = s.Token
	if s.Persistent {
		cookie.Expires = s.ExpiresAt
		cookie.MaxAge = int(s.TTL / time.Second)
	}
	http.SetCookie(w, cookie)
}

// Clear expires the session cookie on the client.
func (sc *SessionCookies) Clear(w http.ResponseWriter) {
	cookie := sc.base()
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

// Read returns the token from the request cookie, or "" when absent.
func (sc *SessionCookies) Read(r *http.Request) string {
	cookie, err := r.Cookie(sc.name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (sc *SessionCookies) base() *http.Cookie {
	return &http.Cookie{
		Name:     sc.name,
		Path:     "/",
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: http.SameSiteStrictMode, // Blocks cross-site submission
	}
}
