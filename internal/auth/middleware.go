package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/authkeeper/internal/entities"
)

// Context keys for auth data
const (
	ContextKeyAuthStatus = "auth_status"
)

// Middleware resolves the session cookie into an AuthStatus once per request.
type Middleware struct {
	manager *Manager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(manager *Manager) *Middleware {
	return &Middleware{manager: manager}
}

// Handler returns a Gin middleware that stores the caller's AuthStatus in the
// context. It never rejects a request; use RequireAuth for that.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.status(c)
		c.Next()
	}
}

// RequireAuth returns a middleware that rejects anonymous requests with 401.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.status(c).Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, authResponse{
				Success: false,
				Message: "Authentication required",
			})
			return
		}
		c.Next()
	}
}

// status returns the cached AuthStatus, verifying the cookie on first use.
func (m *Middleware) status(c *gin.Context) *AuthStatus {
	if v, exists := c.Get(ContextKeyAuthStatus); exists {
		if status, ok := v.(*AuthStatus); ok {
			return status
		}
	}

	status := m.manager.CheckAuth(c.Request.Context(), m.manager.TokenFromRequest(c.Request))
	c.Set(ContextKeyAuthStatus, status)
	return status
}

// GetAccount retrieves the authenticated account from the context.
// Returns nil if the request is anonymous or the middleware did not run.
func GetAccount(c *gin.Context) *entities.PublicAccount {
	if v, exists := c.Get(ContextKeyAuthStatus); exists {
		if status, ok := v.(*AuthStatus); ok && status.Authenticated {
			return status.Account
		}
	}
	return nil
}

// IsAuthenticated returns true if the request carries a valid session.
func IsAuthenticated(c *gin.Context) bool {
	return GetAccount(c) != nil
}
