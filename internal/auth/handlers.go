package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/authkeeper/internal/entities"
)

// Messages returned to clients. Storage and hashing details never leave the server.
const (
	msgRegistered         = "Registration successful"
	msgLoggedIn           = "Login successful"
	msgLoggedOut          = "Logout successful"
	msgInvalidBody        = "Invalid request body"
	msgDuplicateUsername  = "Username already exists"
	msgInvalidCredentials = "Invalid username or password"
	msgRegisterFailed     = "Server error during registration"
	msgLoginFailed        = "Server error during login"
)

// Auditor records authentication events.
type Auditor interface {
	LogAuth(event *entities.AuditEvent)
}

// credentialsRequest is the body of register and login requests.
type credentialsRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type authResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	User    *entities.PublicAccount `json:"user,omitempty"`
	Field   string                  `json:"field,omitempty"`
}

type checkAuthResponse struct {
	IsAuthenticated bool                    `json:"isAuthenticated"`
	User            *entities.PublicAccount `json:"user,omitempty"`
}

// AuthController handles authentication-related HTTP endpoints.
type AuthController struct {
	manager    *Manager
	middleware *Middleware
	auditor    Auditor
}

// NewAuthController creates a new authentication controller. auditor may be nil.
func NewAuthController(manager *Manager, middleware *Middleware, auditor Auditor) *AuthController {
	return &AuthController{
		manager:    manager,
		middleware: middleware,
		auditor:    auditor,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/api/auth")
	group.POST("/register", ac.Register)
	group.POST("/login", ac.Login)
	group.POST("/logout", ac.Logout)
	group.GET("/check-auth", ac.CheckAuth)
	group.GET("/check", ac.CheckAuth) // Path used by older clients
	group.GET("/me", ac.middleware.RequireAuth(), ac.Me)
	group.GET("/csrf", ac.CSRFToken)
}

// Register creates an account.
func (ac *AuthController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, authResponse{Success: false, Message: msgInvalidBody})
		return
	}

	result, err := ac.manager.Register(c.Request.Context(), c.Writer, req.Username, req.Password, req.RememberMe)
	ac.audit(c, entities.AuditActionRegister, req.Username, result, err)
	if err != nil {
		ac.respondError(c, err, "Registration", msgRegisterFailed)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: msgRegistered,
		User:    result.Account,
	})
}

// Login verifies credentials and sets the session cookie.
func (ac *AuthController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, authResponse{Success: false, Message: msgInvalidBody})
		return
	}

	result, err := ac.manager.Login(c.Request.Context(), c.Writer, req.Username, req.Password, req.RememberMe)
	ac.audit(c, entities.AuditActionLogin, req.Username, result, err)
	if err != nil {
		ac.respondError(c, err, "Login", msgLoginFailed)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: msgLoggedIn,
		User:    result.Account,
	})
}

// Logout clears the session cookie. It succeeds with or without a session.
func (ac *AuthController) Logout(c *gin.Context) {
	var result *Result
	if account := ac.middleware.status(c).Account; account != nil {
		result = &Result{Account: account}
	}

	ac.manager.Logout(c.Writer)
	ac.audit(c, entities.AuditActionLogout, "", result, nil)

	c.JSON(http.StatusOK, authResponse{Success: true, Message: msgLoggedOut})
}

// CheckAuth reports whether the request carries a valid session. Always 200.
func (ac *AuthController) CheckAuth(c *gin.Context) {
	status := ac.middleware.status(c)
	if !status.Authenticated {
		c.JSON(http.StatusOK, checkAuthResponse{IsAuthenticated: false})
		return
	}
	c.JSON(http.StatusOK, checkAuthResponse{IsAuthenticated: true, User: status.Account})
}

// Me returns the authenticated account. Mounted behind RequireAuth.
func (ac *AuthController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": GetAccount(c)})
}

// CSRFToken returns the CSRF token clients must echo in the X-CSRF-Token header.
func (ac *AuthController) CSRFToken(c *gin.Context) {
	token := GetCSRFToken(c)
	if token == "" {
		c.JSON(http.StatusNotFound, authResponse{Success: false, Message: "CSRF protection is disabled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"csrfToken": token})
}

// respondError maps a register/login error onto a status code and payload.
func (ac *AuthController) respondError(c *gin.Context, err error, operation, serverMsg string) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, authResponse{
			Success: false,
			Message: validationErr.Message(),
			Field:   validationErr.Field,
		})
	case errors.Is(err, ErrDuplicateUsername):
		c.JSON(http.StatusBadRequest, authResponse{
			Success: false,
			Message: msgDuplicateUsername,
			Field:   FieldUsername,
		})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, authResponse{Success: false, Message: msgInvalidCredentials})
	default:
		log.Printf("%s error: %v", operation, err)
		c.JSON(http.StatusInternalServerError, authResponse{Success: false, Message: serverMsg})
	}
}

func (ac *AuthController) audit(c *gin.Context, action entities.AuditAction, username string, result *Result, err error) {
	if ac.auditor == nil {
		return
	}

	event := &entities.AuditEvent{
		Username:  username,
		Action:    action,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Status:    entities.AuditStatusSuccess,
	}
	if result != nil && result.Account != nil {
		event.AccountID = result.Account.ID
		event.Username = result.Account.Username
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.Reason = outcomeOf(err)
	}

	ac.auditor.LogAuth(event)
}
