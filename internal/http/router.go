package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/authkeeper/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF runs first so later middleware sees the request it replaced
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.CSRFCookieName))
	}

	authMiddleware := auth.NewMiddleware(cfg.Manager)
	router.Use(authMiddleware.Handler())

	authController := auth.NewAuthController(cfg.Manager, authMiddleware, cfg.Auditor)
	authController.RegisterRoutes(router)

	health := NewHealthController(cfg.Pinger, cfg.Version)
	router.GET("/health", health.Status)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
