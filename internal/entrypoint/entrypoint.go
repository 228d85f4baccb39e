package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/authkeeper/internal/audit"
	"github.com/mrlokans/authkeeper/internal/auth"
	"github.com/mrlokans/authkeeper/internal/config"
	http_controllers "github.com/mrlokans/authkeeper/internal/http"
	"github.com/mrlokans/authkeeper/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT or SIGTERM, then give in-flight requests `timeout` to finish
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Flush pending audit writes and close stores after the last request
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// Run validates the configuration, opens the stores and serves until a shutdown signal.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting authkeeper v%s (env: %s)", version, cfg.App.Env)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	secret, err := ResolveSecret(cfg)
	if err != nil {
		log.Fatalf("Failed to resolve signing secret: %v", err)
	}

	ctx := context.Background()
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	router, auditService := NewRouter(cfg, stores, secret, version)

	var retention *scheduler.AuditRetentionScheduler
	if auditService != nil {
		retention = StartAuditRetention(cfg.Audit, auditService)
	}

	onShutdown := func(ctx context.Context) {
		if retention != nil {
			retention.Stop()
		}
		if auditService != nil {
			if err := auditService.Wait(ctx); err != nil {
				log.Printf("Audit events still pending at shutdown: %v", err)
			}
		}
		stores.Close()
	}

	Serve(router, cfg, onShutdown)
}

// NewRouter wires the session core, the optional audit trail and the HTTP router.
// The returned audit service is nil when auditing is disabled.
func NewRouter(cfg *config.Config, stores *Stores, secret []byte, version string) (*gin.Engine, *audit.Service) {
	manager := auth.NewManager(
		stores.Accounts,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewTokenService(secret),
		cfg.Auth,
	)

	routerCfg := http_controllers.RouterConfig{
		Manager:        manager,
		Pinger:         stores.Accounts,
		CSRFSecret:     CSRFSecret(cfg.Auth),
		CSRFCookieName: config.DefaultCSRFCookieName,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
	}

	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditService = audit.NewService(stores.Audit)
		routerCfg.Auditor = auditService
	} else {
		log.Printf("Audit trail disabled")
	}

	if len(routerCfg.CSRFSecret) > 0 {
		log.Printf("CSRF protection enabled")
	}

	return http_controllers.NewRouter(routerCfg), auditService
}

// StartAuditRetention starts the scheduled pruning of old audit events.
// It returns nil when retention is disabled or the scheduler fails to start.
func StartAuditRetention(cfg config.Audit, pruner scheduler.AuditPruner) *scheduler.AuditRetentionScheduler {
	if !cfg.PruneEnabled() {
		return nil
	}

	retention := scheduler.NewAuditRetentionScheduler(pruner, cfg.Retention, cfg.PruneSchedule)
	if err := retention.Start(); err != nil {
		log.Printf("Failed to start audit retention scheduler: %v", err)
		return nil
	}
	return retention
}

// ResolveSecret returns the token signing secret. In development a missing
// secret is replaced by a random one, which invalidates sessions on restart.
func ResolveSecret(cfg *config.Config) ([]byte, error) {
	if cfg.Auth.JWTSecret != "" {
		return []byte(cfg.Auth.JWTSecret), nil
	}
	if !cfg.IsDevelopment() {
		return nil, config.ErrMissingSecret
	}

	secret, err := auth.GenerateSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("WARNING: AUTH_JWT_SECRET is not set. Using a random secret; sessions will not survive a restart. Run 'authkeeper gen-secret' to create one.")
	return []byte(secret), nil
}

// CSRFSecret decodes AUTH_CSRF_SECRET. Hex values are decoded, anything else is used as raw bytes.
func CSRFSecret(cfg config.Auth) []byte {
	if cfg.CSRFSecret == "" {
		return nil
	}
	if decoded, err := hex.DecodeString(cfg.CSRFSecret); err == nil {
		return decoded
	}
	return []byte(cfg.CSRFSecret)
}
