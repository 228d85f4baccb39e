// Package auth provides username/password authentication with stateless,
// cookie-borne session tokens.
//
// The pieces, leaves first:
//   - ValidateCredentials: trims and charset-checks a username/password pair
//   - BcryptHasher: salted adaptive password hashing
//   - AccountStore: persistence with an atomic unique username constraint
//     (implemented in internal/database/accounts and internal/database/postgres)
//   - TokenService: HS256-signed tokens carrying the account id and an expiry
//   - Manager: register, login, logout and check-auth over the above
//
// There is no server-side session table. A session is valid for as long as its
// token verifies and has not expired; logout only clears the client's cookie.
//
// # Configuration
//
//	AUTH_JWT_SECRET=<at least 32 bytes>  # Required when APP_ENV=production
//	AUTH_SESSION_TTL=24h                 # Token lifetime behind a browser-session cookie
//	AUTH_REMEMBER_ME_TTL=720h            # Token and cookie lifetime for "remember me"
//	AUTH_BCRYPT_COST=10                  # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true             # Defaults to false only in development
//	AUTH_LOGIN_ON_REGISTER=false         # Start a session right after registration
//	AUTH_CSRF_SECRET=<32 bytes>          # Enables CSRF protection when set
//
// # Usage
//
//	manager := auth.NewManager(store, auth.NewBcryptHasher(cfg.BcryptCost), auth.NewTokenService(secret), cfg)
//	middleware := auth.NewMiddleware(manager)
//	auth.NewAuthController(manager, middleware, auditor).RegisterRoutes(router)
//
// Extract the account in handlers mounted behind middleware.Handler():
//
//	account := auth.GetAccount(c) // nil when anonymous
package auth
