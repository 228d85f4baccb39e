// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - AccountStore: Account persistence with atomic username uniqueness (internal/auth/manager.go)
//   - Store: Audit event persistence (internal/audit/service.go)
//   - Pinger: Storage reachability for /health (internal/http/health.go)
//
// ## Service Interfaces
//
//   - PasswordHasher: One-way password hashing (internal/auth/password.go)
//   - Auditor: Fire-and-forget audit of register, login and logout (internal/auth/handlers.go)
//   - AuditPruner: Retention-based deletion of audit events (internal/scheduler/audit_retention.go)
//
// # Adding a New Account Backend
//
// To store accounts somewhere other than SQLite or PostgreSQL:
//
//  1. Implement AccountStore. Create must report a lost uniqueness race as
//     auth.ErrDuplicateUsername, lookups of unknown accounts as
//     auth.ErrAccountNotFound and any other failure wrapped in
//     auth.ErrStorageUnavailable.
//
//     type Repository struct { db *gorm.DB }
//
//     func (r *Repository) Create(ctx context.Context, username, passwordHash string) (*entities.Account, error)
//     func (r *Repository) FindByUsername(ctx context.Context, username string) (*entities.Account, error)
//     func (r *Repository) FindByID(ctx context.Context, id string) (*entities.Account, error)
//     func (r *Repository) Ping(ctx context.Context) error
//
//  2. Implement audit.Store on the same backend so the audit trail follows the accounts.
//
//  3. Select it in entrypoint.OpenStores.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
