package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/authkeeper/internal/audit"
	"github.com/mrlokans/authkeeper/internal/auth"
	"github.com/mrlokans/authkeeper/internal/database/accounts"
	auditrepo "github.com/mrlokans/authkeeper/internal/database/audit"
	"github.com/mrlokans/authkeeper/internal/database/postgres"
	"github.com/mrlokans/authkeeper/internal/http"
	"github.com/mrlokans/authkeeper/internal/scheduler"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// AccountStore implementations
var _ auth.AccountStore = (*accounts.Repository)(nil)
var _ auth.AccountStore = (*postgres.Store)(nil)

// Audit Store implementations
var _ audit.Store = (*auditrepo.Repository)(nil)
var _ audit.Store = (*postgres.Store)(nil)

// Health check targets
var _ http.Pinger = (*accounts.Repository)(nil)
var _ http.Pinger = (*postgres.Store)(nil)

// =============================================================================
// Services
// =============================================================================

var _ auth.PasswordHasher = (*auth.BcryptHasher)(nil)
var _ auth.Auditor = (*audit.Service)(nil)
var _ scheduler.AuditPruner = (*audit.Service)(nil)
