// Package audit records authentication outcomes (register, login, logout)
// as AuditEvent rows. Writes happen in the background; a failed write is
// logged and never affects the request that produced it.
package audit
