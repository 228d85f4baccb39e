package entities

import "time"

type AuditAction string

const (
	AuditActionRegister AuditAction = "register"
	AuditActionLogin    AuditAction = "login"
	AuditActionLogout   AuditAction = "logout"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	AccountID string      `gorm:"index;size:36" json:"account_id,omitempty"` // empty when the attempt matched no account
	Username  string      `gorm:"index;size:64" json:"username,omitempty"`
	Action    AuditAction `gorm:"index;size:50" json:"action"`
	Reason    string      `gorm:"size:100" json:"reason,omitempty"` // e.g. "invalid_credentials", "duplicate_username"
	IPAddress string      `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string      `gorm:"size:500" json:"user_agent,omitempty"`
	Status    AuditStatus `gorm:"size:20" json:"status"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
