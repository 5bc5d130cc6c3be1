package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction enumerates the authentication actions worth recording
type AuditAction string

const (
	AuditActionLogin   AuditAction = "login"
	AuditActionRefresh AuditAction = "refresh"
	AuditActionLogout  AuditAction = "logout"
)

// AuditEvent records who authenticated, how, and from where
type AuditEvent struct {
	AccountID   uuid.UUID   `json:"account_id"`
	AccountType AccountType `json:"account_type"`
	Identifier  string      `json:"identifier"`
	Action      AuditAction `json:"action"`
	Method      string      `json:"method"`
	ClientIP    string      `json:"client_ip,omitempty"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
