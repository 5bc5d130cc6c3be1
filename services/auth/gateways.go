package auth

import (
	"context"

	"github.com/minevista/portal-auth/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/minevista/portal-auth/services/auth AuthGW

// AuthGW defines the outbound collaborators of the authenticator: the code
// delivery providers and the audit event sink.
type AuthGW interface {
	SendSMS(ctx context.Context, msisdn, message string) error
	SendEmail(ctx context.Context, address, subject, body string) error
	PublishAuditEvent(ctx context.Context, event *models.AuditEvent) error
}
