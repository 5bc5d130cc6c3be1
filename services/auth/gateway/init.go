package gateway

import (
	"context"

	"github.com/minevista/portal-auth/internal/pkg/models"
	natspkg "github.com/minevista/portal-auth/internal/pkg/nats"
	"github.com/minevista/portal-auth/services/auth"
	gateway_nats "github.com/minevista/portal-auth/services/auth/gateway/nats"
	gateway_sms "github.com/minevista/portal-auth/services/auth/gateway/sms"
	gateway_smtp "github.com/minevista/portal-auth/services/auth/gateway/smtp"
)

// AuthGW composes the outbound collaborators: SMS and email delivery plus
// the audit event stream.
type AuthGW struct {
	smsGateway  *gateway_sms.TwilioGateway
	smtpGateway *gateway_smtp.SMTPGateway
	natsGateway *gateway_nats.NATSGateway
}

// NewAuthGW creates a new gateway instance wired to Twilio, the SMTP pool
// and NATS.
func NewAuthGW(natsClient *natspkg.Client, cfg *models.Config) (auth.AuthGW, error) {
	smtpGateway, err := gateway_smtp.NewSMTPGateway(cfg.SMTP)
	if err != nil {
		return nil, err
	}

	return &AuthGW{
		smsGateway:  gateway_sms.NewTwilioGateway(cfg.SMS),
		smtpGateway: smtpGateway,
		natsGateway: gateway_nats.NewNATSGateway(natsClient),
	}, nil
}

// SendSMS delivers a text message to a normalized MSISDN
func (g *AuthGW) SendSMS(ctx context.Context, msisdn, message string) error {
	return g.smsGateway.SendSMS(ctx, msisdn, message)
}

// SendEmail delivers a plain-text email to a normalized address
func (g *AuthGW) SendEmail(ctx context.Context, address, subject, body string) error {
	return g.smtpGateway.SendEmail(ctx, address, subject, body)
}

// PublishAuditEvent publishes an authentication audit event
func (g *AuthGW) PublishAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	return g.natsGateway.PublishAuditEvent(ctx, event)
}
