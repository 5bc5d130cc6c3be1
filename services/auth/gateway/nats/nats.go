package gateway_nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/minevista/portal-auth/internal/pkg/constants"
	"github.com/minevista/portal-auth/internal/pkg/logger"
	"github.com/minevista/portal-auth/internal/pkg/models"
	natspkg "github.com/minevista/portal-auth/internal/pkg/nats"
)

// publisher is the slice of the NATS client the gateway needs
type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSGateway publishes authentication audit events
type NATSGateway struct {
	client publisher
}

// NewNATSGateway creates a new NATS gateway
func NewNATSGateway(client *natspkg.Client) *NATSGateway {
	return &NATSGateway{
		client: client,
	}
}

// PublishAuditEvent publishes an audit event on the subject matching its
// action. Downstream consumers (audit trail, security alerting) subscribe to
// auth.events.>.
func (g *NATSGateway) PublishAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	subject := subjectForAction(event.Action)
	if err := g.client.Publish(subject, data); err != nil {
		logger.Error("Failed to publish audit event",
			logger.String("subject", subject),
			logger.String("account_id", event.AccountID.String()),
			logger.Err(err))
		return fmt.Errorf("failed to publish audit event: %w", err)
	}

	logger.Debug("Published audit event",
		logger.String("subject", subject),
		logger.String("account_id", event.AccountID.String()))

	return nil
}

func subjectForAction(action models.AuditAction) string {
	switch action {
	case models.AuditActionRefresh:
		return constants.SubjectAuthRefresh
	case models.AuditActionLogout:
		return constants.SubjectAuthLogout
	default:
		return constants.SubjectAuthLogin
	}
}
