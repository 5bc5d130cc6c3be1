package gateway_sms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/minevista/portal-auth/internal/pkg/logger"
	"github.com/minevista/portal-auth/internal/pkg/models"
)

// TwilioGateway delivers SMS messages through the Twilio REST API
type TwilioGateway struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioGateway creates a new Twilio SMS gateway
func NewTwilioGateway(cfg models.SMSConfig) *TwilioGateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioGateway{
		client: client,
		from:   cfg.From,
	}
}

// SendSMS sends a text message to a normalized MSISDN
func (g *TwilioGateway) SendSMS(ctx context.Context, msisdn, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(g.from)
	params.SetTo(fmt.Sprintf("+%s", msisdn))
	params.SetBody(message)

	resp, err := g.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp.Sid != nil {
		logger.Debug("SMS dispatched",
			logger.String("msisdn", msisdn),
			logger.String("message_sid", *resp.Sid))
	}

	return nil
}
