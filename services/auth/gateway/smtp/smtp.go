package gateway_smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"github.com/knadh/smtppool"

	"github.com/minevista/portal-auth/internal/pkg/logger"
	"github.com/minevista/portal-auth/internal/pkg/models"
)

// SMTPGateway delivers email through a pooled SMTP connection
type SMTPGateway struct {
	pool *smtppool.Pool
	from string
}

// NewSMTPGateway creates a new SMTP gateway backed by a connection pool
func NewSMTPGateway(cfg models.SMTPConfig) (*SMTPGateway, error) {
	var auth smtp.Auth
	if cfg.Username != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	sendTimeout := time.Duration(cfg.SendTimeout) * time.Second

	pool, err := smtppool.New(smtppool.Opt{
		Host:            cfg.Host,
		Port:            cfg.Port,
		MaxConns:        cfg.MaxConns,
		IdleTimeout:     sendTimeout,
		PoolWaitTimeout: sendTimeout,
		TLSConfig: &tls.Config{
			ServerName: cfg.Host,
		},
		Auth: auth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP pool: %w", err)
	}

	return &SMTPGateway{
		pool: pool,
		from: cfg.From,
	}, nil
}

// SendEmail sends a plain-text email to a normalized address
func (g *SMTPGateway) SendEmail(ctx context.Context, address, subject, body string) error {
	email := smtppool.Email{
		From:    g.from,
		To:      []string{address},
		Subject: subject,
		Text:    []byte(body),
	}

	if err := g.pool.Send(email); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Debug("Email dispatched", logger.String("address", address))

	return nil
}

// Close tears down the pooled connections
func (g *SMTPGateway) Close() {
	g.pool.Close()
}
