package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/minevista/portal-auth/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/minevista/portal-auth/services/auth AuthRepo

// AuthRepo defines the persistence operations behind the authenticator.
// OTP records, sessions and the refresh allowlist live in Redis; accounts
// live in PostgreSQL.
type AuthRepo interface {
	// OTP record lifecycle
	CreateOTP(ctx context.Context, otp *models.OTPRecord) error
	GetOTP(ctx context.Context, identifier string) (*models.OTPRecord, error)
	IncrementOTPAttempts(ctx context.Context, identifier string) (int, error)
	ConsumeOTP(ctx context.Context, identifier, code string) error
	DeleteOTP(ctx context.Context, identifier string) error

	// issuance throttling
	ReserveIssuance(ctx context.Context, identifier string) error
	ReleaseIssuance(ctx context.Context, identifier string) error

	// account resolution and bookkeeping
	GetPrincipalByMSISDN(ctx context.Context, msisdn string) (*models.Principal, error)
	GetPrincipalByEmail(ctx context.Context, email string) (*models.Principal, error)
	GetPrincipalByID(ctx context.Context, id uuid.UUID, accountType models.AccountType) (*models.Principal, error)
	RecordLogin(ctx context.Context, principal *models.Principal, clientIP string) error

	// admin sessions
	CreateSession(ctx context.Context, session *models.AdminSession) error
	GetSession(ctx context.Context, sessionID string) (*models.AdminSession, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// refresh token allowlist
	StoreRefreshToken(ctx context.Context, jti string, accountID uuid.UUID, ttl time.Duration) error
	ConsumeRefreshToken(ctx context.Context, jti string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, jti string) error
}
