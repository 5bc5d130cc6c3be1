package auth

import (
	"context"

	"github.com/minevista/portal-auth/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/minevista/portal-auth/services/auth AuthUC

// AuthUC represents the authentication usecase interface consumed by the
// HTTP handlers.
type AuthUC interface {
	// handle OTP issuance and verification
	RequestOTP(ctx context.Context, identifier string, channel models.Channel) error
	VerifyOTP(ctx context.Context, identifier, code, clientIP string, channel models.Channel) (*models.AuthResult, error)

	// handle issued credentials
	RefreshSession(ctx context.Context, refreshToken, clientIP string) (*models.TokenPair, error)
	Logout(ctx context.Context, req *models.LogoutRequest) error
}
