package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/minevista/portal-auth/internal/pkg/logger"
	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/internal/utils"
	"github.com/minevista/portal-auth/services/auth"
)

// RequestOTP validates the identifier, issues a fresh code and dispatches it
// through the channel's delivery provider. A new request supersedes any
// outstanding code for the identifier.
func (u *AuthUC) RequestOTP(ctx context.Context, identifier string, channel models.Channel) error {
	normalized, err := u.normalizeIdentifier(identifier, channel)
	if err != nil {
		return err
	}

	if err := u.authRepo.ReserveIssuance(ctx, normalized); err != nil {
		return err
	}

	code, err := generateCode(u.cfg.OTP.CodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}

	now := time.Now()
	otp := &models.OTPRecord{
		Identifier: normalized,
		Channel:    channel,
		Code:       code,
		Attempts:   0,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(u.cfg.OTP.TTL) * time.Second),
	}

	if err := u.authRepo.CreateOTP(ctx, otp); err != nil {
		return fmt.Errorf("failed to create OTP record: %w", err)
	}

	if err := u.dispatchCode(ctx, normalized, code, channel); err != nil {
		// Roll back the record so no undeliverable code is left outstanding,
		// and return the throttle reservation so the caller can retry now
		if delErr := u.authRepo.DeleteOTP(ctx, normalized); delErr != nil {
			logger.Warn("Failed to roll back OTP record after delivery failure",
				logger.String("identifier", normalized),
				logger.Err(delErr))
		}
		if relErr := u.authRepo.ReleaseIssuance(ctx, normalized); relErr != nil {
			logger.Warn("Failed to release issuance reservation after delivery failure",
				logger.String("identifier", normalized),
				logger.Err(relErr))
		}
		return fmt.Errorf("%w: %v", auth.ErrDeliveryFailed, err)
	}

	logger.Info("OTP issued",
		logger.String("identifier", normalized),
		logger.String("channel", string(channel)))

	return nil
}

// VerifyOTP checks a submitted code against the outstanding record and, on
// success, resolves the identifier to an account and issues credentials.
// A verified code is consumed and can never be verified again, even when
// account resolution fails afterwards.
func (u *AuthUC) VerifyOTP(ctx context.Context, identifier, code, clientIP string, channel models.Channel) (*models.AuthResult, error) {
	normalized, err := u.normalizeIdentifier(identifier, channel)
	if err != nil {
		return nil, err
	}

	if !u.codePattern.MatchString(code) {
		return nil, auth.ErrMalformedCode
	}

	otp, err := u.authRepo.GetOTP(ctx, normalized)
	if err != nil {
		return nil, err
	}

	// Lazy expiry check in case the store's TTL has not fired yet
	if otp.Expired(time.Now()) {
		if delErr := u.authRepo.DeleteOTP(ctx, normalized); delErr != nil {
			logger.Warn("Failed to delete expired OTP record", logger.Err(delErr))
		}
		return nil, auth.ErrOTPExpired
	}

	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		attempts, err := u.authRepo.IncrementOTPAttempts(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if attempts >= u.cfg.OTP.MaxAttempts {
			if delErr := u.authRepo.DeleteOTP(ctx, normalized); delErr != nil {
				logger.Warn("Failed to delete exhausted OTP record", logger.Err(delErr))
			}
			return nil, auth.ErrTooManyAttempts
		}
		return nil, auth.ErrInvalidCode
	}

	// Single-use: atomically consume the code before anything downstream can
	// fail. When two requests race on the same code, the loser fails here.
	if err := u.authRepo.ConsumeOTP(ctx, normalized, code); err != nil {
		return nil, err
	}

	principal, err := u.resolvePrincipal(ctx, normalized, channel)
	if err != nil {
		return nil, err
	}
	if !principal.IsActive {
		return nil, auth.ErrAccountInactive
	}

	result, err := u.issueCredentials(ctx, principal)
	if err != nil {
		return nil, err
	}

	if err := u.authRepo.RecordLogin(ctx, principal, clientIP); err != nil {
		logger.Warn("Failed to record login bookkeeping",
			logger.String("account_id", principal.ID.String()),
			logger.Err(err))
	}

	u.publishAudit(ctx, principal, normalized, models.AuditActionLogin, clientIP)

	return result, nil
}

func (u *AuthUC) normalizeIdentifier(identifier string, channel models.Channel) (string, error) {
	switch channel {
	case models.ChannelSMS:
		isValid, formatted, err := utils.ValidateMSISDN(identifier)
		if err != nil || !isValid {
			return "", auth.ErrInvalidIdentifier
		}
		return formatted, nil
	case models.ChannelEmail:
		isValid, normalized, err := utils.ValidateEmail(identifier)
		if err != nil || !isValid {
			return "", auth.ErrInvalidIdentifier
		}
		return normalized, nil
	default:
		return "", auth.ErrInvalidIdentifier
	}
}

func (u *AuthUC) resolvePrincipal(ctx context.Context, identifier string, channel models.Channel) (*models.Principal, error) {
	if channel == models.ChannelEmail {
		return u.authRepo.GetPrincipalByEmail(ctx, identifier)
	}
	return u.authRepo.GetPrincipalByMSISDN(ctx, identifier)
}

func (u *AuthUC) dispatchCode(ctx context.Context, identifier, code string, channel models.Channel) error {
	ttlMinutes := u.cfg.OTP.TTL / 60
	if channel == models.ChannelEmail {
		subject := "Your MineVista portal sign-in code"
		body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, ttlMinutes)
		return u.authGW.SendEmail(ctx, identifier, subject, body)
	}
	message := fmt.Sprintf("Your MineVista portal verification code is %s. It expires in %d minutes.", code, ttlMinutes)
	return u.authGW.SendSMS(ctx, identifier, message)
}

func (u *AuthUC) publishAudit(ctx context.Context, principal *models.Principal, identifier string, action models.AuditAction, clientIP string) {
	event := &models.AuditEvent{
		AccountID:   principal.ID,
		AccountType: principal.AccountType,
		Identifier:  identifier,
		Action:      action,
		Method:      "otp",
		ClientIP:    clientIP,
		OccurredAt:  time.Now(),
	}
	if err := u.authGW.PublishAuditEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish audit event",
			logger.String("action", string(action)),
			logger.String("account_id", principal.ID.String()),
			logger.Err(err))
	}
}

// generateCode produces a uniformly random numeric code of the given length
func generateCode(length int) (string, error) {
	const digits = "0123456789"

	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[n.Int64()]
	}

	return string(code), nil
}
