package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jwtpkg "github.com/minevista/portal-auth/internal/pkg/jwt"
	"github.com/minevista/portal-auth/internal/pkg/logger"
	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/services/auth"
)

// issueCredentials issues the credential variant matching the account type:
// a JWT pair for portal users, a server-side session for admins.
func (u *AuthUC) issueCredentials(ctx context.Context, principal *models.Principal) (*models.AuthResult, error) {
	result := &models.AuthResult{Principal: principal}

	if principal.IsAdmin() {
		session, err := u.createAdminSession(ctx, principal)
		if err != nil {
			return nil, err
		}
		result.Session = session
		return result, nil
	}

	tokens, err := u.issueTokenPair(ctx, principal)
	if err != nil {
		return nil, err
	}
	result.Tokens = tokens
	return result, nil
}

// issueTokenPair signs an access/refresh pair and registers the refresh jti
// in the allowlist so it can later be rotated or revoked.
func (u *AuthUC) issueTokenPair(ctx context.Context, principal *models.Principal) (*models.TokenPair, error) {
	accessToken, expiresAt, err := jwtpkg.GenerateAccessToken(principal, u.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, jti, err := jwtpkg.GenerateRefreshToken(principal, u.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	refreshTTL := time.Duration(u.cfg.JWT.RefreshExpiration) * time.Minute
	if err := u.authRepo.StoreRefreshToken(ctx, jti, principal.ID, refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to register refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (u *AuthUC) createAdminSession(ctx context.Context, principal *models.Principal) (*models.AdminSession, error) {
	now := time.Now()
	session := &models.AdminSession{
		ID:        uuid.New().String(),
		AccountID: principal.ID,
		MSISDN:    principal.MSISDN,
		Role:      principal.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(u.cfg.Session.TTLMinutes) * time.Minute),
	}

	if err := u.authRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create admin session: %w", err)
	}

	return session, nil
}

// RefreshSession rotates a refresh token: the presented token is validated,
// consumed, and replaced with a brand-new pair. A token can be rotated at
// most once.
func (u *AuthUC) RefreshSession(ctx context.Context, refreshToken, clientIP string) (*models.TokenPair, error) {
	claims, err := jwtpkg.ValidateToken(refreshToken, u.cfg.JWT.Secret, jwtpkg.TypeRefresh)
	if err != nil {
		if errors.Is(err, jwtpkg.ErrTokenExpired) {
			return nil, auth.ErrTokenExpired
		}
		return nil, auth.ErrInvalidToken
	}

	jti, _ := claims["jti"].(string)
	userID, _ := claims["user_id"].(string)
	accountType, _ := claims["account_type"].(string)
	if jti == "" || userID == "" {
		return nil, auth.ErrInvalidToken
	}

	accountID, err := uuid.Parse(userID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	ownerID, err := u.authRepo.ConsumeRefreshToken(ctx, jti)
	if err != nil {
		return nil, err
	}
	if ownerID != accountID {
		return nil, auth.ErrInvalidToken
	}

	principal, err := u.authRepo.GetPrincipalByID(ctx, accountID, models.AccountType(accountType))
	if err != nil {
		return nil, err
	}
	if !principal.IsActive {
		return nil, auth.ErrAccountInactive
	}

	tokens, err := u.issueTokenPair(ctx, principal)
	if err != nil {
		return nil, err
	}

	u.publishAudit(ctx, principal, principal.MSISDN, models.AuditActionRefresh, clientIP)

	return tokens, nil
}

// Logout invalidates whichever credential the request carries: an admin
// session is deleted server-side, a portal refresh token is revoked from the
// allowlist. Logout is idempotent; already-gone credentials are not an error.
func (u *AuthUC) Logout(ctx context.Context, req *models.LogoutRequest) error {
	if req.SessionID != "" {
		return u.logoutAdmin(ctx, req.SessionID)
	}
	if req.RefreshToken != "" {
		return u.logoutPortal(ctx, req.RefreshToken)
	}
	return nil
}

func (u *AuthUC) logoutAdmin(ctx context.Context, sessionID string) error {
	session, err := u.authRepo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if err := u.authRepo.DeleteSession(ctx, sessionID); err != nil {
		return err
	}

	principal := &models.Principal{
		ID:          session.AccountID,
		AccountType: models.AccountTypeAdmin,
		MSISDN:      session.MSISDN,
		Role:        session.Role,
	}
	u.publishAudit(ctx, principal, session.MSISDN, models.AuditActionLogout, "")

	return nil
}

func (u *AuthUC) logoutPortal(ctx context.Context, refreshToken string) error {
	claims, err := jwtpkg.ValidateToken(refreshToken, u.cfg.JWT.Secret, jwtpkg.TypeRefresh)
	if err != nil {
		// An expired or garbage token holds nothing worth revoking
		return nil
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}

	if err := u.authRepo.RevokeRefreshToken(ctx, jti); err != nil {
		return err
	}

	userID, _ := claims["user_id"].(string)
	accountType, _ := claims["account_type"].(string)
	if accountID, parseErr := uuid.Parse(userID); parseErr == nil {
		principal := &models.Principal{
			ID:          accountID,
			AccountType: models.AccountType(accountType),
		}
		u.publishAudit(ctx, principal, userID, models.AuditActionLogout, "")
	} else {
		logger.Warn("Refresh token carried unparseable user_id at logout",
			logger.String("user_id", userID))
	}

	return nil
}
