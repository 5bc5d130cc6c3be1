package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/minevista/portal-auth/internal/pkg/constants"
	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/services/auth"
)

// consumeScript deletes and returns a refresh-token entry in one step so a
// token can be rotated exactly once even under concurrent refresh calls.
var consumeScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
	return false
end
redis.call("DEL", KEYS[1])
return v
`)

// CreateSession stores a server-side admin session
func (r *AuthRepo) CreateSession(ctx context.Context, session *models.AdminSession) error {
	key := fmt.Sprintf(constants.KeyAdminSession, session.ID)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if err := r.redisClient.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetSession retrieves an admin session by its opaque ID
func (r *AuthRepo) GetSession(ctx context.Context, sessionID string) (*models.AdminSession, error) {
	key := fmt.Sprintf(constants.KeyAdminSession, sessionID)

	data, err := r.redisClient.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.AdminSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// DeleteSession removes an admin session server-side
func (r *AuthRepo) DeleteSession(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(constants.KeyAdminSession, sessionID)

	if err := r.redisClient.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// StoreRefreshToken registers a refresh token's jti in the allowlist.
// Refresh tokens absent from the allowlist are rejected, which makes logout
// an actual revocation rather than a client-side discard.
func (r *AuthRepo) StoreRefreshToken(ctx context.Context, jti string, accountID uuid.UUID, ttl time.Duration) error {
	key := fmt.Sprintf(constants.KeyRefreshAllowlist, jti)

	if err := r.redisClient.Client.Set(ctx, key, accountID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}

// ConsumeRefreshToken atomically removes a jti from the allowlist and
// returns the account it belonged to. A missing jti means the token was
// already rotated, revoked, or expired.
func (r *AuthRepo) ConsumeRefreshToken(ctx context.Context, jti string) (uuid.UUID, error) {
	key := fmt.Sprintf(constants.KeyRefreshAllowlist, jti)

	value, err := consumeScript.Run(ctx, r.redisClient.Client, []string{key}).Text()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, auth.ErrInvalidToken
		}
		return uuid.Nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	accountID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt refresh token entry: %w", err)
	}

	return accountID, nil
}

// RevokeRefreshToken removes a jti from the allowlist
func (r *AuthRepo) RevokeRefreshToken(ctx context.Context, jti string) error {
	key := fmt.Sprintf(constants.KeyRefreshAllowlist, jti)

	if err := r.redisClient.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}
