package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/minevista/portal-auth/internal/pkg/constants"
	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/services/auth"
)

// incrementAttemptsScript atomically increments the attempt counter of an
// existing OTP record. Returns -1 when no record exists so two concurrent
// wrong guesses cannot both observe a fresh counter.
var incrementAttemptsScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], ARGV[1], 1)
`)

// consumeOTPScript deletes a record only when it still holds the code the
// caller verified, in one step. Two concurrent verifications of the same
// code can both pass the comparison, but only one consume succeeds.
var consumeOTPScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], ARGV[1]) ~= ARGV[2] then
	return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

// releaseIssuanceScript undoes a reservation: drops the resend cooldown and
// gives the window slot back without ever pushing the counter negative.
var releaseIssuanceScript = redis.NewScript(`
redis.call("DEL", KEYS[1])
if redis.call("EXISTS", KEYS[2]) == 1 then
	redis.call("DECR", KEYS[2])
end
return 1
`)

// CreateOTP stores a new OTP record, superseding any prior record for the
// identifier. The record expires with the key's TTL.
func (r *AuthRepo) CreateOTP(ctx context.Context, otp *models.OTPRecord) error {
	key := fmt.Sprintf(constants.KeyAuthOTP, otp.Identifier)

	fields := map[string]interface{}{
		constants.FieldIdentifier: otp.Identifier,
		constants.FieldChannel:    string(otp.Channel),
		constants.FieldCode:       otp.Code,
		constants.FieldAttempts:   otp.Attempts,
		constants.FieldCreatedAt:  otp.CreatedAt.Format(time.RFC3339Nano),
		constants.FieldExpiresAt:  otp.ExpiresAt.Format(time.RFC3339Nano),
	}

	// Replace-and-expire in one transaction so a concurrent verify never
	// observes a half-written record.
	pipe := r.redisClient.Client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	pipe.ExpireAt(ctx, key, otp.ExpiresAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create OTP record: %w", err)
	}

	return nil
}

// GetOTP retrieves the authoritative OTP record for an identifier
func (r *AuthRepo) GetOTP(ctx context.Context, identifier string) (*models.OTPRecord, error) {
	key := fmt.Sprintf(constants.KeyAuthOTP, identifier)

	fields, err := r.redisClient.Client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get OTP record: %w", err)
	}
	if len(fields) == 0 {
		return nil, auth.ErrNoActiveRequest
	}

	attempts, err := strconv.Atoi(fields[constants.FieldAttempts])
	if err != nil {
		return nil, fmt.Errorf("corrupt OTP record for %s: %w", identifier, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields[constants.FieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("corrupt OTP record for %s: %w", identifier, err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, fields[constants.FieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("corrupt OTP record for %s: %w", identifier, err)
	}

	return &models.OTPRecord{
		Identifier: fields[constants.FieldIdentifier],
		Channel:    models.Channel(fields[constants.FieldChannel]),
		Code:       fields[constants.FieldCode],
		Attempts:   attempts,
		CreatedAt:  createdAt,
		ExpiresAt:  expiresAt,
	}, nil
}

// IncrementOTPAttempts atomically increments the failed-attempt counter and
// returns the new count. Fails with ErrNoActiveRequest when the record has
// already been consumed or expired.
func (r *AuthRepo) IncrementOTPAttempts(ctx context.Context, identifier string) (int, error) {
	key := fmt.Sprintf(constants.KeyAuthOTP, identifier)

	count, err := incrementAttemptsScript.Run(ctx, r.redisClient.Client, []string{key}, constants.FieldAttempts).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to increment OTP attempts: %w", err)
	}
	if count < 0 {
		return 0, auth.ErrNoActiveRequest
	}

	return count, nil
}

// DeleteOTP removes the OTP record for an identifier
func (r *AuthRepo) DeleteOTP(ctx context.Context, identifier string) error {
	key := fmt.Sprintf(constants.KeyAuthOTP, identifier)

	if err := r.redisClient.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete OTP record: %w", err)
	}

	return nil
}

// ConsumeOTP atomically removes the record for an identifier, provided it
// still holds the given code. Fails with ErrNoActiveRequest when the record
// was already consumed, expired, or superseded, so a double-submitted code
// grants credentials exactly once.
func (r *AuthRepo) ConsumeOTP(ctx context.Context, identifier, code string) error {
	key := fmt.Sprintf(constants.KeyAuthOTP, identifier)

	consumed, err := consumeOTPScript.Run(ctx, r.redisClient.Client, []string{key}, constants.FieldCode, code).Int()
	if err != nil {
		return fmt.Errorf("failed to consume OTP record: %w", err)
	}
	if consumed == 0 {
		return auth.ErrNoActiveRequest
	}

	return nil
}

// ReserveIssuance enforces the per-identifier issuance throttle: a resend
// cooldown plus a cap on codes issued per rolling window. Fails with
// ErrRateLimited when either is exceeded.
func (r *AuthRepo) ReserveIssuance(ctx context.Context, identifier string) error {
	cooldownKey := fmt.Sprintf(constants.KeyAuthOTPCooldown, identifier)
	cooldown := time.Duration(r.cfg.OTP.ResendCooldown) * time.Second

	ok, err := r.redisClient.Client.SetNX(ctx, cooldownKey, 1, cooldown).Result()
	if err != nil {
		return fmt.Errorf("failed to check issuance cooldown: %w", err)
	}
	if !ok {
		return auth.ErrRateLimited
	}

	issuedKey := fmt.Sprintf(constants.KeyAuthOTPIssued, identifier)
	count, err := r.redisClient.Client.Incr(ctx, issuedKey).Result()
	if err != nil {
		return fmt.Errorf("failed to count issuances: %w", err)
	}
	if count == 1 {
		window := time.Duration(r.cfg.OTP.WindowMinutes) * time.Minute
		if err := r.redisClient.Client.Expire(ctx, issuedKey, window).Err(); err != nil {
			return fmt.Errorf("failed to set issuance window: %w", err)
		}
	}
	if count > int64(r.cfg.OTP.MaxPerWindow) {
		return auth.ErrRateLimited
	}

	return nil
}

// ReleaseIssuance returns a reservation taken by ReserveIssuance. Used when
// code delivery fails, so the caller can retry immediately instead of
// waiting out the resend cooldown.
func (r *AuthRepo) ReleaseIssuance(ctx context.Context, identifier string) error {
	cooldownKey := fmt.Sprintf(constants.KeyAuthOTPCooldown, identifier)
	issuedKey := fmt.Sprintf(constants.KeyAuthOTPIssued, identifier)

	if err := releaseIssuanceScript.Run(ctx, r.redisClient.Client, []string{cooldownKey, issuedKey}).Err(); err != nil {
		return fmt.Errorf("failed to release issuance reservation: %w", err)
	}

	return nil
}
