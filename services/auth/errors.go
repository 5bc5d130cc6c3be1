package auth

import "errors"

// Expected authentication outcomes. Handlers translate these into HTTP
// status codes and user-facing messages; anything else is treated as an
// infrastructure fault and surfaced as a generic failure.
var (
	ErrInvalidIdentifier = errors.New("invalid phone number or email address")
	ErrDeliveryFailed    = errors.New("failed to deliver verification code")
	ErrRateLimited       = errors.New("too many code requests, try again later")
	ErrMalformedCode     = errors.New("verification code has an invalid format")
	ErrNoActiveRequest   = errors.New("no active verification request")
	ErrOTPExpired        = errors.New("verification code expired")
	ErrInvalidCode       = errors.New("incorrect verification code")
	ErrTooManyAttempts   = errors.New("too many incorrect attempts, request a new code")
	ErrAccountNotFound   = errors.New("no account found for this identifier")
	ErrAccountInactive   = errors.New("account is disabled")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrSessionNotFound   = errors.New("session not found")
)
