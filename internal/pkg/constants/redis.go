package constants

// Redis key formats
const (
	KeyAuthOTP          = "auth:otp:%s"          // Format: auth:otp:{identifier}
	KeyAuthOTPCooldown  = "auth:otp:cooldown:%s" // Format: auth:otp:cooldown:{identifier}
	KeyAuthOTPIssued    = "auth:otp:issued:%s"   // Format: auth:otp:issued:{identifier}
	KeyAdminSession     = "auth:session:%s"      // Format: auth:session:{session_id}
	KeyRefreshAllowlist = "auth:refresh:%s"      // Format: auth:refresh:{jti}

	// Rate Limiting
	KeyRateLimit = "rate:limit:%s:%s" // Format: rate:limit:{resource}:{ip}
)

// Redis hash fields of an OTP record
const (
	FieldIdentifier = "identifier"
	FieldChannel    = "channel"
	FieldCode       = "code"
	FieldAttempts   = "attempts"
	FieldCreatedAt  = "created_at"
	FieldExpiresAt  = "expires_at"
)
