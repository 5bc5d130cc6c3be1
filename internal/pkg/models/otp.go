package models

import (
	"time"
)

// Channel identifies how an OTP code is delivered to its owner.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// OTPRecord represents a one-time passcode issued for an identifier.
// The identifier is a normalized MSISDN or a normalized email address.
type OTPRecord struct {
	Identifier string    `json:"identifier" redis:"identifier"`
	Channel    Channel   `json:"channel" redis:"channel"`
	Code       string    `json:"code" redis:"code"`
	Attempts   int       `json:"attempts" redis:"attempts"`
	CreatedAt  time.Time `json:"created_at" redis:"created_at"`
	ExpiresAt  time.Time `json:"expires_at" redis:"expires_at"`
}

// Expired reports whether the record has passed its expiry time.
func (o *OTPRecord) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// OTPRequest represents a request to send an OTP. Exactly one of the two
// fields must be populated; the delivery channel is inferred from it.
type OTPRequest struct {
	MSISDN string `json:"msisdn,omitempty" form:"msisdn"`
	Email  string `json:"email,omitempty" form:"email"`
}

// VerifyRequest represents a request to verify an OTP
type VerifyRequest struct {
	MSISDN string `json:"msisdn,omitempty" form:"msisdn"`
	Email  string `json:"email,omitempty" form:"email"`
	OTP    string `json:"otp" form:"otp"`
}

// AuthResult is the outcome of a successful OTP verification. Exactly one of
// Tokens (portal users) or Session (admin users) is populated; the handler
// turns it into headers or a cookie, never a response body field.
type AuthResult struct {
	Principal *Principal
	Tokens    *TokenPair
	Session   *AdminSession
}
