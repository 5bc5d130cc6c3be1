package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenPair holds the signed access/refresh tokens issued to portal users.
// Tokens travel in response headers only.
type TokenPair struct {
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
	ExpiresAt    int64  `json:"expires_at"`
}

// AdminSession represents a server-side session for an admin user,
// referenced from the client by an opaque cookie value.
type AdminSession struct {
	ID        string    `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	MSISDN    string    `json:"msisdn"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RefreshRequest carries a refresh token submitted through the form contract
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// LogoutRequest identifies the credentials to invalidate. Either field may
// be empty depending on the account variant.
type LogoutRequest struct {
	SessionID    string `json:"-" form:"-"`
	RefreshToken string `json:"refresh_token,omitempty" form:"refresh_token"`
}
