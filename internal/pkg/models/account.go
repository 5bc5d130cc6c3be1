package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountType distinguishes the two account collections a principal may
// resolve from. Portal users are checked first, admin users second.
type AccountType string

const (
	AccountTypePortal AccountType = "portal"
	AccountTypeAdmin  AccountType = "admin"
)

// PortalUser represents an ordinary intranet portal account
type PortalUser struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	MSISDN      string     `json:"msisdn" db:"msisdn"`
	Email       string     `json:"email" db:"email"`
	FullName    string     `json:"full_name" db:"full_name"`
	Department  string     `json:"department" db:"department"`
	Role        string     `json:"role" db:"role"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	IsVerified  bool       `json:"is_verified" db:"is_verified"`
	LastLogin   *time.Time `json:"last_login,omitempty" db:"last_login"`
	LastLoginIP string     `json:"last_login_ip,omitempty" db:"last_login_ip"`
	LoginCount  int        `json:"login_count" db:"login_count"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// AdminUser represents an administrative account with an elevated role
type AdminUser struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	MSISDN    string     `json:"msisdn" db:"msisdn"`
	Email     string     `json:"email" db:"email"`
	FullName  string     `json:"full_name" db:"full_name"`
	Role      string     `json:"role" db:"role"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// Principal is the unified authenticatable view over the two account
// variants. Authentication code never touches the concrete rows directly.
type Principal struct {
	ID          uuid.UUID   `json:"id"`
	AccountType AccountType `json:"account_type"`
	MSISDN      string      `json:"msisdn"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	Department  string      `json:"department,omitempty"`
	Role        string      `json:"role"`
	IsActive    bool        `json:"is_active"`
}

// IsAdmin reports whether the principal resolved from the admin collection
func (p *Principal) IsAdmin() bool {
	return p.AccountType == AccountTypeAdmin
}
