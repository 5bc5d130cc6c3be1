package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/services/auth"
)

// GetPrincipalByMSISDN resolves a normalized MSISDN to a principal.
// Ordered lookup: the portal collection is authoritative, admins are the
// fallback.
func (r *AuthRepo) GetPrincipalByMSISDN(ctx context.Context, msisdn string) (*models.Principal, error) {
	return r.resolvePrincipal(ctx, "msisdn", msisdn)
}

// GetPrincipalByEmail resolves a normalized email address to a principal
// using the same ordered lookup as MSISDN resolution.
func (r *AuthRepo) GetPrincipalByEmail(ctx context.Context, email string) (*models.Principal, error) {
	return r.resolvePrincipal(ctx, "email", email)
}

// resolvePrincipal performs the ordered two-collection lookup. The column is
// always a fixed identifier column, never caller input.
func (r *AuthRepo) resolvePrincipal(ctx context.Context, column, value string) (*models.Principal, error) {
	principal, err := r.getPortalPrincipal(ctx, column, value)
	if err == nil {
		return principal, nil
	}
	if !errors.Is(err, auth.ErrAccountNotFound) {
		return nil, err
	}

	return r.getAdminPrincipal(ctx, column, value)
}

// GetPrincipalByID retrieves a principal by ID from its known collection
func (r *AuthRepo) GetPrincipalByID(ctx context.Context, id uuid.UUID, accountType models.AccountType) (*models.Principal, error) {
	if accountType == models.AccountTypeAdmin {
		return r.getAdminPrincipal(ctx, "id", id.String())
	}
	return r.getPortalPrincipal(ctx, "id", id.String())
}

func (r *AuthRepo) getPortalPrincipal(ctx context.Context, column, value string) (*models.Principal, error) {
	query := fmt.Sprintf(`
		SELECT id, msisdn, email, full_name, department, role, is_active
		FROM portal_users
		WHERE %s = $1
	`, column)

	var p models.Principal
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&p.ID,
		&p.MSISDN,
		&p.Email,
		&p.FullName,
		&p.Department,
		&p.Role,
		&p.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get portal user: %w", err)
	}

	p.AccountType = models.AccountTypePortal
	return &p, nil
}

func (r *AuthRepo) getAdminPrincipal(ctx context.Context, column, value string) (*models.Principal, error) {
	query := fmt.Sprintf(`
		SELECT id, msisdn, email, full_name, role, is_active
		FROM admin_users
		WHERE %s = $1
	`, column)

	var p models.Principal
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&p.ID,
		&p.MSISDN,
		&p.Email,
		&p.FullName,
		&p.Role,
		&p.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	p.AccountType = models.AccountTypeAdmin
	return &p, nil
}

// RecordLogin updates login bookkeeping on the principal's account row
func (r *AuthRepo) RecordLogin(ctx context.Context, principal *models.Principal, clientIP string) error {
	if principal.IsAdmin() {
		query := `
			UPDATE admin_users
			SET last_login = NOW(), updated_at = NOW()
			WHERE id = $1
		`
		if _, err := r.db.ExecContext(ctx, query, principal.ID); err != nil {
			return fmt.Errorf("failed to record admin login: %w", err)
		}
		return nil
	}

	query := `
		UPDATE portal_users
		SET last_login = NOW(),
			last_login_ip = $2,
			login_count = login_count + 1,
			is_verified = TRUE,
			updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, principal.ID, clientIP); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}

	return nil
}
