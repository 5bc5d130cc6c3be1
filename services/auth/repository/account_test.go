package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/services/auth"
)

func setupAccountRepoTest(t *testing.T) (*AuthRepo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")

	repo := &AuthRepo{
		cfg: &models.Config{},
		db:  sqlxDB,
	}

	return repo, mock
}

func portalUserRows(id uuid.UUID, msisdn, email string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "msisdn", "email", "full_name", "department", "role", "is_active"}).
		AddRow(id, msisdn, email, "Kwame Mensah", "Geology", "employee", active)
}

func adminUserRows(id uuid.UUID, msisdn, email string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "msisdn", "email", "full_name", "role", "is_active"}).
		AddRow(id, msisdn, email, "Ama Owusu", "admin", active)
}

func TestGetPrincipalByMSISDN_PortalUser(t *testing.T) {
	repo, mock := setupAccountRepoTest(t)

	id := uuid.New()
	msisdn := "233241234567"

	mock.ExpectQuery("FROM portal_users").
		WithArgs(msisdn).
		WillReturnRows(portalUserRows(id, msisdn, "kwame@minevista.com", true))

	principal, err := repo.GetPrincipalByMSISDN(context.Background(), msisdn)
	require.NoError(t, err)
	assert.Equal(t, id, principal.ID)
	assert.Equal(t, models.AccountTypePortal, principal.AccountType)
	assert.True(t, principal.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPrincipalByMSISDN_FallsBackToAdmin(t *testing.T) {
	repo, mock := setupAccountRepoTest(t)

	id := uuid.New()
	msisdn := "233551234567"

	// Lookup order: portal users first, admins only when no portal row matches
	mock.ExpectQuery("FROM portal_users").
		WithArgs(msisdn).
		WillReturnRows(sqlmock.NewRows([]string{"id", "msisdn", "email", "full_name", "department", "role", "is_active"}))
	mock.ExpectQuery("FROM admin_users").
		WithArgs(msisdn).
		WillReturnRows(adminUserRows(id, msisdn, "ama@minevista.com", true))

	principal, err := repo.GetPrincipalByMSISDN(context.Background(), msisdn)
	require.NoError(t, err)
	assert.Equal(t, id, principal.ID)
	assert.Equal(t, models.AccountTypeAdmin, principal.AccountType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPrincipalByMSISDN_NotFound(t *testing.T) {
	repo, mock := setupAccountRepoTest(t)

	msisdn := "233201234567"

	mock.ExpectQuery("FROM portal_users").
		WithArgs(msisdn).
		WillReturnRows(sqlmock.NewRows([]string{"id", "msisdn", "email", "full_name", "department", "role", "is_active"}))
	mock.ExpectQuery("FROM admin_users").
		WithArgs(msisdn).
		WillReturnRows(sqlmock.NewRows([]string{"id", "msisdn", "email", "full_name", "role", "is_active"}))

	_, err := repo.GetPrincipalByMSISDN(context.Background(), msisdn)
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPrincipalByEmail_PortalUser(t *testing.T) {
	repo, mock := setupAccountRepoTest(t)

	id := uuid.New()
	email := "kwame@minevista.com"

	mock.ExpectQuery("FROM portal_users").
		WithArgs(email).
		WillReturnRows(portalUserRows(id, "233241234567", email, true))

	principal, err := repo.GetPrincipalByEmail(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, id, principal.ID)
	assert.Equal(t, models.AccountTypePortal, principal.AccountType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPrincipalByID_Admin(t *testing.T) {
	repo, mock := setupAccountRepoTest(t)

	id := uuid.New()

	// Known account type skips the ordered lookup entirely
	mock.ExpectQuery("FROM admin_users").
		WithArgs(id.String()).
		WillReturnRows(adminUserRows(id, "233551234567", "ama@minevista.com", true))

	principal, err := repo.GetPrincipalByID(context.Background(), id, models.AccountTypeAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.AccountTypeAdmin, principal.AccountType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordLogin_PortalUser(t *testing.T) {
	repo, mock := setupAccountRepoTest(t)

	principal := &models.Principal{
		ID:          uuid.New(),
		AccountType: models.AccountTypePortal,
	}

	mock.ExpectExec("UPDATE portal_users").
		WithArgs(principal.ID, "10.20.30.40").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RecordLogin(context.Background(), principal, "10.20.30.40")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordLogin_Admin(t *testing.T) {
	repo, mock := setupAccountRepoTest(t)

	principal := &models.Principal{
		ID:          uuid.New(),
		AccountType: models.AccountTypeAdmin,
	}

	mock.ExpectExec("UPDATE admin_users").
		WithArgs(principal.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RecordLogin(context.Background(), principal, "10.20.30.40")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
