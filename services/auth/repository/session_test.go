package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minevista/portal-auth/internal/pkg/constants"
	"github.com/minevista/portal-auth/internal/pkg/database"
	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/services/auth"

	"github.com/alicebob/miniredis/v2"
)

func setupSessionRepoTest(t *testing.T) (*AuthRepo, *miniredis.Miniredis) {
	mr, client := setupMiniredis(t)

	repo := &AuthRepo{
		cfg: &models.Config{},
		redisClient: &database.RedisClient{
			Client: client,
		},
	}

	return repo, mr
}

func newTestSession() *models.AdminSession {
	now := time.Now()
	return &models.AdminSession{
		ID:        uuid.New().String(),
		AccountID: uuid.New(),
		MSISDN:    "233241234567",
		Role:      "admin",
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
	}
}

func TestCreateAndGetSession(t *testing.T) {
	repo, mr := setupSessionRepoTest(t)
	defer mr.Close()

	session := newTestSession()

	err := repo.CreateSession(context.Background(), session)
	require.NoError(t, err)

	key := fmt.Sprintf(constants.KeyAdminSession, session.ID)
	assert.True(t, mr.TTL(key) > 0)

	stored, err := repo.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, stored.ID)
	assert.Equal(t, session.AccountID, stored.AccountID)
	assert.Equal(t, session.Role, stored.Role)
}

func TestGetSession_NotFound(t *testing.T) {
	repo, mr := setupSessionRepoTest(t)
	defer mr.Close()

	_, err := repo.GetSession(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestGetSession_ExpiredByTTL(t *testing.T) {
	repo, mr := setupSessionRepoTest(t)
	defer mr.Close()

	session := newTestSession()
	require.NoError(t, repo.CreateSession(context.Background(), session))

	mr.FastForward(31 * time.Minute)

	_, err := repo.GetSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	repo, mr := setupSessionRepoTest(t)
	defer mr.Close()

	session := newTestSession()
	require.NoError(t, repo.CreateSession(context.Background(), session))

	err := repo.DeleteSession(context.Background(), session.ID)
	assert.NoError(t, err)

	_, err = repo.GetSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)

	// Deleting a session twice is not an error
	assert.NoError(t, repo.DeleteSession(context.Background(), session.ID))
}

func TestStoreAndConsumeRefreshToken(t *testing.T) {
	repo, mr := setupSessionRepoTest(t)
	defer mr.Close()

	jti := uuid.New().String()
	accountID := uuid.New()

	err := repo.StoreRefreshToken(context.Background(), jti, accountID, time.Hour)
	require.NoError(t, err)

	ownerID, err := repo.ConsumeRefreshToken(context.Background(), jti)
	require.NoError(t, err)
	assert.Equal(t, accountID, ownerID)

	// Consuming is destructive: a second consume fails
	_, err = repo.ConsumeRefreshToken(context.Background(), jti)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestConsumeRefreshToken_Unknown(t *testing.T) {
	repo, mr := setupSessionRepoTest(t)
	defer mr.Close()

	_, err := repo.ConsumeRefreshToken(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestConsumeRefreshToken_ExpiredByTTL(t *testing.T) {
	repo, mr := setupSessionRepoTest(t)
	defer mr.Close()

	jti := uuid.New().String()
	require.NoError(t, repo.StoreRefreshToken(context.Background(), jti, uuid.New(), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := repo.ConsumeRefreshToken(context.Background(), jti)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRevokeRefreshToken(t *testing.T) {
	repo, mr := setupSessionRepoTest(t)
	defer mr.Close()

	jti := uuid.New().String()
	require.NoError(t, repo.StoreRefreshToken(context.Background(), jti, uuid.New(), time.Hour))

	err := repo.RevokeRefreshToken(context.Background(), jti)
	assert.NoError(t, err)

	_, err = repo.ConsumeRefreshToken(context.Background(), jti)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	// Revoking an already-revoked token is not an error
	assert.NoError(t, repo.RevokeRefreshToken(context.Background(), jti))
}
