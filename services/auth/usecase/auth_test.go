package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minevista/portal-auth/internal/pkg/database"
	jwtpkg "github.com/minevista/portal-auth/internal/pkg/jwt"
	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/services/auth"
	"github.com/minevista/portal-auth/services/auth/mocks"
	"github.com/minevista/portal-auth/services/auth/repository"
)

func newTestConfig() *models.Config {
	cfg := &models.Config{}
	cfg.OTP.CodeLength = 6
	cfg.OTP.TTL = 300
	cfg.OTP.MaxAttempts = 5
	cfg.OTP.ResendCooldown = 60
	cfg.OTP.MaxPerWindow = 5
	cfg.OTP.WindowMinutes = 60
	cfg.JWT.Secret = "test-secret-key"
	cfg.JWT.AccessExpiration = 15
	cfg.JWT.RefreshExpiration = 10080
	cfg.JWT.Issuer = "portal-auth"
	cfg.Session.CookieName = "portal_admin_session"
	cfg.Session.TTLMinutes = 30
	return cfg
}

func setupAuthUCTest(t *testing.T) (*AuthUC, *mocks.MockAuthRepo, *mocks.MockAuthGW) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockAuthRepo(ctrl)
	mockGW := mocks.NewMockAuthGW(ctrl)
	uc := NewAuthUC(mockRepo, mockGW, newTestConfig())

	return uc, mockRepo, mockGW
}

func portalPrincipal() *models.Principal {
	return &models.Principal{
		ID:          uuid.New(),
		AccountType: models.AccountTypePortal,
		MSISDN:      "233241234567",
		Email:       "kwame@minevista.com",
		FullName:    "Kwame Mensah",
		Role:        "employee",
		IsActive:    true,
	}
}

func adminPrincipal() *models.Principal {
	return &models.Principal{
		ID:          uuid.New(),
		AccountType: models.AccountTypeAdmin,
		MSISDN:      "233551234567",
		Email:       "ama@minevista.com",
		FullName:    "Ama Owusu",
		Role:        "admin",
		IsActive:    true,
	}
}

func activeOTP(identifier, code string) *models.OTPRecord {
	now := time.Now()
	return &models.OTPRecord{
		Identifier: identifier,
		Channel:    models.ChannelSMS,
		Code:       code,
		Attempts:   0,
		CreatedAt:  now,
		ExpiresAt:  now.Add(5 * time.Minute),
	}
}

func TestRequestOTP_SMS_Success(t *testing.T) {
	uc, mockRepo, mockGW := setupAuthUCTest(t)

	var issuedCode string

	mockRepo.EXPECT().ReserveIssuance(gomock.Any(), "233241234567").Return(nil)
	mockRepo.EXPECT().CreateOTP(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, otp *models.OTPRecord) error {
			assert.Equal(t, "233241234567", otp.Identifier)
			assert.Equal(t, models.ChannelSMS, otp.Channel)
			assert.Len(t, otp.Code, 6)
			assert.Equal(t, 0, otp.Attempts)
			issuedCode = otp.Code
			return nil
		})
	mockGW.EXPECT().SendSMS(gomock.Any(), "233241234567", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, message string) error {
			assert.True(t, strings.Contains(message, issuedCode))
			return nil
		})

	// Local formats normalize to the international form
	err := uc.RequestOTP(context.Background(), "0241234567", models.ChannelSMS)
	assert.NoError(t, err)
}

func TestRequestOTP_Email_Success(t *testing.T) {
	uc, mockRepo, mockGW := setupAuthUCTest(t)

	mockRepo.EXPECT().ReserveIssuance(gomock.Any(), "kwame@minevista.com").Return(nil)
	mockRepo.EXPECT().CreateOTP(gomock.Any(), gomock.Any()).Return(nil)
	mockGW.EXPECT().SendEmail(gomock.Any(), "kwame@minevista.com", gomock.Any(), gomock.Any()).Return(nil)

	err := uc.RequestOTP(context.Background(), " Kwame@MineVista.com ", models.ChannelEmail)
	assert.NoError(t, err)
}

func TestRequestOTP_InvalidIdentifier(t *testing.T) {
	uc, _, _ := setupAuthUCTest(t)

	// Nothing is stored and nothing is sent for a malformed identifier
	err := uc.RequestOTP(context.Background(), "not-a-phone", models.ChannelSMS)
	assert.ErrorIs(t, err, auth.ErrInvalidIdentifier)

	err = uc.RequestOTP(context.Background(), "not-an-email", models.ChannelEmail)
	assert.ErrorIs(t, err, auth.ErrInvalidIdentifier)
}

func TestRequestOTP_RateLimited(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	mockRepo.EXPECT().ReserveIssuance(gomock.Any(), "233241234567").Return(auth.ErrRateLimited)

	err := uc.RequestOTP(context.Background(), "233241234567", models.ChannelSMS)
	assert.ErrorIs(t, err, auth.ErrRateLimited)
}

func TestRequestOTP_DeliveryFailureRollsBack(t *testing.T) {
	uc, mockRepo, mockGW := setupAuthUCTest(t)

	gomock.InOrder(
		mockRepo.EXPECT().ReserveIssuance(gomock.Any(), "233241234567").Return(nil),
		mockRepo.EXPECT().CreateOTP(gomock.Any(), gomock.Any()).Return(nil),
		mockGW.EXPECT().SendSMS(gomock.Any(), "233241234567", gomock.Any()).Return(errors.New("provider down")),
		// An undeliverable code must not be left outstanding, and the
		// throttle reservation goes back so an immediate retry works
		mockRepo.EXPECT().DeleteOTP(gomock.Any(), "233241234567").Return(nil),
		mockRepo.EXPECT().ReleaseIssuance(gomock.Any(), "233241234567").Return(nil),
	)

	err := uc.RequestOTP(context.Background(), "233241234567", models.ChannelSMS)
	assert.ErrorIs(t, err, auth.ErrDeliveryFailed)
}

func TestVerifyOTP_Success_PortalUser(t *testing.T) {
	uc, mockRepo, mockGW := setupAuthUCTest(t)

	principal := portalPrincipal()

	gomock.InOrder(
		mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").
			Return(activeOTP("233241234567", "123456"), nil),
		// Single-use: the record is consumed before account resolution
		mockRepo.EXPECT().ConsumeOTP(gomock.Any(), "233241234567", "123456").Return(nil),
		mockRepo.EXPECT().GetPrincipalByMSISDN(gomock.Any(), "233241234567").Return(principal, nil),
		mockRepo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any(), principal.ID, gomock.Any()).Return(nil),
		mockRepo.EXPECT().RecordLogin(gomock.Any(), principal, "10.20.30.40").Return(nil),
	)
	mockGW.EXPECT().PublishAuditEvent(gomock.Any(), gomock.Any()).Return(nil)

	result, err := uc.VerifyOTP(context.Background(), "233241234567", "123456", "10.20.30.40", models.ChannelSMS)
	require.NoError(t, err)

	require.NotNil(t, result.Tokens)
	assert.Nil(t, result.Session)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	// The access token carries the principal's identity
	claims, err := jwtpkg.ValidateToken(result.Tokens.AccessToken, uc.cfg.JWT.Secret, jwtpkg.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, principal.ID.String(), claims["user_id"])
	assert.Equal(t, string(models.AccountTypePortal), claims["account_type"])
}

func TestVerifyOTP_Success_Admin(t *testing.T) {
	uc, mockRepo, mockGW := setupAuthUCTest(t)

	principal := adminPrincipal()

	gomock.InOrder(
		mockRepo.EXPECT().GetOTP(gomock.Any(), "233551234567").
			Return(activeOTP("233551234567", "123456"), nil),
		mockRepo.EXPECT().ConsumeOTP(gomock.Any(), "233551234567", "123456").Return(nil),
		mockRepo.EXPECT().GetPrincipalByMSISDN(gomock.Any(), "233551234567").Return(principal, nil),
		mockRepo.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, session *models.AdminSession) error {
				assert.Equal(t, principal.ID, session.AccountID)
				assert.NotEmpty(t, session.ID)
				return nil
			}),
		mockRepo.EXPECT().RecordLogin(gomock.Any(), principal, gomock.Any()).Return(nil),
	)
	mockGW.EXPECT().PublishAuditEvent(gomock.Any(), gomock.Any()).Return(nil)

	result, err := uc.VerifyOTP(context.Background(), "233551234567", "123456", "10.20.30.40", models.ChannelSMS)
	require.NoError(t, err)

	// Admins get a server-side session, never a token pair
	require.NotNil(t, result.Session)
	assert.Nil(t, result.Tokens)
}

func TestVerifyOTP_MalformedCode(t *testing.T) {
	uc, _, _ := setupAuthUCTest(t)

	for _, code := range []string{"", "12345", "1234567", "12ab56", "123 56"} {
		_, err := uc.VerifyOTP(context.Background(), "233241234567", code, "", models.ChannelSMS)
		assert.ErrorIs(t, err, auth.ErrMalformedCode, "code %q", code)
	}
}

func TestVerifyOTP_NoActiveRequest(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").Return(nil, auth.ErrNoActiveRequest)

	_, err := uc.VerifyOTP(context.Background(), "233241234567", "123456", "", models.ChannelSMS)
	assert.ErrorIs(t, err, auth.ErrNoActiveRequest)
}

func TestVerifyOTP_Expired(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	expired := activeOTP("233241234567", "123456")
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	gomock.InOrder(
		mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").Return(expired, nil),
		mockRepo.EXPECT().DeleteOTP(gomock.Any(), "233241234567").Return(nil),
	)

	_, err := uc.VerifyOTP(context.Background(), "233241234567", "123456", "", models.ChannelSMS)
	assert.ErrorIs(t, err, auth.ErrOTPExpired)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	gomock.InOrder(
		mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").
			Return(activeOTP("233241234567", "123456"), nil),
		mockRepo.EXPECT().IncrementOTPAttempts(gomock.Any(), "233241234567").Return(1, nil),
	)

	_, err := uc.VerifyOTP(context.Background(), "233241234567", "654321", "", models.ChannelSMS)
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
}

func TestVerifyOTP_CorrectAfterWrongAttempts(t *testing.T) {
	uc, mockRepo, mockGW := setupAuthUCTest(t)

	principal := portalPrincipal()
	record := activeOTP("233241234567", "123456")

	// Three wrong guesses burn attempts but keep the record alive
	for i := 1; i <= 3; i++ {
		record.Attempts = i - 1
		mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").Return(record, nil)
		mockRepo.EXPECT().IncrementOTPAttempts(gomock.Any(), "233241234567").Return(i, nil)

		_, err := uc.VerifyOTP(context.Background(), "233241234567", "000000", "", models.ChannelSMS)
		assert.ErrorIs(t, err, auth.ErrInvalidCode)
	}

	// The correct code still succeeds
	mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").Return(record, nil)
	mockRepo.EXPECT().ConsumeOTP(gomock.Any(), "233241234567", "123456").Return(nil)
	mockRepo.EXPECT().GetPrincipalByMSISDN(gomock.Any(), "233241234567").Return(principal, nil)
	mockRepo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any(), principal.ID, gomock.Any()).Return(nil)
	mockRepo.EXPECT().RecordLogin(gomock.Any(), principal, gomock.Any()).Return(nil)
	mockGW.EXPECT().PublishAuditEvent(gomock.Any(), gomock.Any()).Return(nil)

	result, err := uc.VerifyOTP(context.Background(), "233241234567", "123456", "", models.ChannelSMS)
	require.NoError(t, err)
	assert.NotNil(t, result.Tokens)
}

func TestVerifyOTP_TooManyAttempts(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	gomock.InOrder(
		mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").
			Return(activeOTP("233241234567", "123456"), nil),
		mockRepo.EXPECT().IncrementOTPAttempts(gomock.Any(), "233241234567").Return(5, nil),
		// Exhausting the attempt budget consumes the record
		mockRepo.EXPECT().DeleteOTP(gomock.Any(), "233241234567").Return(nil),
	)

	_, err := uc.VerifyOTP(context.Background(), "233241234567", "654321", "", models.ChannelSMS)
	assert.ErrorIs(t, err, auth.ErrTooManyAttempts)
}

func TestVerifyOTP_ConsumedEvenWhenAccountMissing(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	gomock.InOrder(
		mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").
			Return(activeOTP("233241234567", "123456"), nil),
		// The code is consumed before resolution, so it cannot be replayed
		// against a freshly provisioned account
		mockRepo.EXPECT().ConsumeOTP(gomock.Any(), "233241234567", "123456").Return(nil),
		mockRepo.EXPECT().GetPrincipalByMSISDN(gomock.Any(), "233241234567").
			Return(nil, auth.ErrAccountNotFound),
	)

	_, err := uc.VerifyOTP(context.Background(), "233241234567", "123456", "", models.ChannelSMS)
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)
}

func TestVerifyOTP_ConsumeLostRace(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	gomock.InOrder(
		mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").
			Return(activeOTP("233241234567", "123456"), nil),
		// A concurrent verification consumed the record between the read and
		// the consume; the loser must not reach credential issuance
		mockRepo.EXPECT().ConsumeOTP(gomock.Any(), "233241234567", "123456").
			Return(auth.ErrNoActiveRequest),
	)

	_, err := uc.VerifyOTP(context.Background(), "233241234567", "123456", "", models.ChannelSMS)
	assert.ErrorIs(t, err, auth.ErrNoActiveRequest)
}

func TestVerifyOTP_ConcurrentDoubleSubmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := newTestConfig()
	repo := repository.NewAuthRepo(cfg,
		sqlx.NewDb(db, "sqlmock"),
		&database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})})

	mockGW := mocks.NewMockAuthGW(ctrl)
	uc := NewAuthUC(repo, mockGW, cfg)

	principal := portalPrincipal()
	const iterations = 50

	mockGW.EXPECT().PublishAuditEvent(gomock.Any(), gomock.Any()).Return(nil).Times(iterations)

	for i := 0; i < iterations; i++ {
		record := activeOTP(principal.MSISDN, "123456")
		require.NoError(t, repo.CreateOTP(context.Background(), record))

		// Only the winning verification reaches the database
		dbMock.ExpectQuery("FROM portal_users").
			WithArgs(principal.MSISDN).
			WillReturnRows(sqlmock.NewRows([]string{"id", "msisdn", "email", "full_name", "department", "role", "is_active"}).
				AddRow(principal.ID, principal.MSISDN, principal.Email, principal.FullName, "Geology", principal.Role, true))
		dbMock.ExpectExec("UPDATE portal_users").
			WithArgs(principal.ID, "10.20.30.40").
			WillReturnResult(sqlmock.NewResult(0, 1))

		type outcome struct {
			result *models.AuthResult
			err    error
		}
		outcomes := make(chan outcome, 2)
		var wg sync.WaitGroup
		for g := 0; g < 2; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, verr := uc.VerifyOTP(context.Background(), principal.MSISDN, "123456", "10.20.30.40", models.ChannelSMS)
				outcomes <- outcome{result: res, err: verr}
			}()
		}
		wg.Wait()
		close(outcomes)

		// The same code submitted twice grants credentials exactly once
		successes := 0
		for o := range outcomes {
			if o.err == nil {
				successes++
				require.NotNil(t, o.result)
				assert.NotNil(t, o.result.Tokens)
			} else {
				assert.ErrorIs(t, o.err, auth.ErrNoActiveRequest)
			}
		}
		assert.Equal(t, 1, successes, "iteration %d", i)
	}

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestVerifyOTP_InactiveAccount(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	principal := portalPrincipal()
	principal.IsActive = false

	gomock.InOrder(
		mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").
			Return(activeOTP("233241234567", "123456"), nil),
		mockRepo.EXPECT().ConsumeOTP(gomock.Any(), "233241234567", "123456").Return(nil),
		mockRepo.EXPECT().GetPrincipalByMSISDN(gomock.Any(), "233241234567").Return(principal, nil),
	)

	_, err := uc.VerifyOTP(context.Background(), "233241234567", "123456", "", models.ChannelSMS)
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestVerifyOTP_RecordLoginFailureTolerated(t *testing.T) {
	uc, mockRepo, mockGW := setupAuthUCTest(t)

	principal := portalPrincipal()

	mockRepo.EXPECT().GetOTP(gomock.Any(), "233241234567").
		Return(activeOTP("233241234567", "123456"), nil)
	mockRepo.EXPECT().ConsumeOTP(gomock.Any(), "233241234567", "123456").Return(nil)
	mockRepo.EXPECT().GetPrincipalByMSISDN(gomock.Any(), "233241234567").Return(principal, nil)
	mockRepo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any(), principal.ID, gomock.Any()).Return(nil)
	// Bookkeeping failures must not fail an otherwise valid login
	mockRepo.EXPECT().RecordLogin(gomock.Any(), principal, gomock.Any()).Return(errors.New("db down"))
	mockGW.EXPECT().PublishAuditEvent(gomock.Any(), gomock.Any()).Return(errors.New("nats down"))

	result, err := uc.VerifyOTP(context.Background(), "233241234567", "123456", "", models.ChannelSMS)
	require.NoError(t, err)
	assert.NotNil(t, result.Tokens)
}

func TestRefreshSession_Success(t *testing.T) {
	uc, mockRepo, mockGW := setupAuthUCTest(t)

	principal := portalPrincipal()
	refreshToken, jti, err := jwtpkg.GenerateRefreshToken(principal, uc.cfg)
	require.NoError(t, err)

	gomock.InOrder(
		mockRepo.EXPECT().ConsumeRefreshToken(gomock.Any(), jti).Return(principal.ID, nil),
		mockRepo.EXPECT().GetPrincipalByID(gomock.Any(), principal.ID, models.AccountTypePortal).Return(principal, nil),
		mockRepo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any(), principal.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, newJTI string, _ uuid.UUID, _ time.Duration) error {
				// Rotation registers a brand-new jti
				assert.NotEqual(t, jti, newJTI)
				return nil
			}),
	)
	mockGW.EXPECT().PublishAuditEvent(gomock.Any(), gomock.Any()).Return(nil)

	tokens, err := uc.RefreshSession(context.Background(), refreshToken, "10.20.30.40")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEqual(t, refreshToken, tokens.RefreshToken)
}

func TestRefreshSession_GarbageToken(t *testing.T) {
	uc, _, _ := setupAuthUCTest(t)

	_, err := uc.RefreshSession(context.Background(), "not-a-jwt", "")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshSession_AccessTokenRejected(t *testing.T) {
	uc, _, _ := setupAuthUCTest(t)

	principal := portalPrincipal()
	accessToken, _, err := jwtpkg.GenerateAccessToken(principal, uc.cfg)
	require.NoError(t, err)

	// An access token is never accepted where a refresh token is required
	_, err = uc.RefreshSession(context.Background(), accessToken, "")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshSession_ExpiredToken(t *testing.T) {
	uc, _, _ := setupAuthUCTest(t)

	claims := jwt.MapClaims{
		"user_id":      uuid.New().String(),
		"account_type": string(models.AccountTypePortal),
		"typ":          jwtpkg.TypeRefresh,
		"jti":          uuid.New().String(),
		"exp":          time.Now().Add(-time.Hour).Unix(),
		"iss":          uc.cfg.JWT.Issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(uc.cfg.JWT.Secret))
	require.NoError(t, err)

	_, err = uc.RefreshSession(context.Background(), tokenString, "")
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestRefreshSession_AlreadyConsumed(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	principal := portalPrincipal()
	refreshToken, jti, err := jwtpkg.GenerateRefreshToken(principal, uc.cfg)
	require.NoError(t, err)

	mockRepo.EXPECT().ConsumeRefreshToken(gomock.Any(), jti).Return(uuid.Nil, auth.ErrInvalidToken)

	_, err = uc.RefreshSession(context.Background(), refreshToken, "")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshSession_OwnerMismatch(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	principal := portalPrincipal()
	refreshToken, jti, err := jwtpkg.GenerateRefreshToken(principal, uc.cfg)
	require.NoError(t, err)

	// The allowlist entry belongs to someone else: reject
	mockRepo.EXPECT().ConsumeRefreshToken(gomock.Any(), jti).Return(uuid.New(), nil)

	_, err = uc.RefreshSession(context.Background(), refreshToken, "")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogout_AdminSession(t *testing.T) {
	uc, mockRepo, mockGW := setupAuthUCTest(t)

	session := &models.AdminSession{
		ID:        uuid.New().String(),
		AccountID: uuid.New(),
		MSISDN:    "233551234567",
		Role:      "admin",
	}

	gomock.InOrder(
		mockRepo.EXPECT().GetSession(gomock.Any(), session.ID).Return(session, nil),
		mockRepo.EXPECT().DeleteSession(gomock.Any(), session.ID).Return(nil),
	)
	mockGW.EXPECT().PublishAuditEvent(gomock.Any(), gomock.Any()).Return(nil)

	err := uc.Logout(context.Background(), &models.LogoutRequest{SessionID: session.ID})
	assert.NoError(t, err)
}

func TestLogout_AdminSessionAlreadyGone(t *testing.T) {
	uc, mockRepo, _ := setupAuthUCTest(t)

	sessionID := uuid.New().String()
	mockRepo.EXPECT().GetSession(gomock.Any(), sessionID).Return(nil, auth.ErrSessionNotFound)

	// Logout is idempotent
	err := uc.Logout(context.Background(), &models.LogoutRequest{SessionID: sessionID})
	assert.NoError(t, err)
}

func TestLogout_PortalRefreshToken(t *testing.T) {
	uc, mockRepo, mockGW := setupAuthUCTest(t)

	principal := portalPrincipal()
	refreshToken, jti, err := jwtpkg.GenerateRefreshToken(principal, uc.cfg)
	require.NoError(t, err)

	mockRepo.EXPECT().RevokeRefreshToken(gomock.Any(), jti).Return(nil)
	mockGW.EXPECT().PublishAuditEvent(gomock.Any(), gomock.Any()).Return(nil)

	err = uc.Logout(context.Background(), &models.LogoutRequest{RefreshToken: refreshToken})
	assert.NoError(t, err)
}

func TestLogout_GarbageRefreshToken(t *testing.T) {
	uc, _, _ := setupAuthUCTest(t)

	// A token that validates to nothing holds nothing worth revoking
	err := uc.Logout(context.Background(), &models.LogoutRequest{RefreshToken: "garbage"})
	assert.NoError(t, err)
}

func TestLogout_NoCredentials(t *testing.T) {
	uc, _, _ := setupAuthUCTest(t)

	err := uc.Logout(context.Background(), &models.LogoutRequest{})
	assert.NoError(t, err)
}
