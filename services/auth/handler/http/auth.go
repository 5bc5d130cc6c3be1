package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minevista/portal-auth/internal/pkg/logger"
	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/internal/utils"
	"github.com/minevista/portal-auth/services/auth"
)

const (
	// HeaderAccessToken carries the issued access token. Credentials travel
	// in headers only, never in a JSON body.
	HeaderAccessToken = "X-Access-Token"
	// HeaderRefreshToken carries the issued refresh token
	HeaderRefreshToken = "X-Refresh-Token"
)

// AuthHandler handles HTTP requests for authentication operations
type AuthHandler struct {
	authUC auth.AuthUC
	cfg    *models.Config
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authUC auth.AuthUC, cfg *models.Config) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
		cfg:    cfg,
	}
}

// RequestOTP handles OTP issuance requests. Exactly one of msisdn or email
// must be present; the delivery channel follows the identifier.
func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req models.OTPRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	identifier, channel, err := pickIdentifier(req.MSISDN, req.Email)
	if err != nil {
		return utils.BadRequestResponse(c, "Exactly one of msisdn or email is required")
	}

	if err := h.authUC.RequestOTP(c.Request().Context(), identifier, channel); err != nil {
		return h.respondAuthError(c, err)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Verification code sent", nil)
}

// VerifyOTP handles code verification. On success the issued credentials are
// placed in response headers (portal users) or a session cookie (admins).
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req models.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	identifier, channel, err := pickIdentifier(req.MSISDN, req.Email)
	if err != nil {
		return utils.BadRequestResponse(c, "Exactly one of msisdn or email is required")
	}

	result, err := h.authUC.VerifyOTP(c.Request().Context(), identifier, req.OTP, c.RealIP(), channel)
	if err != nil {
		return h.respondAuthError(c, err)
	}

	h.setCredentials(c, result)

	return utils.SuccessResponse(c, http.StatusOK, "Authentication successful", authPayload(result))
}

// Refresh rotates a refresh token presented in the X-Refresh-Token header or
// the request body. The replacement pair is returned in response headers.
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := c.Request().Header.Get(HeaderRefreshToken)
	if refreshToken == "" {
		var req models.RefreshRequest
		if err := c.Bind(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return utils.BadRequestResponse(c, "Refresh token is required")
	}

	tokens, err := h.authUC.RefreshSession(c.Request().Context(), refreshToken, c.RealIP())
	if err != nil {
		return h.respondAuthError(c, err)
	}

	c.Response().Header().Set(HeaderAccessToken, tokens.AccessToken)
	c.Response().Header().Set(HeaderRefreshToken, tokens.RefreshToken)

	return utils.SuccessResponse(c, http.StatusOK, "Session refreshed", map[string]interface{}{
		"expires_at": tokens.ExpiresAt,
	})
}

// Logout invalidates whichever credential the request carries. It is
// idempotent: logging out twice succeeds both times.
func (h *AuthHandler) Logout(c echo.Context) error {
	req := models.LogoutRequest{
		RefreshToken: c.Request().Header.Get(HeaderRefreshToken),
	}
	if req.RefreshToken == "" {
		var body models.LogoutRequest
		if err := c.Bind(&body); err == nil {
			req.RefreshToken = body.RefreshToken
		}
	}
	if cookie, err := c.Cookie(h.cfg.Session.CookieName); err == nil {
		req.SessionID = cookie.Value
	}

	if err := h.authUC.Logout(c.Request().Context(), &req); err != nil {
		logger.Error("Logout failed", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to log out")
	}

	if req.SessionID != "" {
		h.clearSessionCookie(c)
	}

	return utils.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// Me returns the identity claims of the authenticated caller
func (h *AuthHandler) Me(c echo.Context) error {
	return utils.SuccessResponse(c, http.StatusOK, "Authenticated", map[string]interface{}{
		"user_id":      c.Get("user_id"),
		"role":         c.Get("user_role"),
		"account_type": c.Get("account_type"),
	})
}

// setCredentials places issued credentials in the transport layer: response
// headers for token pairs, an HttpOnly cookie for admin sessions.
func (h *AuthHandler) setCredentials(c echo.Context, result *models.AuthResult) {
	if result.Tokens != nil {
		c.Response().Header().Set(HeaderAccessToken, result.Tokens.AccessToken)
		c.Response().Header().Set(HeaderRefreshToken, result.Tokens.RefreshToken)
	}

	if result.Session != nil {
		c.SetCookie(&http.Cookie{
			Name:     h.cfg.Session.CookieName,
			Value:    result.Session.ID,
			Path:     "/",
			Expires:  result.Session.ExpiresAt,
			HttpOnly: true,
			Secure:   h.cfg.Session.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// respondAuthError maps domain errors to HTTP status codes. Verification
// failures all surface as 401 without distinguishing detail beyond the
// message; anything unmapped is a 500 with a generic body.
func (h *AuthHandler) respondAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidIdentifier):
		return utils.BadRequestResponse(c, "Invalid identifier")
	case errors.Is(err, auth.ErrMalformedCode):
		return utils.BadRequestResponse(c, "Malformed verification code")
	case errors.Is(err, auth.ErrRateLimited):
		return utils.TooManyRequestsResponse(c, "Too many requests, try again later")
	case errors.Is(err, auth.ErrDeliveryFailed):
		return utils.BadGatewayResponse(c, "Failed to deliver verification code")
	case errors.Is(err, auth.ErrNoActiveRequest):
		return utils.UnauthorizedResponse(c, "No active verification request")
	case errors.Is(err, auth.ErrOTPExpired):
		return utils.UnauthorizedResponse(c, "Verification code expired")
	case errors.Is(err, auth.ErrInvalidCode):
		return utils.UnauthorizedResponse(c, "Invalid verification code")
	case errors.Is(err, auth.ErrTooManyAttempts):
		return utils.UnauthorizedResponse(c, "Too many failed attempts, request a new code")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		return utils.UnauthorizedResponse(c, "Invalid or expired token")
	case errors.Is(err, auth.ErrSessionNotFound):
		return utils.UnauthorizedResponse(c, "Session not found")
	case errors.Is(err, auth.ErrAccountNotFound):
		return utils.ErrorResponseHandler(c, http.StatusForbidden, "No account for this identifier")
	case errors.Is(err, auth.ErrAccountInactive):
		return utils.ErrorResponseHandler(c, http.StatusForbidden, "Account is deactivated")
	default:
		logger.Error("Unhandled authentication error", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Internal server error")
	}
}

// authPayload builds the response body for a successful verification. Tokens
// never appear here; TokenPair serializes only its expiry.
func authPayload(result *models.AuthResult) map[string]interface{} {
	payload := map[string]interface{}{
		"account_id":   result.Principal.ID,
		"account_type": result.Principal.AccountType,
		"full_name":    result.Principal.FullName,
		"role":         result.Principal.Role,
	}
	if result.Tokens != nil {
		payload["expires_at"] = result.Tokens.ExpiresAt
	}
	if result.Session != nil {
		payload["session_expires_at"] = result.Session.ExpiresAt
	}
	return payload
}

// pickIdentifier enforces the exactly-one-identifier contract and infers the
// delivery channel from which field is present.
func pickIdentifier(msisdn, email string) (string, models.Channel, error) {
	switch {
	case msisdn != "" && email != "":
		return "", "", errors.New("ambiguous identifier")
	case msisdn != "":
		return msisdn, models.ChannelSMS, nil
	case email != "":
		return email, models.ChannelEmail, nil
	default:
		return "", "", errors.New("missing identifier")
	}
}
