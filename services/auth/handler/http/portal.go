package http

import (
	"github.com/labstack/echo/v4"

	"github.com/minevista/portal-auth/internal/utils"
)

// Form intents accepted by the portal login page. The page posts every
// action to a single endpoint and selects the operation with a hidden
// intent field.
const (
	IntentRequestPhoneOTP = "request-phone-otp"
	IntentRequestEmailOTP = "request-email-otp"
	IntentVerifyPhoneOTP  = "verify-phone-otp"
	IntentVerifyEmailOTP  = "verify-email-otp"
	IntentRefreshToken    = "refresh-token"
	IntentLogout          = "logout"
)

// PortalForm dispatches the portal login form to the matching operation
func (h *AuthHandler) PortalForm(c echo.Context) error {
	intent := c.FormValue("intent")

	switch intent {
	case IntentRequestPhoneOTP, IntentRequestEmailOTP:
		return h.RequestOTP(c)
	case IntentVerifyPhoneOTP, IntentVerifyEmailOTP:
		return h.VerifyOTP(c)
	case IntentRefreshToken:
		return h.Refresh(c)
	case IntentLogout:
		return h.Logout(c)
	default:
		return utils.BadRequestResponse(c, "Unknown form intent")
	}
}
