package handler

import (
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/minevista/portal-auth/internal/pkg/database"
	jwtpkg "github.com/minevista/portal-auth/internal/pkg/jwt"
	"github.com/minevista/portal-auth/internal/pkg/middleware"
	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/services/auth/handler/http"
)

// Handler coordinates the protocol handlers for the auth service
type Handler struct {
	authHandler *http.AuthHandler
	redisClient *database.RedisClient
	cfg         *models.Config
}

// NewHandler creates and initializes all handlers
func NewHandler(
	authHandler *http.AuthHandler,
	redisClient *database.RedisClient,
	cfg *models.Config,
) *Handler {
	return &Handler{
		authHandler: authHandler,
		redisClient: redisClient,
		cfg:         cfg,
	}
}

// GetJWTMiddleware returns the configured JWT middleware for protected
// routes. Token validation goes through the shared validator so a refresh
// token is never accepted where an access token is required.
func (h *Handler) GetJWTMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := jwtpkg.ValidateToken(tokenString, h.cfg.JWT.Secret, jwtpkg.TypeAccess)
			if err != nil {
				return nil, err
			}
			c.Set("user_id", claims["user_id"])
			c.Set("user_role", claims["role"])
			c.Set("account_type", claims["account_type"])
			return claims, nil
		},
	})
}

// RegisterRoutes registers all handlers and their routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Issuance endpoints carry an IP throttle on top of the per-identifier
	// throttle inside the usecase.
	otpLimiter := middleware.IPRateLimiter("otp", 10, time.Minute, h.redisClient.Client)

	authGroup := e.Group("/auth")
	authGroup.POST("/otp/request", h.authHandler.RequestOTP, otpLimiter)
	authGroup.POST("/otp/verify", h.authHandler.VerifyOTP, otpLimiter)
	authGroup.POST("/refresh", h.authHandler.Refresh)
	authGroup.POST("/logout", h.authHandler.Logout)

	// Single endpoint backing the portal login form
	authGroup.POST("/portal", h.authHandler.PortalForm, otpLimiter)

	// Protected routes
	protected := e.Group("/auth", h.GetJWTMiddleware())
	protected.GET("/me", h.authHandler.Me)
}
