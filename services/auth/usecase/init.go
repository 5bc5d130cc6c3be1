package usecase

import (
	"fmt"
	"regexp"

	"github.com/minevista/portal-auth/internal/pkg/models"
	"github.com/minevista/portal-auth/services/auth"
)

// AuthUC implements the authentication usecase
type AuthUC struct {
	authRepo    auth.AuthRepo
	authGW      auth.AuthGW
	cfg         *models.Config
	codePattern *regexp.Regexp
}

// NewAuthUC creates a new authentication usecase instance
func NewAuthUC(
	authRepo auth.AuthRepo,
	authGW auth.AuthGW,
	cfg *models.Config,
) *AuthUC {
	return &AuthUC{
		authRepo:    authRepo,
		authGW:      authGW,
		cfg:         cfg,
		codePattern: regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, cfg.OTP.CodeLength)),
	}
}
