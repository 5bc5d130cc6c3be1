package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/minevista/portal-auth/internal/pkg/models"
)

const (
	// TypeAccess marks short-lived tokens accepted by protected routes
	TypeAccess = "access"
	// TypeRefresh marks tokens accepted only by the refresh operation
	TypeRefresh = "refresh"
)

// ErrTokenExpired is returned when a token's signature is valid but its
// expiry has passed.
var ErrTokenExpired = errors.New("token expired")

// GenerateAccessToken generates a signed access token for the principal
func GenerateAccessToken(p *models.Principal, cfg *models.Config) (string, int64, error) {
	expirationTime := time.Now().Add(time.Duration(cfg.JWT.AccessExpiration) * time.Minute)
	expiresAt := expirationTime.Unix()

	claims := jwt.MapClaims{
		"user_id":      p.ID.String(),
		"msisdn":       p.MSISDN,
		"role":         p.Role,
		"account_type": string(p.AccountType),
		"typ":          TypeAccess,
		"exp":          expiresAt,
		"iss":          cfg.JWT.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(cfg.JWT.Secret))
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresAt, nil
}

// GenerateRefreshToken generates a signed refresh token carrying a fresh jti.
// The jti must be registered in the refresh allowlist before the token is
// honored; rotation consumes it.
func GenerateRefreshToken(p *models.Principal, cfg *models.Config) (string, string, error) {
	jti := uuid.New().String()
	expirationTime := time.Now().Add(time.Duration(cfg.JWT.RefreshExpiration) * time.Minute)

	claims := jwt.MapClaims{
		"user_id":      p.ID.String(),
		"account_type": string(p.AccountType),
		"typ":          TypeRefresh,
		"jti":          jti,
		"exp":          expirationTime.Unix(),
		"iss":          cfg.JWT.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(cfg.JWT.Secret))
	if err != nil {
		return "", "", err
	}

	return tokenString, jti, nil
}

// ValidateToken validates a signed token of the given type and returns its
// claims. Expired tokens fail with ErrTokenExpired, everything else with the
// parse error.
func ValidateToken(tokenString, secret, tokenType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if typ, _ := claims["typ"].(string); typ != tokenType {
		return nil, fmt.Errorf("unexpected token type %q", typ)
	}

	return claims, nil
}
