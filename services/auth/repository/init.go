package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/minevista/portal-auth/internal/pkg/database"
	"github.com/minevista/portal-auth/internal/pkg/models"
)

// AuthRepo implements the authentication repository interface
type AuthRepo struct {
	cfg         *models.Config
	db          *sqlx.DB
	redisClient *database.RedisClient
}

// NewAuthRepo creates a new authentication repository instance
func NewAuthRepo(cfg *models.Config, db *sqlx.DB, redisClient *database.RedisClient) *AuthRepo {
	return &AuthRepo{
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
	}
}
