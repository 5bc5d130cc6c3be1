package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/minevista/portal-auth/internal/pkg/config"
	"github.com/minevista/portal-auth/internal/pkg/database"
	"github.com/minevista/portal-auth/internal/pkg/health"
	"github.com/minevista/portal-auth/internal/pkg/logger"
	"github.com/minevista/portal-auth/internal/pkg/middleware"
	natspkg "github.com/minevista/portal-auth/internal/pkg/nats"
	nrpkg "github.com/minevista/portal-auth/internal/pkg/newrelic"
	"github.com/minevista/portal-auth/internal/pkg/server"
	"github.com/minevista/portal-auth/services/auth/gateway"
	"github.com/minevista/portal-auth/services/auth/handler"
	httpHandler "github.com/minevista/portal-auth/services/auth/handler/http"
	"github.com/minevista/portal-auth/services/auth/repository"
	"github.com/minevista/portal-auth/services/auth/usecase"
)

func main() {
	appName := "portal-auth"
	configPath := config.GetEnv("CONFIG_PATH", "config/auth.env")
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)
	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
	)

	// Apply pending schema migrations before opening the pool
	if err := database.RunMigrations(database.ConnectionURL(configs.Database)); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer postgresClient.Close()

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize NATS
	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsClient.Close()

	// Initialize repository
	authRepo := repository.NewAuthRepo(configs, postgresClient.GetDB(), redisClient)

	// Initialize gateway
	authGW, err := gateway.NewAuthGW(natsClient, configs)
	if err != nil {
		zapLogger.Fatal("Failed to initialize gateways", zap.Error(err))
	}

	// Initialize usecase
	authUC := usecase.NewAuthUC(authRepo, authGW, configs)

	// Handlers for HTTP
	authHandler := httpHandler.NewAuthHandler(authUC, configs)
	h := handler.NewHandler(authHandler, redisClient, configs)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	// Add middlewares
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	// Register health endpoints
	health.RegisterHealthEndpoints(e, appName,
		health.NewPostgresHealthChecker(postgresClient),
		health.NewRedisHealthChecker(redisClient),
		health.NewNATSHealthChecker(natsClient),
	)

	// Register service routes
	h.RegisterRoutes(e)

	// Start server with graceful shutdown
	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server terminated", zap.Error(err))
	}
}
