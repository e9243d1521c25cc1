package main

import (
	"banditLab/app/echo-server/router"
	"banditLab/business/eval"
	"banditLab/business/session"
	"banditLab/internal/middleware"
	psqlRepo "banditLab/internal/repository/postgres"
	redisRepo "banditLab/internal/repository/redis"
	"banditLab/internal/rest"
	"banditLab/pkg/config"
	"banditLab/pkg/database"
	redisdb "banditLab/pkg/database/redis"
	"banditLab/pkg/logger"
	"banditLab/pkg/loggers"
	"banditLab/pkg/metrics"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting BanditLab", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.ClosePostgres(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close Redis", "error", err)
		}
	}()

	logger.Info("Redis connected successfully")

	metrics.Init()

	// Init repo
	experimentRepo := psqlRepo.NewExperimentRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// Init service
	sessionManager := session.NewManager(
		cfg.Sim.MaxSessions,
		time.Duration(cfg.Sim.SessionIdleMins)*time.Minute,
	)
	evalService := eval.NewService(experimentRepo, func(agent string) loggers.Logger {
		return loggers.Slog{Label: "experiment_step_" + agent}
	})

	// Init handler
	authHandler := rest.NewAuthHandler(
		tokenRepo,
		cfg.Auth.APIKey,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)
	environmentHandler := rest.NewEnvironmentHandler(sessionManager, cfg.Sim.DefaultSigmaP)
	experimentHandler := rest.NewExperimentHandler(evalService, cfg.Sim.DefaultSteps, cfg.Sim.DefaultSigmaP)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(metrics.HTTPMetrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware: live sessions and revocation honor the Redis token
	// store; persisted experiment results only need a valid JWT.
	authRequired := middleware.AuthMiddlewareWithRedis(tokenRepo)
	jwtRequired := middleware.AuthMiddleware()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetAuthRoutes(api, authHandler, authRequired)
	router.SetEnvironmentRoutes(api, environmentHandler, authRequired)
	router.SetExperimentRoutes(api, experimentHandler, jwtRequired)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
