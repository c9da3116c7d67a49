package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/atlasmetrics/foresight/internal/api"
	"github.com/atlasmetrics/foresight/internal/cache"
	"github.com/atlasmetrics/foresight/internal/config"
	"github.com/atlasmetrics/foresight/internal/database"
	"github.com/atlasmetrics/foresight/internal/forecast"
	"github.com/atlasmetrics/foresight/internal/handlers"
	"github.com/atlasmetrics/foresight/internal/logging"
	"github.com/atlasmetrics/foresight/internal/telemetry"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)

	shutdownTracing, err := telemetry.Init(context.Background(), telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Environment:  cfg.Environment,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize tracing")
	}

	otlpLogger, err := logging.NewOTLPLogger(logging.OTLPConfig{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceName:    telemetry.ServiceName,
		ServiceVersion: telemetry.ServiceVersion,
		Environment:    cfg.Environment,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize log export")
	}
	otlpLogger.Logger().Info("Service starting",
		"environment", cfg.Environment,
		"telemetry_enabled", cfg.Telemetry.Enabled,
	)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	engineCfg := forecast.DefaultEngineConfig()
	engineCfg.MinHistory = cfg.Forecast.MinHistory
	if ttl, err := cfg.Forecast.CacheTTLDuration(); err == nil {
		engineCfg.CacheTTL = ttl
	}

	historyRepo := database.NewHistoryRepository(db.Pool)
	peerRepo := database.NewPeerRepository(db.Pool)
	intelCache := cache.NewRedisIntelligenceCache(redis.Client, logger)
	engine := forecast.NewEngine(engineCfg, intelCache, peerRepo, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, handlers.NewIntelligenceHandler(engine, historyRepo, logger), db, redis)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.WithError(err).Warn("Tracer shutdown failed")
	}
	if err := otlpLogger.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("Log exporter shutdown failed")
	}

	logger.Info("Server exited")
}
