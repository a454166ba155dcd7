package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bxiit/selmag/internal/config"
	"github.com/bxiit/selmag/internal/database"
	"github.com/bxiit/selmag/internal/logger"
	"github.com/bxiit/selmag/internal/server"
	"github.com/bxiit/selmag/internal/telemetry"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "catalogue-service"

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	if err := apiServer.GracefulShutdown(context.Background(), 30*time.Second); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	done <- true
}

func main() {
	cfg := config.Load(serviceName)

	log, err := logger.New(cfg.Server.Env, serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	log.Info("Starting catalogue service",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	dbService, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database health check", zap.Any("health", dbService.Health(ctx)))

	if err := database.RunMigrations(dbService.DB(), database.CatalogueMigrations, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully")

	tel, err := telemetry.New(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.RateLimit.Requests > 0 {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// The limiter lets requests through while Redis is unreachable
			log.Warn("Redis is not reachable", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
	}

	srv, err := server.NewCatalogueServer(cfg, log, dbService, tel, redisClient)
	if err != nil {
		log.Fatal("Failed to create server", zap.Error(err))
	}

	done := make(chan bool, 1)

	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
