package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bxiit/selmag/internal/client"
	"github.com/bxiit/selmag/internal/config"
	"github.com/bxiit/selmag/internal/database"
	"github.com/bxiit/selmag/internal/logger"
	"github.com/bxiit/selmag/internal/server"
	"github.com/bxiit/selmag/internal/telemetry"

	"go.uber.org/zap"
)

const serviceName = "manager-app"

func gracefulShutdown(uiServer *server.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	if err := uiServer.GracefulShutdown(context.Background(), 30*time.Second); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := uiServer.Close(); err != nil {
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

	if cfg.Catalogue.JWTSecret == "" {
		log.Fatal("CATALOGUE_JWT_SECRET must be set")
	}

	log.Info("Starting manager app",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Manager.Port),
		zap.String("catalogue", cfg.Catalogue.BaseURL),
	)

	ctx := context.Background()

	dbService, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(dbService.DB(), database.ManagerMigrations, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	if err := server.EnsureManager(ctx, cfg.Manager, dbService, log); err != nil {
		log.Fatal("Failed to bootstrap manager user", zap.Error(err))
	}

	tel, err := telemetry.New(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	tokens := client.NewSignedTokenSource(
		cfg.Catalogue.JWTSecret,
		cfg.Catalogue.ClientID,
		cfg.Catalogue.Scopes,
		cfg.Catalogue.TokenTTL,
	)
	catalogue := client.NewCatalogueClient(cfg.Catalogue.BaseURL, cfg.Catalogue.Timeout, tokens, log)

	srv := server.NewManagerServer(cfg, log, dbService, tel, catalogue)

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
