package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bxiit/selmag/internal/config"
	"github.com/bxiit/selmag/internal/database"
	custommiddleware "github.com/bxiit/selmag/internal/middleware"
	"github.com/bxiit/selmag/internal/repository"
	"github.com/bxiit/selmag/internal/service"
	"github.com/bxiit/selmag/internal/telemetry"
	"github.com/bxiit/selmag/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewCatalogueServer builds the catalogue REST API. redisClient may be nil,
// in which case write endpoints are not rate limited.
func NewCatalogueServer(cfg *config.Config, logger *zap.Logger, db *database.Service, tel *telemetry.Telemetry, redisClient *redis.Client) (*Server, error) {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	mountOperational(router, db, tel)

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())

	// Initialize services
	productService, err := service.NewProductService(productRepo, tel.Meter("catalogue-service"), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create product service: %w", err)
	}

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, logger)

	var writeMiddleware []func(next http.Handler) http.Handler
	if redisClient != nil && cfg.RateLimit.Requests > 0 {
		writeMiddleware = append(writeMiddleware, custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "catalogue_rate_limit",
		}, logger))
		logger.Info("Rate limiting enabled for catalogue writes",
			zap.Int("requests", cfg.RateLimit.Requests),
			zap.Duration("window", cfg.RateLimit.Window),
		)
	}

	// Register routes
	productHandler.RegisterRoutes(router, custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger), writeMiddleware...)

	server := newServer("catalogue-service", cfg.Server.Port, router, logger, db, tel)
	if redisClient != nil {
		server.onClose = append(server.onClose, redisClient.Close)
	}
	server.onClose = append(server.onClose, func() error { return tel.Shutdown(context.Background()) })

	return server, nil
}
