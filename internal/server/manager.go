package server

import (
	"context"

	"github.com/bxiit/selmag/internal/config"
	"github.com/bxiit/selmag/internal/database"
	custommiddleware "github.com/bxiit/selmag/internal/middleware"
	"github.com/bxiit/selmag/internal/repository"
	"github.com/bxiit/selmag/internal/service"
	"github.com/bxiit/selmag/internal/telemetry"
	"github.com/bxiit/selmag/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ManagerRealm is the HTTP Basic realm of the manager UI
const ManagerRealm = "selmag-manager"

// NewManagerServer builds the manager UI. Pages are served behind HTTP Basic
// auth against manager users and talk to the catalogue through catalogue.
func NewManagerServer(cfg *config.Config, logger *zap.Logger, db *database.Service, tel *telemetry.Telemetry, catalogue web.CatalogueAPI) *Server {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(middleware.Recoverer)

	mountOperational(router, db, tel)

	userService := service.NewUserService(repository.NewUserRepository(db.DB()), logger)
	controller := web.NewProductsController(catalogue, logger)

	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.LoggingMiddleware(logger))
		r.Use(custommiddleware.BasicAuthMiddleware(userService, ManagerRealm, logger))
		controller.RegisterRoutes(r)
	})

	server := newServer("manager-app", cfg.Manager.Port, router, logger, db, tel)
	server.onClose = append(server.onClose, func() error { return tel.Shutdown(context.Background()) })

	return server
}

// EnsureManager creates the bootstrap manager account when credentials are configured
func EnsureManager(ctx context.Context, cfg config.ManagerConfig, db *database.Service, logger *zap.Logger) error {
	if cfg.Password == "" {
		logger.Warn("MANAGER_PASSWORD is not set, skipping manager bootstrap")
		return nil
	}

	userService := service.NewUserService(repository.NewUserRepository(db.DB()), logger)
	_, err := userService.EnsureUser(ctx, cfg.Username, cfg.Password)
	return err
}
