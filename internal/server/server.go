package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bxiit/selmag/internal/database"
	"github.com/bxiit/selmag/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	logger  *zap.Logger
	db      *database.Service
	onClose []func() error
}

// newServer wraps router with otelhttp and the shared timeouts
func newServer(name, port string, router chi.Router, logger *zap.Logger, db *database.Service, tel *telemetry.Telemetry) *Server {
	handler := otelhttp.NewHandler(router, name,
		otelhttp.WithMeterProvider(tel.MeterProvider),
		otelhttp.WithTracerProvider(tel.TracerProvider),
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			routePattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					routePattern = pattern
				}
			}
			return []attribute.KeyValue{
				attribute.String("http.route", routePattern),
			}
		}),
	)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      handler,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger: logger,
		db:     db,
	}
}

// mountOperational registers the unauthenticated health and metrics endpoints
func mountOperational(router chi.Router, db *database.Service, tel *telemetry.Telemetry) {
	router.Get("/health", healthHandler(db))
	router.Method(http.MethodGet, "/metrics", tel.MetricsHandler())
}

func healthHandler(db *database.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbHealth := db.Health(r.Context())

		status := http.StatusOK
		body := map[string]interface{}{"status": "ok", "database": dbHealth}
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

// Close releases resources held by the server after Shutdown
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	for _, closeFn := range s.onClose {
		if err := closeFn(); err != nil {
			s.logger.Error("Failed to close resource", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

// GracefulShutdown stops accepting requests and waits up to timeout for in-flight ones
func (s *Server) GracefulShutdown(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Shutdown(ctx)
}
