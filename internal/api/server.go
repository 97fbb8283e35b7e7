// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handler "github.com/latticefin/lattice/internal/api/handler/api"
	"github.com/latticefin/lattice/internal/api/middleware"
	"github.com/latticefin/lattice/internal/app"
	"github.com/latticefin/lattice/internal/config"
	"github.com/latticefin/lattice/internal/metrics"
)

// Server represents the HTTP server for LATTICE
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, a *app.App, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      buildHandler(cfg, a, mux),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, a)
	return s
}

// buildHandler stacks the middleware around the mux.
func buildHandler(cfg *config.Config, a *app.App, mux *http.ServeMux) http.Handler {
	var h http.Handler = mux
	h = middleware.APIKeyAuth(cfg.Server.APIKey)(h)
	h = metrics.HTTPMiddleware(a.Metrics())(h)
	return h
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg *config.Config, a *app.App) {
	assets := handler.NewAssetsHandler(a)
	events := handler.NewEventsHandler(a)
	gr := handler.NewGraphHandler(a)
	snaps := handler.NewSnapshotHandler(a)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("GET /api/v1/assets", assets.List)
	s.mux.HandleFunc("POST /api/v1/assets", assets.Create)
	s.mux.HandleFunc("GET /api/v1/assets/{id}", assets.Get)

	s.mux.HandleFunc("GET /api/v1/events", events.List)
	s.mux.HandleFunc("POST /api/v1/events", events.Create)

	s.mux.HandleFunc("GET /api/v1/relationships", gr.Relationships)
	s.mux.HandleFunc("POST /api/v1/relationships", gr.CreateRelationship)
	s.mux.HandleFunc("POST /api/v1/graph/build", gr.Build)
	s.mux.HandleFunc("GET /api/v1/graph/metrics", gr.Metrics)
	s.mux.HandleFunc("GET /api/v1/graph/visualization", gr.Visualization)
	s.mux.HandleFunc("GET /api/v1/stats", gr.Stats)

	s.mux.HandleFunc("POST /api/v1/snapshots", snaps.Save)

	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(a.Metrics().Registry, promhttp.HandlerOpts{}))
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
