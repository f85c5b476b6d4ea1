// Package server provides the HTTP API for go-jf-snapshot. It exposes the
// snapshot-on-demand endpoint plus read-only session and snapshot listings.
// Routing uses chi/v5 with CORS support for local dashboards.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/opd-ai/go-jf-snapshot/internal/snapshot"
	"github.com/opd-ai/go-jf-snapshot/internal/storage"
	"github.com/opd-ai/go-jf-snapshot/pkg/config"
)

// Server represents the HTTP server for go-jf-snapshot.
type Server struct {
	config     *config.ServerConfig
	logger     *slog.Logger
	service    *snapshot.Service
	store      *storage.Store
	httpServer *http.Server
	router     chi.Router
}

// New creates a new HTTP server instance with the provided configuration.
// The server is configured with middleware for logging, CORS, and request
// recovery.
func New(cfg *config.ServerConfig, service *snapshot.Service, store *storage.Store, logger *slog.Logger) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger,
		service: service,
		store:   store,
	}

	s.router = chi.NewRouter()
	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures the middleware stack for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware())
	s.router.Use(middleware.Recoverer)

	if s.config.EnableCompression {
		s.router.Use(middleware.Compress(5))
	}

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(middleware.Timeout(30 * time.Second))
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.router.Get("/ping", s.handlePing)
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/save-playback-snapshot/", s.handleSaveSnapshot)
	s.router.Get("/playback-sessions/", s.handlePlaybackSessions)
	s.router.Get("/snapshots/", s.handleSnapshots)
}

// Start starts the HTTP server in a goroutine and blocks until the context
// is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		"address", s.httpServer.Addr,
		"read_timeout", s.config.ReadTimeout,
		"write_timeout", s.config.WriteTimeout)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	return s.Stop()
}

// Stop gracefully shuts down the HTTP server.
// Waits up to 30 seconds for active connections to complete.
func (s *Server) Stop() error {
	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Error shutting down HTTP server", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped successfully")
	return nil
}

// loggingMiddleware creates a structured logging middleware for HTTP requests.
func (s *Server) loggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			s.logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"ip", r.RemoteAddr,
			)
		})
	}
}
