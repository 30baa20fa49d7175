// Package server exposes the refile engine and document store over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/joeychilson/refiler/importer"
	"github.com/joeychilson/refiler/logger"
	"github.com/joeychilson/refiler/refile"
	"github.com/joeychilson/refiler/server/middleware"
	"github.com/joeychilson/refiler/store"
)

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	// RedisURL for rate limiting (optional, uses in-memory if empty)
	RedisURL string
	// RateLimitRequests is the number of requests allowed per window (default: 100)
	RateLimitRequests int
	// RateLimitWindow is the time window for rate limiting (default: 1 minute)
	RateLimitWindow time.Duration
}

// Server is the HTTP server for the API.
type Server struct {
	store       store.Store
	engine      *refile.Engine
	importer    *importer.Importer
	logger      logger.Logger
	router      *chi.Mux
	rateLimiter *middleware.RateLimiter
}

// NewServer creates a new API server with chi router and middleware stack.
func NewServer(st store.Store, engine *refile.Engine, log logger.Logger, cfg *ServerConfig) (*Server, error) {
	if log == nil {
		log = logger.Noop()
	}

	if cfg == nil {
		cfg = &ServerConfig{}
	}

	if cfg.RateLimitRequests == 0 {
		cfg.RateLimitRequests = 100
	}
	if cfg.RateLimitWindow == 0 {
		cfg.RateLimitWindow = time.Minute
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)

	rateLimitConfig := middleware.RateLimitConfig{
		RequestLimit:   cfg.RateLimitRequests,
		WindowDuration: cfg.RateLimitWindow,
		RedisURL:       cfg.RedisURL,
	}
	rateLimiter, err := middleware.RateLimit(rateLimitConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}
	r.Use(rateLimiter.Handler)

	s := &Server{
		store:       st,
		engine:      engine,
		importer:    importer.New(),
		logger:      log,
		router:      r,
		rateLimiter: rateLimiter,
	}

	r.Put("/v1/documents/{id}", s.handlePutDocument)
	r.Get("/v1/documents/{id}", s.handleGetDocument)
	r.Delete("/v1/documents/{id}", s.handleDeleteDocument)
	r.Get("/v1/documents/{id}/outline", s.handleOutline)
	r.Get("/v1/targets", s.handleTargets)
	r.Post("/v1/refile", s.handleRefile)
	r.Get("/health", s.handleHealth)

	return s, nil
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting API server", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// StartWithShutdown starts the HTTP server with graceful shutdown support.
func (s *Server) StartWithShutdown(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases resources held by the server (e.g., Redis connections).
func (s *Server) Close() error {
	if s.rateLimiter != nil {
		return s.rateLimiter.Close()
	}
	return nil
}
