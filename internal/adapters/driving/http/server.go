package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tech4humanity/t4h-core/internal/core/ports/driving"
	"github.com/tech4humanity/t4h-core/internal/sweeper"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// SweepScheduler reports the scheduled sweeps running in this process
type SweepScheduler interface {
	Health() sweeper.Health
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	gatherer   prometheus.Gatherer
	sweeps     SweepScheduler

	// Services
	authService      driving.AuthService
	linkService      driving.LinkService
	expansionService driving.ExpansionService
	thinkerService   driving.ThinkerService
	enneadService    driving.EnneadService

	// Infrastructure
	db   Pinger // PostgreSQL health check
	lock Pinger // Lock backend health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Sweeps is set when the sweeper runs alongside the API ("all" mode)
	Sweeps SweepScheduler
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	linkService driving.LinkService,
	expansionService driving.ExpansionService,
	thinkerService driving.ThinkerService,
	enneadService driving.EnneadService,
	db Pinger,
	lock Pinger, // can be nil
) *Server {
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		router:           http.NewServeMux(),
		version:          cfg.Version,
		gatherer:         gatherer,
		sweeps:           cfg.Sweeps,
		authService:      authService,
		linkService:      linkService,
		expansionService: expansionService,
		thinkerService:   thinkerService,
		enneadService:    enneadService,
		db:               db,
		lock:             lock,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // Sweeps run inline
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// Handler returns the router wrapped in recovery and access logging
func (s *Server) Handler() http.Handler {
	return NewRecoveryMiddleware().Handler(NewLoggingMiddleware().Handler(s.router))
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)
	admin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(authMiddleware.RequireAdmin(h))
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// Linking
	s.router.Handle("POST /api/v1/exemplars/{id}/links", admin(s.handleLinkExemplar))
	s.router.Handle("POST /api/v1/research/{id}/links", admin(s.handleLinkResearchPaper))
	s.router.Handle("GET /api/v1/records/{id}/links", admin(s.handleListLinks))
	s.router.Handle("DELETE /api/v1/links/{id}", admin(s.handleDeleteLink))

	// Content expansion
	s.router.Handle("POST /api/v1/exemplars/{id}/expand", admin(s.handleExpandExemplar))

	// Thinkers
	s.router.Handle("POST /api/v1/thinkers/{id}/enrich", admin(s.handleEnrichThinker))
	s.router.Handle("POST /api/v1/thinkers/{id}/align", admin(s.handleAlignThinker))

	// Sweeps
	s.router.Handle("POST /api/v1/sweeps/research-links", admin(s.handleSweepResearchLinks))
	s.router.Handle("POST /api/v1/sweeps/expansion", admin(s.handleSweepExpansion))
	s.router.Handle("POST /api/v1/sweeps/alignment", admin(s.handleSweepAlignment))
	s.router.Handle("GET /api/v1/sweeps/status", admin(s.handleSweepStatus))

	// Neural Ennead
	s.router.Handle("POST /api/v1/ennead/seed", admin(s.handleSeedPersonas))
	s.router.Handle("GET /api/v1/ennead/personas", admin(s.handleListPersonas))
	s.router.Handle("GET /api/v1/ennead/team", admin(s.handleAssembleTeam))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
