// Package http implements the filmorate REST API.
// Successful responses carry the bare resource, errors use the JSONResponse
// envelope with success=false.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VeraBsp/filmorate/internal/application/command"
	"github.com/VeraBsp/filmorate/internal/application/query"
	"github.com/VeraBsp/filmorate/internal/interface/http/handlers"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Address - host:port to listen on.
	Address string

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// MaxHeaderBytes - maximum size of request headers.
	MaxHeaderBytes int

	// MaxBodyBytes - maximum size of a request body.
	MaxBodyBytes int64

	// AllowedOrigins - allowed origins for CORS.
	AllowedOrigins []string

	// EnableMetrics - expose Prometheus metrics on /metrics.
	EnableMetrics bool

	// RateLimitPerMinute - requests per minute per IP (0 = disabled).
	RateLimitPerMinute int

	// PopularDefaultCount - size of /films/popular when count is absent.
	PopularDefaultCount int

	// Version is reported by the health endpoint.
	Version string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Address:            "0.0.0.0:8080",
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxHeaderBytes:     1 << 20,
		MaxBodyBytes:       1 << 20,
		AllowedOrigins:     []string{"*"},
		EnableMetrics:      true,
		RateLimitPerMinute: 600,

		PopularDefaultCount: 10,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains all dependencies required by HTTP handlers.
type Dependencies struct {
	// Write side
	Commands *command.Handlers

	// Read side
	Queries *query.Handlers

	// Health checks (database, cache)
	HealthChecker handlers.HealthChecker

	Logger *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     chi.Router
	logger     *logger.Logger

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(config Config, deps Dependencies) *Server {
	s := &Server{
		config: config,
		deps:   deps,
		router: chi.NewRouter(),
		logger: deps.Logger,
	}
	if s.logger == nil {
		s.logger = logger.Default()
	}
	s.logger = s.logger.With(logger.Component("http"))
	if s.deps.HealthChecker == nil {
		s.deps.HealthChecker = handlers.NewCompositeHealthChecker(config.Version)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           config.Address,
		Handler:        s.router,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	return s
}

// Handler returns the root handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) setupRoutes() {
	r := s.router

	// ─────────────────────────────────────────────────────────────────────────
	// Health & Metrics
	// ─────────────────────────────────────────────────────────────────────────
	r.Get("/health", s.handleHealth)
	r.Get("/live", s.handleLive)
	if s.config.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Users & friends
	// ─────────────────────────────────────────────────────────────────────────
	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Post("/", s.handleCreateUser)
		r.Put("/", s.handleUpdateUser)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetUser)
			r.Delete("/", s.handleDeleteUser)
			r.Get("/friends", s.handleGetFriends)
			r.Get("/friends/common/{otherId}", s.handleGetCommonFriends)
			r.Put("/friends/{friendId}", s.handleAddFriend)
			r.Delete("/friends/{friendId}", s.handleRemoveFriend)
		})
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Films, likes & rankings
	// ─────────────────────────────────────────────────────────────────────────
	r.Route("/films", func(r chi.Router) {
		r.Get("/", s.handleListFilms)
		r.Post("/", s.handleCreateFilm)
		r.Put("/", s.handleUpdateFilm)
		r.Get("/popular", s.handlePopularFilms)
		r.Get("/common", s.handleCommonFilms)
		r.Get("/director/{directorId}", s.handleDirectorFilms)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetFilm)
			r.Delete("/", s.handleDeleteFilm)
			r.Put("/like/{userId}", s.handleAddLike)
			r.Delete("/like/{userId}", s.handleRemoveLike)
		})
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Directors & dictionaries
	// ─────────────────────────────────────────────────────────────────────────
	r.Route("/directors", func(r chi.Router) {
		r.Get("/", s.handleListDirectors)
		r.Post("/", s.handleCreateDirector)
		r.Put("/", s.handleUpdateDirector)
		r.Get("/{id}", s.handleGetDirector)
		r.Delete("/{id}", s.handleDeleteDirector)
	})
	r.Get("/genres", s.handleListGenres)
	r.Get("/genres/{id}", s.handleGetGenre)
	r.Get("/mpa", s.handleListRatings)
	r.Get("/mpa/{id}", s.handleGetRating)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, r, http.StatusNotFound, codeNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Healthy {
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleLive handles GET /live.
func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address))

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server. It is safe to call before Start;
// a later Start then returns immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}
