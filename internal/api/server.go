package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SherlockH0olms/Lendly/internal/domain"
	"github.com/SherlockH0olms/Lendly/internal/matching"
	"github.com/SherlockH0olms/Lendly/internal/ratelimit"
	"github.com/SherlockH0olms/Lendly/internal/scoring"
)

// Server represents the HTTP API server.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// NewServer creates a new API server.
func NewServer(cfg domain.ServerConfig, repo domain.Repository, store domain.Store, bus domain.EventBus, pipeline *scoring.Pipeline, matcher *matching.Matcher, limiter *ratelimit.Limiter, rateCfg domain.RateLimitConfig, version string) *Server {
	handler := NewHandler(repo, store, bus, pipeline, matcher, version)
	router := chi.NewRouter()

	// Global middleware stack
	router.Use(CORSMiddleware)         // CORS for browser clients
	router.Use(RecoverMiddleware)      // Recover from panics
	router.Use(TracingMiddleware)      // OpenTelemetry tracing
	router.Use(LoggingMiddleware)      // Request logging
	router.Use(middleware.RealIP)      // Extract real IP
	router.Use(middleware.Compress(5)) // Gzip compression

	// Health endpoints
	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)

	// Profiles
	router.Post("/profiles", handler.CreateProfile)
	router.Get("/profiles/{id}", handler.GetProfile)

	// Scoring, rate limited per client IP
	router.Route("/score", func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter, rateCfg))
		r.Post("/calculate", handler.CalculateScore)
	})

	// Lender catalog and applications
	router.Get("/offers", handler.ListOffers)
	router.Post("/offers/apply", handler.Apply)
	router.Get("/applications/{id}", handler.GetApplication)

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
