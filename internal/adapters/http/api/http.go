// Package api wires the catalog's HTTP routes and handlers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/catalog/pkg/logger"
)

// corsMaxAge is the preflight cache lifetime in seconds.
const corsMaxAge = 300

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	resources     []Resource

	logger             logger.Logger
	corsAllowedOrigins []string
	rateLimitPerMinute int
	trustProxyHeaders  bool
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for request logging.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithCORSAllowedOrigins sets the origins accepted by the CORS middleware.
func WithCORSAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsAllowedOrigins = origins
		}
	}
}

// WithRateLimit enables per-IP rate limiting. Zero or less disables it.
func WithRateLimit(requestsPerMinute int) Option {
	return func(s *Server) {
		s.rateLimitPerMinute = requestsPerMinute
	}
}

// WithTrustProxyHeaders takes the client IP from X-Forwarded-For or
// X-Real-IP. Without it the rate limit keys on the connection address, so
// clients cannot pick their own key.
func WithTrustProxyHeaders(trust bool) Option {
	return func(s *Server) {
		s.trustProxyHeaders = trust
	}
}

// NewServer creates a new API server serving the given resources.
func NewServer(statsProvider StatsProvider, resources []Resource, opts ...Option) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		resources:          resources,
		logger:             logger.Discard(),
		corsAllowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with middleware and every route attached.
// Callers may register further routes on the returned router.
func (s *Server) Router(_ context.Context) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if s.trustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         corsMaxAge,
	}))
	if s.rateLimitPerMinute > 0 {
		r.Use(RateLimit(s.rateLimitPerMinute))
	}
	r.Use(MetricsMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: http.StatusText(http.StatusNotFound)})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, messageResponse{Message: http.StatusText(http.StatusMethodNotAllowed)})
	})

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", s.statsHandler.HandleStats)

	for _, res := range s.resources {
		r.Route(res.Path(), res.Routes)
	}
	return r
}

// messageResponse is the body of not-found, delete and error responses.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
