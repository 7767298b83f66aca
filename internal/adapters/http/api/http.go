// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	app "github.com/okian/unirank/internal/app"
	"github.com/okian/unirank/internal/domain/university"
	"github.com/okian/unirank/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Rankings(ctx context.Context, q app.RankingsQuery) (*app.RankingsPage, error)
	Universities(ctx context.Context) ([]university.Record, error)
	Ping(ctx context.Context) error
}

// Server wires HTTP routes for the rankings API.
type Server struct {
	healthHandler       *HealthHandler
	rankingsHandler     *RankingsHandler
	universitiesHandler *UniversitiesHandler
	metricsHandler      http.Handler

	serviceName string
	corsOrigins []string
	logger      logger.Logger
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithServiceName sets the name reported on request spans.
func WithServiceName(name string) ServerOption {
	return func(s *Server) {
		if name != "" {
			s.serviceName = name
		}
	}
}

// WithCORSOrigins sets the origins allowed to call the API from a browser.
// "*" allows any origin.
func WithCORSOrigins(origins ...string) ServerOption {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithRequestLogger sets the logger used for access logs.
func WithRequestLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:       NewHealthHandler(deps),
		rankingsHandler:     NewRankingsHandler(deps),
		universitiesHandler: NewUniversitiesHandler(deps),
		metricsHandler:      NewMetricsHandler(),
		serviceName:         "unirank",
		corsOrigins:         []string{"*"},
		logger:              logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register installs the middleware stack on r and attaches all routes. The
// rankings routes live under prefix; health and metrics stay at the root.
// Middleware is installed first, so call Register before adding other routes to r.
func (s *Server) Register(_ context.Context, r chi.Router, prefix string) {
	r.Use(
		RequestID,
		Tracing(s.serviceName),
		CORS(s.corsOrigins),
		AccessLog(s.logger),
	)
	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	r.Method(http.MethodGet, "/metrics", s.metricsHandler)

	routes := func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.universitiesHandler.HandleGetUniversities, "universities"))
		r.Get("/universities", MetricsMiddleware(s.universitiesHandler.HandleGetUniversities, "universities"))
		r.Get("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	}
	if prefix = NormalizePrefix(prefix); prefix == "" {
		routes(r)
		return
	}
	r.Route(prefix, routes)
}

// NormalizePrefix returns prefix with a single leading slash and no
// trailing one; "" and "/" mean the root.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, title string, err error) {
	resp := errorResponse{Error: title}
	if err != nil {
		resp.Message = err.Error()
	}
	writeJSON(w, status, resp)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error:   http.StatusText(http.StatusNotFound),
		Message: "Cannot " + r.Method + " " + r.URL.Path,
	})
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Error:   http.StatusText(http.StatusMethodNotAllowed),
		Message: "Cannot " + r.Method + " " + r.URL.Path,
	})
}
