// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/floradex/internal/app"
	"github.com/okian/floradex/internal/domain/types"
	"github.com/okian/floradex/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	WelcomeDependencies
	FlowerDependencies
	PetalDependencies
	HealthDependencies
	StatsProvider
}

// Record mirrors the row shape returned by flower queries.
type Record = types.Record

// Server wires HTTP routes for the business API.
type Server struct {
	welcomeHandler *WelcomeHandler
	flowersHandler *FlowersHandler
	petalsHandler  *PetalsHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler

	logger logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxBodyBytes int64
	logger       logger.Logger
}

// WithMaxBodyBytes caps PUT bodies.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	cfg := serverConfig{maxBodyBytes: 1 << 20}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Named("api")
	}
	return &Server{
		welcomeHandler: NewWelcomeHandler(deps),
		flowersHandler: NewFlowersHandler(deps, cfg.maxBodyBytes),
		petalsHandler:  NewPetalsHandler(deps),
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(deps),
		logger:         cfg.logger,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.wrap(s.welcomeHandler.HandleWelcome, "welcome"))
	mux.HandleFunc("GET /flowers", s.wrap(s.flowersHandler.HandleListAll, "flowers"))
	mux.HandleFunc("PUT /flowers", s.wrap(s.flowersHandler.HandlePut, "flowers"))
	mux.HandleFunc("GET /flowers/{genus}", s.wrap(s.flowersHandler.HandleListGenus, "flowers_genus"))
	mux.HandleFunc("GET /flowers/{genus}/{species}", s.wrap(s.flowersHandler.HandleListSpecies, "flowers_species"))
	mux.HandleFunc("GET /flowers/{genus}/{species}/petals/{kind}", s.wrap(s.petalsHandler.HandleAggregate, "petals"))

	mux.HandleFunc("GET /healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", s.wrap(s.statsHandler.HandleStats, "stats"))
	mux.Handle("GET /metrics", MetricsHandler())
}

// wrap applies the standard middleware chain to a handler.
func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(LoggingMiddleware(h, s.logger), endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service errors to status codes. Causes of
// internal errors are logged, not returned.
func writeServiceError(ctx context.Context, w http.ResponseWriter, l logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
	case errors.Is(err, service.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	default:
		l.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
	}
}
