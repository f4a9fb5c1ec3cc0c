// Package server exposes the data-boundary operations over HTTP. The SaaS
// application talks to this service right before and after its external LLM
// calls; nothing here calls the LLM itself.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nordtime/aiguard/internal/budget"
	"github.com/nordtime/aiguard/internal/config"
	"github.com/nordtime/aiguard/internal/events"
	"github.com/nordtime/aiguard/internal/logger"
	"github.com/nordtime/aiguard/internal/redact"
)

// Server hosts the redaction, anonymization and budget endpoints.
type Server struct {
	config   *config.Config
	logger   *logger.Logger
	pipeline *redact.Pipeline
	gate     *budget.Gate
	hub      *events.Hub
	router   *mux.Router
	server   *http.Server
	limiters *tenantLimiters
}

// New creates a server. gate may be nil when no usage store is configured;
// the budget endpoints then report service unavailable. hub may be nil when
// the event feed is disabled.
func New(cfg *config.Config, log *logger.Logger, gate *budget.Gate, hub *events.Hub) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration")
	}

	s := &Server{
		config:   cfg,
		logger:   log.WithComponent("server"),
		pipeline: redact.NewPipeline(nil, log.WithComponent("redact")),
		gate:     gate,
		hub:      hub,
		router:   mux.NewRouter(),
		limiters: newTenantLimiters(cfg.Server.RateLimit.RequestsPerSec, cfg.Server.RateLimit.Burst),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	if s.hub != nil && s.config.Events.Enabled {
		s.router.HandleFunc(s.config.Events.Path, s.hub.HandleWebSocket).Methods("GET")
	}

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/redact", s.handleRedact).Methods("POST")
	api.HandleFunc("/anonymize", s.handleAnonymize).Methods("POST")
	api.HandleFunc("/deanonymize", s.handleDeanonymize).Methods("POST")
	api.HandleFunc("/budget/{companyID}", s.handleBudget).Methods("GET")
	api.HandleFunc("/usage", s.handleUsage).Methods("POST")
	api.HandleFunc("/usage/{companyID}", s.handleRecentUsage).Methods("GET")
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting aiguard server",
		zap.Int("port", s.config.Server.Port),
		zap.Bool("budget_gate", s.gate != nil),
		zap.Bool("event_feed", s.hub != nil),
	)

	if s.hub != nil {
		go s.hub.Run()
	}

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping aiguard server")
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	clients := 0
	if s.hub != nil {
		clients = s.hub.ClientCount()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{
		"name":"aiguard",
		"budget_gate":%t,
		"daily_limit_cents":%g,
		"monthly_limit_cents":%g,
		"dashboard_clients":%d
	}`, s.gate != nil, s.config.Budget.DailyLimitCents, s.config.Budget.MonthlyLimitCents, clients)
}
