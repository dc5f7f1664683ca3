// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/spicyid/spicyid/internal/config"
	"github.com/spicyid/spicyid/internal/handlers"
	"github.com/spicyid/spicyid/internal/metrics"
	"github.com/spicyid/spicyid/internal/middleware"
	"github.com/spicyid/spicyid/internal/repository"
	"github.com/spicyid/spicyid/pkg/logger"
)

// Server represents the HTTP server.
type Server struct {
	cfg           *config.Config
	log           *logger.Logger
	httpServer    *http.Server
	healthHandler *handlers.HealthHandler
	recordHandler *handlers.RecordHandler
	idHandler     *handlers.IDHandler
	recordRepo    repository.RecordRepository
	listener      net.Listener
	running       bool
	mu            sync.RWMutex
}

// New creates a new Server instance.
func New(cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		cfg:           cfg,
		log:           log,
		healthHandler: handlers.NewHealthHandler(),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      s.buildMiddlewareChain(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// buildMiddlewareChain wraps the router. The access log runs innermost so it
// sees the request ID and client IP placed in the context.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	return middleware.New(
		middleware.Metrics(),
		middleware.RequestID(),
		middleware.ClientIP(s.cfg.Server.TrustProxy, nil),
		middleware.AccessLog(s.log),
	).Then(handler)
}

// registerRoutes sets up the HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.healthHandler.Health)
	mux.HandleFunc("GET /ready", s.healthHandler.Ready)
	mux.Handle("GET /metrics", metrics.Handler())

	// Records
	mux.HandleFunc("POST /api/v1/records", s.handleCreateRecord)
	mux.HandleFunc("GET /api/v1/records", s.handleListRecords)
	mux.HandleFunc("GET /api/v1/records/{id}", s.handleGetRecord)
	mux.HandleFunc("DELETE /api/v1/records/{id}", s.handleDeleteRecord)

	// Identifier codec
	mux.HandleFunc("GET /api/v1/ids/config", s.handleIDConfig)
	mux.HandleFunc("GET /api/v1/ids/encode/{n}", s.handleEncode)
	mux.HandleFunc("GET /api/v1/ids/decode/{id}", s.handleDecode)
	mux.HandleFunc("GET /api/v1/ids/validate/{id}", s.handleValidate)
}

func (s *Server) records(w http.ResponseWriter) (*handlers.RecordHandler, bool) {
	s.mu.RLock()
	h := s.recordHandler
	s.mu.RUnlock()
	if h == nil {
		http.Error(w, "record service not configured", http.StatusServiceUnavailable)
		return nil, false
	}
	return h, true
}

func (s *Server) ids(w http.ResponseWriter) (*handlers.IDHandler, bool) {
	s.mu.RLock()
	h := s.idHandler
	s.mu.RUnlock()
	if h == nil {
		http.Error(w, "id service not configured", http.StatusServiceUnavailable)
		return nil, false
	}
	return h, true
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.records(w); ok {
		h.Create(w, r)
	}
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.records(w); ok {
		h.List(w, r)
	}
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.records(w); ok {
		h.Get(w, r, r.PathValue("id"))
	}
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.records(w); ok {
		h.Delete(w, r, r.PathValue("id"))
	}
}

func (s *Server) handleIDConfig(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.ids(w); ok {
		h.Config(w, r)
	}
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.ids(w); ok {
		h.Encode(w, r, r.PathValue("n"))
	}
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.ids(w); ok {
		h.Decode(w, r, r.PathValue("id"))
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if h, ok := s.ids(w); ok {
		h.Validate(w, r, r.PathValue("id"))
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	// Listen first so Addr reports the real port when configured with 0.
	listener, err := net.Listen("tcp", s.cfg.Server.Address())
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.log.Info("server starting", "address", listener.Addr().String())

	err = s.httpServer.Serve(listener)
	if err != nil && err != http.ErrServerClosed {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")

	s.healthHandler.SetReady(false)

	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil {
		s.log.Error("shutdown error", "error", err.Error())
		return err
	}

	s.log.Info("server stopped")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// HealthHandler returns the health handler.
func (s *Server) HealthHandler() *handlers.HealthHandler {
	return s.healthHandler
}

// SetRecordRepository sets the record repository and registers it as a
// readiness check.
func (s *Server) SetRecordRepository(repo repository.RecordRepository) {
	s.mu.Lock()
	s.recordRepo = repo
	s.mu.Unlock()
	if repo != nil {
		s.healthHandler.AddCheck("records", repo.HealthCheck)
	}
}

// RecordRepository returns the record repository.
func (s *Server) RecordRepository() repository.RecordRepository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recordRepo
}

// SetRecordHandler sets the record handler for the server.
func (s *Server) SetRecordHandler(h *handlers.RecordHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordHandler = h
}

// RecordHandler returns the record handler.
func (s *Server) RecordHandler() *handlers.RecordHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recordHandler
}

// SetIDHandler sets the identifier handler for the server.
func (s *Server) SetIDHandler(h *handlers.IDHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idHandler = h
}

// IDHandler returns the identifier handler.
func (s *Server) IDHandler() *handlers.IDHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idHandler
}
