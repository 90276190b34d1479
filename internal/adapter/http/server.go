package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/collision-data-service/internal/session"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionOpener returns a session over the loaded dataset.
type SessionOpener interface {
	Open(ctx context.Context) (*session.Session, error)
}

// Server exposes health, readiness, metrics, and dataset view endpoints.
type Server struct {
	httpServer *http.Server
	sessions   SessionOpener
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and /api/v1 routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, sessions SessionOpener, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		sessions: sessions,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/summary", s.withSession(s.handleSummary))
	mux.HandleFunc("GET /api/v1/injuries", s.withSession(s.handleInjuries))
	mux.HandleFunc("GET /api/v1/hours/{hour}", s.withSession(s.handleHour))
	mux.HandleFunc("GET /api/v1/streets", s.withSession(s.handleStreets))
	mux.HandleFunc("GET /api/v1/trends/monthly", s.withSession(s.handleMonthly))
	mux.HandleFunc("GET /api/v1/correlation", s.withSession(s.handleCorrelation))
	mux.HandleFunc("GET /api/v1/severity", s.withSession(s.handleSeverity))
	mux.HandleFunc("GET /api/v1/density", s.withSession(s.handleDensity))
	mux.HandleFunc("GET /api/v1/vehicles", s.withSession(s.handleVehicles))
	mux.HandleFunc("GET /api/v1/records", s.withSession(s.handleRecords))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
