package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/domain"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/service"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Server exposes health, readiness, metrics, and the read API over HTTP.
type Server struct {
	httpServer *http.Server
	data       *service.DataService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with probe, metrics, and API routes.
func NewServer(addr string, data *service.DataService, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		data:   data,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/latest", s.handleLatest)
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	mux.HandleFunc("GET /api/v1/districts", s.handleDistricts)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !checker.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  "no update cycle completed yet",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.data.Latest()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data collected yet"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "hours must be a positive integer"})
			return
		}
		hours = parsed
	}

	entries := s.data.History(hours)
	writeJSON(w, http.StatusOK, historyResponse{Hours: hours, Count: len(entries), Entries: entries})
}

func (s *Server) handleDistricts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, districtsResponse{Districts: s.data.Districts()})
}

type historyResponse struct {
	Hours   int                   `json:"hours"`
	Count   int                   `json:"count"`
	Entries []domain.HistoryEntry `json:"entries"`
}

type districtsResponse struct {
	Districts []domain.District `json:"districts"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
