package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Pinger is the slice of the store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusFunc returns the collector's current status snapshot.
type StatusFunc func() any

// Server exposes health, status, and metrics over HTTP. It is operational
// plumbing only; persisted data is queried from the database directly.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer wires the routes and builds the HTTP server.
func NewServer(addr string, status StatusFunc, pinger Pinger, metricsHandler http.Handler, logger *slog.Logger) *Server {
	r := mux.NewRouter()

	s := &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: r,
		},
		logger: logger,
	}

	r.HandleFunc("/healthz", s.handleHealth(pinger)).Methods("GET")
	r.HandleFunc("/api/status", s.handleStatus(status)).Methods("GET")
	r.Handle("/metrics", metricsHandler).Methods("GET")

	return s
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting status server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop shuts the server down, letting in-flight requests finish.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		database := "connected"
		if err := pinger.Ping(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
			database = "error: " + err.Error()
		}

		writeJSON(w, code, map[string]string{
			"status":    status,
			"database":  database,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

func (s *Server) handleStatus(status StatusFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, status())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
