// Package diagnostics runs a small local HTTP server exposing health and
// Prometheus metrics for the console process. It binds loopback only.
package diagnostics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minhthien1995/booking-football-cms/pkg/logging"
)

// Server serves /healthz and /metrics on a local address.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// NewServer builds the diagnostics server for the given address.
func NewServer(addr string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in a new goroutine. Failure to bind is logged, not fatal:
// diagnostics are optional for the console to function.
func (s *Server) Start() {
	go func() {
		s.logger.Info("diagnostics server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Warn("diagnostics server stopped", "error", err)
		}
	}()
}

// Shutdown drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
