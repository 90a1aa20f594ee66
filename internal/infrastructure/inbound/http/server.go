package http_server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/config"
)

type Server struct {
	server  *http.Server
	cfg     config.HTTPServer
	log     ports.Logger
	metrics ports.MetricsProvider
	active  atomic.Int64
}

func NewServer(handler http.Handler, cfg config.HTTPServer, log ports.Logger, metrics ports.MetricsProvider) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
	}
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ConnState:    s.trackConn,
	}
	return s
}

// trackConn keeps the active connections gauge in step with the listener.
func (s *Server) trackConn(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metrics.SetActiveConnections(int(s.active.Add(1)))
	case http.StateHijacked, http.StateClosed:
		s.metrics.SetActiveConnections(int(s.active.Add(-1)))
	}
}

func (s *Server) Run() error {
	s.log.Info("Starting HTTP server", slog.String("address", s.cfg.Address), slog.Int("port", s.cfg.Port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
