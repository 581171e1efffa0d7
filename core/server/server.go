// Package server exposes the agent over HTTP.
//
// Routes:
//
//	POST   /agent/message                       process a message
//	GET    /agent/session/{session_id}/history  read session history
//	DELETE /agent/session/{session_id}          clear a session
//	GET    /agent/plugins                       list registered plugins
//	GET    /health                              liveness probe
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/adalundhe/relay/core/agent"
	"github.com/adalundhe/relay/core/config"
)

// Server is the HTTP front end for the agent
type Server struct {
	mux    *http.ServeMux
	agent  *agent.Agent
	cfg    config.ServerConfig
	logger *slog.Logger
}

// New creates a server with all routes registered
func New(a *agent.Agent, cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:    http.NewServeMux(),
		agent:  a,
		cfg:    cfg,
		logger: logger,
	}

	s.mux.HandleFunc("POST /agent/message", s.handleMessage)
	s.mux.HandleFunc("GET /agent/session/{session_id}/history", s.handleSessionHistory)
	s.mux.HandleFunc("DELETE /agent/session/{session_id}", s.handleClearSession)
	s.mux.HandleFunc("GET /agent/plugins", s.handlePlugins)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	return s
}

// Handler returns the routes wrapped in middleware.
// Order: recovery outermost, then request logging.
func (s *Server) Handler() http.Handler {
	return s.recoveryMiddleware(s.loggingMiddleware(s.mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout.Std(),
		WriteTimeout:      s.cfg.WriteTimeout.Std(),
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Std())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
