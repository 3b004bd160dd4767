// Package http serves the sepsis prediction API.
package http

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and its route table.
type Server struct {
	server *http.Server
	config ServerConfig
}

// ServerConfig holds the listen address and timeouts.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig binds every interface on port 8000.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8000,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// NewServer registers the API routes behind the middleware chain.
func NewServer(config ServerConfig, handlers *Handlers) *Server {
	mux := http.NewServeMux()
	handlers.Register(mux)

	chain := Chain(
		RecoveryMiddleware,
		LoggerMiddleware,
		SecurityHeadersMiddleware,
	)

	return &Server{
		server: &http.Server{
			Addr:         net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
			Handler:      chain(mux),
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		config: config,
	}
}

// Start blocks serving requests until Stop is called.
func (s *Server) Start() error {
	zap.L().Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

// Stop shuts the server down gracefully within ShutdownTimeout.
func (s *Server) Stop() error {
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	zap.L().Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return eris.Wrap(err, "server forced to shutdown")
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
