package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/config"
)

const defaultShutdownTimeout = 10 * time.Second

// Server wraps http.Server with graceful shutdown support.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server from the given config and handler.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		logger: logger,
	}
}

// Start listens on the configured address and serves HTTP requests.
// It blocks until the server stops. Returns nil on graceful shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until the server is shut down.
// Returns nil on graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("now listening", slog.String("url", "http://"+ln.Addr().String()))

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline. If ctx has no deadline,
// a default 10-second timeout is applied.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultShutdownTimeout)
		defer cancel()
	}

	s.logger.Info("shutting down HTTP server")
	return s.srv.Shutdown(ctx)
}

// Addr returns the server's configured listen address string.
func (s *Server) Addr() string {
	return s.srv.Addr
}
