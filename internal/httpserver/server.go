package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/podlog-archiver/internal/infra/appstate"
	"github.com/skillcoder/podlog-archiver/internal/infra/shutdown"
)

// Server is an HTTP listener with the component lifecycle used by the app.
type Server struct {
	logger     *slog.Logger
	name       string
	port       string
	handler    http.Handler
	server     *http.Server
	addr       atomic.Pointer[string]
	ready      chan struct{}
	inShutdown atomic.Bool
}

// New creates the probe server serving /-/healthz, /-/readyz and /-/status.
func New(logger *slog.Logger, appState appstater, port string) *Server {
	if port == "" {
		port = defaultPort
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/-/healthz", appstate.HandleHealthz(logger, appState))
	router.Get("/-/readyz", appstate.HandleReadyz(logger, appState))
	router.Get("/-/status", appstate.HandleStatus(logger, appState))

	return newServer(logger, "http-server", port, router)
}

func newServer(logger *slog.Logger, name, port string, handler http.Handler) *Server {
	return &Server{
		logger:  logger.With("component", name),
		name:    name,
		port:    port,
		handler: handler,
		ready:   make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*Server)(nil)

func (s *Server) Name() string {
	return s.name
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	addr := s.addr.Load()
	if addr == nil {
		return ""
	}

	return *addr
}

func (s *Server) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		return nil
	default:
		return fmt.Errorf("%s is not ready", s.name)
	}
}

// Start binds the port and serves in the background. A bind failure is returned.
func (s *Server) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "server is shutting down, skipping start")

		return nil
	}

	addr := net.JoinHostPort("", s.port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	lc := &net.ListenConfig{
		KeepAliveConfig: net.KeepAliveConfig{
			Enable: true,
		},
	}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%s listen: %w", s.name, err)
	}

	bound := listener.Addr().String()
	s.addr.Store(&bound)

	s.logger.InfoContext(ctx, "server listening", "addr", bound)

	close(s.ready)

	go func() {
		err := s.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "server error", "reason", err)
		}
	}()

	return nil
}

func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

func (s *Server) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "server is already shutting down, skipping shutdown")

		return nil
	}

	if s.server == nil {
		return nil
	}

	s.logger.InfoContext(ctx, "shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s shutdown: %w", s.name, err)
	}

	s.logger.InfoContext(ctx, "server closed properly")

	return nil
}
