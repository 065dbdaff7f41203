package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"mercator-hq/harbor/pkg/aggregator"
	"mercator-hq/harbor/pkg/config"
	"mercator-hq/harbor/pkg/downstream"
	"mercator-hq/harbor/pkg/handlers"
	"mercator-hq/harbor/pkg/middleware"
	"mercator-hq/harbor/pkg/router"
	"mercator-hq/harbor/pkg/shutdown"
	"mercator-hq/harbor/pkg/telemetry/health"
	"mercator-hq/harbor/pkg/telemetry/metrics"
	"mercator-hq/harbor/pkg/telemetry/tracing"
)

// ErrNotListening is returned by Serve before Listen has succeeded.
var ErrNotListening = errors.New("server is not listening")

// ErrAlreadyListening is returned by a second call to Listen.
var ErrAlreadyListening = errors.New("server is already listening")

// Server is the HTTP listener and everything it serves.
type Server struct {
	config  *config.Config
	logger  *slog.Logger
	coord   *shutdown.Coordinator
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	health  *health.Checker

	mu         sync.Mutex
	listener   net.Listener
	httpServer *http.Server
	client     *downstream.Client
	state      *handlers.State
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithCoordinator sets the shutdown coordinator. A private one is created
// otherwise, reachable only through /shutdown.
func WithCoordinator(c *shutdown.Coordinator) Option {
	return func(s *Server) { s.coord = c }
}

// WithMetrics records request and fan-out metrics and mounts the exposition
// handler when the collector is enabled.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithTracer records server and fan-out spans.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithHealth sets the readiness checker.
func WithHealth(h *health.Checker) Option {
	return func(s *Server) { s.health = h }
}

// New creates a server for cfg. Nothing is bound until Listen.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		config: cfg,
		logger: slog.Default(),
		tracer: tracing.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.coord == nil {
		s.coord = shutdown.NewCoordinator(shutdown.WithLogger(s.logger))
	}
	if s.health == nil {
		s.health = health.New(health.DefaultCheckTimeout)
	}
	return s
}

// Listen binds the configured address and builds the handler tree around
// the bound port.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return ErrAlreadyListening
	}

	addr := s.config.Server.Address()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	tcpAddr := ln.Addr().(*net.TCPAddr)

	client, err := downstream.New("http://"+dialAddress(tcpAddr), s.config.Downstream,
		downstream.WithLogger(s.logger))
	if err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to create downstream client: %w", err)
	}

	aggOpts := []aggregator.Option{
		aggregator.WithLogger(s.logger),
		aggregator.WithTracer(s.tracer),
	}
	isoOpts := []middleware.IsolateOption{middleware.WithLogger(s.logger)}
	if s.metrics != nil {
		aggOpts = append(aggOpts, aggregator.WithRecorder(s.metrics))
		isoOpts = append(isoOpts, middleware.WithRecorder(s.metrics))
	}

	state := &handlers.State{
		Port:         tcpAddr.Port,
		PauseDefault: s.config.Handlers.PauseDefault,
		Coordinator:  s.coord,
		Aggregator:   aggregator.New(client, s.config.Aggregator.Targets, aggOpts...),
		Health:       s.health,
	}
	if s.metrics != nil && s.metrics.Enabled() {
		state.Metrics = s.metrics.Handler()
		state.MetricsPath = s.config.Telemetry.Metrics.Path
	}

	rt := router.New()
	handlers.Register(rt, state)

	handler := middleware.Chain(
		middleware.Isolate(rt.Dispatch, isoOpts...),
		middleware.Tracing(s.tracer),
		middleware.RequestID,
	)

	s.listener = ln
	s.client = client
	s.state = state
	s.httpServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: s.config.Server.ReadHeaderTimeout,
		IdleTimeout:       s.config.Server.IdleTimeout,
		MaxHeaderBytes:    s.config.Server.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	s.logger.Info("listening",
		"address", ln.Addr().String(),
		"routes", rt.Paths(),
		"targets", s.config.Aggregator.Targets,
	)
	return nil
}

// Serve accepts connections until the coordinator starts draining, then
// waits for in-flight requests and returns how long the drain took.
func (s *Server) Serve() (time.Duration, error) {
	s.mu.Lock()
	ln, srv := s.listener, s.httpServer
	s.mu.Unlock()

	if ln == nil {
		return 0, ErrNotListening
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err == nil {
			err = http.ErrServerClosed
		}
		return 0, fmt.Errorf("server error: %w", err)
	case <-s.coord.Draining():
	}

	s.logger.Info("draining in-flight requests", "source", s.coord.Snapshot().Source.String())

	if err := srv.Shutdown(context.Background()); err != nil {
		return 0, fmt.Errorf("server shutdown error: %w", err)
	}

	took, err := s.coord.MarkStopped()
	if err != nil {
		return 0, err
	}
	s.logger.Info("server stopped", "drain_duration", took)
	return took, nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL returns the base URL clients should use, or "" before Listen.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return ""
	}
	return s.client.BaseURL()
}

// Port returns the bound port, or 0 before Listen.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return 0
	}
	return s.state.Port
}

// Coordinator returns the shutdown coordinator.
func (s *Server) Coordinator() *shutdown.Coordinator {
	return s.coord
}

// Downstream returns the client used by /multi, or nil before Listen.
func (s *Server) Downstream() *downstream.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// dialAddress turns a bound address into one the fan-out can dial. A
// wildcard bind is reached through loopback.
func dialAddress(addr *net.TCPAddr) string {
	ip := addr.IP
	if ip == nil || ip.IsUnspecified() {
		if ip.To4() == nil && ip != nil {
			ip = net.IPv6loopback
		} else {
			ip = net.IPv4(127, 0, 0, 1)
		}
	}
	return net.JoinHostPort(ip.String(), strconv.Itoa(addr.Port))
}
