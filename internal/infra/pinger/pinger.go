package pinger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"

	"github.com/skillcoder/podlog-archiver/internal/infra/metrics"
)

const defaultPingTimeout = 2 * time.Second

type entry struct {
	pinger         Pinger
	readyCritical  bool
	healthCritical bool
	timeout        time.Duration
	stats          *stats
}

// Service pings registered components on an interval and keeps their health.
type Service struct {
	logger     *slog.Logger
	clock      clock.WithTicker
	interval   time.Duration
	mu         sync.RWMutex
	entries    map[string]*entry
	ready      chan struct{}
	inShutdown atomic.Bool
	started    atomic.Bool
	doneCh     chan struct{}
	wg         sync.WaitGroup
}

func New(
	logger *slog.Logger,
	clk clock.WithTicker,
	interval time.Duration,
) *Service {
	return &Service{
		logger:   logger.With("component", "pinger"),
		clock:    clk,
		interval: interval,
		entries:  make(map[string]*entry),
		ready:    make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (s *Service) Name() string {
	return "pinger-service"
}

// Register adds a component. Components are ready and health critical unless they
// implement PingerReadyCritical or PingerCritical.
func (s *Service) Register(p Pinger) error {
	if p == nil {
		return fmt.Errorf("register pinger: %w", ErrNilPinger)
	}

	name := p.Name()

	e := &entry{
		pinger:         p,
		readyCritical:  true,
		healthCritical: true,
		timeout:        defaultPingTimeout,
		stats:          newStats(),
	}

	if rc, ok := p.(readyCriticalPinger); ok {
		e.readyCritical = rc.PingerReadyCritical()
	}

	if hc, ok := p.(healthCriticalPinger); ok {
		e.healthCritical = hc.PingerCritical()
	}

	if tp, ok := p.(timeoutPinger); ok && tp.PingerTimeout() > 0 {
		e.timeout = tp.PingerTimeout()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("register pinger %s: %w", name, ErrPingerAlreadyRegistered)
	}

	s.entries[name] = e

	s.logger.Info("pinger registered",
		"name", name,
		"readyCritical", e.readyCritical,
		"healthCritical", e.healthCritical,
		"timeout", e.timeout,
	)

	return nil
}

// Start runs the first round of pings in the background and then keeps pinging on
// the interval. Ready is closed after the first round.
func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "pinger service is shutting down, skipping start")

		return nil
	}

	s.started.Store(true)

	go s.run(ctx)

	return nil
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "pinger service is already shutting down, skipping shutdown")

		return nil
	}

	s.logger.InfoContext(ctx, "shutting down pinger service")

	if !s.started.Load() {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before pinger loop exited: %w", ctx.Err())
	case <-s.doneCh:
	}

	s.wg.Wait()

	s.logger.InfoContext(ctx, "pinger service shut down")

	return nil
}

func (s *Service) GetStats(name string) (*Statistics, error) {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("get stats: %w: %s", ErrPingerNotFound, name)
	}

	return e.stats.snapshot(e.readyCritical, e.healthCritical), nil
}

// GetAllStats returns a snapshot for every registered component.
func (s *Service) GetAllStats() map[string]*Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*Statistics, len(s.entries))
	for name, e := range s.entries {
		result[name] = e.stats.snapshot(e.readyCritical, e.healthCritical)
	}

	return result
}

func (s *Service) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.pingAll(ctx)
	close(s.ready)

	for {
		if s.inShutdown.Load() {
			s.logger.InfoContext(ctx, "terminating pinger loop")

			return
		}

		select {
		case <-ticker.C():
			s.pingAll(ctx)
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "terminating pinger loop")

			return
		}
	}
}

// pingAll pings every component concurrently and waits for all of them.
func (s *Service) pingAll(ctx context.Context) {
	s.mu.RLock()
	entries := maps.Clone(s.entries)
	s.mu.RUnlock()

	var round sync.WaitGroup

	for name, e := range entries {
		round.Add(1)
		s.wg.Add(1)

		go func() {
			defer round.Done()
			defer s.wg.Done()

			s.ping(ctx, name, e)
		}()
	}

	round.Wait()
}

func (s *Service) ping(ctx context.Context, name string, e *entry) {
	pingCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := s.clock.Now()
	err := e.pinger.Ping(pingCtx)
	latency := s.clock.Since(start)

	e.stats.record(s.clock.Now(), latency, err)
	metrics.RecordPing(name, latency, err)

	if err != nil {
		s.logger.WarnContext(ctx, "ping failed", "name", name, "latency", latency, "reason", err)

		return
	}

	s.logger.DebugContext(ctx, "ping succeeded", "name", name, "latency", latency)
}
