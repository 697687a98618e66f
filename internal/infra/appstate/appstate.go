package appstate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"k8s.io/utils/clock"

	"github.com/skillcoder/podlog-archiver/internal/infra/pinger"
	"github.com/skillcoder/podlog-archiver/internal/infra/shutdown"
)

// State is the lifecycle phase of the process.
type State string

const (
	StateInit        State = "init"
	StateStarting    State = "starting"
	StateRunning     State = "running"
	StateTerminating State = "terminating"
	StateTerminated  State = "terminated"
)

// AppState tracks the lifecycle and owns the registered pingers, shutdowners and
// status reporters.
type AppState struct {
	mu                  sync.RWMutex
	logger              *slog.Logger
	clock               clock.PassiveClock
	startedAt           time.Time
	readyAt             time.Time
	terminatingAt       time.Time
	state               State
	quit                <-chan os.Signal
	terminationFilePath string
	shutdownTimeout     time.Duration
	pinger              pingerServer
	shutdowners         []shutdown.Shutdowner
	reporters           map[string]StatusReporter
}

func New(
	logger *slog.Logger,
	clk clock.PassiveClock,
	appStart time.Time,
	terminationFilePath string,
	shutdownTimeout time.Duration,
	quit <-chan os.Signal,
	pinger pingerServer,
) *AppState {
	return &AppState{
		logger:              logger,
		clock:               clk,
		startedAt:           appStart,
		state:               StateInit,
		quit:                quit,
		terminationFilePath: terminationFilePath,
		shutdownTimeout:     shutdownTimeout,
		pinger:              pinger,
		reporters:           make(map[string]StatusReporter),
	}
}

func (s *AppState) RegisterPinger(p pinger.Pinger) error {
	return s.pinger.Register(p)
}

// RegisterShutdowner appends a component; components are shut down in reverse order.
func (s *AppState) RegisterShutdowner(shutdowner shutdown.Shutdowner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shutdowners = append(s.shutdowners, shutdowner)

	return nil
}

func (s *AppState) RegisterStatusReporter(reporter StatusReporter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := reporter.Name()
	if _, exists := s.reporters[name]; exists {
		return fmt.Errorf("register status reporter %s: %w", name, ErrReporterRegistered)
	}

	s.reporters[name] = reporter

	return nil
}

func (s *AppState) GetAllStats() map[string]*pinger.Statistics {
	return s.pinger.GetAllStats()
}

// Reports collects the status section of every registered reporter.
func (s *AppState) Reports() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.reporters))
	for name, reporter := range s.reporters {
		out[name] = reporter.Status()
	}

	return out
}

func (s *AppState) SetStarting(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInit {
		return fmt.Errorf("set starting from %s: %w", s.state, ErrInvalidStateTransition)
	}

	return s.setState(StateStarting)
}

// SetRunning marks the application as ready. If the preStop marker file already
// exists the process sends itself SIGTERM, since the pod is being torn down.
func (s *AppState) SetRunning(ctx context.Context) error {
	s.mu.Lock()

	if s.state != StateStarting {
		s.mu.Unlock()

		return fmt.Errorf("set running from %s: %w", s.state, ErrInvalidStateTransition)
	}

	s.readyAt = s.clock.Now()
	err := s.setState(StateRunning)
	s.mu.Unlock()

	if shutdown.CheckTerminationFile(ctx, s.logger, s.terminationFilePath) {
		pid := os.Getpid()
		s.logger.InfoContext(ctx, "termination file found after initialization, sending SIGTERM", "pid", pid)

		killErr := syscall.Kill(pid, syscall.SIGTERM)
		if killErr != nil {
			s.logger.ErrorContext(ctx, "failed to send SIGTERM", "pid", pid, "reason", killErr)
		}
	}

	return err
}

func (s *AppState) SetTerminating(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminating {
		return nil
	}

	s.terminatingAt = s.clock.Now()

	return s.setState(StateTerminating)
}

func (s *AppState) setState(newState State) error {
	if s.state == StateTerminated {
		return fmt.Errorf("set state %s: %w", newState, ErrAlreadyTerminated)
	}

	s.state = newState

	return nil
}

func (s *AppState) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *AppState) GetStartTime() time.Time {
	return s.startedAt
}

func (s *AppState) GetUptime() time.Duration {
	return s.clock.Since(s.startedAt)
}

// IsHealthy reports whether the process is running and no health critical
// component has failed too often.
func (s *AppState) IsHealthy() bool {
	state := s.GetState()
	if state != StateRunning && state != StateTerminating {
		return false
	}

	for _, stats := range s.pinger.GetAllStats() {
		if !stats.IsHealthy {
			return false
		}
	}

	return true
}

// IsReady reports whether the process is running and every ready critical
// component answered its last ping.
func (s *AppState) IsReady() bool {
	s.mu.RLock()
	running := s.state == StateRunning && !s.readyAt.IsZero()
	s.mu.RUnlock()

	if !running {
		return false
	}

	for _, stats := range s.pinger.GetAllStats() {
		if !stats.IsReady {
			return false
		}
	}

	return true
}

func (s *AppState) Quit() <-chan os.Signal {
	return s.quit
}

// Shutdown stops every registered component and moves to the terminated state.
func (s *AppState) Shutdown(ctx context.Context) error {
	if s.GetState() == StateTerminated {
		return nil
	}

	if err := s.SetTerminating(ctx); err != nil {
		return fmt.Errorf("set terminating application state: %w", err)
	}

	s.mu.RLock()
	shutdowners := append([]shutdown.Shutdowner(nil), s.shutdowners...)
	s.mu.RUnlock()

	err := shutdown.GracefulShutdown(ctx, s.logger, s.shutdownTimeout, shutdowners)

	s.mu.Lock()
	s.state = StateTerminated
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
