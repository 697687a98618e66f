package archiver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/client-go/util/workqueue"
	"k8s.io/utils/clock"

	"github.com/skillcoder/podlog-archiver/internal/infra/metrics"
)

// Config holds the scheduling settings of the archiver service.
type Config struct {
	// Namespaces to discover targets in; empty means all namespaces.
	Namespaces           []string
	DiscoveryInterval    time.Duration
	FetchInterval        time.Duration
	MaxConcurrentWorkers int
	RetireMissingTargets bool
	// PruneSchedule is a cron spec for checkpoint pruning; empty disables pruning.
	PruneSchedule       string
	CheckpointRetention time.Duration
	Worker              WorkerConfig
}

type workerEntry struct {
	worker *Worker
	// cancel aborts the in-flight cycle; nil while the target waits in the queue.
	cancel context.CancelFunc
}

// Service discovers targets and schedules their extraction cycles on a bounded
// pool of goroutines. A target is processed by at most one goroutine at a time.
type Service struct {
	logger      *slog.Logger
	clock       clock.WithTicker
	repo        Repository
	objects     ObjectStore
	checkpoints CheckpointStore
	parser      scheduleParser
	cfg         Config
	queue       workqueue.TypedDelayingInterface[Target]

	mu            sync.RWMutex
	seenPods      map[string]struct{}
	workers       map[Target]*workerEntry
	lastDiscovery time.Time

	ready      chan struct{}
	doneCh     chan struct{}
	inShutdown atomic.Bool
	started    atomic.Bool
	wg         sync.WaitGroup
}

// New creates a new archiver service.
func New(
	logger *slog.Logger,
	clk clock.WithTicker,
	repo Repository,
	objects ObjectStore,
	checkpoints CheckpointStore,
	parser scheduleParser,
	cfg Config,
) *Service {
	if cfg.MaxConcurrentWorkers <= 0 {
		cfg.MaxConcurrentWorkers = defaultMaxConcurrentWorkers
	}

	return &Service{
		logger:      logger.With("component", "archiver"),
		clock:       clk,
		repo:        repo,
		objects:     objects,
		checkpoints: checkpoints,
		parser:      parser,
		cfg:         cfg,
		queue: workqueue.NewTypedDelayingQueueWithConfig(workqueue.TypedDelayingQueueConfig[Target]{
			Name:  "podlog-archiver",
			Clock: clk,
		}),
		seenPods: make(map[string]struct{}),
		workers:  make(map[Target]*workerEntry),
		ready:    make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Name returns the name of the archiver component
func (s *Service) Name() string {
	return "podlog-archiver"
}

func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "archiver service is shutting down, skipping start")

		return nil
	}

	s.started.Store(true)

	go s.RunCommand(ctx)

	return nil
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		age := s.clock.Since(s.LastDiscovery())
		if age > discoveryStaleFactor*s.cfg.DiscoveryInterval {
			return fmt.Errorf("last discovery was too long ago: %s", age.Round(time.Second).String())
		}

		return nil
	default:
		return fmt.Errorf("archiver service is not ready")
	}
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "archiver service is already shutting down, skipping shutdown")

		return nil
	}

	defer func() {
		s.logger.InfoContext(ctx, "archiver service shut down")
	}()

	s.logger.InfoContext(ctx, "shutting down archiver service")

	if !s.started.Load() {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before archiver loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "archiver loop exited")
	}

	return nil
}

// Status is the archiver section of the status endpoint.
type Status struct {
	ActiveTargets int       `json:"activeTargets"`
	SeenPods      int       `json:"seenPods"`
	QueueDepth    int       `json:"queueDepth"`
	LastDiscovery time.Time `json:"lastDiscovery"`
}

func (s *Service) Status() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		ActiveTargets: len(s.workers),
		SeenPods:      len(s.seenPods),
		QueueDepth:    s.queue.Len(),
		LastDiscovery: s.lastDiscovery,
	}
}

// ActiveTargets returns the number of targets with a scheduled extraction cycle.
func (s *Service) ActiveTargets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.workers)
}

// LastDiscovery returns the time of the last successful discovery pass.
func (s *Service) LastDiscovery() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastDiscovery
}

// RunCommand runs discovery on its interval and the extraction pool until ctx is done.
func (s *Service) RunCommand(ctx context.Context) {
	defer close(s.doneCh)

	logger := s.logger.With("controller", "RunCommand")

	for range s.cfg.MaxConcurrentWorkers {
		s.wg.Add(1)

		go func() {
			defer s.wg.Done()

			for s.processNextItem(ctx) {
			}
		}()
	}

	if s.cfg.PruneSchedule != "" {
		s.wg.Add(1)

		go func() {
			defer s.wg.Done()

			s.runPruner(ctx)
		}()
	}

	ticker := s.clock.NewTicker(s.cfg.DiscoveryInterval)
	defer ticker.Stop()

	logger.InfoContext(ctx, "archiver started",
		"namespaces", s.cfg.Namespaces,
		"workers", s.cfg.MaxConcurrentWorkers,
		"discoveryInterval", s.cfg.DiscoveryInterval,
		"fetchInterval", s.cfg.FetchInterval,
	)

	first := true

	for {
		_, err := s.DiscoverCommand(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "discovery error", "reason", err)
		}

		if first {
			close(s.ready)

			first = false
		}

		select {
		case <-ticker.C():
		case <-ctx.Done():
			logger.InfoContext(ctx, "terminating archiver loop")
			s.queue.ShutDown()
			s.wg.Wait()

			return
		}
	}
}

// DiscoverCommand lists the live targets, schedules the ones never seen before and,
// when enabled, retires active targets whose pod disappeared. It returns the new targets.
//
// A pod name, once scheduled, is never scheduled again even if a pod with the same name
// shows up later.
func (s *Service) DiscoverCommand(ctx context.Context) ([]Target, error) {
	logger := s.logger.With("controller", "DiscoverCommand")

	discovered, err := s.repo.ListTargetsQuery(ctx, s.cfg.Namespaces)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListTargets, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[Target]struct{}, len(discovered))
	newPods := make(map[string]struct{})
	newTargets := make([]Target, 0)

	for _, d := range discovered {
		live[d.Target] = struct{}{}

		if !d.Loggable() {
			continue
		}

		key := d.Target.podKey()
		if _, seen := s.seenPods[key]; seen {
			continue
		}

		newPods[key] = struct{}{}

		if _, exists := s.workers[d.Target]; exists {
			continue
		}

		s.workers[d.Target] = &workerEntry{
			worker: NewWorker(
				s.logger,
				s.clock,
				d.Target,
				s.repo,
				s.objects,
				s.checkpoints,
				s.cfg.Worker,
			),
		}
		newTargets = append(newTargets, d.Target)
	}

	for key := range newPods {
		s.seenPods[key] = struct{}{}
	}

	retired := 0

	if s.cfg.RetireMissingTargets {
		for target, entry := range s.workers {
			if _, ok := live[target]; ok {
				continue
			}

			if entry.cancel != nil {
				entry.cancel()
			}

			delete(s.workers, target)

			retired++

			logger.InfoContext(ctx, "target disappeared, retiring worker",
				"namespace", target.Namespace,
				"pod", target.Pod,
				"container", target.Container,
			)
		}
	}

	for _, target := range newTargets {
		s.queue.Add(target)
	}

	s.lastDiscovery = s.clock.Now()
	metrics.SetActiveTargets(len(s.workers))

	logger.DebugContext(ctx, "discovery finished",
		"discovered", len(discovered),
		"new", len(newTargets),
		"retired", retired,
		"active", len(s.workers),
	)

	return newTargets, nil
}

// PruneCommand removes checkpoints of inactive targets older than the retention.
func (s *Service) PruneCommand(ctx context.Context) (int, error) {
	olderThan := s.clock.Now().Add(-s.cfg.CheckpointRetention)

	pruned, err := s.checkpoints.Prune(ctx, olderThan, s.isActive)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPruneCheckpoints, err)
	}

	metrics.RecordCheckpointsPruned(pruned)

	return pruned, nil
}

func (s *Service) isActive(target Target) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.workers[target]

	return ok
}

func (s *Service) processNextItem(ctx context.Context) bool {
	target, shutdown := s.queue.Get()
	if shutdown {
		return false
	}

	defer s.queue.Done(target)

	worker, cycleCtx, ok := s.beginCycle(ctx, target)
	if !ok {
		s.logger.DebugContext(ctx, "target retired, dropping", "target", target.String())

		return true
	}

	result, err := worker.RunCycle(cycleCtx)

	active := s.endCycle(target)

	switch {
	case err == nil:
		metrics.RecordCycle(target.Namespace, metrics.CycleResultCommitted)
	case errors.Is(err, ErrTargetGone):
		s.removeWorker(target)
		metrics.RecordCycle(target.Namespace, metrics.CycleResultGone)
		s.logger.InfoContext(ctx, "target not found, stopping worker",
			"namespace", target.Namespace,
			"pod", target.Pod,
			"container", target.Container,
			"reason", err,
		)

		return true
	case ctx.Err() != nil || !active:
		return true
	default:
		metrics.RecordCycle(target.Namespace, metrics.CycleResultFailed)
		s.logger.ErrorContext(ctx, "cycle failed, checkpoint kept",
			"namespace", target.Namespace,
			"pod", target.Pod,
			"container", target.Container,
			"uploadFailures", result.UploadFailures,
			"reason", err,
		)
	}

	if active {
		s.queue.AddAfter(target, s.cfg.FetchInterval)
	}

	return true
}

func (s *Service) beginCycle(ctx context.Context, target Target) (*Worker, context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.workers[target]
	if !ok {
		return nil, nil, false
	}

	cycleCtx, cancel := context.WithCancel(ctx)
	entry.cancel = cancel

	return entry.worker, cycleCtx, true
}

// endCycle releases the cycle context and reports whether the target is still active.
func (s *Service) endCycle(target Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.workers[target]
	if !ok {
		return false
	}

	if entry.cancel != nil {
		entry.cancel()
		entry.cancel = nil
	}

	return true
}

func (s *Service) removeWorker(target Target) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.workers, target)
	metrics.SetActiveTargets(len(s.workers))
}

func (s *Service) runPruner(ctx context.Context) {
	logger := s.logger.With("controller", "runPruner")

	for {
		now := s.clock.Now()

		next, err := s.parser.NextAfter(s.cfg.PruneSchedule, "", now)
		if err != nil {
			logger.ErrorContext(ctx, "invalid prune schedule, pruning disabled", "reason", err)

			return
		}

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(next.Sub(now)):
		}

		pruned, err := s.PruneCommand(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "prune checkpoints failed", "reason", err)

			continue
		}

		logger.InfoContext(ctx, "checkpoints pruned", "count", pruned, "next", next)
	}
}
