package archiver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/utils/clock"

	"github.com/skillcoder/podlog-archiver/internal/infra/metrics"
)

const (
	fetchBackoffFactor = 2.0
	fetchBackoffJitter = 0.1
)

// WorkerConfig tunes the retry behaviour of a single extraction worker.
type WorkerConfig struct {
	FetchRetryAttempts   int
	FetchRetryBackoff    time.Duration
	ReconcileMaxAttempts int
}

// Worker owns the incremental fetch/upload/checkpoint cycle of one target.
// RunCycle must not be called concurrently for the same worker.
type Worker struct {
	logger      *slog.Logger
	target      Target
	repo        Repository
	objects     ObjectStore
	checkpoints CheckpointStore
	clock       clock.PassiveClock
	backoff     wait.Backoff

	reconcileMaxAttempts int

	// reconciledAt is the termination time of the last restart whose previous log
	// was archived (or given up on). Restarts at or before it are never archived again.
	reconciledAt time.Time
	// pendingAt is a restart whose reconciliation failed and is retried on later cycles
	// even after the checkpoint moved past it.
	pendingAt       time.Time
	pendingAttempts int
}

// NewWorker creates the extraction worker for target.
func NewWorker(
	logger *slog.Logger,
	clk clock.PassiveClock,
	target Target,
	repo Repository,
	objects ObjectStore,
	checkpoints CheckpointStore,
	cfg WorkerConfig,
) *Worker {
	attempts := max(cfg.FetchRetryAttempts, 1)

	reconcileMaxAttempts := cfg.ReconcileMaxAttempts
	if reconcileMaxAttempts <= 0 {
		reconcileMaxAttempts = defaultReconcileMaxAttempts
	}

	return &Worker{
		logger: logger.With(
			"namespace", target.Namespace,
			"pod", target.Pod,
			"container", target.Container,
		),
		target:      target,
		repo:        repo,
		objects:     objects,
		checkpoints: checkpoints,
		clock:       clk,
		backoff: wait.Backoff{
			Duration: cfg.FetchRetryBackoff,
			Factor:   fetchBackoffFactor,
			Jitter:   fetchBackoffJitter,
			Steps:    attempts,
		},
		reconcileMaxAttempts: reconcileMaxAttempts,
	}
}

// Target returns the identity this worker extracts logs for.
func (w *Worker) Target() Target {
	return w.target
}

// RunCycle runs one extraction cycle: read checkpoint, reconcile a restart,
// fetch the current window, upload and commit.
//
// The checkpoint only advances to the cycle start time when the current window was
// fetched and archived. ErrTargetGone means the worker must not be scheduled again.
func (w *Worker) RunCycle(ctx context.Context) (*CycleResult, error) {
	now := w.clock.Now().UTC()
	result := &CycleResult{StartedAt: now}

	checkpoint, hasCheckpoint, err := w.checkpoints.Get(ctx, w.target)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrReadCheckpoint, err)
	}

	logger := w.logger
	if hasCheckpoint {
		logger = logger.With("checkpoint", checkpoint)
	}

	logger.DebugContext(ctx, "starting cycle", "now", now)

	err = w.reconcileRestart(ctx, logger, checkpoint, hasCheckpoint, result)
	if err != nil {
		return result, err
	}

	payload, err := w.fetchCurrent(ctx, checkpoint, hasCheckpoint)
	if err != nil {
		return result, err
	}

	if len(payload) > 0 {
		object := ArchiveObject{
			Key:         ObjectKey(w.target, ArchiveKindCurrent, now),
			Payload:     payload,
			ContentType: LogContentType,
			Kind:        ArchiveKindCurrent,
		}

		err = w.upload(ctx, logger, object)
		if err != nil {
			result.UploadFailures++

			return result, err
		}

		result.Objects = append(result.Objects, object.Key)
	} else {
		logger.DebugContext(ctx, "no new log lines")
	}

	err = w.checkpoints.Commit(ctx, w.target, now)
	if err != nil {
		metrics.RecordCheckpointCommitError()

		return result, fmt.Errorf("%w: %w", ErrCommitCheckpoint, err)
	}

	result.Committed = true

	logger.DebugContext(ctx, "cycle committed", "committedAt", now)

	return result, nil
}

// fetchCurrent reads everything logged since the checkpoint. The window is measured
// from the clock at each attempt, so time spent on the restart check or on retries
// never moves its start past the checkpoint.
func (w *Worker) fetchCurrent(
	ctx context.Context,
	checkpoint time.Time,
	hasCheckpoint bool,
) ([]byte, error) {
	return w.fetchWithRetry(ctx, func() LogOptions {
		if !hasCheckpoint {
			return LogOptions{}
		}

		since := sinceSeconds(checkpoint, w.clock.Now())

		return LogOptions{SinceSeconds: &since}
	})
}

// reconcileRestart archives the previous instance's log when the container restarted
// after the checkpoint. A status that cannot be read aborts the cycle so the checkpoint
// stays behind any restart it might hide; failures archiving the previous log do not.
func (w *Worker) reconcileRestart(
	ctx context.Context,
	logger *slog.Logger,
	checkpoint time.Time,
	hasCheckpoint bool,
	result *CycleResult,
) error {
	var status *ContainerStatus

	err := w.retry(ctx, ErrReadStatus, func(ctx context.Context) error {
		var err error

		status, err = w.repo.GetContainerStatusQuery(ctx, w.target)

		return err
	})
	if err != nil {
		return err
	}

	if !w.needsReconcile(status, checkpoint, hasCheckpoint) {
		return nil
	}

	terminatedAt := status.LastTerminatedAt.UTC()
	logger = logger.With("restartCount", status.RestartCount, "terminatedAt", terminatedAt)

	logger.InfoContext(ctx, "container restart detected, archiving previous instance log")

	err = w.archivePrevious(ctx, logger, terminatedAt, result)
	if err != nil {
		w.reconcileFailed(ctx, logger, terminatedAt, err)

		return nil
	}

	w.reconciledAt = terminatedAt
	w.pendingAt = time.Time{}
	w.pendingAttempts = 0
	result.RestartArchived = true

	metrics.RecordRestartReconciled(w.target.Namespace)

	return nil
}

func (w *Worker) needsReconcile(
	status *ContainerStatus,
	checkpoint time.Time,
	hasCheckpoint bool,
) bool {
	if status.RestartCount <= 0 || status.LastTerminatedAt.IsZero() {
		return false
	}

	terminatedAt := status.LastTerminatedAt.UTC()

	if !w.reconciledAt.IsZero() && !terminatedAt.After(w.reconciledAt) {
		return false
	}

	if !hasCheckpoint || terminatedAt.After(checkpoint) {
		return true
	}

	return terminatedAt.Equal(w.pendingAt)
}

func (w *Worker) archivePrevious(
	ctx context.Context,
	logger *slog.Logger,
	terminatedAt time.Time,
	result *CycleResult,
) error {
	payload, err := w.fetchWithRetry(ctx, func() LogOptions {
		return LogOptions{Previous: true}
	})
	if err != nil {
		return err
	}

	if len(payload) == 0 {
		logger.InfoContext(ctx, "previous instance log is empty")

		return nil
	}

	object := ArchiveObject{
		Key:         ObjectKey(w.target, ArchiveKindPrevious, terminatedAt),
		Payload:     payload,
		ContentType: LogContentType,
		Kind:        ArchiveKindPrevious,
	}

	err = w.upload(ctx, logger, object)
	if err != nil {
		result.UploadFailures++

		return err
	}

	result.Objects = append(result.Objects, object.Key)

	return nil
}

func (w *Worker) reconcileFailed(
	ctx context.Context,
	logger *slog.Logger,
	terminatedAt time.Time,
	reason error,
) {
	if !w.pendingAt.Equal(terminatedAt) {
		w.pendingAt = terminatedAt
		w.pendingAttempts = 0
	}

	w.pendingAttempts++

	if w.pendingAttempts >= w.reconcileMaxAttempts {
		logger.ErrorContext(ctx, "giving up on previous instance log",
			"attempts", w.pendingAttempts,
			"reason", reason,
		)

		w.reconciledAt = terminatedAt
		w.pendingAt = time.Time{}
		w.pendingAttempts = 0

		return
	}

	logger.WarnContext(ctx, "archive previous instance log failed, will retry next cycle",
		"attempts", w.pendingAttempts,
		"reason", reason,
	)
}

// fetchWithRetry reads a log with bounded exponential backoff. opts is called before
// every attempt.
func (w *Worker) fetchWithRetry(ctx context.Context, opts func() LogOptions) ([]byte, error) {
	var payload []byte

	err := w.retry(ctx, ErrFetchLogs, func(ctx context.Context) error {
		data, err := w.repo.ReadLogQuery(ctx, w.target, opts())
		if err != nil {
			return err
		}

		payload = data

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// retry runs call with bounded exponential backoff and wraps a final failure in
// sentinel. A not-found answer is terminal and never retried.
func (w *Worker) retry(ctx context.Context, sentinel error, call func(context.Context) error) error {
	var (
		lastErr error
		attempt int
	)

	err := wait.ExponentialBackoffWithContext(ctx, w.backoff, func(ctx context.Context) (bool, error) {
		attempt++

		err := call(ctx)
		if err == nil {
			return true, nil
		}

		var target notFound
		if errors.As(err, &target) {
			return false, fmt.Errorf("%w: %w", ErrTargetGone, err)
		}

		lastErr = err

		if attempt < w.backoff.Steps {
			metrics.RecordFetchRetry(w.target.Namespace)
			w.logger.DebugContext(ctx, "api call failed, retrying",
				"call", sentinel.Error(),
				"attempt", attempt,
				"reason", err,
			)
		}

		return false, nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTargetGone):
		return err
	case lastErr != nil && ctx.Err() == nil:
		return fmt.Errorf("%w: %d attempts: %w", sentinel, attempt, lastErr)
	default:
		return fmt.Errorf("%w: %w", sentinel, err)
	}
}

func (w *Worker) upload(ctx context.Context, logger *slog.Logger, object ArchiveObject) error {
	err := w.objects.PutObjectCommand(ctx, object)
	if err != nil {
		metrics.RecordUploadError(string(object.Kind))
		logger.ErrorContext(ctx, "upload failed", "key", object.Key, "reason", err)

		return fmt.Errorf("%w: %s: %w", ErrUploadObject, object.Key, err)
	}

	metrics.RecordUploadedBytes(string(object.Kind), len(object.Payload))
	logger.InfoContext(ctx, "uploaded logs",
		"key", object.Key,
		"kind", object.Kind,
		"bytes", len(object.Payload),
	)

	return nil
}
