package archiver

import (
	"context"
	"time"
)

// Repository is the port interface for Kubernetes operations.
// Implementations are provided by adapters in the outbound layer.
type Repository interface {
	// ListTargetsQuery lists every container of every pod in the given namespaces;
	// an empty slice means all namespaces.
	ListTargetsQuery(
		ctx context.Context,
		namespaces []string,
	) ([]DiscoveredTarget, error)

	GetContainerStatusQuery(
		ctx context.Context,
		target Target,
	) (*ContainerStatus, error)

	ReadLogQuery(
		ctx context.Context,
		target Target,
		opts LogOptions,
	) ([]byte, error)
}

// ObjectStore is the port interface for the archive destination.
type ObjectStore interface {
	PutObjectCommand(
		ctx context.Context,
		object ArchiveObject,
	) error
}

// CheckpointStore keeps the last archived timestamp per target.
// Commit must never lose a concurrent commit for another target.
type CheckpointStore interface {
	// Get returns false when the target has no usable checkpoint.
	Get(ctx context.Context, target Target) (time.Time, bool, error)
	// Commit stores at for target unless the stored value is already later.
	Commit(ctx context.Context, target Target, at time.Time) error
	// Prune removes checkpoints older than olderThan for which keep returns false.
	Prune(ctx context.Context, olderThan time.Time, keep func(Target) bool) (int, error)
}

// notFound is a private interface for checking "not found" errors
// without importing the adapter package.
type notFound interface {
	IsNotFound()
}

// scheduleParser computes the next run of a cron schedule.
type scheduleParser interface {
	NextAfter(spec, tz string, after time.Time) (time.Time, error)
}
