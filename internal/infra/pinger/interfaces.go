package pinger

import (
	"context"
	"time"
)

// Pinger is implemented by components that report their own health.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// readyCriticalPinger lets a component opt out of gating readiness.
type readyCriticalPinger interface {
	PingerReadyCritical() bool
}

// healthCriticalPinger lets a component opt out of gating liveness.
type healthCriticalPinger interface {
	PingerCritical() bool
}

type timeoutPinger interface {
	PingerTimeout() time.Duration
}
