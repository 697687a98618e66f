package appstate

import (
	"context"
	"time"

	"github.com/skillcoder/podlog-archiver/internal/infra/pinger"
	"github.com/skillcoder/podlog-archiver/internal/infra/shutdown"
)

// StatusReporter contributes a named section to the status endpoint.
type StatusReporter interface {
	Name() string
	Status() any
}

type pingerStatsGetter interface {
	GetAllStats() map[string]*pinger.Statistics
}

// pingerServer is the pinger service as seen by the application state.
type pingerServer interface {
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	shutdown.Shutdowner
	Register(pinger pinger.Pinger) error
	pingerStatsGetter
}

type healthChecker interface {
	IsHealthy() bool
}

type readyChecker interface {
	IsReady() bool
}

type statusGetter interface {
	pingerStatsGetter
	GetState() State
	GetUptime() time.Duration
	GetStartTime() time.Time
	Reports() map[string]any
}
