package app

import (
	"context"
	"os"
	"time"

	"github.com/skillcoder/podlog-archiver/internal/infra/appstate"
	"github.com/skillcoder/podlog-archiver/internal/infra/pinger"
	"github.com/skillcoder/podlog-archiver/internal/infra/shutdown"
	"github.com/skillcoder/podlog-archiver/internal/logic/archiver"
)

type appstater interface {
	RegisterPinger(pinger pinger.Pinger) error
	RegisterShutdowner(shutdowner shutdown.Shutdowner) error
	RegisterStatusReporter(reporter appstate.StatusReporter) error
	Quit() <-chan os.Signal
	SetStarting(ctx context.Context) error
	SetRunning(ctx context.Context) error
	Shutdown(ctx context.Context) error

	// probe endpoints
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
	GetAllStats() map[string]*pinger.Statistics
	Reports() map[string]any
}

type signalHandler interface {
	HandleSignals(ctx context.Context, cancel func())
}

// component is a long-lived part of the process started in registration order.
type component interface {
	shutdown.Shutdowner
	Start(ctx context.Context) error
	Ready() <-chan struct{}
}

type checkpointStore interface {
	archiver.CheckpointStore
	component
	pinger.Pinger
}
