package appstate_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/skillcoder/podlog-archiver/internal/infra/appstate"
	"github.com/skillcoder/podlog-archiver/internal/infra/pinger"
)

type staticPinger struct {
	name string
	err  error
}

func (p staticPinger) Name() string {
	return p.name
}

func (p staticPinger) Ping(context.Context) error {
	return p.err
}

type staticReporter struct{}

func (staticReporter) Name() string {
	return "archiver"
}

func (staticReporter) Status() any {
	return map[string]int{"activeTargets": 3}
}

type recordingShutdowner struct {
	name  string
	order *[]string
}

func (r recordingShutdowner) Name() string {
	return r.name
}

func (r recordingShutdowner) Shutdown(context.Context) error {
	*r.order = append(*r.order, r.name)

	return nil
}

func newAppState(t *testing.T, clk *testingclock.FakeClock) (*appstate.AppState, *pinger.Service) {
	t.Helper()

	pingers := pinger.New(slog.Default(), clk, time.Second)
	s := appstate.New(slog.Default(), clk, clk.Now(), "", time.Second, make(chan os.Signal, 1), pingers)

	return s, pingers
}

func TestAppState_StateTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		giveSteps []func(*appstate.AppState, context.Context) error
		wantState appstate.State
		wantErr   error
	}{
		{
			name: "init to starting",
			giveSteps: []func(*appstate.AppState, context.Context) error{
				(*appstate.AppState).SetStarting,
			},
			wantState: appstate.StateStarting,
		},
		{
			name: "starting to running",
			giveSteps: []func(*appstate.AppState, context.Context) error{
				(*appstate.AppState).SetStarting,
				(*appstate.AppState).SetRunning,
			},
			wantState: appstate.StateRunning,
		},
		{
			name: "running to terminating",
			giveSteps: []func(*appstate.AppState, context.Context) error{
				(*appstate.AppState).SetStarting,
				(*appstate.AppState).SetRunning,
				(*appstate.AppState).SetTerminating,
			},
			wantState: appstate.StateTerminating,
		},
		{
			name: "init to running is rejected",
			giveSteps: []func(*appstate.AppState, context.Context) error{
				(*appstate.AppState).SetRunning,
			},
			wantState: appstate.StateInit,
			wantErr:   appstate.ErrInvalidStateTransition,
		},
		{
			name: "terminated cannot change",
			giveSteps: []func(*appstate.AppState, context.Context) error{
				(*appstate.AppState).SetStarting,
				(*appstate.AppState).Shutdown,
				(*appstate.AppState).SetTerminating,
			},
			wantState: appstate.StateTerminated,
			wantErr:   appstate.ErrAlreadyTerminated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newAppState(t, testingclock.NewFakeClock(time.Now()))

			var err error
			for _, step := range tt.giveSteps {
				err = step(s, t.Context())
			}

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			require.Equal(t, tt.wantState, s.GetState())
		})
	}
}

func TestAppState_Probes(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(time.Now())
	s, pingers := newAppState(t, clk)

	require.NoError(t, s.RegisterPinger(staticPinger{name: "ok"}))
	require.NoError(t, s.RegisterPinger(staticPinger{name: "broken", err: errors.New("down")}))

	require.False(t, s.IsHealthy())
	require.False(t, s.IsReady())

	require.NoError(t, s.SetStarting(t.Context()))
	require.NoError(t, s.SetRunning(t.Context()))

	// nothing pinged yet
	require.True(t, s.IsHealthy())
	require.True(t, s.IsReady())

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, pingers.Start(ctx))
	<-pingers.Ready()

	require.True(t, s.IsHealthy())
	require.False(t, s.IsReady())

	cancel()
	require.NoError(t, pingers.Shutdown(t.Context()))

	clk.Step(time.Minute)
	require.Equal(t, time.Minute, s.GetUptime())
}

func TestAppState_Shutdown(t *testing.T) {
	t.Parallel()

	s, _ := newAppState(t, testingclock.NewFakeClock(time.Now()))
	order := make([]string, 0, 2)

	require.NoError(t, s.RegisterShutdowner(recordingShutdowner{name: "checkpoints", order: &order}))
	require.NoError(t, s.RegisterShutdowner(recordingShutdowner{name: "archiver", order: &order}))
	require.NoError(t, s.SetStarting(t.Context()))
	require.NoError(t, s.SetRunning(t.Context()))

	require.NoError(t, s.Shutdown(t.Context()))
	require.Equal(t, appstate.StateTerminated, s.GetState())
	require.Equal(t, []string{"archiver", "checkpoints"}, order)

	require.NoError(t, s.Shutdown(t.Context()))
	require.Len(t, order, 2)
}

func TestAppState_Reports(t *testing.T) {
	t.Parallel()

	s, _ := newAppState(t, testingclock.NewFakeClock(time.Now()))

	require.NoError(t, s.RegisterStatusReporter(staticReporter{}))
	require.ErrorIs(t, s.RegisterStatusReporter(staticReporter{}), appstate.ErrReporterRegistered)

	require.Equal(t, map[string]any{"archiver": map[string]int{"activeTargets": 3}}, s.Reports())
}
