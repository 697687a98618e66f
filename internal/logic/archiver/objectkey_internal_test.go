package archiver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sinceSecondsCase struct {
	name      string
	giveDelta time.Duration
	want      int64
}

func Test_sinceSeconds(t *testing.T) {
	t.Parallel()

	checkpoint := time.Date(2024, 9, 4, 20, 25, 17, 0, time.UTC)

	tests := []sinceSecondsCase{
		{name: "whole seconds", giveDelta: 60 * time.Second, want: 60},
		{name: "fraction rounds up", giveDelta: 59*time.Second + time.Millisecond, want: 60},
		{name: "zero is clamped to one", giveDelta: 0, want: 1},
		{name: "clock skew is clamped to one", giveDelta: -5 * time.Second, want: 1},
		{name: "sub-second", giveDelta: 300 * time.Millisecond, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sinceSeconds(checkpoint, checkpoint.Add(tt.giveDelta))
			require.Equal(t, tt.want, got)

			// the requested window never starts after the checkpoint
			if tt.giveDelta > 0 {
				start := checkpoint.Add(tt.giveDelta).Add(-time.Duration(got) * time.Second)
				require.False(t, start.After(checkpoint))
			}
		})
	}
}

func TestDiscoveredTarget_Loggable(t *testing.T) {
	t.Parallel()

	for phase, want := range map[PodPhase]bool{
		PodPhasePending:   true,
		PodPhaseRunning:   true,
		PodPhaseSucceeded: false,
		PodPhaseFailed:    false,
		PodPhaseUnknown:   false,
	} {
		require.Equal(t, want, DiscoveredTarget{Phase: phase}.Loggable(), string(phase))
	}
}
