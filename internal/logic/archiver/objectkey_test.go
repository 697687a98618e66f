package archiver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/podlog-archiver/internal/logic/archiver"
)

type objectKeyCase struct {
	name     string
	giveKind archiver.ArchiveKind
	giveAt   time.Time
	wantKey  string
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	target := archiver.Target{Namespace: "a", Pod: "p", Container: "c"}
	berlin := time.FixedZone("CEST", 2*60*60)

	tests := []objectKeyCase{
		{
			name:     "current",
			giveKind: archiver.ArchiveKindCurrent,
			giveAt:   time.Date(2024, 9, 4, 20, 25, 17, 0, time.UTC),
			wantKey:  "a/p/c/04-09-2024/20-25-17.log",
		},
		{
			name:     "previous",
			giveKind: archiver.ArchiveKindPrevious,
			giveAt:   time.Date(2024, 9, 6, 13, 58, 59, 0, time.UTC),
			wantKey:  "a/p/c/previous/06-09-2024/13-58-59.log",
		},
		{
			name:     "sub-second part is dropped",
			giveKind: archiver.ArchiveKindCurrent,
			giveAt:   time.Date(2024, 1, 2, 3, 4, 5, 999_999_999, time.UTC),
			wantKey:  "a/p/c/02-01-2024/03-04-05.log",
		},
		{
			name:     "non-UTC time is converted",
			giveKind: archiver.ArchiveKindCurrent,
			giveAt:   time.Date(2024, 9, 5, 0, 30, 0, 0, berlin),
			wantKey:  "a/p/c/04-09-2024/22-30-00.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.wantKey, archiver.ObjectKey(target, tt.giveKind, tt.giveAt))
		})
	}
}

func TestTarget_String(t *testing.T) {
	t.Parallel()

	target := archiver.Target{Namespace: "ns", Pod: "pod", Container: "app"}
	require.Equal(t, "ns/pod/app", target.String())
}
