package cronparser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/podlog-archiver/internal/infra/cronparser"
)

func TestParser_NextAfter(t *testing.T) {
	t.Parallel()

	p := cronparser.New()

	t.Run("daily prune schedule returns next occurrence", func(t *testing.T) {
		t.Parallel()

		after := time.Date(2024, 9, 4, 20, 25, 17, 0, time.UTC)
		next, err := p.NextAfter("30 3 * * *", "", after)
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, 9, 5, 3, 30, 0, 0, time.UTC), next.UTC())
	})

	t.Run("descriptor is accepted", func(t *testing.T) {
		t.Parallel()

		after := time.Date(2024, 9, 4, 20, 25, 17, 0, time.UTC)
		next, err := p.NextAfter("@hourly", "", after)
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, 9, 4, 21, 0, 0, 0, time.UTC), next.UTC())
	})

	t.Run("with tz uses timezone", func(t *testing.T) {
		t.Parallel()

		after := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
		next, err := p.NextAfter("0 8 * * *", "America/New_York", after)
		require.NoError(t, err)
		require.True(t, next.After(after))
	})

	t.Run("inline CRON_TZ ignores tz param", func(t *testing.T) {
		t.Parallel()

		after := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
		next, err := p.NextAfter("CRON_TZ=UTC 0 14 * * *", "America/New_York", after)
		require.NoError(t, err)
		require.Equal(t, 14, next.UTC().Hour())
	})

	t.Run("malformed spec returns error", func(t *testing.T) {
		t.Parallel()

		_, err := p.NextAfter("invalid", "", time.Now())
		require.Error(t, err)
	})
}

func TestParser_Validate(t *testing.T) {
	t.Parallel()

	p := cronparser.New()

	require.NoError(t, p.Validate("30 3 * * *"))
	require.NoError(t, p.Validate("@daily"))
	require.Error(t, p.Validate("61 * * * *"))
	require.Error(t, p.Validate(""))
}
