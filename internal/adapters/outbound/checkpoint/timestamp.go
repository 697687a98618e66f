package checkpoint

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimestamp = errors.New("invalid checkpoint timestamp")

// TimestampLayout is the on-disk timestamp format: microsecond precision with an
// explicit offset, always written in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// parseLayouts are tried in order. Values without an offset are read as UTC.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// FormatTimestamp renders at in TimestampLayout.
func FormatTimestamp(at time.Time) string {
	return at.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a stored checkpoint value.
func ParseTimestamp(raw string) (time.Time, error) {
	for _, layout := range parseLayouts {
		at, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return at.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}
