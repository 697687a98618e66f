package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"k8s.io/klog/v2"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// New builds the process logger writing to stdout, makes it the slog default and
// routes client-go's klog output through it.
func New(logFormat, logLevel string) *slog.Logger {
	logger := NewWithWriter(os.Stdout, logFormat, logLevel)

	slog.SetDefault(logger)
	klog.SetSlogLogger(logger.With("source", "client-go"))

	return logger
}

// NewWithWriter builds a logger writing to w. Unknown formats fall back to JSON and
// unknown levels to info.
func NewWithWriter(w io.Writer, logFormat, logLevel string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(logLevel)}

	var handler slog.Handler

	switch strings.ToLower(logFormat) {
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

func ParseLevel(logLevel string) slog.Level {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(logLevel)))
	if err != nil {
		return slog.LevelInfo
	}

	return level
}
