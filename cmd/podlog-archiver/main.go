package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"k8s.io/utils/clock"

	"github.com/skillcoder/podlog-archiver/internal/app"
	"github.com/skillcoder/podlog-archiver/internal/config"
	"github.com/skillcoder/podlog-archiver/internal/infra/appstate"
	"github.com/skillcoder/podlog-archiver/internal/infra/cronparser"
	"github.com/skillcoder/podlog-archiver/internal/infra/logging"
	"github.com/skillcoder/podlog-archiver/internal/infra/pinger"
	"github.com/skillcoder/podlog-archiver/internal/infra/shutdown"
)

func main() {
	appStart := time.Now()
	// Start listening for signals immediately as first thing, before any other initialization
	signals := shutdown.Notify()
	ctx := context.Background()

	err := run(ctx, signals, appStart)
	if err != nil {
		if errors.Is(err, app.ErrTerminationFile) {
			slog.InfoContext(ctx, "pod is terminating, not starting")
			os.Exit(0)
		}

		slog.ErrorContext(ctx, "failed to run", "reason", err)
		// Give the logger some time to flush
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "bye")
}

func run(ctx context.Context, signals <-chan os.Signal, appStart time.Time) error {
	cfg, err := config.Load(cronparser.New())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel)
	clk := clock.RealClock{}
	pingers := pinger.New(logger, clk, cfg.PingerInterval)
	appState := appstate.New(
		logger,
		clk,
		appStart,
		cfg.TerminationFile,
		cfg.ShutdownTimeout,
		signals,
		pingers,
	)

	logger.InfoContext(ctx, "starting podlog archiver",
		"namespaces", cfg.Namespaces,
		"bucket", cfg.Bucket,
		"checkpointBackend", cfg.CheckpointBackend,
		"fetchInterval", cfg.FetchInterval,
		"discoveryInterval", cfg.DiscoveryInterval,
	)

	application, err := app.New(logger, cfg, appState, pingers, clk)
	if err != nil {
		return fmt.Errorf("new application: %w", err)
	}

	return application.Run(ctx)
}
