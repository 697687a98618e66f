package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/utils/clock"

	"github.com/skillcoder/podlog-archiver/internal/adapters/outbound/checkpoint/sqlitestore"
	"github.com/skillcoder/podlog-archiver/internal/adapters/outbound/checkpoint/yamlstore"
	"github.com/skillcoder/podlog-archiver/internal/adapters/outbound/k8s"
	"github.com/skillcoder/podlog-archiver/internal/adapters/outbound/objectstore"
	"github.com/skillcoder/podlog-archiver/internal/config"
	"github.com/skillcoder/podlog-archiver/internal/httpserver"
	"github.com/skillcoder/podlog-archiver/internal/infra/cronparser"
	"github.com/skillcoder/podlog-archiver/internal/infra/pinger"
	"github.com/skillcoder/podlog-archiver/internal/infra/shutdown"
	"github.com/skillcoder/podlog-archiver/internal/logic/archiver"
)

var ErrTerminationFile = errors.New("termination file present, refusing to start")

type App struct {
	logger          *slog.Logger
	appState        appstater
	signals         signalHandler
	components      []component
	terminationFile string
}

// New wires every component. Nothing talks to the cluster or the bucket until Run.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	appState appstater,
	pingers *pinger.Service,
	clk clock.WithTicker,
) (*App, error) {
	kubeConfig, err := clientcmd.BuildConfigFromFlags(cfg.KubeMaster, cfg.KubeConfig)
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	k8sRepo := k8s.New(logger, clientset)

	objects, err := objectstore.New(logger, objectstore.Config{
		Endpoint:     cfg.MinioEndpoint,
		AccessKey:    cfg.MinioAccessKey,
		SecretKey:    cfg.MinioSecretKey,
		Bucket:       cfg.Bucket,
		CreateBucket: cfg.MinioCreateBucket,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store: %w", err)
	}

	checkpoints, err := openCheckpointStore(logger, cfg)
	if err != nil {
		return nil, err
	}

	archiverService := archiver.New(
		logger,
		clk,
		k8sRepo,
		objects,
		checkpoints,
		cronparser.New(),
		archiver.Config{
			Namespaces:           cfg.Namespaces,
			DiscoveryInterval:    cfg.DiscoveryInterval,
			FetchInterval:        cfg.FetchInterval,
			MaxConcurrentWorkers: cfg.MaxConcurrentWorkers,
			RetireMissingTargets: cfg.RetireMissingTargets,
			PruneSchedule:        cfg.CheckpointPruneSchedule,
			CheckpointRetention:  cfg.CheckpointRetention,
			Worker: archiver.WorkerConfig{
				FetchRetryAttempts:   cfg.FetchRetryAttempts,
				FetchRetryBackoff:    cfg.FetchRetryBackoff,
				ReconcileMaxAttempts: cfg.ReconcileMaxAttempts,
			},
		},
	)

	httpServer := httpserver.New(logger, appState, cfg.HTTPPort)
	metricsServer := httpserver.NewMetricsServer(logger, prometheus.DefaultGatherer, cfg.MetricsPort)

	// start order; shutdown runs in reverse
	components := []component{
		checkpoints,
		objects,
		archiverService,
		httpServer,
		metricsServer,
		pingers,
	}

	for _, c := range components {
		if err := appState.RegisterShutdowner(c); err != nil {
			return nil, fmt.Errorf("register shutdowner %s: %w", c.Name(), err)
		}
	}

	for _, p := range []pinger.Pinger{checkpoints, objects, archiverService, httpServer, metricsServer} {
		if err := appState.RegisterPinger(p); err != nil {
			return nil, fmt.Errorf("register pinger %s: %w", p.Name(), err)
		}
	}

	if err := appState.RegisterStatusReporter(archiverService); err != nil {
		return nil, fmt.Errorf("register status reporter: %w", err)
	}

	return &App{
		logger:          logger,
		appState:        appState,
		signals:         shutdown.New(logger, appState),
		components:      components,
		terminationFile: cfg.TerminationFile,
	}, nil
}

func openCheckpointStore(logger *slog.Logger, cfg *config.Config) (checkpointStore, error) {
	switch cfg.CheckpointBackend {
	case config.CheckpointBackendSQLite:
		store, err := sqlitestore.Open(logger, cfg.CheckpointPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite checkpoint store: %w", err)
		}

		return store, nil
	default:
		store, err := yamlstore.Open(logger, cfg.CheckpointPath)
		if err != nil {
			return nil, fmt.Errorf("open yaml checkpoint store: %w", err)
		}

		return store, nil
	}
}

// Run starts the components in order, waits until all of them are ready and then
// blocks until a termination signal arrives. Components are always shut down
// before Run returns.
func (a *App) Run(originCtx context.Context) error {
	if shutdown.CheckTerminationFile(originCtx, a.logger, a.terminationFile) {
		return ErrTerminationFile
	}

	ctx, cancel := context.WithCancel(originCtx)
	defer cancel()

	go a.signals.HandleSignals(ctx, cancel)

	if err := a.appState.SetStarting(ctx); err != nil {
		return fmt.Errorf("set starting: %w", err)
	}

	readies := make([]<-chan struct{}, 0, len(a.components))

	for _, c := range a.components {
		if err := c.Start(ctx); err != nil {
			cancel()

			return errors.Join(
				fmt.Errorf("start %s: %w", c.Name(), err),
				a.appState.Shutdown(ctx),
			)
		}

		readies = append(readies, c.Ready())
	}

	select {
	case <-ctx.Done():
		a.logger.InfoContext(ctx, "terminated before all components became ready")

		return a.appState.Shutdown(ctx)
	case <-allChannelsClose(ctx, a.logger, readies...):
	}

	if err := a.appState.SetRunning(ctx); err != nil {
		return errors.Join(fmt.Errorf("set running: %w", err), a.appState.Shutdown(ctx))
	}

	a.logger.InfoContext(ctx, "podlog archiver is running")

	<-ctx.Done()

	return a.appState.Shutdown(ctx)
}

// allChannelsClose returns a channel closed once every input channel is closed or
// ctx is done.
func allChannelsClose(ctx context.Context, logger *slog.Logger, chans ...<-chan struct{}) <-chan struct{} {
	out := make(chan struct{})

	go func() {
		defer close(out)

		for i, ch := range chans {
			select {
			case <-ch:
			case <-ctx.Done():
				logger.DebugContext(ctx, "stopped waiting for readiness", "pending", len(chans)-i)

				return
			}
		}
	}()

	return out
}
