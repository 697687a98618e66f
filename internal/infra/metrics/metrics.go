package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle result label values.
const (
	CycleResultCommitted = "committed"
	CycleResultFailed    = "failed"
	CycleResultGone      = "gone"
)

var cyclesTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "podlog_cycles_total",
		Help: "Total number of extraction cycles by outcome.",
	},
	[]string{"namespace", "result"},
)

var uploadedBytesTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "podlog_uploaded_bytes_total",
		Help: "Total number of log bytes written to object storage.",
	},
	[]string{"kind"},
)

var uploadErrorsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "podlog_upload_errors_total",
		Help: "Total number of failed object uploads.",
	},
	[]string{"kind"},
)

var fetchRetriesTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "podlog_fetch_retries_total",
		Help: "Total number of Kubernetes API reads (logs or container status) retried after a transient error.",
	},
	[]string{"namespace"},
)

var restartsReconciledTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "podlog_restarts_reconciled_total",
		Help: "Total number of container restarts whose previous instance log was archived.",
	},
	[]string{"namespace"},
)

var activeTargets = promauto.With(prometheus.DefaultRegisterer).NewGauge(
	prometheus.GaugeOpts{
		Name: "podlog_active_targets",
		Help: "Number of containers with a scheduled extraction cycle.",
	},
)

var checkpointCommitErrorsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounter(
	prometheus.CounterOpts{
		Name: "podlog_checkpoint_commit_errors_total",
		Help: "Total number of checkpoint commits that could not be persisted.",
	},
)

var checkpointsPrunedTotal = promauto.With(prometheus.DefaultRegisterer).NewCounter(
	prometheus.CounterOpts{
		Name: "podlog_checkpoints_pruned_total",
		Help: "Total number of checkpoint entries removed by retention pruning.",
	},
)

func RecordCycle(namespace, result string) {
	cyclesTotal.WithLabelValues(namespace, result).Inc()
}

func RecordUploadedBytes(kind string, n int) {
	uploadedBytesTotal.WithLabelValues(kind).Add(float64(n))
}

func RecordUploadError(kind string) {
	uploadErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordFetchRetry increments the counter when a log or container status read is
// retried after a transient API error.
func RecordFetchRetry(namespace string) {
	fetchRetriesTotal.WithLabelValues(namespace).Inc()
}

func RecordRestartReconciled(namespace string) {
	restartsReconciledTotal.WithLabelValues(namespace).Inc()
}

func SetActiveTargets(n int) {
	activeTargets.Set(float64(n))
}

func RecordCheckpointCommitError() {
	checkpointCommitErrorsTotal.Inc()
}

func RecordCheckpointsPruned(n int) {
	checkpointsPrunedTotal.Add(float64(n))
}

var componentUp = promauto.With(prometheus.DefaultRegisterer).NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "podlog_component_up",
		Help: "Whether the last health ping of a component succeeded (1) or failed (0).",
	},
	[]string{"component"},
)

var pingDuration = promauto.With(prometheus.DefaultRegisterer).NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "podlog_component_ping_duration_seconds",
		Help:    "Latency of component health pings.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 7),
	},
	[]string{"component"},
)

// RecordPing stores the outcome of one component health ping.
func RecordPing(component string, latency time.Duration, err error) {
	up := 1.0
	if err != nil {
		up = 0
	}

	componentUp.WithLabelValues(component).Set(up)
	pingDuration.WithLabelValues(component).Observe(latency.Seconds())
}
