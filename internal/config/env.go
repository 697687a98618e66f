package config

import "time"

// Env key constants. All archiver configuration env vars use the PODLOG_ prefix;
// duration values support explicit units (e.g. 5m, 40s, 2h).

// Path to kubeconfig file. If unset, KUBECONFIG and then KUBECONFIG_FILE are used.
const envKeyKubeConfig = "PODLOG_KUBECONFIG"

// Kubernetes API server URL. If unset, KUBERNETES_MASTER is used as fallback.
const envKeyKubeMaster = "PODLOG_KUBE_MASTER"

// Log level: debug, info, warn, error.
const envKeyLogLevel = "PODLOG_LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "PODLOG_LOG_FORMAT"

// Port for health/readiness HTTP server.
const envKeyHTTPPort = "PODLOG_HTTP_PORT"

// Port for Prometheus metrics (GET /metrics).
const envKeyMetricsPort = "PODLOG_METRICS_PORT"

// Object storage endpoint; an https:// prefix enables TLS.
const (
	envKeyMinioEndpoint       = "PODLOG_MINIO_ENDPOINT"
	envKeyMinioAccessKey      = "PODLOG_MINIO_ACCESS_KEY"
	envKeyMinioSecretKey      = "PODLOG_MINIO_SECRET_KEY"
	envKeyMinioCreateBucket   = "PODLOG_MINIO_CREATE_BUCKET"
	envKeyBucket              = "PODLOG_BUCKET"
	envKeyMinioEndpointLegacy = "MINIO_ENDPOINT"
	envKeyAccessKeyLegacy     = "MINIO_ACCESS_KEY"
	envKeySecretKeyLegacy     = "MINIO_SECRET_KEY"
	envKeyBucketLegacy        = "BUCKET_NAME"
)

// Comma separated namespaces to archive; empty or "*" means all namespaces.
const (
	envKeyNamespaces       = "PODLOG_NAMESPACES"
	envKeyNamespacesLegacy = "NAMESPACE"
	allNamespaces          = "*"
)

// Discovery interval. Units: s, m, h (e.g. 30s).
const (
	envKeyDiscoveryInterval = "PODLOG_DISCOVERY_INTERVAL"
	envMinDiscoveryInterval = time.Second
)

// Per-target fetch interval. Units: s, m, h (e.g. 60s).
const (
	envKeyFetchInterval = "PODLOG_FETCH_INTERVAL"
	envMinFetchInterval = time.Second
)

// Checkpoint store backend (yaml or sqlite) and its file path.
const (
	envKeyCheckpointBackend = "PODLOG_CHECKPOINT_BACKEND"
	envKeyCheckpointPath    = "PODLOG_CHECKPOINT_PATH"
)

// Cron schedule for checkpoint pruning; "off" disables it.
const (
	envKeyCheckpointPruneSchedule = "PODLOG_CHECKPOINT_PRUNE_SCHEDULE"
	pruneScheduleOff              = "off"
)

// Checkpoints of inactive targets older than this are pruned. Units: s, m, h.
const (
	envKeyCheckpointRetention = "PODLOG_CHECKPOINT_RETENTION"
	envMinCheckpointRetention = time.Hour
)

// Upper bound on concurrently running extraction cycles.
const envKeyMaxConcurrentWorkers = "PODLOG_MAX_CONCURRENT_WORKERS"

// Transient log fetch errors are retried this many times with exponential backoff.
const (
	envKeyFetchRetryAttempts = "PODLOG_FETCH_RETRY_ATTEMPTS"
	envKeyFetchRetryBackoff  = "PODLOG_FETCH_RETRY_BACKOFF"
)

// Cycles a failed restart reconciliation is retried before it is given up.
const envKeyReconcileMaxAttempts = "PODLOG_RECONCILE_MAX_ATTEMPTS"

// Retire workers whose pod disappeared from discovery.
const envKeyRetireMissingTargets = "PODLOG_RETIRE_MISSING_TARGETS"

// Pinger check interval. Units: s, m, h (e.g. 10s, 1m).
const (
	envKeyPingerInterval = "PODLOG_PINGER_INTERVAL"
	envMinPingerInterval = time.Second
)

// preStop marker file; when present at startup the process exits right away.
const envKeyTerminationFile = "PODLOG_TERMINATION_FILE"

// Upper bound for the whole graceful shutdown sequence.
const (
	envKeyShutdownTimeout = "PODLOG_SHUTDOWN_TIMEOUT"
	envMinShutdownTimeout = time.Second
)

// Standard env keys used as fallback when PODLOG_* are unset.
const (
	envKeyKubeConfigFallback       = "KUBECONFIG"
	envKeyKubeConfigLegacyFallback = "KUBECONFIG_FILE"
	envKeyKubeMasterFallback       = "KUBERNETES_MASTER"
)
