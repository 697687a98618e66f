package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Checkpoint store backends.
const (
	CheckpointBackendYAML   = "yaml"
	CheckpointBackendSQLite = "sqlite"
)

var (
	ErrMissingRequired = errors.New("missing required value")
	ErrInvalidValue    = errors.New("invalid value")
)

type Config struct {
	KubeConfig string
	KubeMaster string

	MinioEndpoint     string
	MinioAccessKey    string
	MinioSecretKey    string
	MinioCreateBucket bool
	Bucket            string

	// Namespaces is empty when all namespaces are archived.
	Namespaces        []string
	DiscoveryInterval time.Duration
	FetchInterval     time.Duration

	CheckpointBackend       string
	CheckpointPath          string
	CheckpointPruneSchedule string
	CheckpointRetention     time.Duration

	MaxConcurrentWorkers int
	FetchRetryAttempts   int
	FetchRetryBackoff    time.Duration
	ReconcileMaxAttempts int
	RetireMissingTargets bool

	LogLevel       string
	LogFormat      string
	HTTPPort       string
	MetricsPort    string
	PingerInterval time.Duration

	TerminationFile string
	ShutdownTimeout time.Duration
}

type scheduleValidator interface {
	Validate(spec string) error
}

// Load reads the configuration from the environment. The prune schedule is checked
// with validator.
func Load(validator scheduleValidator) (*Config, error) {
	cfg := &Config{
		KubeConfig: firstEnv(envKeyKubeConfig, envKeyKubeConfigFallback, envKeyKubeConfigLegacyFallback),
		KubeMaster: firstEnv(envKeyKubeMaster, envKeyKubeMasterFallback),

		MinioEndpoint:  firstEnv(envKeyMinioEndpoint, envKeyMinioEndpointLegacy),
		MinioAccessKey: firstEnv(envKeyMinioAccessKey, envKeyAccessKeyLegacy),
		MinioSecretKey: firstEnv(envKeyMinioSecretKey, envKeySecretKeyLegacy),
		Bucket:         firstEnv(envKeyBucket, envKeyBucketLegacy),

		Namespaces: parseNamespaces(firstEnv(envKeyNamespaces, envKeyNamespacesLegacy)),

		CheckpointBackend:       getEnvOrDefault(envKeyCheckpointBackend, CheckpointBackendYAML),
		CheckpointPath:          getEnvOrDefault(envKeyCheckpointPath, "stored_times.yaml"),
		CheckpointPruneSchedule: getEnvOrDefault(envKeyCheckpointPruneSchedule, "30 3 * * *"),

		LogLevel:    getEnvOrDefault(envKeyLogLevel, "info"),
		LogFormat:   getEnvOrDefault(envKeyLogFormat, "json"),
		HTTPPort:    getEnvOrDefault(envKeyHTTPPort, "8080"),
		MetricsPort: getEnvOrDefault(envKeyMetricsPort, "9090"),

		TerminationFile: getEnvOrDefault(envKeyTerminationFile, "/mnt/signal/terminating"),
	}

	required := []struct {
		key   string
		value string
	}{
		{envKeyMinioEndpoint, cfg.MinioEndpoint},
		{envKeyMinioAccessKey, cfg.MinioAccessKey},
		{envKeyMinioSecretKey, cfg.MinioSecretKey},
		{envKeyBucket, cfg.Bucket},
	}

	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequired, r.key)
		}
	}

	var err error

	cfg.DiscoveryInterval, err = parseRequiredDuration(envKeyDiscoveryInterval, envMinDiscoveryInterval)
	if err != nil {
		return nil, err
	}

	cfg.FetchInterval, err = parseRequiredDuration(envKeyFetchInterval, envMinFetchInterval)
	if err != nil {
		return nil, err
	}

	cfg.PingerInterval, err = parseDuration(envKeyPingerInterval, "10s", envMinPingerInterval)
	if err != nil {
		return nil, err
	}

	cfg.ShutdownTimeout, err = parseDuration(envKeyShutdownTimeout, "30s", envMinShutdownTimeout)
	if err != nil {
		return nil, err
	}

	cfg.CheckpointRetention, err = parseDuration(envKeyCheckpointRetention, "168h", envMinCheckpointRetention)
	if err != nil {
		return nil, err
	}

	cfg.FetchRetryBackoff, err = parseDuration(envKeyFetchRetryBackoff, "1s", 0)
	if err != nil {
		return nil, err
	}

	cfg.MaxConcurrentWorkers, err = parsePositiveInt(envKeyMaxConcurrentWorkers, "16")
	if err != nil {
		return nil, err
	}

	cfg.FetchRetryAttempts, err = parsePositiveInt(envKeyFetchRetryAttempts, "3")
	if err != nil {
		return nil, err
	}

	cfg.ReconcileMaxAttempts, err = parsePositiveInt(envKeyReconcileMaxAttempts, "3")
	if err != nil {
		return nil, err
	}

	cfg.RetireMissingTargets, err = parseBool(envKeyRetireMissingTargets, "true")
	if err != nil {
		return nil, err
	}

	cfg.MinioCreateBucket, err = parseBool(envKeyMinioCreateBucket, "false")
	if err != nil {
		return nil, err
	}

	switch cfg.CheckpointBackend {
	case CheckpointBackendYAML, CheckpointBackendSQLite:
	default:
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidValue, envKeyCheckpointBackend, cfg.CheckpointBackend)
	}

	if strings.EqualFold(cfg.CheckpointPruneSchedule, pruneScheduleOff) {
		cfg.CheckpointPruneSchedule = ""
	} else if err := validator.Validate(cfg.CheckpointPruneSchedule); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, envKeyCheckpointPruneSchedule, err)
	}

	return cfg, nil
}

// AllNamespaces reports whether every namespace is archived.
func (c *Config) AllNamespaces() bool {
	return len(c.Namespaces) == 0
}

func parseNamespaces(raw string) []string {
	namespaces := make([]string, 0)

	for ns := range strings.SplitSeq(raw, ",") {
		ns = strings.TrimSpace(ns)
		if ns == allNamespaces {
			return nil
		}

		if ns != "" {
			namespaces = append(namespaces, ns)
		}
	}

	if len(namespaces) == 0 {
		return nil
	}

	return namespaces
}

func parseRequiredDuration(key string, minValue time.Duration) (time.Duration, error) {
	if os.Getenv(key) == "" {
		return 0, fmt.Errorf("%w: %s", ErrMissingRequired, key)
	}

	return parseDuration(key, "", minValue)
}

func parseDuration(key, defaultValue string, minValue time.Duration) (time.Duration, error) {
	raw := getEnvOrDefault(key, defaultValue)

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	if value < minValue {
		return 0, fmt.Errorf("%w: %s must be at least %s", ErrInvalidValue, key, minValue)
	}

	return value, nil
}

func parsePositiveInt(key, defaultValue string) (int, error) {
	value, err := strconv.Atoi(getEnvOrDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	if value <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive", ErrInvalidValue, key)
	}

	return value, nil
}

func parseBool(key, defaultValue string) (bool, error) {
	value, err := strconv.ParseBool(getEnvOrDefault(key, defaultValue))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return value, nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}

	return ""
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}
