package config_test

import (
	"maps"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/podlog-archiver/internal/config"
	"github.com/skillcoder/podlog-archiver/internal/infra/cronparser"
)

type loadCase struct {
	name    string
	giveEnv map[string]string
	wantErr error
	wantCfg *config.Config
}

// baseEnv is the minimal valid environment. Every key the loader reads is listed so
// the host environment never leaks into a case.
func baseEnv() map[string]string {
	return map[string]string{
		"PODLOG_MINIO_ENDPOINT":            "minio:9000",
		"PODLOG_MINIO_ACCESS_KEY":          "access",
		"PODLOG_MINIO_SECRET_KEY":          "secret",
		"PODLOG_BUCKET":                    "logs",
		"PODLOG_DISCOVERY_INTERVAL":        "30s",
		"PODLOG_FETCH_INTERVAL":            "60s",
		"PODLOG_MINIO_CREATE_BUCKET":       "",
		"PODLOG_NAMESPACES":                "",
		"PODLOG_CHECKPOINT_BACKEND":        "",
		"PODLOG_CHECKPOINT_PATH":           "",
		"PODLOG_CHECKPOINT_PRUNE_SCHEDULE": "",
		"PODLOG_CHECKPOINT_RETENTION":      "",
		"PODLOG_MAX_CONCURRENT_WORKERS":    "",
		"PODLOG_FETCH_RETRY_ATTEMPTS":      "",
		"PODLOG_FETCH_RETRY_BACKOFF":       "",
		"PODLOG_RECONCILE_MAX_ATTEMPTS":    "",
		"PODLOG_RETIRE_MISSING_TARGETS":    "",
		"PODLOG_PINGER_INTERVAL":           "",
		"PODLOG_TERMINATION_FILE":          "",
		"PODLOG_SHUTDOWN_TIMEOUT":          "",
		"PODLOG_KUBECONFIG":                "",
		"PODLOG_KUBE_MASTER":               "",
		"KUBECONFIG":                       "",
		"KUBECONFIG_FILE":                  "",
		"KUBERNETES_MASTER":                "",
		"MINIO_ENDPOINT":                   "",
		"MINIO_ACCESS_KEY":                 "",
		"MINIO_SECRET_KEY":                 "",
		"BUCKET_NAME":                      "",
		"NAMESPACE":                        "",
	}
}

func TestLoad(t *testing.T) {
	tests := []loadCase{
		{
			name:    "all defaults",
			giveEnv: map[string]string{},
			wantCfg: &config.Config{
				KubeConfig:              "",
				KubeMaster:              "",
				MinioEndpoint:           "minio:9000",
				MinioAccessKey:          "access",
				MinioSecretKey:          "secret",
				MinioCreateBucket:       false,
				Bucket:                  "logs",
				Namespaces:              nil,
				DiscoveryInterval:       30 * time.Second,
				FetchInterval:           60 * time.Second,
				CheckpointBackend:       config.CheckpointBackendYAML,
				CheckpointPath:          "stored_times.yaml",
				CheckpointPruneSchedule: "30 3 * * *",
				CheckpointRetention:     168 * time.Hour,
				MaxConcurrentWorkers:    16,
				FetchRetryAttempts:      3,
				FetchRetryBackoff:       time.Second,
				ReconcileMaxAttempts:    3,
				RetireMissingTargets:    true,
				LogLevel:                "info",
				LogFormat:               "json",
				HTTPPort:                "8080",
				MetricsPort:             "9090",
				PingerInterval:          10 * time.Second,
				TerminationFile:         "/mnt/signal/terminating",
				ShutdownTimeout:         30 * time.Second,
			},
		},
		{
			name: "missing bucket",
			giveEnv: map[string]string{
				"PODLOG_BUCKET": "",
			},
			wantErr: config.ErrMissingRequired,
		},
		{
			name: "missing fetch interval",
			giveEnv: map[string]string{
				"PODLOG_FETCH_INTERVAL": "",
			},
			wantErr: config.ErrMissingRequired,
		},
		{
			name: "discovery interval below minimum",
			giveEnv: map[string]string{
				"PODLOG_DISCOVERY_INTERVAL": "500ms",
			},
			wantErr: config.ErrInvalidValue,
		},
		{
			name: "unknown checkpoint backend",
			giveEnv: map[string]string{
				"PODLOG_CHECKPOINT_BACKEND": "redis",
			},
			wantErr: config.ErrInvalidValue,
		},
		{
			name: "invalid prune schedule",
			giveEnv: map[string]string{
				"PODLOG_CHECKPOINT_PRUNE_SCHEDULE": "every day",
			},
			wantErr: config.ErrInvalidValue,
		},
		{
			name: "zero workers",
			giveEnv: map[string]string{
				"PODLOG_MAX_CONCURRENT_WORKERS": "0",
			},
			wantErr: config.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			maps.Copy(env, tt.giveEnv)

			for k, v := range env {
				t.Setenv(k, v)
			}

			got, err := config.Load(cronparser.New())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			if tt.wantCfg != nil {
				require.Equal(t, tt.wantCfg, got)
			}
		})
	}
}

func TestLoad_Fallbacks(t *testing.T) {
	env := baseEnv()
	maps.Copy(env, map[string]string{
		"PODLOG_MINIO_ENDPOINT": "",
		"PODLOG_BUCKET":         "",
		"MINIO_ENDPOINT":        "https://s3.local",
		"BUCKET_NAME":           "legacy-bucket",
		"NAMESPACE":             "default",
		"KUBECONFIG_FILE":       "/etc/kube/config",
		"KUBERNETES_MASTER":     "https://api:6443",
	})

	for k, v := range env {
		t.Setenv(k, v)
	}

	got, err := config.Load(cronparser.New())
	require.NoError(t, err)
	require.Equal(t, "https://s3.local", got.MinioEndpoint)
	require.Equal(t, "legacy-bucket", got.Bucket)
	require.Equal(t, []string{"default"}, got.Namespaces)
	require.Equal(t, "/etc/kube/config", got.KubeConfig)
	require.Equal(t, "https://api:6443", got.KubeMaster)
}

func TestLoad_Namespaces(t *testing.T) {
	tests := []struct {
		name     string
		give     string
		wantList []string
		wantAll  bool
	}{
		{name: "empty", give: "", wantAll: true},
		{name: "wildcard", give: "*", wantAll: true},
		{name: "wildcard in list", give: "team-a,*", wantAll: true},
		{name: "trimmed list", give: " team-a, ,team-b ", wantList: []string{"team-a", "team-b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			env["PODLOG_NAMESPACES"] = tt.give

			for k, v := range env {
				t.Setenv(k, v)
			}

			got, err := config.Load(cronparser.New())
			require.NoError(t, err)
			require.Equal(t, tt.wantAll, got.AllNamespaces())
			require.Equal(t, tt.wantList, got.Namespaces)
		})
	}
}

func TestLoad_PruneScheduleOff(t *testing.T) {
	env := baseEnv()
	env["PODLOG_CHECKPOINT_PRUNE_SCHEDULE"] = "off"

	for k, v := range env {
		t.Setenv(k, v)
	}

	got, err := config.Load(cronparser.New())
	require.NoError(t, err)
	require.Empty(t, got.CheckpointPruneSchedule)
}
