package appstate

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/podlog-archiver/internal/infra/pinger"
)

type statusResponse struct {
	State      string                        `json:"state"`
	Uptime     string                        `json:"uptime"`
	StartTime  time.Time                     `json:"startTime"`
	UptimeSec  float64                       `json:"uptimeSeconds"`
	Components map[string]*pinger.Statistics `json:"components"`
	Reports    map[string]any                `json:"reports,omitempty"`
}

// HandleHealthz serves the liveness probe.
func HandleHealthz(logger *slog.Logger, appState healthChecker) http.HandlerFunc {
	return probeHandler(logger, "health", appState.IsHealthy)
}

// HandleReadyz serves the readiness probe.
func HandleReadyz(logger *slog.Logger, appState readyChecker) http.HandlerFunc {
	return probeHandler(logger, "readiness", appState.IsReady)
}

func probeHandler(logger *slog.Logger, probe string, check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.With("traceID", middleware.GetReqID(ctx), "probe", probe)

		if !check() {
			w.WriteHeader(http.StatusServiceUnavailable)
			log.DebugContext(ctx, "probe failed")

			return
		}

		w.WriteHeader(http.StatusOK)
		log.DebugContext(ctx, "probe passed")
	}
}

// HandleStatus serves the lifecycle state, component health and reporter sections.
func HandleStatus(logger *slog.Logger, appState statusGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.With("traceID", middleware.GetReqID(ctx))

		uptime := appState.GetUptime()

		response := statusResponse{
			State:      string(appState.GetState()),
			Uptime:     uptime.Round(time.Second).String(),
			StartTime:  appState.GetStartTime(),
			UptimeSec:  uptime.Seconds(),
			Components: appState.GetAllStats(),
			Reports:    appState.Reports(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.ErrorContext(ctx, "failed to encode status response", "reason", err)
		}
	}
}
