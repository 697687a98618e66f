package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMetricsServer creates the server exposing GET /metrics from gatherer on port.
func NewMetricsServer(logger *slog.Logger, gatherer prometheus.Gatherer, port string) *Server {
	if port == "" {
		port = defaultMetricsPort
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		EnableOpenMetrics: true,
	}))

	return newServer(logger, "metrics-server", port, mux)
}
