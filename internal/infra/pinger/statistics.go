package pinger

import (
	"slices"
	"sync"
	"time"
)

const (
	latencyWindow = 64

	// healthFailureThreshold consecutive failures make a health critical component unhealthy.
	// Readiness drops on the first failure.
	healthFailureThreshold = 3
)

// LatencyMetrics summarizes the recent ping latencies of one component.
type LatencyMetrics struct {
	Count  int           `json:"count"`
	Median time.Duration `json:"median"`
	P90    time.Duration `json:"p90"`
	Max    time.Duration `json:"max"`
}

// Statistics is a point-in-time copy of the health of one component.
type Statistics struct {
	IsReady             bool           `json:"ready"`
	IsHealthy           bool           `json:"healthy"`
	LastRun             time.Time      `json:"lastRun"`
	LastSuccess         time.Time      `json:"lastSuccess"`
	LastError           string         `json:"lastError,omitempty"`
	ConsecutiveFailures int            `json:"consecutiveFailures"`
	SuccessCount        int            `json:"successCount"`
	ErrorCount          int            `json:"errorCount"`
	Latency             LatencyMetrics `json:"latency"`
}

type stats struct {
	mu                  sync.Mutex
	lastRun             time.Time
	lastSuccess         time.Time
	lastErr             error
	consecutiveFailures int
	successCount        int
	errorCount          int
	latencies           []time.Duration
	next                int
}

func newStats() *stats {
	return &stats{latencies: make([]time.Duration, 0, latencyWindow)}
}

func (s *stats) record(at time.Time, latency time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastRun = at

	if len(s.latencies) < latencyWindow {
		s.latencies = append(s.latencies, latency)
	} else {
		s.latencies[s.next] = latency
		s.next = (s.next + 1) % latencyWindow
	}

	if err != nil {
		s.lastErr = err
		s.consecutiveFailures++
		s.errorCount++

		return
	}

	s.lastErr = nil
	s.lastSuccess = at
	s.consecutiveFailures = 0
	s.successCount++
}

func (s *stats) snapshot(readyCritical, healthCritical bool) *Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &Statistics{
		IsReady:             !readyCritical || s.consecutiveFailures == 0,
		IsHealthy:           !healthCritical || s.consecutiveFailures < healthFailureThreshold,
		LastRun:             s.lastRun,
		LastSuccess:         s.lastSuccess,
		ConsecutiveFailures: s.consecutiveFailures,
		SuccessCount:        s.successCount,
		ErrorCount:          s.errorCount,
		Latency:             summarize(s.latencies),
	}

	if s.lastErr != nil {
		out.LastError = s.lastErr.Error()
	}

	return out
}

func summarize(latencies []time.Duration) LatencyMetrics {
	if len(latencies) == 0 {
		return LatencyMetrics{}
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	return LatencyMetrics{
		Count:  len(sorted),
		Median: percentile(sorted, 50),
		P90:    percentile(sorted, 90),
		Max:    sorted[len(sorted)-1],
	}
}

// percentile uses the nearest-rank method on sorted input.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	rank := (p*len(sorted) + 99) / 100
	rank = min(max(rank, 1), len(sorted))

	return sorted[rank-1]
}
