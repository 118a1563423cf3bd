package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BridgeMetrics provides observability for sync/async bridge
// invocations. Pass nil to bridge.New for no-op behavior.
type BridgeMetrics interface {
	// RecordInvocation records a completed Invoke: queueWait is the
	// time spent waiting for the worker slot, runtime is the time from
	// submission to the work's resume callback.
	RecordInvocation(queueWait, runtime time.Duration)
}

// bridgeMetrics is the Prometheus implementation of BridgeMetrics.
type bridgeMetrics struct {
	invocationsTotal prometheus.Counter
	queueWait        prometheus.Histogram
	runDuration      prometheus.Histogram
}

// NewBridgeMetrics creates a Prometheus-backed BridgeMetrics instance,
// or a no-op implementation when metrics are disabled.
func NewBridgeMetrics() BridgeMetrics {
	if !IsEnabled() {
		return noopBridgeMetrics{}
	}

	reg := GetRegistry()

	return &bridgeMetrics{
		invocationsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "treefs_bridge_invocations_total",
				Help: "Total number of bridge invocations",
			},
		),
		queueWait: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "treefs_bridge_queue_wait_seconds",
				Help:    "Time invokers spend waiting for the worker slot",
				Buckets: prometheus.DefBuckets,
			},
		),
		runDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "treefs_bridge_run_duration_seconds",
				Help:    "Time from work submission to its resume callback",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *bridgeMetrics) RecordInvocation(queueWait, runtime time.Duration) {
	m.invocationsTotal.Inc()
	m.queueWait.Observe(queueWait.Seconds())
	m.runDuration.Observe(runtime.Seconds())
}

// noopBridgeMetrics is a no-op implementation of BridgeMetrics.
type noopBridgeMetrics struct{}

func (noopBridgeMetrics) RecordInvocation(queueWait, runtime time.Duration) {}
