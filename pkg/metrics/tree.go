package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TreeMetrics provides observability for operations driven against a
// tree (the scenario runner and any embedding application). The
// interface is optional: components accept nil and skip recording.
type TreeMetrics interface {
	// RecordOperation records a completed tree operation with its
	// operation name (e.g. "mkdir", "write", "move"), duration, and
	// outcome.
	RecordOperation(op string, duration time.Duration, err error)

	// RecordLockProbe records a non-blocking lock probe and whether
	// the lock was acquired.
	RecordLockProbe(acquired bool)

	// SetNodeCount updates the current number of nodes in the tree.
	SetNodeCount(n int)
}

// treeMetrics is the Prometheus implementation of TreeMetrics.
type treeMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	lockProbesTotal   *prometheus.CounterVec
	nodeCount         prometheus.Gauge
}

// NewTreeMetrics creates a Prometheus-backed TreeMetrics instance, or
// a no-op implementation when metrics are disabled.
func NewTreeMetrics() TreeMetrics {
	if !IsEnabled() {
		return noopTreeMetrics{}
	}

	reg := GetRegistry()

	return &treeMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "treefs_tree_operations_total",
				Help: "Total number of tree operations by name and status",
			},
			[]string{"op", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "treefs_tree_operation_duration_seconds",
				Help:    "Duration of tree operations in seconds",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"op"},
		),
		lockProbesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "treefs_tree_lock_probes_total",
				Help: "Total number of non-blocking node lock probes by outcome",
			},
			[]string{"outcome"},
		),
		nodeCount: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "treefs_tree_nodes",
				Help: "Current number of nodes reachable in the tree",
			},
		),
	}
}

func (m *treeMetrics) RecordOperation(op string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.operationsTotal.WithLabelValues(op, status).Inc()
	m.operationDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *treeMetrics) RecordLockProbe(acquired bool) {
	outcome := "acquired"
	if !acquired {
		outcome = "contended"
	}
	m.lockProbesTotal.WithLabelValues(outcome).Inc()
}

func (m *treeMetrics) SetNodeCount(n int) {
	m.nodeCount.Set(float64(n))
}

// noopTreeMetrics is a no-op implementation of TreeMetrics.
type noopTreeMetrics struct{}

func (noopTreeMetrics) RecordOperation(op string, duration time.Duration, err error) {}
func (noopTreeMetrics) RecordLockProbe(acquired bool)                                {}
func (noopTreeMetrics) SetNodeCount(n int)                                           {}
