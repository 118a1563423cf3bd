// Package metrics provides Prometheus metrics collection for treefs
// components.
//
// All metrics are optional. If InitRegistry is never called, the
// constructors return no-op implementations with zero overhead, so the
// tree, bridge, and workload runner can be used with or without
// metrics collection.
//
// Usage:
//
//	// Initialize the global registry (typically in main).
//	metrics.InitRegistry()
//
//	// Create metrics sinks for components.
//	treeMetrics := metrics.NewTreeMetrics()
//	bridgeMetrics := metrics.NewBridgeMetrics()
//
//	// Or pass nil to a component for no-op behavior.
//	b := bridge.New(nil)
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global Prometheus registry for all treefs
	// metrics, write-once via registryOnce.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry. It must be
// called before creating metrics instances; calling it again is a
// no-op. If it is never called, the metrics constructors hand out
// no-op implementations.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global Prometheus registry, or nil when
// metrics are disabled. The sync.Once in InitRegistry provides the
// happens-before edge that makes the value safe to read concurrently.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether metrics collection is enabled, i.e.
// InitRegistry has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}
