package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The registry is process-global and write-once, so the enabled-path
// assertions live in one test to keep ordering deterministic.
func TestRegistryLifecycle(t *testing.T) {
	assert.False(t, IsEnabled(), "metrics start disabled")
	assert.Nil(t, GetRegistry())

	tm := NewTreeMetrics()
	require.NotNil(t, tm)
	// No-op implementations must absorb calls without a registry.
	tm.RecordOperation("mkdir", time.Millisecond, nil)
	tm.RecordLockProbe(true)
	tm.SetNodeCount(3)

	InitRegistry()
	assert.True(t, IsEnabled())
	require.NotNil(t, GetRegistry())

	InitRegistry() // second call is a no-op, not a duplicate registration
	assert.True(t, IsEnabled())

	tm = NewTreeMetrics()
	tm.RecordOperation("create", time.Millisecond, nil)
	tm.RecordOperation("create", time.Millisecond, assert.AnError)
	tm.RecordLockProbe(false)
	tm.SetNodeCount(7)

	bm := NewBridgeMetrics()
	bm.RecordInvocation(time.Microsecond, time.Millisecond)

	families, err := GetRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["treefs_tree_operations_total"])
	assert.True(t, names["treefs_tree_nodes"])
	assert.True(t, names["treefs_bridge_invocations_total"])
}
