package device

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolCollectorMetricCount(t *testing.T) {
	m := NewManager()
	c := NewPoolCollector(m)
	assert.Equal(t, 6, testutil.CollectAndCount(c))
}

func TestPoolCollectorValues(t *testing.T) {
	m := NewManager()
	cpu := CPU()

	ptr, err := m.Allocate(1024, cpu)
	require.NoError(t, err)
	m.Deallocate(ptr, cpu)
	_, err = m.Allocate(1024, cpu) // pool hit
	require.NoError(t, err)

	expected := strings.NewReader(`
# HELP flint_device_pool_hits_total Total number of allocations served from a pooled block
# TYPE flint_device_pool_hits_total counter
flint_device_pool_hits_total 1
# HELP flint_device_pool_misses_total Total number of allocations that grew a pool
# TYPE flint_device_pool_misses_total counter
flint_device_pool_misses_total 1
# HELP flint_device_pool_size_bytes Current total size of pooled blocks in bytes
# TYPE flint_device_pool_size_bytes gauge
flint_device_pool_size_bytes 1024
# HELP flint_device_pool_blocks Current number of pooled blocks
# TYPE flint_device_pool_blocks gauge
flint_device_pool_blocks 1
# HELP flint_device_pool_blocks_in_use Number of pooled blocks currently handed out
# TYPE flint_device_pool_blocks_in_use gauge
flint_device_pool_blocks_in_use 1
# HELP flint_device_pool_max_block_bytes Largest single pooled block in bytes
# TYPE flint_device_pool_max_block_bytes gauge
flint_device_pool_max_block_bytes 1024
`)
	require.NoError(t, testutil.CollectAndCompare(NewPoolCollector(m), expected))
}
