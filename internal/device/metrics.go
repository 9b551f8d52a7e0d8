package device

import "github.com/prometheus/client_golang/prometheus"

// PoolCollector exposes memory-pool counters of one Manager as prometheus
// metrics. Register it explicitly:
//
//	prometheus.MustRegister(device.NewPoolCollector(manager))
//
// Collection takes the manager lock briefly to snapshot the counters.
type PoolCollector struct {
	m *Manager

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	poolBytes *prometheus.Desc
	blocks    *prometheus.Desc
	inUse     *prometheus.Desc
	maxBlock  *prometheus.Desc
}

// NewPoolCollector creates a collector over the given manager.
func NewPoolCollector(m *Manager) *PoolCollector {
	return &PoolCollector{
		m: m,
		hits: prometheus.NewDesc(
			"flint_device_pool_hits_total",
			"Total number of allocations served from a pooled block",
			nil, nil),
		misses: prometheus.NewDesc(
			"flint_device_pool_misses_total",
			"Total number of allocations that grew a pool",
			nil, nil),
		poolBytes: prometheus.NewDesc(
			"flint_device_pool_size_bytes",
			"Current total size of pooled blocks in bytes",
			nil, nil),
		blocks: prometheus.NewDesc(
			"flint_device_pool_blocks",
			"Current number of pooled blocks",
			nil, nil),
		inUse: prometheus.NewDesc(
			"flint_device_pool_blocks_in_use",
			"Number of pooled blocks currently handed out",
			nil, nil),
		maxBlock: prometheus.NewDesc(
			"flint_device_pool_max_block_bytes",
			"Largest single pooled block in bytes",
			nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.poolBytes
	ch <- c.blocks
	ch <- c.inUse
	ch <- c.maxBlock
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.m.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.poolBytes, prometheus.GaugeValue, float64(s.PoolBytes))
	ch <- prometheus.MustNewConstMetric(c.blocks, prometheus.GaugeValue, float64(s.Blocks))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.BlocksInUse))
	ch <- prometheus.MustNewConstMetric(c.maxBlock, prometheus.GaugeValue, float64(s.MaxBlockSize))
}
