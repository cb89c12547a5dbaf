package framearena

import "github.com/prometheus/client_golang/prometheus"

// Collector exports the metrics of one arena cursor to Prometheus. The arena
// is not safe for concurrent use, so the registry holding a Collector must be
// gathered on the goroutine that owns the arena.
type Collector struct {
	src MetricsSource

	sizeInUse   *prometheus.Desc
	capacity    *prometheus.Desc
	blocks      *prometheus.Desc
	blocksInUse *prometheus.Desc
	depth       *prometheus.Desc
	entries     *prometheus.Desc
	utilization *prometheus.Desc
}

// NewCollector returns a collector reading from src on every scrape.
func NewCollector(namespace string, src MetricsSource, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "framearena", name), help, nil, constLabels)
	}
	return &Collector{
		src:         src,
		sizeInUse:   desc("bytes_in_use", "Bytes consumed from the first block up to the cursor."),
		capacity:    desc("capacity_bytes", "Total size of all allocated blocks."),
		blocks:      desc("blocks", "Blocks currently allocated by the chain."),
		blocksInUse: desc("blocks_in_use", "Blocks between the first block and the cursor."),
		depth:       desc("frames", "Live frames from the root to the cursor."),
		entries:     desc("entries", "Live entries from the root to the cursor."),
		utilization: desc("utilization_ratio", "Bytes in use relative to usable capacity."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sizeInUse
	ch <- c.capacity
	ch <- c.blocks
	ch <- c.blocksInUse
	ch <- c.depth
	ch <- c.entries
	ch <- c.utilization
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.src.Metrics()
	ch <- prometheus.MustNewConstMetric(c.sizeInUse, prometheus.GaugeValue, float64(m.SizeInUse))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity))
	ch <- prometheus.MustNewConstMetric(c.blocks, prometheus.GaugeValue, float64(m.NumBlocks))
	ch <- prometheus.MustNewConstMetric(c.blocksInUse, prometheus.GaugeValue, float64(m.BlocksInUse))
	ch <- prometheus.MustNewConstMetric(c.depth, prometheus.GaugeValue, float64(m.Depth))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(m.Entries))
	ch <- prometheus.MustNewConstMetric(c.utilization, prometheus.GaugeValue, m.Utilization)
}
