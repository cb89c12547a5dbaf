package framearena

// Metrics is a snapshot of arena statistics as seen from one cursor.
type Metrics struct {
	SizeInUse   int     // Bytes consumed from the first block up to the cursor, headers and padding included
	Capacity    int     // Total size of all allocated blocks
	NumBlocks   int     // Blocks currently allocated by the chain
	BlocksInUse int     // Blocks between the first block and the cursor
	BlockSize   int     // Size of each block, tail included
	Depth       int     // Live frames from the root to the cursor
	Entries     int     // Live entries from the root to the cursor
	Utilization float64 // SizeInUse relative to the usable capacity (0.0-1.0)
}

// MetricsSource is anything that can report arena metrics.
type MetricsSource interface {
	Metrics() Metrics
}

func (c *cursor[E]) metrics() Metrics {
	ch := c.chain
	m := Metrics{BlockSize: ch.blockSize}
	if c.released || ch.frames.released {
		return m
	}
	m.NumBlocks = len(ch.blocks)
	m.Capacity = m.NumBlocks * ch.blockSize
	m.Depth = c.frame + 1
	for p := c.pos; ; p = ch.predecessor(p) {
		m.SizeInUse += p.used
		m.Entries += p.n
		m.BlocksInUse++
		if ch.blocks[p.block].tail.prev == noBlock {
			break
		}
	}
	if usable := m.NumBlocks * ch.usable; usable > 0 {
		m.Utilization = float64(m.SizeInUse) / float64(usable)
	}
	return m
}

// Metrics returns a snapshot of the stack's statistics.
func (s *Stack[T]) Metrics() Metrics {
	return s.c.metrics()
}

// Metrics returns a snapshot of the dictionary's statistics.
func (d *Dict[K, V]) Metrics() Metrics {
	return d.c.metrics()
}
