package framearena

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// dump writes every live entry visible from the cursor, newest first, with a
// "header" line closing each frame. The format is a debugging aid only.
func (c *cursor[E]) dump(w io.Writer, format func(*E) string) error {
	c.check()
	var b strings.Builder
	b.WriteString("top of stack\n")
	for _, s := range c.spans() {
		c.walk(s.from, s.to, func(e *E) bool {
			b.WriteString("\t")
			b.WriteString(format(e))
			b.WriteString("\n")
			return true
		})
		b.WriteString("header\n")
	}
	m := c.metrics()
	fmt.Fprintf(&b, "blocks: %d in use, %d allocated (%s)\n", m.BlocksInUse, m.NumBlocks, humanize.Bytes(uint64(m.Capacity)))
	_, err := io.WriteString(w, b.String())
	return err
}

// Dump writes the stack's live values from the most recent push to the
// oldest, marking frame boundaries and reporting the block count.
func (s *Stack[T]) Dump(w io.Writer) error {
	return s.c.dump(w, func(v *T) string {
		return fmt.Sprintf("%v", *v)
	})
}

// Dump writes the dictionary's live pairs from the most recent push to the
// oldest, marking frame boundaries and reporting the block count.
func (d *Dict[K, V]) Dump(w io.Writer) error {
	return d.c.dump(w, func(e *entry[K, V]) string {
		return fmt.Sprintf("Key: %v, Value: %v", e.key, e.value)
	})
}
