package framearena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// requirePanicIs runs fn and fails unless it panics with an error wrapping
// target.
func requirePanicIs(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.ErrorIs(t, err, target)
	}()
	fn()
}

// tracked appends its name to a shared log when dropped.
type tracked struct {
	name string
	log  *[]string
}

func (d tracked) Drop() {
	*d.log = append(*d.log, d.name)
}

// counted records its id when dropped and is 16 bytes wide on 64-bit
// platforms, which keeps block arithmetic in tests simple.
type counted struct {
	id    int64
	drops *[]int64
}

func (c *counted) Drop() {
	*c.drops = append(*c.drops, c.id)
}
