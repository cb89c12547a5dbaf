package framearena

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValue[V any](t *testing.T, want V, h Handle[V], ok bool) {
	t.Helper()
	require.True(t, ok, "key not found")
	require.Equal(t, want, h.Get())
}

func TestDictPushAndGet(t *testing.T) {
	d := NewDict[string, int](0)
	defer d.Release()

	h := d.Push("a", 80085)
	d.Push("b", 420)
	d.Push("c", 69)
	assert.True(t, h.Shared())

	v, ok := d.GetInFrame("a")
	requireValue(t, 80085, v, ok)
	v, ok = d.GetInFrame("b")
	requireValue(t, 420, v, ok)
	v, ok = d.GetInStack("c")
	requireValue(t, 69, v, ok)

	_, ok = d.GetInFrame("missing")
	assert.False(t, ok)
	_, ok = d.GetInStack("missing")
	assert.False(t, ok)
}

func TestDictShadowing(t *testing.T) {
	d := NewDict[string, int](0)
	defer d.Release()

	d.Push("k", 1)
	d.Push("k", 2)
	v, ok := d.GetInFrame("k")
	requireValue(t, 2, v, ok)

	d.Push("x", 1)
	d.Run(func(d *Dict[string, int]) {
		d.Push("x", 2)
		v, ok := d.GetInFrame("x")
		requireValue(t, 2, v, ok)
		v, ok = d.GetInStack("x")
		requireValue(t, 2, v, ok)
	})
	v, ok = d.GetInFrame("x")
	requireValue(t, 1, v, ok)
	v, ok = d.GetInStack("x")
	requireValue(t, 1, v, ok)
}

func TestDictFrameVersusStack(t *testing.T) {
	d := NewDict[string, string](0)
	defer d.Release()

	d.Push("red", "old")
	d.Push("blue", "old")

	d.Run(func(d *Dict[string, string]) {
		d.Push("green", "new")

		v, ok := d.GetInStack("red")
		requireValue(t, "old", v, ok)
		_, ok = d.GetInFrame("red")
		assert.False(t, ok, "parent keys are not in the child frame")

		v, ok = d.GetInStack("green")
		requireValue(t, "new", v, ok)
		v, ok = d.GetInFrame("green")
		requireValue(t, "new", v, ok)

		d.Push("red", "new")
		v, ok = d.GetInStack("red")
		requireValue(t, "new", v, ok)
	})

	_, ok := d.GetInFrame("green")
	assert.False(t, ok)
	_, ok = d.GetInStack("green")
	assert.False(t, ok)

	v, ok := d.GetInStack("red")
	requireValue(t, "old", v, ok)
	v, ok = d.GetInStack("blue")
	requireValue(t, "old", v, ok)
}

func TestDictScopeIsolation(t *testing.T) {
	d := NewDict[string, int](0)
	defer d.Release()
	d.Push("a", 1)
	before := d.Metrics()

	d.Run(func(d *Dict[string, int]) {
		d.Push("tmp", 2)
		d.Run(func(d *Dict[string, int]) {
			d.Push("tmp", 3)
		})
	})

	_, ok := d.GetInStack("tmp")
	assert.False(t, ok)
	_, ok = d.GetInFrame("tmp")
	assert.False(t, ok)
	assert.Equal(t, before, d.Metrics())
}

func TestDictCrossBlock(t *testing.T) {
	var log []string
	d := NewDict[int64, tracked](256)
	for i := int64(0); i < 100; i++ {
		d.Push(i, tracked{fmt.Sprint(i), &log})
	}
	require.Greater(t, d.Metrics().NumBlocks, 1)

	for i := int64(0); i < 100; i++ {
		v, ok := d.GetInFrame(i)
		require.True(t, ok, "key %d", i)
		assert.Equal(t, fmt.Sprint(i), v.Get().name)
	}

	d.Release()
	require.Len(t, log, 100)
	assert.Equal(t, "99", log[0])
	assert.Equal(t, "0", log[99])
}

func TestDictDeepNesting(t *testing.T) {
	const depth, perFrame = 12, 3
	d := NewDict[int64, int64](256)
	defer d.Release()

	var descend func(d *Dict[int64, int64], level int64)
	descend = func(d *Dict[int64, int64], level int64) {
		for i := int64(0); i < perFrame; i++ {
			d.Push(level*perFrame+i, level)
		}
		d.Push(-1, level) // shadowed at every level
		if level+1 < depth {
			d.Run(func(d *Dict[int64, int64]) { descend(d, level+1) })
			v, ok := d.GetInStack(-1)
			requireValue(t, level, v, ok)
			return
		}

		for k := int64(0); k < depth*perFrame; k++ {
			v, ok := d.GetInStack(k)
			requireValue(t, k/perFrame, v, ok)

			_, ok = d.GetInFrame(k)
			assert.Equal(t, k/perFrame == level, ok, "key %d in frame", k)
		}
		v, ok := d.GetInStack(-1)
		requireValue(t, level, v, ok)
	}
	descend(d, 0)
	require.Greater(t, d.Metrics().NumBlocks, 1)
}

// dropKey is comparable and logs its own drop.
type dropKey struct {
	name string
	log  *[]string
}

func (k dropKey) Drop() {
	*k.log = append(*k.log, "key "+k.name)
}

func TestDictDropsKeyThenValue(t *testing.T) {
	var log []string
	d := NewDict[dropKey, tracked](0)
	d.Push(dropKey{"a", &log}, tracked{"value a", &log})
	d.Push(dropKey{"b", &log}, tracked{"value b", &log})
	d.Release()

	assert.Equal(t, []string{"key b", "value b", "key a", "value a"}, log)
}

func TestDictRunUnwindsForks(t *testing.T) {
	var log []string
	d := NewDict[dropKey, tracked](0)
	defer d.Release()
	outer := dropKey{"outer", &log}
	d.Push(outer, tracked{"value outer", &log})

	d.Run(func(d *Dict[dropKey, tracked]) {
		d.Push(dropKey{"a", &log}, tracked{"value a", &log})
		f := d.Fork()
		f.Push(dropKey{"b", &log}, tracked{"value b", &log})
	})

	assert.Equal(t, []string{"key b", "value b", "key a", "value a"}, log)
	v, ok := d.GetInStack(outer)
	require.True(t, ok)
	assert.Equal(t, "value outer", v.Get().name)
}

func TestDictScenario(t *testing.T) {
	var log []string
	d := NewDict[string, tracked](0)
	push := func(d *Dict[string, tracked], k, v string) {
		d.Push(k, tracked{v, &log})
	}

	push(d, "I", "1")
	push(d, "II", "2")
	push(d, "III", "3")
	d.Run(func(d *Dict[string, tracked]) {
		push(d, "a", "10")
		push(d, "b", "20")
		d.Run(func(d *Dict[string, tracked]) {
			for i := 1; i <= 5; i++ {
				push(d, fmt.Sprint(i), fmt.Sprint(i*100))
			}
		})
		assert.Equal(t, []string{"500", "400", "300", "200", "100"}, log)
		log = nil
		push(d, "c", "30")
	})
	assert.Equal(t, []string{"30", "20", "10"}, log)
	log = nil

	push(d, "IV", "4")
	push(d, "V", "5")
	push(d, "VI", "6")

	want := []string{"VI", "V", "IV", "III", "II", "I"}
	var got []string
	for _, s := range d.c.spans() {
		d.c.walk(s.from, s.to, func(e *entry[string, tracked]) bool {
			got = append(got, e.key)
			return true
		})
	}
	assert.Equal(t, want, got)
	for i, k := range want {
		v, ok := d.GetInStack(k)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(6-i), v.Get().name)
	}
	for _, k := range []string{"a", "b", "c", "1", "5"} {
		_, ok := d.GetInStack(k)
		assert.False(t, ok, "key %q", k)
	}

	d.Release()
	assert.Equal(t, []string{"6", "5", "4", "3", "2", "1"}, log)
}

func TestDictHandles(t *testing.T) {
	d := NewDict[string, int](0)
	defer d.Release()
	d.Push("outer", 1)

	var inner, outer Handle[int]
	d.Run(func(d *Dict[string, int]) {
		inner = d.Push("inner", 2)
		var ok bool
		outer, ok = d.GetInStack("outer")
		require.True(t, ok)
	})

	// The handle belongs to the frame holding the value, not the one that
	// looked it up.
	assert.True(t, outer.Valid())
	assert.Equal(t, 1, outer.Get())
	assert.False(t, inner.Valid())
	requirePanicIs(t, ErrStaleHandle, func() { inner.Get() })

	requirePanicIs(t, ErrSharedHandle, func() { outer.Ptr() })
	requirePanicIs(t, ErrSharedHandle, func() { outer.Set(5) })
}

func TestDictLookupWhileChildLive(t *testing.T) {
	d := NewDict[string, int](0)
	defer d.Release()
	d.Push("a", 1)
	child := d.Fork()
	child.Push("a", 2)

	v, ok := d.GetInStack("a")
	requireValue(t, 1, v, ok)
	v, ok = child.GetInStack("a")
	requireValue(t, 2, v, ok)
	requirePanicIs(t, ErrFrameBusy, func() { d.Push("b", 3) })
	child.Release()
}
