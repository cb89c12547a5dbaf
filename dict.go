package framearena

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Dict is a frame allocator for key-value pairs. A key may be pushed any
// number of times; lookups return the most recently pushed value, so later
// pushes shadow earlier ones until their frame ends.
//
// Lookups scan backwards and keep no index, which suits shallow, short-lived
// scopes such as the variable environments of an interpreter.
type Dict[K comparable, V any] struct {
	c *cursor[entry[K, V]]
}

// NewDict creates a root dictionary whose blocks are blockSize bytes, tail
// included. If blockSize <= 0, DefaultBlockSize is used.
func NewDict[K comparable, V any](blockSize int, opts ...Option) *Dict[K, V] {
	l := pairLayout(layoutOf[K](), layoutOf[V]())
	return &Dict[K, V]{c: newRootCursor[entry[K, V]](blockSize, l, opts)}
}

// Run calls fn with a dictionary owning a new frame. The frame and everything
// pushed into it are destroyed before Run returns, even if fn panics. Frames
// that fn forked and did not release are destroyed first, innermost first.
func (d *Dict[K, V]) Run(fn func(*Dict[K, V])) {
	child := d.Fork()
	defer child.unwind()
	fn(child)
}

// Fork returns a dictionary owning a new frame nested in d. The caller must
// Release it before using d to push again.
func (d *Dict[K, V]) Fork() *Dict[K, V] {
	return &Dict[K, V]{c: d.c.fork()}
}

// Push stores the pair in the current frame and returns a handle to the
// value. An existing pair with the same key is shadowed, not overwritten.
func (d *Dict[K, V]) Push(key K, value V) Handle[V] {
	e := d.c.push(entry[K, V]{key: key, value: value})
	return d.handle(e, d.c.frame, d.c.gen)
}

// GetInFrame returns the newest value pushed under key in the current frame.
func (d *Dict[K, V]) GetInFrame(key K) (Handle[V], bool) {
	d.c.check()
	h := d.c.chain.frames.headers[d.c.frame]
	return d.find(key, []frameSpan{{frame: d.c.frame, gen: d.c.gen, from: d.c.pos, to: h.start}})
}

// GetInStack returns the newest value pushed under key in the current frame
// or any frame enclosing it.
func (d *Dict[K, V]) GetInStack(key K) (Handle[V], bool) {
	d.c.check()
	return d.find(key, d.c.spans())
}

func (d *Dict[K, V]) find(key K, spans []frameSpan) (Handle[V], bool) {
	var found *entry[K, V]
	for _, s := range spans {
		d.c.walk(s.from, s.to, func(e *entry[K, V]) bool {
			if e.key == key {
				found = e
				return false
			}
			return true
		})
		if found != nil {
			return d.handle(found, s.frame, s.gen), true
		}
	}
	return Handle[V]{}, false
}

func (d *Dict[K, V]) handle(e *entry[K, V], frame int, gen uint64) Handle[V] {
	return Handle[V]{slot: &e.value, frames: d.c.chain.frames, frame: frame, gen: gen, shared: true}
}

// Release destroys the frame owned by d, each key before its value. On the
// root it also frees every block of the chain. Calling Release again does
// nothing.
func (d *Dict[K, V]) Release() {
	d.c.teardown(dropEntry[K, V])
}

func (d *Dict[K, V]) unwind() {
	d.c.unwind(dropEntry[K, V])
}

func dropEntry[K comparable, V any](e *entry[K, V]) {
	drop(&e.key)
	drop(&e.value)
}
