package framearena

import "github.com/go-kit/log/level"

const noFrame = -1

// frameHeader records where a frame begins. Frames are kept in a table
// indexed by nesting depth instead of pointing at each other.
type frameHeader struct {
	previous   int      // enclosing frame, noFrame for the root
	start      position // first position after the header
	base       position // parent cursor position when the frame was created
	end        position // just past the frame's newest entry
	generation uint64
}

// frameTable holds the headers of every live frame of one chain, outermost
// first. It is shared by all cursors and handles of the chain.
type frameTable struct {
	headers    []frameHeader
	generation uint64
	released   bool
}

// live reports whether the frame at index is still the one stamped with gen.
func (t *frameTable) live(index int, gen uint64) bool {
	return !t.released && index < len(t.headers) && t.headers[index].generation == gen
}

func (t *frameTable) push(h frameHeader) (int, uint64) {
	t.generation++
	h.generation = t.generation
	t.headers = append(t.headers, h)
	return len(t.headers) - 1, h.generation
}

// cursor is the bookkeeping behind both Stack and Dict: which frame it owns
// and where the next push lands.
type cursor[E any] struct {
	chain    *chain[E]
	frame    int
	gen      uint64
	pos      position
	released bool
}

func newRootCursor[E any](blockSize int, entry layout, opts []Option) *cursor[E] {
	c := newChain[E](blockSize, entry, buildOptions(opts))
	base := position{block: 0}
	start := c.ensureSpace(base, c.header.size, c.header.align)
	frame, gen := c.frames.push(frameHeader{previous: noFrame, start: start, base: base, end: start})
	return &cursor[E]{chain: c, frame: frame, gen: gen, pos: start}
}

// check panics unless the cursor's frame is still live.
func (c *cursor[E]) check() {
	if c.released || c.chain.frames.released {
		fatalf(ErrReleased, "frame %d", c.frame)
	}
	if !c.chain.frames.live(c.frame, c.gen) {
		fatalf(ErrStaleFrame, "frame %d generation %d", c.frame, c.gen)
	}
}

// checkTop panics unless the cursor is live and owns the innermost frame.
// Only the innermost frame may move the shared bump position.
func (c *cursor[E]) checkTop() {
	c.check()
	if depth := len(c.chain.frames.headers); depth != c.frame+1 {
		fatalf(ErrFrameBusy, "frame %d has %d live frames above it", c.frame, depth-c.frame-1)
	}
}

// fork writes a new frame header after the cursor's position and returns a
// cursor owning that frame. The receiver is not modified.
func (c *cursor[E]) fork() *cursor[E] {
	c.checkTop()
	ch := c.chain
	start := ch.ensureSpace(c.pos, ch.header.size, ch.header.align)
	frame, gen := ch.frames.push(frameHeader{previous: c.frame, start: start, base: c.pos, end: start})
	return &cursor[E]{chain: ch, frame: frame, gen: gen, pos: start}
}

// push reserves the next entry slot in the current frame.
func (c *cursor[E]) push(e E) *E {
	c.checkTop()
	ch := c.chain
	pos := ch.ensureSpace(c.pos, ch.entry.size, ch.entry.align)
	slot := ch.slot(pos)
	*slot = e
	pos.n++
	c.pos = pos
	ch.frames.headers[c.frame].end = pos
	return slot
}

// walk visits the entries between from and to, newest first, crossing block
// boundaries through the tails. It stops early when visit returns false and
// reports whether it reached to.
func (c *cursor[E]) walk(from, to position, visit func(*E) bool) bool {
	ch := c.chain
	for p := from; ; {
		if p.at(to) {
			return true
		}
		if p.block < to.block || (p.block == to.block && p.n < to.n) {
			fatalf(ErrCorrupt, "walk at block %d entry %d passed its frame start at block %d entry %d", p.block, p.n, to.block, to.n)
		}
		if p.n == 0 {
			p = ch.predecessor(p)
			continue
		}
		p.n--
		if !visit(ch.slot(p)) {
			return false
		}
	}
}

// frameSpan is the range of one live frame as seen from a cursor.
type frameSpan struct {
	frame int
	gen   uint64
	from  position
	to    position
}

// spans lists the cursor's frame and then every enclosing frame, innermost
// first. Each enclosing frame ends where its child was forked.
func (c *cursor[E]) spans() []frameSpan {
	headers := c.chain.frames.headers
	spans := make([]frameSpan, 0, c.frame+1)
	end := c.pos
	for f := c.frame; f != noFrame; f = headers[f].previous {
		h := headers[f]
		spans = append(spans, frameSpan{frame: f, gen: h.generation, from: end, to: h.start})
		end = h.base
	}
	return spans
}

// teardown destroys the frame's entries newest first, pops the frame and,
// for the root, releases the chain. Releasing twice is a no-op.
func (c *cursor[E]) teardown(destroy func(*E)) {
	if c.released {
		return
	}
	c.checkTop()
	ch := c.chain
	h := ch.frames.headers[c.frame]
	c.pop(h, destroy)
	c.released = true
	if h.previous == noFrame {
		ch.release()
	}
}

// unwind tears down every frame still live above the cursor's, innermost
// first, and then the cursor's own frame. Cursors owning the popped frames
// go stale.
func (c *cursor[E]) unwind(destroy func(*E)) {
	if c.released {
		return
	}
	c.check()
	ch := c.chain
	for top := len(ch.frames.headers) - 1; top > c.frame; top-- {
		h := ch.frames.headers[top]
		level.Debug(ch.logger).Log("msg", "unwinding abandoned frame", "frame", top, "parent", c.frame)
		c.pop(h, destroy)
	}
	c.teardown(destroy)
}

// pop destroys the entries of the innermost frame h, newest first, zeroes
// their slots and removes h from the frame table.
func (c *cursor[E]) pop(h frameHeader, destroy func(*E)) {
	var zero E
	c.walk(h.end, h.start, func(e *E) bool {
		destroy(e)
		*e = zero
		return true
	})
	c.chain.frames.headers = c.chain.frames.headers[:len(c.chain.frames.headers)-1]
}
