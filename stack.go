package framearena

// Stack is a frame allocator for values of a single type T. Values are pushed
// into the current frame and destroyed together, newest first, when the
// frame ends.
//
// A Stack value is one cursor into a shared block chain. The root returned by
// NewStack owns the chain; cursors from Run and Fork own one nested frame
// each. Only the innermost live frame may push.
type Stack[T any] struct {
	c *cursor[T]
}

// NewStack creates a root stack whose blocks are blockSize bytes, tail
// included. If blockSize <= 0, DefaultBlockSize is used.
func NewStack[T any](blockSize int, opts ...Option) *Stack[T] {
	return &Stack[T]{c: newRootCursor[T](blockSize, layoutOf[T](), opts)}
}

// Run calls fn with a stack owning a new frame. The frame and everything
// pushed into it are destroyed before Run returns, even if fn panics. Frames
// that fn forked and did not release are destroyed first, innermost first.
func (s *Stack[T]) Run(fn func(*Stack[T])) {
	child := s.Fork()
	defer child.unwind()
	fn(child)
}

// Fork returns a stack owning a new frame nested in s. The caller must
// Release it before using s to push again.
func (s *Stack[T]) Fork() *Stack[T] {
	return &Stack[T]{c: s.c.fork()}
}

// Push stores v in the current frame and returns an exclusive handle to it.
func (s *Stack[T]) Push(v T) Handle[T] {
	slot := s.c.push(v)
	return Handle[T]{slot: slot, frames: s.c.chain.frames, frame: s.c.frame, gen: s.c.gen}
}

// Release destroys the frame owned by s. On the root it also frees every
// block of the chain. Calling Release again does nothing.
func (s *Stack[T]) Release() {
	s.c.teardown(drop[T])
}

func (s *Stack[T]) unwind() {
	s.c.unwind(drop[T])
}
