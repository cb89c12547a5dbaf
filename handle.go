package framearena

// Handle is a view of one value stored in an arena. It is valid for exactly
// as long as the frame holding the value; any access after that frame is
// torn down panics with ErrStaleHandle.
//
// Handles returned by Stack.Push are exclusive: nothing else in the arena
// hands out the same slot, so Ptr and Set are allowed. Handles returned by
// Dict are shared, since any number of lookups may find the same entry.
// Mutating through a shared handle requires storing a Cell and going through
// CellOf.
type Handle[T any] struct {
	slot   *T
	frames *frameTable
	frame  int
	gen    uint64
	shared bool
}

// Valid reports whether the frame holding the value is still live.
func (h Handle[T]) Valid() bool {
	return h.slot != nil && h.frames.live(h.frame, h.gen)
}

// Shared reports whether the handle came from a lookup that may alias.
func (h Handle[T]) Shared() bool {
	return h.shared
}

// Get returns a copy of the value.
func (h Handle[T]) Get() T {
	h.check()
	return *h.slot
}

// Ptr returns the value's slot for in-place mutation. It panics with
// ErrSharedHandle on a shared handle.
func (h Handle[T]) Ptr() *T {
	h.check()
	if h.shared {
		fatalf(ErrSharedHandle, "frame %d", h.frame)
	}
	return h.slot
}

// Set overwrites the value. Same rules as Ptr.
func (h Handle[T]) Set(v T) {
	*h.Ptr() = v
}

func (h Handle[T]) check() {
	if !h.Valid() {
		fatalf(ErrStaleHandle, "frame %d generation %d", h.frame, h.gen)
	}
}

// Dropper is implemented by values that need to run cleanup when the frame
// holding them is torn down. Drop runs exactly once per pushed value, in
// reverse push order.
type Dropper interface {
	Drop()
}

func drop[T any](v *T) {
	if d, ok := any(v).(Dropper); ok {
		d.Drop()
		return
	}
	if d, ok := any(*v).(Dropper); ok {
		d.Drop()
	}
}
