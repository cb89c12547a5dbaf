package framearena

// Cell is a value with checked interior mutability. Store it in a Dict when
// the value must be changed through shared handles; CellOf gives access to
// it without the unchecked Ptr escape hatch.
type Cell[T any] struct {
	value    T
	borrowed bool
}

// NewCell returns a cell holding v.
func NewCell[T any](v T) Cell[T] {
	return Cell[T]{value: v}
}

// CellOf returns the cell a handle points at. Shared handles are accepted:
// the cell itself rejects overlapping mutation.
func CellOf[T any](h Handle[Cell[T]]) *Cell[T] {
	h.check()
	return h.slot
}

// Load returns a copy of the value.
func (c *Cell[T]) Load() T {
	if c.borrowed {
		fatalf(ErrCellBorrowed, "load during update")
	}
	return c.value
}

// Store replaces the value.
func (c *Cell[T]) Store(v T) {
	if c.borrowed {
		fatalf(ErrCellBorrowed, "store during update")
	}
	c.value = v
}

// Update calls fn with exclusive access to the value. Touching the cell again
// from inside fn panics.
func (c *Cell[T]) Update(fn func(*T)) {
	if c.borrowed {
		fatalf(ErrCellBorrowed, "nested update")
	}
	c.borrowed = true
	defer func() { c.borrowed = false }()
	fn(&c.value)
}
