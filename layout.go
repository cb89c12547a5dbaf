package framearena

import "unsafe"

// layout is the precomputed shape of one element type. All offset math in
// the arena goes through it; nothing ever touches a raw address.
type layout struct {
	size   int
	align  int
	stride int // size rounded up so the next element stays aligned
}

func layoutOf[T any]() layout {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))
	if size == 0 {
		// Zero-sized values still need a slot of their own.
		size = 1
	}
	return layout{size: size, align: align, stride: alignUp(size, align)}
}

// pairLayout lays out a key followed by a value, padded so the value is
// aligned and so the key of the record after it is aligned too.
func pairLayout(key, value layout) layout {
	valueOff := alignUp(key.size, value.align)
	align := max(key.align, value.align)
	size := alignUp(valueOff+value.size, align)
	return layout{size: size, align: align, stride: size}
}

// alignUp rounds off up to the next multiple of align (a power of two).
func alignUp(off, align int) int {
	mask := align - 1
	return (off + mask) &^ mask
}

// padding is the number of bytes needed to bring off up to align.
func padding(off, align int) int {
	return alignUp(off, align) - off
}
