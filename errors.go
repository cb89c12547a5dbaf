package framearena

import "github.com/pkg/errors"

// Fatal conditions. The arena never returns these; it panics with a value
// wrapping one of them so callers can tell them apart with errors.Is after
// recovering.
var (
	ErrBlockUnavailable = errors.New("framearena: no block available")
	ErrCorrupt          = errors.New("framearena: chain invariant violated")
	ErrReleased         = errors.New("framearena: use after Release()")
	ErrStaleFrame       = errors.New("framearena: frame is no longer live")
	ErrStaleHandle      = errors.New("framearena: handle outlived its frame")
	ErrFrameBusy        = errors.New("framearena: frame has a live child frame")
	ErrSharedHandle     = errors.New("framearena: mutable view of a shared handle")
	ErrCellBorrowed     = errors.New("framearena: cell already borrowed")
	ErrInvalidConfig    = errors.New("framearena: invalid config")
)

func fatalf(err error, format string, args ...interface{}) {
	panic(errors.Wrapf(err, format, args...))
}
