package heap

import "errors"

var (
	// ErrClosed indicates an operation on a region that has been closed.
	ErrClosed = errors.New("heap: region closed")

	// ErrBadRef indicates an object reference outside the region.
	ErrBadRef = errors.New("heap: bad object reference")

	// ErrTooLarge indicates a region size beyond MaxRegionSize.
	ErrTooLarge = errors.New("heap: region too large")
)
