package alloc

import "errors"

var (
	// ErrNoSpace indicates that the region is exhausted and growth is disabled or failed.
	ErrNoSpace = errors.New("alloc: no space left in region")

	// ErrGrowFail indicates that attempting to grow the region failed.
	ErrGrowFail = errors.New("alloc: grow failed")

	// ErrNeedSmall indicates the requested size is smaller than an object header.
	ErrNeedSmall = errors.New("alloc: need must include the object header")
)
