package scavenge

import "errors"

var (
	// ErrNotForwarded indicates Resolve was asked about an object that has
	// not been evacuated.
	ErrNotForwarded = errors.New("scavenge: object not forwarded")
)
