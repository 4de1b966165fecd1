package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrForwarded indicates a header was read as a live object while its
	// class slot held a forwarding address.
	ErrForwarded = errors.New("format: header is forwarded")
	// ErrNotForwarded indicates a forwarding address was requested from a
	// header that still holds a class.
	ErrNotForwarded = errors.New("format: header is not forwarded")
	// ErrBadAlignment indicates an address or size that violates the heap
	// alignment rule.
	ErrBadAlignment = errors.New("format: bad alignment")
	// ErrUnknownFlags indicates flag bits outside FlagMask were set.
	ErrUnknownFlags = errors.New("format: unknown flag bits")
)
