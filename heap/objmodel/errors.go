package objmodel

import "errors"

var (
	// ErrAlreadyForwarded indicates a forwarded header was requested for an
	// object whose class slot already holds a forwarding address.
	ErrAlreadyForwarded = errors.New("objmodel: object already forwarded")

	// ErrShortMemory indicates the memory handed to InitializeAllocation is
	// smaller than the request needs.
	ErrShortMemory = errors.New("objmodel: memory too small for allocation")

	// ErrWrongCategory indicates a class used with the allocation constructor
	// of the other category.
	ErrWrongCategory = errors.New("objmodel: class does not match allocation category")

	// ErrTooLarge indicates an array whose size does not fit the address space.
	ErrTooLarge = errors.New("objmodel: object too large")
)
