package class

import "errors"

var (
	// ErrDuplicateClass indicates a class ID or name registered twice.
	ErrDuplicateClass = errors.New("class: duplicate class")

	// ErrUnknownClass indicates a lookup of an ID that was never registered.
	ErrUnknownClass = errors.New("class: unknown class")

	// ErrInvalidShape indicates a class whose layout the object model cannot size.
	ErrInvalidShape = errors.New("class: invalid shape")
)
