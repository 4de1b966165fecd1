// Package heap provides the byte region that managed objects live in.
//
// # Overview
//
// A Region is a contiguous, growable span of little-endian memory. Objects
// are identified by their byte offset into the region (ObjectRef), never by
// Go pointers, so references stay valid when the region grows and is
// remapped. Offset 0 is reserved: the zero ObjectRef means nil.
//
// On unix the region is an anonymous private mapping obtained through
// golang.org/x/sys/unix; other platforms fall back to a plain byte slice.
//
// # Object Layout
//
//	[header 16B][instance data ...][optional identity hash slot 8B][padding]
//
// The header layout and forwarding encoding live in internal/format. The
// object model that sizes and initializes objects is in heap/objmodel.
package heap
