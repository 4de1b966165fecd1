// Package verify checks the structural invariants of a heap region.
//
// # Overview
//
// A region filled by a bump allocator is a sequence of objects, each followed
// only by the zero padding its alignment or a cache-line placement added. Walk
// visits those objects in address order using the object model's idea of how
// much space each one consumes; Region and Forwarding build on it to check
// that a region is well formed and that a scavenge left a consistent
// from-space behind.
//
// Validation categories:
//   - Object: header readable, class known, flags valid, alignment kept
//   - Extent: no object runs past the end of the walked range
//   - Forwarding: every evacuated object holds a forwarding address into
//     to-space and its copy there is live
//
// # Quick Start
//
//	stats, err := verify.Region(model, to.Region(), to.Base(), to.Top())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d objects, %d hashed\n", stats.Objects, stats.Hashed)
//
// # ValidationError
//
// Every check returns a *ValidationError on failure:
//
//	var verr *verify.ValidationError
//	if errors.As(err, &verr) {
//	    fmt.Printf("%s at 0x%X: %s\n", verr.Type, verr.Offset, verr.Message)
//	}
//
// Walking a region requires live headers. A from-space after a scavenge holds
// forwarding addresses instead of classes and can only be checked with
// Forwarding.
package verify
