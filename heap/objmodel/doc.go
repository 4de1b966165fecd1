// Package objmodel sizes and initializes managed objects for the allocator
// and the scavenger.
//
// # Overview
//
// Two operations sit on the hot path of every allocation and every copy:
//
//   - InitializeAllocation stamps a header into freshly reserved memory for
//     a mixed (fixed-shape) or indexable (array) allocation request.
//   - CalculateObjectDetailsForCopy reports, for an object that is being
//     relocated, whether it is indexable, how many bytes to copy and how many
//     bytes to reserve at the destination.
//
// Both are pure over their inputs and the read-only class table. They take
// no locks and allocate nothing, so any number of scavenger workers may call
// them at once on disjoint objects.
//
// # Forwarded Headers
//
// Once the scavenger claims an object it overwrites the class slot with a
// forwarding address. Anything that still needs the object's class or flags
// reads them from a ForwardedHeader, a snapshot taken before the slot was
// overwritten:
//
//	fh, err := objmodel.NewForwardedHeader(from, ref)
//	if err != nil {
//	    return err
//	}
//	d := model.CalculateObjectDetailsForCopy(&fh)
//	// claim d.ReserveSize bytes at dest, copy d.CopySize bytes
//	if err := fh.Forward(dest); err != nil {
//	    return err
//	}
//
// # Identity Hash Slot
//
// An object whose identity hash was taken before it ever moved has its hash
// derived from its address. The first relocation must therefore append a
// word holding that hash (the destination is one word larger than the
// source), and every later relocation copies the word along with the body.
// The slot only exists when the class's hashcode offset lands exactly at the
// end of the body; classes that store the hash inside their layout never
// grow.
package objmodel
