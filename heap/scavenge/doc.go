// Package scavenge is a small semispace copier built on the object model. It
// moves a set of objects from one region into another, one worker per object
// at a time, and leaves forwarding addresses behind.
//
// Choosing which objects survive, scanning roots and fixing up references
// are left to the caller: Evacuate copies exactly the objects it is given.
//
// Each object goes through the same steps:
//
//  1. claim the object so no other worker touches it
//  2. snapshot its header into an objmodel.ForwardedHeader
//  3. size it with CalculateObjectDetailsForCopy
//  4. reserve ReserveSize bytes in to-space and copy CopySize bytes
//  5. store a fresh identity hash and set the moved flag if needed
//  6. overwrite the from-space class slot with the forwarding address
package scavenge
