package objmodel

import (
	"fmt"

	"github.com/joshuapare/gcmodel/heap"
	"github.com/joshuapare/gcmodel/internal/format"
)

// hashSeed is mixed into address-derived hashes so that objects at small
// offsets do not all hash near zero.
const hashSeed = 0x9e3779b97f4a7c15

// HashFromAddress derives the identity hash of an object that has never
// moved from its address.
func HashFromAddress(ref heap.ObjectRef) uint32 {
	// splitmix64 finalizer
	x := ref + hashSeed
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return uint32(x)
}

// IdentityHashCode returns the identity hash of the live object at ref and
// marks it hashed. Once the object has moved the hash is read back from the
// object; before that it is derived from ref.
func (m *ObjectModel) IdentityHashCode(r *heap.Region, ref heap.ObjectRef) (uint32, error) {
	c, h, err := m.Class(r, ref)
	if err != nil {
		return 0, err
	}
	if Flags(h.Flags).HasBeenMoved() {
		_, offset := m.bodySizeAndHashcodeOffset(c, h.ElementCount)
		b, err := r.Slice(ref+uint64(offset), format.HashcodeSize)
		if err != nil {
			return 0, fmt.Errorf("hash slot of 0x%x: %w", ref, err)
		}
		return format.ReadU32(b, 0), nil
	}
	if !Flags(h.Flags).HasBeenHashed() {
		b, err := r.Header(ref)
		if err != nil {
			return 0, err
		}
		format.PutU32(b, format.FlagsOffset, h.Flags|format.FlagHashed)
	}
	return HashFromAddress(ref), nil
}

// FinishCopy completes the destination copy of the object behind fh once
// d.CopySize bytes have been copied to dest: a hashed object that had not
// moved gets its address-derived hash stored at the hash offset and is
// flagged moved. Other objects are left as copied.
func (m *ObjectModel) FinishCopy(fh *ForwardedHeader, d CopyDetails, to *heap.Region, dest heap.ObjectRef) error {
	flags := fh.PreservedFlags()
	if !flags.HasBeenHashed() || flags.HasBeenMoved() {
		return nil
	}
	b, err := to.Slice(dest+uint64(d.HashcodeOffset), format.HashcodeSize)
	if err != nil {
		return fmt.Errorf("hash slot of 0x%x: %w", dest, err)
	}
	format.PutU32(b, 0, HashFromAddress(fh.Object()))

	hdr, err := to.Header(dest)
	if err != nil {
		return err
	}
	format.PutU32(hdr, format.FlagsOffset, uint32(flags)|format.FlagMoved)
	return nil
}
