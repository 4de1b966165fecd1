package format

import (
	"fmt"

	"github.com/joshuapare/gcmodel/internal/buf"
)

// Header is the decoded form of a live (not forwarded) object header.
type Header struct {
	ClassID      uint32
	Flags        uint32
	ElementCount uint32
}

// ParseHeader decodes the header at the start of b. It fails with
// ErrForwarded when the class slot holds a forwarding address, since the
// remaining fields can no longer be trusted as a live header.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	slot := buf.U64LE(b[ClassSlotOffset:])
	if IsForwardedSlot(slot) {
		return Header{}, fmt.Errorf("header: %w", ErrForwarded)
	}
	flags := buf.U32LE(b[FlagsOffset:])
	if flags&^FlagMask != 0 {
		return Header{}, fmt.Errorf("header: flags 0x%x: %w", flags, ErrUnknownFlags)
	}
	return Header{
		ClassID:      ClassIDFromSlot(slot),
		Flags:        flags,
		ElementCount: buf.U32LE(b[ElementCountOffset:]),
	}, nil
}

// EncodeHeader writes h to the start of b.
func EncodeHeader(b []byte, h Header) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("header: %w", ErrTruncated)
	}
	PutU64(b, ClassSlotOffset, ClassSlot(h.ClassID))
	PutU32(b, FlagsOffset, h.Flags)
	PutU32(b, ElementCountOffset, h.ElementCount)
	return nil
}

// ClassSlot returns the class slot encoding of a class ID.
func ClassSlot(id uint32) uint64 {
	return uint64(id) << 1
}

// ClassIDFromSlot decodes a non-forwarded class slot.
func ClassIDFromSlot(slot uint64) uint32 {
	return uint32(slot >> 1)
}

// IsForwardedSlot reports whether a class slot holds a forwarding address.
func IsForwardedSlot(slot uint64) bool {
	return slot&ForwardedTag != 0
}

// ForwardingSlot encodes addr as a forwarding class slot. addr must be word
// aligned.
func ForwardingSlot(addr uint64) (uint64, error) {
	if !IsAligned(uintptr(addr), PointerSize) {
		return 0, fmt.Errorf("forwarding address 0x%x: %w", addr, ErrBadAlignment)
	}
	return addr | ForwardedTag, nil
}

// ForwardingAddress decodes a forwarding class slot.
func ForwardingAddress(slot uint64) (uint64, error) {
	if !IsForwardedSlot(slot) {
		return 0, ErrNotForwarded
	}
	return slot &^ ForwardedTag, nil
}
