//go:build unix

package heap

import (
	"errors"

	"golang.org/x/sys/unix"
)

// mapRegion obtains n zeroed bytes from an anonymous private mapping.
func mapRegion(n int) ([]byte, bool, error) {
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func unmapRegion(data []byte) error {
	err := unix.Munmap(data)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}

// Release hands the pages of a drained region back to the OS while keeping
// the mapping. The bytes read as zero afterwards.
func (r *Region) Release() error {
	if r.data == nil {
		return ErrClosed
	}
	if !r.mapped {
		clear(r.data)
		return nil
	}
	if err := unix.Madvise(r.data, unix.MADV_DONTNEED); err != nil {
		return err
	}
	return nil
}
