//go:build !unix

package heap

func mapRegion(n int) ([]byte, bool, error) {
	return make([]byte, n), false, nil
}

func unmapRegion([]byte) error { return nil }

// Release zeroes the region so it can be reused as an empty to-space.
func (r *Region) Release() error {
	if r.data == nil {
		return ErrClosed
	}
	clear(r.data)
	return nil
}
