//go:build !linux

package heap

import (
	"errors"
	"fmt"
)

// NewArena creates a slice-backed arena on platforms without the anonymous
// mmap reservation. limit <= 0 selects DefaultLimit.
func NewArena(limit int64) (*Arena, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Arena{
		data:  nil,
		size:  0,
		limit: limit,
	}, nil
}

// Append commits n more bytes at the end of the arena by reallocating the
// backing slice. The new bytes are zero-initialized. On failure nothing is
// installed and the arena is exactly as it was before the call.
func (a *Arena) Append(n int64) error {
	if a == nil {
		return errors.New("heap: cannot append to nil arena")
	}
	if n <= 0 {
		return nil
	}
	if a.size+n > a.limit {
		return fmt.Errorf("heap: append %d beyond %d: %w", n, a.limit, ErrLimit)
	}

	newData := make([]byte, a.size+n)
	copy(newData, a.data[:a.size])
	a.data = newData
	a.size += n
	return nil
}

// Close releases the backing slice. The arena must not be used afterwards.
func (a *Arena) Close() error {
	if a == nil {
		return nil
	}
	a.data = nil
	a.size = 0
	return nil
}
