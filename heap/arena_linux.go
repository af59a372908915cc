//go:build linux

package heap

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// NewArena reserves limit bytes of address space with an anonymous private
// mapping. Pages are committed lazily by the OS on first touch, so a large
// reservation costs nothing up front. limit <= 0 selects DefaultLimit.
func NewArena(limit int64) (*Arena, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	data, err := unix.Mmap(
		-1,
		0,
		int(limit),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_NORESERVE,
	)
	if err != nil {
		return nil, fmt.Errorf("heap: mmap reservation failed: %w", err)
	}

	return &Arena{
		data:  data,
		size:  0,
		limit: limit,
	}, nil
}

// Append commits n more bytes at the end of the arena. The new bytes are
// zero-initialized by the OS. On failure nothing is installed and the arena
// is exactly as it was before the call.
func (a *Arena) Append(n int64) error {
	if a == nil || a.data == nil {
		return errors.New("heap: cannot append to nil or closed arena")
	}
	if n <= 0 {
		return nil
	}
	if a.size+n > a.limit {
		return fmt.Errorf("heap: append %d beyond %d: %w", n, a.limit, ErrLimit)
	}
	a.size += n
	return nil
}

// Close releases the reservation. The arena must not be used afterwards.
func (a *Arena) Close() error {
	if a == nil || a.data == nil {
		return nil
	}
	err := unix.Munmap(a.data)
	a.data = nil
	a.size = 0
	return err
}
