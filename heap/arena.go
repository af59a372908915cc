package heap

import "errors"

// DefaultLimit is the arena reservation used when the caller passes no limit.
// 1 GiB of address space; pages are only committed as the heap grows.
const DefaultLimit = 1 << 30

// ErrLimit indicates that an Append would exceed the arena's byte limit.
var ErrLimit = errors.New("heap: arena limit reached")

// Arena is one contiguous, growable byte region backed by an anonymous
// mapping (linux) or a byte slice (others).
type Arena struct {
	data  []byte // reservation (linux) or backing slice
	size  int64  // committed bytes
	limit int64
}

// Bytes returns the committed bytes of the arena.
//
// The returned slice is invalidated by Append on slice-backed platforms;
// callers holding block offsets must re-resolve after any growth.
func (a *Arena) Bytes() []byte { return a.data[:a.size] }

// Size returns the number of committed bytes.
func (a *Arena) Size() int64 { return a.size }

// Limit returns the maximum committed size this arena will reach.
func (a *Arena) Limit() int64 { return a.limit }
