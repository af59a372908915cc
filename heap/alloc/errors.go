package alloc

import "errors"

var (
	// ErrBadSize indicates an invalid requested size (zero or negative for
	// Alloc, negative for Realloc).
	ErrBadSize = errors.New("alloc: invalid size")

	// ErrGrowFail indicates that extending the arena failed. The heap is
	// left exactly as it was before the attempt.
	ErrGrowFail = errors.New("alloc: grow failed")
)
