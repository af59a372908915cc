package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
)

// ============================================================================
// Test Helpers
// ============================================================================

// mustAllocator builds an allocator over a fresh arena with the given byte
// limit and wires cleanup.
func mustAllocator(t testing.TB, limit int64) *alloc.Allocator {
	t.Helper()

	a, err := heap.NewArena(limit)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	al, err := alloc.New(a, nil)
	require.NoError(t, err)
	return al
}

// fill writes a deterministic pattern derived from seed over the payload.
func fill(buf []byte, seed byte) {
	for i := range buf {
		buf[i] = seed + byte(i)
	}
}

// requirePattern checks the first n bytes of the payload against fill(seed).
func requirePattern(t testing.TB, buf []byte, n int, seed byte) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.Equal(t, seed+byte(i), buf[i], "payload byte %d diverged", i)
	}
}
