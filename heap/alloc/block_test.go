package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func Test_TagsAreMirrored(t *testing.T) {
	data := make([]byte, 256)

	setSizeAllocated(data, 64, 96, true)
	require.Equal(t, int64(96), blockSize(data, 64))
	require.True(t, blockAllocated(data, 64))
	require.Equal(t, format.ReadU64(data, 64), format.ReadU64(data, footerOf(data, 64)))

	// Flipping the allocated bit rewrites both tags.
	setAllocated(data, 64, false)
	require.False(t, blockAllocated(data, 64))
	require.Equal(t, int64(96), blockSize(data, 64))
	require.Equal(t, format.ReadU64(data, 64), format.ReadU64(data, footerOf(data, 64)))

	// Resizing preserves the allocated bit in both tags.
	setSize(data, 64, 64)
	require.False(t, blockAllocated(data, 64))
	require.Equal(t, int64(64), blockSize(data, 64))
	require.Equal(t, format.ReadU64(data, 64), format.ReadU64(data, footerOf(data, 64)))
}

func Test_NeighborNavigation(t *testing.T) {
	data := make([]byte, 256)

	// Three adjacent blocks: 48 allocated, 64 free, 48 allocated.
	setSizeAllocated(data, 0, 48, true)
	setSizeAllocated(data, 48, 64, false)
	setSizeAllocated(data, 112, 48, true)

	require.Equal(t, int64(48), nextBlock(data, 0))
	require.Equal(t, int64(112), nextBlock(data, 48))

	// Backward traversal reads the predecessor's footer and works no matter
	// the allocation state of either side.
	require.Equal(t, int64(48), prevBlock(data, 112))
	require.Equal(t, int64(0), prevBlock(data, 48))
}

func Test_PayloadConversions(t *testing.T) {
	data := make([]byte, 128)
	setSizeAllocated(data, 16, 48, true)

	ref := payloadOf(16)
	require.Equal(t, int64(16+format.TagSize), ref)
	require.Equal(t, int64(16), blockOf(ref))
	require.Equal(t, int64(48-format.TagsSize), payloadSize(data, 16))
	require.Len(t, payloadBytes(data, 16), 48-format.TagsSize)
}
