package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

// Placement policy: a candidate is split only when the surplus over the
// request is at least 8 minimum block sizes (256 bytes with the default
// config); smaller surpluses stay attached to the allocation.

// freeBlockOf arranges exactly one free block of the given total size at the
// bottom of the heap: one allocation fills the initial chunk-sized
// extension, then is freed back whole.
func freeBlockOf(t *testing.T, total int64) *allocTestHeap {
	t.Helper()
	al := mustAllocator(t, 1<<20)
	al.SetChunkSize(total)

	ref, _, err := al.Alloc(total - format.TagsSize)
	require.NoError(t, err)
	al.Free(ref)

	require.Equal(t, ref-format.TagSize, al.FreeAnchor())
	return &allocTestHeap{al: al, freeRef: ref}
}

type allocTestHeap struct {
	al      *alloc.Allocator
	freeRef alloc.Ref
}

func Test_SplitWhenSurplusMeetsThreshold(t *testing.T) {
	h := freeBlockOf(t, 1024)
	al := h.al

	// Surplus is exactly 8 minimum block sizes: split.
	reqPayload := int64(1024 - format.TagsSize - 8*format.MinBlockSize)
	ref, _, err := al.Alloc(reqPayload)
	require.NoError(t, err)

	require.Equal(t, h.freeRef, ref, "allocation carves the head of the candidate")
	require.Equal(t, reqPayload, al.PayloadSize(ref), "split block is trimmed to the request")
	require.Equal(t, 1, al.Stats().SplitCount)

	// The carved remainder is back on the free list.
	require.NotEqual(t, alloc.NoBlock, al.FreeAnchor())
	require.NoError(t, verify.AllInvariants(al))
}

func Test_KeepWholeWhenSurplusBelowThreshold(t *testing.T) {
	h := freeBlockOf(t, 1024)
	al := h.al

	// One word short of the threshold: take the whole candidate.
	reqPayload := int64(1024 - format.TagsSize - 8*format.MinBlockSize + format.WordSize)
	ref, _, err := al.Alloc(reqPayload)
	require.NoError(t, err)

	require.Equal(t, h.freeRef, ref)
	require.Equal(t, int64(1024-format.TagsSize), al.PayloadSize(ref),
		"small surplus stays attached to the allocation")
	require.Zero(t, al.Stats().SplitCount)
	require.NoError(t, verify.AllInvariants(al))
}

func Test_ExactFitTakesWholeBlock(t *testing.T) {
	h := freeBlockOf(t, 1024)
	al := h.al

	ref, _, err := al.Alloc(1024 - format.TagsSize)
	require.NoError(t, err)
	require.Equal(t, h.freeRef, ref)
	require.Zero(t, al.Stats().SplitCount)
	require.NoError(t, verify.AllInvariants(al))
}
