// Package verify provides the heap consistency checker: a read-only pass
// that audits every allocator invariant. It runs off the hot path, for tests
// and diagnostics only; in a correct implementation no check here is ever
// reachable from normal Alloc/Free/Realloc usage.
package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes a broken heap invariant with the offending
// block's position and size.
type ValidationError struct {
	Type    string
	Message string
	Offset  int64
	Size    int64
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %#x (size %d): %s", e.Type, e.Offset, e.Size, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates every heap invariant in one pass and returns the
// first violation found, or nil. The heap is never mutated.
//
// Check order: free-list anchor and closure, coalescing, sentinels and heap
// bounds, physical walk with tag mirroring, and finally that the free list
// covers exactly the set of free blocks.
func AllInvariants(al *alloc.Allocator) error {
	reachable, err := FreeList(al)
	if err != nil {
		return err
	}
	if err := Coalescing(al, reachable); err != nil {
		return err
	}
	if err := Sentinels(al); err != nil {
		return err
	}
	free, err := PhysicalBlocks(al)
	if err != nil {
		return err
	}
	return freeSetsMatch(reachable, free)
}

// MustVerify aborts the checking process on the first violation, reporting
// the offending block's address, size, and description. Fail-fast: a broken
// invariant means the allocator itself is buggy and continuing would only
// corrupt the heap further.
func MustVerify(al *alloc.Allocator) {
	if err := AllInvariants(al); err != nil {
		panic("verify: " + err.Error())
	}
}

// FreeList validates the free list: the anchor (if any) is free, every
// reachable block is free with free list-adjacent neighbors, links are
// bidirectionally consistent, and the list closes back on the anchor.
// Returns the set of reachable block offsets.
func FreeList(al *alloc.Allocator) (map[int64]bool, error) {
	reachable := make(map[int64]bool)
	anchor := al.FreeAnchor()
	if anchor == alloc.NoBlock {
		return reachable, nil
	}

	data := al.Arena().Bytes()

	// Worst case every byte past the sentinels is one minimum block.
	maxBlocks := int(al.Arena().Size()/format.MinBlockSize) + 2

	b := anchor
	for n := 0; n < maxBlocks; n++ {
		if b < 0 || b+format.MinBlockSize > al.Arena().Size() {
			return nil, &ValidationError{
				Type:    "FreeList",
				Message: "free-list link points outside the heap",
				Offset:  b,
				Size:    -1,
			}
		}
		if allocated(data, b) {
			return nil, &ValidationError{
				Type:    "FreeList",
				Message: "found an allocated block in the free list",
				Offset:  b,
				Size:    blockSize(data, b),
			}
		}
		if reachable[b] {
			return nil, &ValidationError{
				Type:    "FreeList",
				Message: "free list revisits a block before closing on the anchor",
				Offset:  b,
				Size:    blockSize(data, b),
			}
		}
		reachable[b] = true

		next := freeNext(data, b)
		pl := freePrev(data, b)
		for _, link := range []int64{next, pl} {
			if link < 0 || link+format.TagsSize > al.Arena().Size() {
				return nil, &ValidationError{
					Type:    "FreeList",
					Message: "free-list link points outside the heap",
					Offset:  b,
					Size:    blockSize(data, b),
				}
			}
		}
		if allocated(data, next) {
			return nil, &ValidationError{
				Type:    "FreeList",
				Message: "next free block is not free",
				Offset:  b,
				Size:    blockSize(data, b),
			}
		}
		if allocated(data, pl) {
			return nil, &ValidationError{
				Type:    "FreeList",
				Message: "previous free block is not free",
				Offset:  b,
				Size:    blockSize(data, b),
			}
		}
		if freePrev(data, next) != b {
			return nil, &ValidationError{
				Type:    "FreeList",
				Message: "successor's previous link does not point back",
				Offset:  b,
				Size:    blockSize(data, b),
			}
		}

		b = next
		if b == anchor {
			return reachable, nil
		}
	}

	return nil, &ValidationError{
		Type:    "FreeList",
		Message: "free list does not close back on the anchor",
		Offset:  anchor,
		Size:    blockSize(data, anchor),
	}
}

// Coalescing checks that no free-list block has an un-coalesced free
// physical neighbor.
func Coalescing(al *alloc.Allocator, reachable map[int64]bool) error {
	data := al.Arena().Bytes()
	for b := range reachable {
		if !allocated(data, next(data, b)) {
			return &ValidationError{
				Type:    "Coalescing",
				Message: "has not coalesced with next block",
				Offset:  b,
				Size:    blockSize(data, b),
			}
		}
		if !allocated(data, prev(data, b)) {
			return &ValidationError{
				Type:    "Coalescing",
				Message: "has not coalesced with previous block",
				Offset:  b,
				Size:    blockSize(data, b),
			}
		}
	}
	return nil
}

// Sentinels checks that the prologue is the lowest-addressed block, the
// epilogue abuts the committed heap end, and both are allocated zero-payload
// blocks.
func Sentinels(al *alloc.Allocator) error {
	data := al.Arena().Bytes()
	heapHi := al.Arena().Size()

	p := al.Prologue()
	if p != 0 {
		return &ValidationError{
			Type:    "Sentinels",
			Message: "prologue is not the first block in the heap",
			Offset:  p,
			Size:    blockSize(data, p),
		}
	}
	if !allocated(data, p) || blockSize(data, p) != format.TagsSize {
		return &ValidationError{
			Type:    "Sentinels",
			Message: "prologue is not an allocated zero-payload block",
			Offset:  p,
			Size:    blockSize(data, p),
		}
	}

	e := al.Epilogue()
	if e < 0 || e+format.TagsSize > heapHi {
		return &ValidationError{
			Type:    "Sentinels",
			Message: "epilogue out of heap bounds",
			Offset:  e,
			Size:    -1,
		}
	}
	if e+format.TagsSize != heapHi {
		return &ValidationError{
			Type:    "Sentinels",
			Message: "epilogue is not the last block in the heap",
			Offset:  e,
			Size:    blockSize(data, e),
		}
	}
	if !allocated(data, e) || blockSize(data, e) != format.TagsSize {
		return &ValidationError{
			Type:    "Sentinels",
			Message: "epilogue is not an allocated zero-payload block",
			Offset:  e,
			Size:    blockSize(data, e),
		}
	}
	return nil
}

// PhysicalBlocks walks every block from the prologue to the epilogue,
// checking bounds, alignment, and header/footer mirroring, and returns the
// set of free block offsets encountered.
func PhysicalBlocks(al *alloc.Allocator) (map[int64]bool, error) {
	data := al.Arena().Bytes()
	heapHi := al.Arena().Size()
	epilogue := al.Epilogue()

	free := make(map[int64]bool)
	b := al.Prologue()
	for b != epilogue {
		if b < 0 || b+format.TagsSize > heapHi {
			return nil, &ValidationError{
				Type:    "PhysicalBlocks",
				Message: "block out of heap bounds",
				Offset:  b,
				Size:    -1,
			}
		}
		size := blockSize(data, b)
		if size < format.TagsSize || !format.IsAligned(size) || b+size > heapHi {
			return nil, &ValidationError{
				Type:    "PhysicalBlocks",
				Message: "block has an impossible size",
				Offset:  b,
				Size:    size,
			}
		}
		header := format.ReadU64(data, b)
		footer := format.ReadU64(data, b+size-format.TagSize)
		if header != footer {
			return nil, &ValidationError{
				Type:    "PhysicalBlocks",
				Message: "header and footer of block do not match",
				Offset:  b,
				Size:    size,
			}
		}
		if !allocated(data, b) {
			free[b] = true
		}
		b = next(data, b)
	}
	return free, nil
}

// freeSetsMatch checks that the free list covers exactly the free blocks:
// every free-list block is free, and every free block between the sentinels
// is on the free list.
func freeSetsMatch(reachable, free map[int64]bool) error {
	for b := range reachable {
		if !free[b] {
			return &ValidationError{
				Type:    "FreeSet",
				Message: "free-list block is not a free heap block",
				Offset:  b,
				Size:    -1,
			}
		}
	}
	for b := range free {
		if !reachable[b] {
			return &ValidationError{
				Type:    "FreeSet",
				Message: "free block is missing from the free list",
				Offset:  b,
				Size:    -1,
			}
		}
	}
	return nil
}

// Raw block readers. The checker deliberately re-reads tags and links from
// the heap bytes instead of trusting allocator bookkeeping.

func blockSize(data []byte, b int64) int64 {
	return format.TagSizeOf(format.ReadU64(data, b))
}

func allocated(data []byte, b int64) bool {
	return format.TagAllocated(format.ReadU64(data, b))
}

func next(data []byte, b int64) int64 {
	return b + blockSize(data, b)
}

func prev(data []byte, b int64) int64 {
	return b - format.TagSizeOf(format.ReadU64(data, b-format.TagSize))
}

func freeNext(data []byte, b int64) int64 {
	return int64(format.ReadU64(data, b+format.LinkNextOffset))
}

func freePrev(data []byte, b int64) int64 {
	return int64(format.ReadU64(data, b+format.LinkPrevOffset))
}
