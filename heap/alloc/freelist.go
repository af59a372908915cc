package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Explicit free list: a circular doubly-linked list threaded through the
// free blocks themselves. The two link fields overlay the first two payload
// words of each free block (format.LinkNextOffset / format.LinkPrevOffset),
// so the list costs no memory beyond the blocks it tracks. Links are
// meaningful only while a block is free; once allocated the same words are
// opaque caller data and are never read again.
//
// The list performs no coalescing. Callers remove blocks before merging and
// reinsert the merged result exactly once.

// freeNext returns the successor link of a free block.
func freeNext(data []byte, b int64) int64 {
	return int64(format.ReadU64(data, b+format.LinkNextOffset))
}

// freePrev returns the predecessor link of a free block.
func freePrev(data []byte, b int64) int64 {
	return int64(format.ReadU64(data, b+format.LinkPrevOffset))
}

func setFreeNext(data []byte, b, next int64) {
	format.PutU64(data, b+format.LinkNextOffset, uint64(next))
}

func setFreePrev(data []byte, b, prev int64) {
	format.PutU64(data, b+format.LinkPrevOffset, uint64(prev))
}

// insertFreeBlock links a free block into the list and makes it the anchor,
// so the most recently freed memory is the first first-fit candidate.
func (al *Allocator) insertFreeBlock(b int64) {
	data := al.a.Bytes()

	if al.anchor == NoBlock {
		setFreeNext(data, b, b)
		setFreePrev(data, b, b)
		al.anchor = b
		return
	}

	head := al.anchor
	tail := freePrev(data, head)
	setFreeNext(data, tail, b)
	setFreePrev(data, b, tail)
	setFreeNext(data, b, head)
	setFreePrev(data, head, b)
	al.anchor = b
}

// removeFreeBlock splices a block out of the list. If the block was the
// anchor, the anchor advances to its former successor, or becomes empty if
// the block was the last one.
func (al *Allocator) removeFreeBlock(b int64) {
	data := al.a.Bytes()

	next := freeNext(data, b)
	if next == b {
		// Last block in the list.
		al.anchor = NoBlock
		return
	}

	prev := freePrev(data, b)
	setFreeNext(data, prev, next)
	setFreePrev(data, next, prev)
	if al.anchor == b {
		al.anchor = next
	}
}
