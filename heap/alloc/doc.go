// Package alloc implements a dynamic memory allocator over a heap arena
// using boundary tags, an explicit free list, and first-fit placement.
//
// # Overview
//
// The allocator manages one contiguous, growable heap region. All metadata
// lives in the heap bytes themselves: every block carries a mirrored
// header/footer tag (size | allocated bit), and free blocks additionally
// thread a circular doubly-linked free list through their first two payload
// words. Identical tags at both ends give O(1) backward traversal without a
// separate physical list.
//
// # Heap Shape
//
// Two permanent zero-payload sentinels bound the heap: the prologue at
// offset 0, created once, and the epilogue at the committed end, relocated
// on every extension. Both stay marked allocated forever so coalescing and
// physical walks never run past either end.
//
//	[prologue][block][block]...[block][epilogue]
//
// # Operations
//
//   - Alloc: first-fit search from the free-list anchor. On exhaustion the
//     heap extends by max(required, chunk size) and the request retries. A
//     candidate that exceeds the request by at least eight minimum block
//     sizes is split; smaller surpluses stay attached to the allocation.
//   - Free: marks the block free, reinserts it, and coalesces with free
//     physical neighbors so no two adjacent free blocks ever survive a call.
//   - Realloc: grows in place when the block already fits, then by merging a
//     free next neighbor, then a free previous neighbor (relocating live
//     bytes down), and finally by allocate-copy-free. Shrinking returns the
//     block unchanged.
//
// # Usage Example
//
//	a, err := heap.NewArena(0)
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	al, err := alloc.New(a, nil)
//	if err != nil {
//	    return err
//	}
//
//	ref, buf, err := al.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, release the block for reuse.
//	al.Free(ref)
//
// # References, Not Pointers
//
// Allocations are named by Ref, the payload's offset in the arena. Offsets
// survive arena growth; payload slices do not on slice-backed platforms, so
// long-lived holders should re-resolve through Payload after any operation
// that may grow the heap.
//
// # Error Model
//
// Resource exhaustion (the arena cannot grow) surfaces as ErrGrowFail from
// Alloc and Realloc, never retried, with the heap left in its last
// consistent state. Invalid sizes surface as ErrBadSize. Freeing anything
// that is not a currently allocated payload is a caller bug and panics;
// returning an error there would let a corrupting caller continue.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally: one mutex around the whole API, or one allocator per
// goroutine.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap: the arena and growth primitive
//   - github.com/joshuapare/heapkit/heap/verify: off-path invariant checker
//   - github.com/joshuapare/heapkit/internal/format: block layout constants
package alloc
