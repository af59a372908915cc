package alloc

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugAlloc = false

// Runtime debug flag for allocation logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// Allocator serves allocate/release/resize requests over one arena using
// first-fit placement on an explicit free list with boundary-tag coalescing.
//
// The heap is bounded by two permanent zero-payload sentinels: the prologue
// at offset 0 and the epilogue at the committed end, relocated on every
// extension. Sentinels are always marked allocated so coalescing never runs
// off either end of the heap.
type Allocator struct {
	a *heap.Arena

	// anchor is the free-list entry point, NoBlock while the list is empty.
	anchor int64

	prologue int64
	epilogue int64

	// chunkSize is the minimum bytes requested per arena extension.
	chunkSize int64

	// splitFactor scales the split-versus-keep-whole threshold.
	splitFactor int64

	// Statistics for testing and instrumentation
	stats Stats

	// Test hook: called before each extension with the rounded size (nil in production)
	onGrow func(int64)
}

// New initializes an allocator over a fresh arena: it requests enough heap
// for the prologue immediately followed by the epilogue and resets the free
// list to empty. The arena must be empty; New fails if the initial growth
// request fails.
func New(a *heap.Arena, config *Config) (*Allocator, error) {
	cfg := DefaultConfig
	if config != nil {
		cfg = *config
		if cfg.ChunkSize <= 0 {
			cfg.ChunkSize = DefaultConfig.ChunkSize
		}
		if cfg.SplitFactor <= 0 {
			cfg.SplitFactor = DefaultConfig.SplitFactor
		}
	}

	if a.Size() != 0 {
		return nil, fmt.Errorf("alloc: arena already holds %d bytes", a.Size())
	}
	if err := a.Append(2 * format.TagsSize); err != nil {
		return nil, fmt.Errorf("alloc: init: %w", err)
	}

	al := &Allocator{
		a:           a,
		anchor:      NoBlock,
		chunkSize:   cfg.ChunkSize,
		splitFactor: cfg.SplitFactor,
	}

	data := a.Bytes()
	al.prologue = 0
	setSizeAllocated(data, al.prologue, format.TagsSize, true)
	al.epilogue = nextBlock(data, al.prologue)
	setSizeAllocated(data, al.epilogue, format.TagsSize, true)
	return al, nil
}

// Alloc allocates a block and returns its payload reference plus the payload
// bytes. The usable payload is size rounded up to word alignment and to the
// minimum payload share. The returned slice aliases the arena and is
// invalidated by later growth; re-resolve through Payload when in doubt.
func (al *Allocator) Alloc(size int64) (Ref, []byte, error) {
	al.stats.AllocCalls++

	if size <= 0 {
		return NilRef, nil, ErrBadSize
	}
	need := blockSizeFor(size)

	b := al.firstFit(need)
	if b == NoBlock {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] need grow: need=%d chunk=%d\n", need, al.chunkSize)
		}
		ext, err := al.extend(max(need, al.chunkSize))
		if err != nil {
			if debugAlloc {
				debugLogf("Alloc(%d): extend failed", size)
				al.dumpState(need)
			}
			return NilRef, nil, err
		}
		// The extension may abut a free block that was too small on its
		// own; merging restores the no-adjacent-free invariant and can only
		// make the candidate bigger.
		b = al.coalesce(ext)
	}

	data := al.a.Bytes()
	if blockSize(data, b)-need >= al.splitThreshold() {
		al.split(b, need)
	} else {
		al.removeFreeBlock(b)
		setAllocated(data, b, true)
	}

	al.stats.BytesAlloc += blockSize(data, b)
	return payloadOf(b), payloadBytes(data, b), nil
}

// Free releases an allocated payload, returning its block to the free list
// and coalescing with any free physical neighbor.
//
// Passing anything that is not a currently allocated payload reference is a
// caller bug and panics: continuing would corrupt the heap.
func (al *Allocator) Free(ref Ref) {
	al.stats.FreeCalls++

	b := al.mustAllocatedBlock(ref)
	data := al.a.Bytes()
	al.stats.BytesFreed += blockSize(data, b)

	setAllocated(data, b, false)
	al.insertFreeBlock(b)
	al.coalesce(b)
}

// Realloc resizes an allocation.
//
// A NilRef behaves as Alloc(size); size 0 with a live reference behaves as
// Free(ref) and returns NilRef. Otherwise the block is grown in place when
// possible - first into a free next neighbor, then into a free previous
// neighbor (relocating the live bytes down) - and only as a last resort by
// allocating a fresh block, copying, and freeing the original. Shrinking
// never moves or trims the block. In every moving branch exactly the
// pre-resize usable payload bytes are carried over.
func (al *Allocator) Realloc(ref Ref, size int64) (Ref, []byte, error) {
	al.stats.ReallocCalls++

	if size < 0 {
		return NilRef, nil, ErrBadSize
	}
	if ref == NilRef {
		if size == 0 {
			return NilRef, nil, ErrBadSize
		}
		return al.Alloc(size)
	}
	if size == 0 {
		al.Free(ref)
		return NilRef, nil, nil
	}

	b := al.mustAllocatedBlock(ref)
	need := blockSizeFor(size)

	data := al.a.Bytes()
	cur := blockSize(data, b)
	if cur >= need {
		// Already fits; no shrink-to-fit.
		return ref, payloadBytes(data, b), nil
	}

	// Live bytes to carry through any move: the pre-resize usable payload,
	// never the requested size.
	copySize := cur - format.TagsSize

	next := nextBlock(data, b)
	if !blockAllocated(data, next) {
		al.removeFreeBlock(next)
		al.stats.CoalesceNext++
		cur += blockSize(data, next)
		setSizeAllocated(data, b, cur, true)
		if cur >= need {
			return ref, payloadBytes(data, b), nil
		}
	}

	prev := prevBlock(data, b)
	if !blockAllocated(data, prev) {
		al.removeFreeBlock(prev)
		al.stats.CoalescePrev++
		cur += blockSize(data, prev)
		setSizeAllocated(data, prev, cur, true)
		// The surviving block has the lower address; shift the live bytes
		// down to its payload. The regions may overlap.
		copy(data[payloadOf(prev):], data[ref:ref+copySize])
		b = prev
		ref = payloadOf(b)
		if cur >= need {
			return ref, payloadBytes(data, b), nil
		}
	}

	newRef, newPayload, err := al.Alloc(size)
	if err != nil {
		return NilRef, nil, err
	}
	data = al.a.Bytes() // Alloc may have grown the arena
	copy(newPayload, data[ref:ref+copySize])
	al.Free(ref)
	return newRef, newPayload, nil
}

// Payload re-resolves an allocated reference to its current payload bytes.
func (al *Allocator) Payload(ref Ref) []byte {
	b := al.mustAllocatedBlock(ref)
	return payloadBytes(al.a.Bytes(), b)
}

// PayloadSize returns the usable payload size of an allocated reference.
func (al *Allocator) PayloadSize(ref Ref) int64 {
	b := al.mustAllocatedBlock(ref)
	return payloadSize(al.a.Bytes(), b)
}

// SetChunkSize adjusts the minimum bytes requested per arena extension.
// Values below the minimum block size are rounded up to it.
func (al *Allocator) SetChunkSize(n int64) {
	if n < format.MinBlockSize {
		n = format.MinBlockSize
	}
	al.chunkSize = format.AlignWord(n)
}

// ChunkSize returns the current extension chunk size.
func (al *Allocator) ChunkSize() int64 { return al.chunkSize }

// Stats returns a snapshot of the allocator counters.
func (al *Allocator) Stats() Stats { return al.stats }

// Arena returns the underlying arena.
func (al *Allocator) Arena() *heap.Arena { return al.a }

// FreeAnchor returns the free-list entry block, or NoBlock when empty.
func (al *Allocator) FreeAnchor() int64 { return al.anchor }

// Prologue returns the offset of the low sentinel block.
func (al *Allocator) Prologue() int64 { return al.prologue }

// Epilogue returns the offset of the high sentinel block.
func (al *Allocator) Epilogue() int64 { return al.epilogue }

// ============================================================================
// Internal helpers
// ============================================================================

// blockSizeFor converts a requested payload size to the required block size:
// payload rounded to alignment and the minimum payload share, plus tags.
func blockSizeFor(size int64) int64 {
	payload := format.AlignWord(size)
	if payload < format.MinBlockSize {
		payload = format.MinBlockSize
	}
	return payload + format.TagsSize
}

// splitThreshold is the minimum surplus over the request that justifies
// carving the remainder into its own free block.
func (al *Allocator) splitThreshold() int64 {
	return al.splitFactor * format.MinBlockSize
}

// firstFit walks the free list from the anchor and returns the first block
// of at least need bytes, or NoBlock if none fits.
func (al *Allocator) firstFit(need int64) int64 {
	if al.anchor == NoBlock {
		return NoBlock
	}
	data := al.a.Bytes()
	b := al.anchor
	for {
		if blockSize(data, b) >= need {
			return b
		}
		b = freeNext(data, b)
		if b == al.anchor {
			return NoBlock
		}
	}
}

// split carves an oversized free block into an allocated block of exactly
// size bytes and a free remainder, which rejoins the free list.
func (al *Allocator) split(b, size int64) {
	al.stats.SplitCount++

	data := al.a.Bytes()
	orig := blockSize(data, b)
	al.removeFreeBlock(b)
	setSizeAllocated(data, b, size, true)
	rem := nextBlock(data, b)
	setSizeAllocated(data, rem, orig-size, false)
	al.insertFreeBlock(rem)
}

// extend grows the heap by max(minSize, MinBlockSize) rounded to alignment.
// The old epilogue's tags are rewritten into a new free block of that size,
// the block joins the free list, and a fresh epilogue is written after it.
// extend does not coalesce the new block with whatever preceded the old
// epilogue; callers do that. On growth failure the heap is untouched.
func (al *Allocator) extend(minSize int64) (int64, error) {
	size := minSize
	if size < format.MinBlockSize {
		size = format.MinBlockSize
	}
	size = format.AlignWord(size)

	if al.onGrow != nil {
		al.onGrow(size)
	}
	if err := al.a.Append(size); err != nil {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[GROW] append %d failed: %v\n", size, err)
		}
		return NoBlock, ErrGrowFail
	}
	al.stats.GrowCalls++
	al.stats.GrowBytes += size

	data := al.a.Bytes()
	ext := al.epilogue
	setSizeAllocated(data, ext, size, false)
	al.insertFreeBlock(ext)
	al.epilogue = nextBlock(data, ext)
	setSizeAllocated(data, al.epilogue, format.TagsSize, true)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[GROW] #%d: +%d bytes, heap now %d\n",
			al.stats.GrowCalls, size, al.a.Size())
	}
	return ext, nil
}

// coalesce merges a free block with its free physical neighbors and returns
// the resulting block, which is reinserted into the free list exactly once.
// When both neighbors merge the lowest address survives.
func (al *Allocator) coalesce(b int64) int64 {
	data := al.a.Bytes()
	next := nextBlock(data, b)
	prev := prevBlock(data, b)

	al.removeFreeBlock(b)

	if !blockAllocated(data, next) {
		al.removeFreeBlock(next)
		setSize(data, b, blockSize(data, b)+blockSize(data, next))
		al.stats.CoalesceNext++
	}
	if !blockAllocated(data, prev) {
		al.removeFreeBlock(prev)
		setSize(data, prev, blockSize(data, prev)+blockSize(data, b))
		b = prev
		al.stats.CoalescePrev++
	}

	al.insertFreeBlock(b)
	return b
}

// mustAllocatedBlock maps a payload reference to its block, panicking unless
// the reference names a currently allocated, in-bounds payload. This is the
// contract-violation path: an error return here would let a corrupting
// caller continue.
func (al *Allocator) mustAllocatedBlock(ref Ref) int64 {
	b := blockOf(ref)
	if b <= al.prologue || b >= al.epilogue || !format.IsAligned(b) {
		panic(fmt.Sprintf("alloc: ref %#x is not a payload within the heap", ref))
	}
	data := al.a.Bytes()
	if !blockAllocated(data, b) {
		panic(fmt.Sprintf("alloc: ref %#x is not currently allocated", ref))
	}
	return b
}

// ============================================================================
// Debug helpers
// ============================================================================

// debugLogf prints debug messages if debugAlloc is enabled.
func debugLogf(format string, args ...any) {
	if debugAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] "+format+"\n", args...)
	}
}

// dumpState dumps the free list for debugging.
func (al *Allocator) dumpState(need int64) {
	if !debugAlloc {
		return
	}
	fmt.Fprintf(os.Stderr, "\n=== ALLOCATOR STATE DUMP (need=%d) ===\n", need)
	fmt.Fprintf(os.Stderr, "heap: [%d, %d), chunk=%d\n", al.prologue, al.a.Size(), al.chunkSize)
	if al.anchor == NoBlock {
		fmt.Fprintf(os.Stderr, "free list: empty\n")
		return
	}
	data := al.a.Bytes()
	b := al.anchor
	for {
		fmt.Fprintf(os.Stderr, "  free block off=%d size=%d\n", b, blockSize(data, b))
		b = freeNext(data, b)
		if b == al.anchor {
			break
		}
	}
}
