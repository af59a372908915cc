package alloc

// Ref is a payload reference: the int64 offset of a block's payload within
// the arena. Offsets stay valid across arena growth, which is why the
// allocator never hands out raw pointers.
type Ref = int64

// NilRef is the null payload reference. Block payloads start one tag past
// the block header, and the lowest block (the prologue) sits at offset 0,
// so offset 0 can never name a real payload.
const NilRef Ref = 0

// NoBlock marks the absence of a block offset, used for the free-list
// anchor of an empty list.
const NoBlock int64 = -1

// Config tunes allocator policy. The zero value of any field selects its
// default.
type Config struct {
	// ChunkSize is the minimum number of bytes requested from the arena per
	// extension, amortizing growth cost across many small allocations.
	ChunkSize int64

	// SplitFactor controls the split-versus-keep-whole placement decision:
	// an oversized candidate is split only when the remainder would be at
	// least SplitFactor times the minimum block size. Small remainders stay
	// attached to the allocation to limit fragmentation churn.
	SplitFactor int64
}

// DefaultConfig is used when New receives a nil config.
var DefaultConfig = Config{
	ChunkSize:   1024,
	SplitFactor: 8,
}

// Stats holds internal allocator counters, exposed for tests and
// instrumentation.
type Stats struct {
	AllocCalls   int   // Total Alloc() calls
	FreeCalls    int   // Total Free() calls
	ReallocCalls int   // Total Realloc() calls
	GrowCalls    int   // Number of arena extensions
	GrowBytes    int64 // Total bytes added via extensions
	SplitCount   int   // Number of block splits
	CoalesceNext int   // Merges with the physical next neighbor
	CoalescePrev int   // Merges with the physical previous neighbor
	BytesAlloc   int64 // Total block bytes handed out (tags included)
	BytesFreed   int64 // Total block bytes returned (tags included)
}
