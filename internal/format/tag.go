package format

// Boundary-tag packing. A tag is one little-endian word holding the block
// size (always word-aligned, so the low three bits are zero) with the
// allocated flag in bit 0.

// PackTag encodes a block size and allocated flag into a tag word.
// The size must already be word-aligned; packing performs no rounding.
func PackTag(size int64, allocated bool) uint64 {
	t := uint64(size)
	if allocated {
		t |= AllocatedBit
	}
	return t
}

// TagSizeOf extracts the block size from a tag word.
func TagSizeOf(t uint64) int64 {
	return int64(t &^ AllocatedBit)
}

// TagAllocated extracts the allocated flag from a tag word.
func TagAllocated(t uint64) bool {
	return t&AllocatedBit != 0
}
