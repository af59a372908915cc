package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Block layout helpers. A block is addressed by the offset of its header
// word within the arena. Every helper here is purely mechanical: sizes
// handed to the setters must already be word-aligned and >= MinBlockSize
// (TagsSize for the sentinels); no rounding or validation happens at this
// layer.
//
// Setters always write header and footer together so the two tags can never
// diverge between calls.

// blockSize returns the total block size in bytes, tags included.
func blockSize(data []byte, b int64) int64 {
	return format.TagSizeOf(format.ReadU64(data, b))
}

// blockAllocated reports whether the block is marked allocated.
func blockAllocated(data []byte, b int64) bool {
	return format.TagAllocated(format.ReadU64(data, b))
}

// footerOf returns the offset of the block's footer tag.
func footerOf(data []byte, b int64) int64 {
	return b + blockSize(data, b) - format.TagSize
}

// setSizeAllocated writes size and allocated flag into header and footer.
func setSizeAllocated(data []byte, b, size int64, allocated bool) {
	tag := format.PackTag(size, allocated)
	format.PutU64(data, b, tag)
	format.PutU64(data, b+size-format.TagSize, tag)
}

// setSize rewrites both tags with a new size, preserving the allocated flag.
func setSize(data []byte, b, size int64) {
	setSizeAllocated(data, b, size, blockAllocated(data, b))
}

// setAllocated rewrites both tags with a new allocated flag, preserving size.
func setAllocated(data []byte, b int64, allocated bool) {
	setSizeAllocated(data, b, blockSize(data, b), allocated)
}

// nextBlock returns the physically following block.
func nextBlock(data []byte, b int64) int64 {
	return b + blockSize(data, b)
}

// prevBlock returns the physically preceding block, located through the
// predecessor's footer. Valid for any block after the prologue regardless of
// either block's allocation state.
func prevBlock(data []byte, b int64) int64 {
	return b - format.TagSizeOf(format.ReadU64(data, b-format.TagSize))
}

// payloadOf converts a block offset to its payload offset.
func payloadOf(b int64) int64 {
	return b + format.TagSize
}

// blockOf converts a payload offset back to its block offset.
func blockOf(ref Ref) int64 {
	return ref - format.TagSize
}

// payloadSize returns the usable payload bytes of the block.
func payloadSize(data []byte, b int64) int64 {
	return blockSize(data, b) - format.TagsSize
}

// payloadBytes returns the block's payload as a slice of the arena bytes.
// The slice is invalidated by arena growth on slice-backed platforms.
func payloadBytes(data []byte, b int64) []byte {
	return data[payloadOf(b) : b+blockSize(data, b)-format.TagSize]
}
