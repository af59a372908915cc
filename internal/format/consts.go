package format

// Layout constants for the boundary-tag block format.
//
// A block is [header][payload][footer]. Header and footer are one word each
// and always carry identical contents (size in bytes | allocated bit). While
// a block is free, the first two payload words hold the embedded free-list
// links; they are opaque caller bytes while the block is allocated.

const (
	// WordSize is the fundamental alignment unit in bytes. Block sizes and
	// payload addresses are always multiples of it.
	WordSize = 8

	// TagSize is the size of one boundary tag (header or footer).
	TagSize = WordSize

	// TagsSize is the per-block metadata overhead: header plus footer.
	TagsSize = 2 * TagSize

	// LinkSize is the size of one embedded free-list link field.
	LinkSize = WordSize

	// MinBlockSize is the smallest legal block: both tags plus the two
	// free-list link fields that must fit in the payload while free.
	MinBlockSize = TagsSize + 2*LinkSize

	// LinkNextOffset is the offset of the embedded next-free link field,
	// relative to the block header. It overlays the first payload word.
	LinkNextOffset = TagSize

	// LinkPrevOffset is the offset of the embedded prev-free link field,
	// relative to the block header. It overlays the second payload word.
	LinkPrevOffset = TagSize + LinkSize

	// AlignMask is the bit mask for WordSize alignment checks.
	AlignMask = WordSize - 1

	// AllocatedBit is the tag bit marking a block as allocated. Sizes are
	// word-aligned, so the low bits of a tag are free for flags.
	AllocatedBit = 1
)
