package format

// Alignment utilities for the block format. Every block size handed to the
// layout layer must already be word-aligned; these helpers do the rounding.

// AlignWord returns n aligned up to the next word (8-byte) boundary.
//
// Example:
//
//	AlignWord(1)  = 8
//	AlignWord(8)  = 8
//	AlignWord(9)  = 16
func AlignWord(n int64) int64 {
	return (n + AlignMask) & ^int64(AlignMask)
}

// IsAligned reports whether n is word-aligned.
func IsAligned(n int64) bool {
	return n&AlignMask == 0
}
