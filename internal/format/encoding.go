package format

import "encoding/binary"

// Binary encoding utilities for little-endian words.
//
// Boundary tags and embedded free-list links are stored as little-endian
// uint64 words directly in the arena bytes.
//
// Implementation: Uses encoding/binary.LittleEndian. The compiler inlines
// these calls into single loads/stores, so there is no reason to reach for
// unsafe here.

// PutU64 writes a uint64 value to the buffer at the specified offset in little-endian format.
func PutU64(b []byte, off int64, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in little-endian format.
func ReadU64(b []byte, off int64) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}
