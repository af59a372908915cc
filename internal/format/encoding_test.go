package format

import "testing"

func TestU64RoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	PutU64(buf, 8, 0xDEADBEEFCAFEF00D)
	if got := ReadU64(buf, 8); got != 0xDEADBEEFCAFEF00D {
		t.Fatalf("ReadU64 = %#x", got)
	}
	// Neighboring words untouched.
	if ReadU64(buf, 0) != 0 || ReadU64(buf, 16) != 0 {
		t.Fatalf("PutU64 wrote outside its word")
	}
}

func TestU64LittleEndian(t *testing.T) {
	buf := make([]byte, 8)
	PutU64(buf, 0, 0x0102030405060708)
	if buf[0] != 0x08 || buf[7] != 0x01 {
		t.Fatalf("expected little-endian layout, got % x", buf)
	}
}
