package format

import "testing"

func TestPackTagRoundTrip(t *testing.T) {
	cases := []struct {
		size      int64
		allocated bool
	}{
		{MinBlockSize, false},
		{MinBlockSize, true},
		{TagsSize, true},
		{1024, false},
		{1 << 30, true},
	}

	for _, c := range cases {
		tag := PackTag(c.size, c.allocated)
		if got := TagSizeOf(tag); got != c.size {
			t.Fatalf("TagSizeOf(PackTag(%d, %v)) = %d", c.size, c.allocated, got)
		}
		if got := TagAllocated(tag); got != c.allocated {
			t.Fatalf("TagAllocated(PackTag(%d, %v)) = %v", c.size, c.allocated, got)
		}
	}
}

func TestTagBitDoesNotLeakIntoSize(t *testing.T) {
	tag := PackTag(64, true)
	if TagSizeOf(tag) != 64 {
		t.Fatalf("allocated bit leaked into size: %d", TagSizeOf(tag))
	}
	if tag == PackTag(64, false) {
		t.Fatalf("allocated bit not encoded")
	}
}

func TestAlignWord(t *testing.T) {
	cases := map[int64]int64{
		0:  0,
		1:  8,
		7:  8,
		8:  8,
		9:  16,
		16: 16,
		17: 24,
	}
	for in, want := range cases {
		if got := AlignWord(in); got != want {
			t.Fatalf("AlignWord(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestIsAligned(t *testing.T) {
	if !IsAligned(0) || !IsAligned(8) || !IsAligned(1024) {
		t.Fatalf("aligned values reported unaligned")
	}
	if IsAligned(1) || IsAligned(7) || IsAligned(12) {
		t.Fatalf("unaligned values reported aligned")
	}
}

func TestMinBlockHoldsTagsAndLinks(t *testing.T) {
	if MinBlockSize < TagsSize+2*LinkSize {
		t.Fatalf("MinBlockSize %d cannot hold tags plus two links", MinBlockSize)
	}
	if MinBlockSize%WordSize != 0 {
		t.Fatalf("MinBlockSize %d not word aligned", MinBlockSize)
	}
}
