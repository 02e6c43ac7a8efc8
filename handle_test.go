package idreg

import "testing"

func TestCodecRoundTrip(t *testing.T) {
	c := newCodec(DefaultTypeBits, DefaultIDBits)

	cases := []struct {
		typ Type
		idx uint64
	}{
		{1, 0},
		{1, 1},
		{255, c.maxIndex() - 1},
		{128, 12345},
	}

	for _, tc := range cases {
		h := c.encode(tc.typ, tc.idx)
		if got := c.typeOf(h); got != tc.typ {
			t.Errorf("typeOf(encode(%d, %d)) = %d, want %d", tc.typ, tc.idx, got, tc.typ)
		}
		if got := c.indexOf(h); got != tc.idx {
			t.Errorf("indexOf(encode(%d, %d)) = %d, want %d", tc.typ, tc.idx, got, tc.idx)
		}
	}
}

func TestCodecCustomSplit(t *testing.T) {
	c := newCodec(4, 59)
	h := c.encode(15, c.maxIndex()-1)
	if c.typeOf(h) != 15 {
		t.Errorf("typeOf = %d, want 15", c.typeOf(h))
	}
	if c.indexOf(h) != c.maxIndex()-1 {
		t.Errorf("indexOf = %d, want %d", c.indexOf(h), c.maxIndex()-1)
	}
}

func FuzzCodecRoundTrip(f *testing.F) {
	f.Add(uint32(1), uint64(0))
	f.Add(uint32(200), uint64(1<<40))
	c := newCodec(DefaultTypeBits, DefaultIDBits)

	f.Fuzz(func(t *testing.T, typ uint32, idx uint64) {
		tt := Type(typ) & Type(c.typeMask)
		ii := idx & c.idMask
		h := c.encode(tt, ii)
		if got := c.typeOf(h); got != tt {
			t.Fatalf("typeOf mismatch: got %d want %d (handle=%d)", got, tt, h)
		}
		if got := c.indexOf(h); got != ii {
			t.Fatalf("indexOf mismatch: got %d want %d (handle=%d)", got, ii, h)
		}
	})
}

func TestInvalidHandleSentinel(t *testing.T) {
	if InvalidHandle >= 0 {
		t.Fatalf("InvalidHandle must be negative, got %d", InvalidHandle)
	}
}
