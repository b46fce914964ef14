package region

import "testing"

func TestSealUnsealRoundTrip(t *testing.T) {
	r := Range{Base: 0x1000, Size: 0x100}
	for _, p := range []uintptr{0x1000, 0x1001, 0x10ff} {
		off := r.Seal(p)
		if !r.ValidOffset(off) {
			t.Fatalf("Seal(%#x) = %#x, not reported ValidOffset", p, off)
		}
		got := r.Unseal(off)
		if got != p {
			t.Fatalf("Unseal(Seal(%#x)) = %#x", p, got)
		}
	}
}

func TestContains(t *testing.T) {
	r := Range{Base: 0x1000, Size: 0x10}
	cases := []struct {
		p    uintptr
		want bool
	}{
		{0x0fff, false},
		{0x1000, true},
		{0x100f, true},
		{0x1010, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.p); got != c.want {
			t.Errorf("Contains(%#x) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestValidOffsetRejectsBelowBias(t *testing.T) {
	r := Range{Base: 0x1000, Size: 0x10}
	for _, off := range []uintptr{0, 1, Bias - 1} {
		if r.ValidOffset(off) {
			t.Errorf("ValidOffset(%d) = true, want false (below Bias)", off)
		}
	}
}

func TestValidOffsetRejectsPastSize(t *testing.T) {
	r := Range{Base: 0x1000, Size: 0x10}
	if r.ValidOffset(Bias + r.Size) {
		t.Errorf("ValidOffset(Bias+Size) = true, want false")
	}
}
