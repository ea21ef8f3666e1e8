package console

import "testing"

func TestColorCode(t *testing.T) {
	specs := []struct {
		fg, bg       Color
		expFg, expBg Color
		expAttr      uint8
	}{
		{Yellow, Black, Yellow, Black, 0x0e},
		{LightGray, Blue, LightGray, Blue, 0x17},
		{White, LightGray, White, LightGray, 0x7f},
		// Bright backgrounds would set the blink bit; they are folded
		// into their base hue.
		{Black, White, Black, LightGray, 0x70},
		{Red, DarkGray, Red, Black, 0x04},
	}

	for specIndex, spec := range specs {
		cc := MakeColorCode(spec.fg, spec.bg)
		if cc.attr != spec.expAttr {
			t.Errorf("[spec %d] expected attribute byte 0x%x; got 0x%x", specIndex, spec.expAttr, cc.attr)
		}
		if got := cc.Foreground(); got != spec.expFg {
			t.Errorf("[spec %d] expected foreground %s; got %s", specIndex, spec.expFg, got)
		}
		if got := cc.Background(); got != spec.expBg {
			t.Errorf("[spec %d] expected background %s; got %s", specIndex, spec.expBg, got)
		}
		if cc.attr&0x80 != 0 {
			t.Errorf("[spec %d] expected bit 7 to be clear", specIndex)
		}
	}
}

func TestColorString(t *testing.T) {
	if got := Pink.String(); got != "pink" {
		t.Errorf("expected Pink.String() to return %q; got %q", "pink", got)
	}
	if got := Color(16).String(); got != "invalid" {
		t.Errorf("expected out of range color to stringify as %q; got %q", "invalid", got)
	}
}
