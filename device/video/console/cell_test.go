package console

import (
	"testing"
	"unsafe"
)

func TestCellLayout(t *testing.T) {
	if got := unsafe.Sizeof(Cell(0)); got != 2 {
		t.Fatalf("expected Cell to occupy 2 bytes; got %d", got)
	}

	cell := MakeCell('A', MakeColorCode(LightGreen, Blue))

	// A cell must look like [char, attr] when viewed as raw memory.
	raw := (*[2]byte)(unsafe.Pointer(&cell))
	if raw[0] != 'A' || raw[1] != 0x1a {
		t.Fatalf("expected in-memory layout [0x41 0x1a]; got [0x%x 0x%x]", raw[0], raw[1])
	}

	if got := cell.Bytes(); got != *raw {
		t.Fatalf("expected Bytes() to return %v; got %v", *raw, got)
	}
}

func TestCellAccessors(t *testing.T) {
	cc := MakeColorCode(Yellow, Black)
	cell := MakeCell(UnprintableChar, cc)

	if got := cell.Char(); got != UnprintableChar {
		t.Errorf("expected char 0x%x; got 0x%x", UnprintableChar, got)
	}
	if got := cell.Color(); got != cc {
		t.Errorf("expected color %v; got %v", cc, got)
	}
}

func TestDecodeCell(t *testing.T) {
	specs := []struct {
		ch, attr byte
		expFg    Color
		expBg    Color
	}{
		{'x', 0x0e, Yellow, Black},
		{'y', 0x4f, White, Red},
		// blink bit is dropped
		{'z', 0xf1, Blue, LightGray},
	}

	for specIndex, spec := range specs {
		cell := DecodeCell(spec.ch, spec.attr)
		if cell.Char() != spec.ch {
			t.Errorf("[spec %d] expected char %q; got %q", specIndex, spec.ch, cell.Char())
		}
		if fg, bg := cell.Color().Foreground(), cell.Color().Background(); fg != spec.expFg || bg != spec.expBg {
			t.Errorf("[spec %d] expected colors %s/%s; got %s/%s", specIndex, spec.expFg, spec.expBg, fg, bg)
		}
	}
}
