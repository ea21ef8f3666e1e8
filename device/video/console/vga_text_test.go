package console

import (
	"bytes"
	"runtime"
	"tdos/device"
	"testing"
	"unsafe"
)

// newTestConsole returns an initialized console whose framebuffer is backed
// by a Go slice. The slice is kept alive until the test completes.
func newTestConsole(t *testing.T, columns, rows int) (*VgaTextConsole, []uint16) {
	fb := make([]uint16, columns*rows)
	t.Cleanup(func() { runtime.KeepAlive(fb) })
	cons := NewVgaTextConsole(columns, rows, uintptr(unsafe.Pointer(&fb[0])))
	if err := cons.DriverInit(nil); err != nil {
		t.Fatal(err)
	}

	return cons, fb
}

func TestVgaTextDimensions(t *testing.T) {
	var cons Device = NewVgaTextConsole(40, 50, 0)
	if w, h := cons.Dimensions(); w != 40 || h != 50 {
		t.Fatalf("expected console dimensions to be 40x50; got %dx%d", w, h)
	}
}

func TestVgaTextFill(t *testing.T) {
	specs := []struct {
		// Input rect
		row, col, w, h int

		// Expected area to be cleared (inclusive)
		expStartRow, expStartCol, expEndRow, expEndCol int
	}{
		{
			0, 0, 500, 500,
			0, 0, 24, 79,
		},
		{
			9, 9, 11, 50,
			9, 9, 24, 19,
		},
		{
			9, 9, 110, 1,
			9, 9, 9, 79,
		},
		{
			19, 69, 20, 20,
			19, 69, 24, 79,
		},
		{
			11, 11, 5, 6,
			11, 11, 16, 15,
		},
		{
			24, 79, 1, 1,
			24, 79, 24, 79,
		},
		{
			-2, -3, 5, 4,
			0, 0, 1, 1,
		},
		// Nothing to clear
		{
			25, 0, 10, 10,
			-1, -1, -1, -1,
		},
		{
			0, 80, 10, 10,
			-1, -1, -1, -1,
		},
		{
			5, 5, 0, 10,
			-1, -1, -1, -1,
		},
	}

	cons, fb := newTestConsole(t, 80, 25)
	cw, ch := cons.Dimensions()

	testPat := uint16(0xDEAD)
	clearPat := MakeCell(BlankChar, MakeColorCode(White, Blue))

nextSpec:
	for specIndex, spec := range specs {
		// Fill FB with test pattern
		for i := 0; i < len(fb); i++ {
			fb[i] = testPat
		}

		cons.Fill(spec.row, spec.col, spec.w, spec.h, clearPat)

		for y := 0; y < ch; y++ {
			for x := 0; x < cw; x++ {
				fbVal := fb[(y*cw)+x]

				if x < spec.expStartCol || y < spec.expStartRow || x > spec.expEndCol || y > spec.expEndRow {
					if fbVal != testPat {
						t.Errorf("[spec %d] expected cell at (%d, %d) not to be cleared", specIndex, y, x)
						continue nextSpec
					}
				} else {
					if fbVal != uint16(clearPat) {
						t.Errorf("[spec %d] expected cell at (%d, %d) to be cleared", specIndex, y, x)
						continue nextSpec
					}
				}
			}
		}
	}
}

func TestVgaTextScroll(t *testing.T) {
	cons, fb := newTestConsole(t, 80, 25)
	cw, ch := cons.Dimensions()

	fillPattern := func() {
		var index int
		for y := 0; y < ch; y++ {
			for x := 0; x < cw; x++ {
				fb[index] = uint16((y << 8) | x)
				index++
			}
		}
	}

	t.Run("up", func(t *testing.T) {
		specs := []int{
			0,
			1,
			2,
			25,
		}
	nextSpec:
		for specIndex, lines := range specs {
			fillPattern()

			cons.Scroll(lines)

			// Check that rows 0 to (height - lines) have been scrolled up
			var index int
			for y := 0; y < ch-lines; y++ {
				for x := 0; x < cw; x++ {
					expVal := uint16(((y + lines) << 8) | x)
					if fb[index] != expVal {
						t.Errorf("[spec %d] expected value at (%d, %d) to be %d; got %d", specIndex, y, x, expVal, fb[index])
						continue nextSpec
					}
					index++
				}
			}
		}
	})

	t.Run("too many lines", func(t *testing.T) {
		fillPattern()
		cons.Scroll(ch + 1)

		if fb[0] != 0 || fb[len(fb)-1] != uint16(((ch-1)<<8)|(cw-1)) {
			t.Error("expected Scroll() with more lines than the console height to be a no-op")
		}
	})
}

func TestVgaTextReadWrite(t *testing.T) {
	cons, fb := newTestConsole(t, 80, 25)

	t.Run("off-screen", func(t *testing.T) {
		specs := []struct {
			row, col int
		}{
			{25, 80},
			{24, 90},
			{30, 79},
			{-1, 0},
			{0, -1},
		}

	nextSpec:
		for specIndex, spec := range specs {
			for i := 0; i < len(fb); i++ {
				fb[i] = 0
			}

			cons.Write(spec.row, spec.col, MakeCell('!', MakeColorCode(Blue, Green)))

			for i := 0; i < len(fb); i++ {
				if got := fb[i]; got != 0 {
					t.Errorf("[spec %d] expected Write() with off-screen coords to be a no-op", specIndex)
					continue nextSpec
				}
			}

			if got := cons.Read(spec.row, spec.col); got != 0 {
				t.Errorf("[spec %d] expected Read() with off-screen coords to return an empty cell; got 0x%x", specIndex, got)
			}
		}
	})

	t.Run("success", func(t *testing.T) {
		for i := 0; i < len(fb); i++ {
			fb[i] = 0
		}

		cell := MakeCell('!', MakeColorCode(Blue, Green))
		cons.Write(1, 2, cell)

		expVal := uint16(0x21)<<8 | uint16('!')
		if got := fb[80+2]; got != expVal {
			t.Errorf("expected call to Write() to set fb[82] to 0x%x; got 0x%x", expVal, got)
		}

		if got := cons.Read(1, 2); got != cell {
			t.Errorf("expected Read() to return 0x%x; got 0x%x", cell, got)
		}
	})
}

func TestVgaTextDriverInterface(t *testing.T) {
	fb := make([]uint16, 80*25)
	t.Cleanup(func() { runtime.KeepAlive(fb) })
	var dev device.Driver = NewVgaTextConsole(80, 25, uintptr(unsafe.Pointer(&fb[0])))

	if dev.DriverName() == "" {
		t.Fatal("DriverName() returned an empty string")
	}

	if major, minor, patch := dev.DriverVersion(); major+minor+patch == 0 {
		t.Fatal("DriverVersion() returned an invalid version number")
	}

	t.Run("init success", func(t *testing.T) {
		var buf bytes.Buffer
		if err := dev.DriverInit(&buf); err != nil {
			t.Fatal(err)
		}

		if buf.Len() == 0 {
			t.Fatal("expected DriverInit to log the framebuffer address")
		}
	})

	t.Run("init fail", func(t *testing.T) {
		dev := NewVgaTextConsole(80, 25, 0)
		if err := dev.DriverInit(nil); err == nil {
			t.Fatal("expected DriverInit to fail for a zero framebuffer address")
		}
	})
}

func TestVgaTextProbe(t *testing.T) {
	drv := probeForVgaTextConsole()
	if drv == nil {
		t.Fatal("expected probeForVgaTextConsole to return a driver")
	}

	cons := drv.(*VgaTextConsole)
	if w, h := cons.Dimensions(); w != Width || h != Height {
		t.Fatalf("expected probed console to be %dx%d; got %dx%d", Width, Height, w, h)
	}

	if cons.fbPhysAddr != FramebufferPhysAddr {
		t.Fatalf("expected probed console framebuffer at 0x%x; got 0x%x", FramebufferPhysAddr, cons.fbPhysAddr)
	}
}
