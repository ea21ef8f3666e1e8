package console

import (
	"image/color"
	"io"
	"tdos/kernel"
	"tdos/kernel/kfmt"
	"tdos/kernel/mmio"
)

// VgaTextConsole implements an EGA-compatible text console using VGA mode
// 0x3 with the default 16 EGA colors.
//
// Each character in the console framebuffer is represented by a Cell: a byte
// for the character code and a byte that encodes the foreground and
// background colors. All framebuffer accesses go through an mmio.Region so
// that they are never optimized away.
type VgaTextConsole struct {
	width  int
	height int

	fbPhysAddr uintptr
	fb         mmio.Region
}

// NewVgaTextConsole creates an new vga text console with its
// framebuffer mapped to fbPhysAddr.
func NewVgaTextConsole(columns, rows int, fbPhysAddr uintptr) *VgaTextConsole {
	return &VgaTextConsole{
		width:      columns,
		height:     rows,
		fbPhysAddr: fbPhysAddr,
	}
}

// DefaultPalette returns the 16 EGA colors indexed by Color.
func DefaultPalette() color.Palette {
	return color.Palette{
		color.RGBA{R: 0, G: 0, B: 1},       /* black */
		color.RGBA{R: 0, G: 0, B: 128},     /* blue */
		color.RGBA{R: 0, G: 128, B: 1},     /* green */
		color.RGBA{R: 0, G: 128, B: 128},   /* cyan */
		color.RGBA{R: 128, G: 0, B: 1},     /* red */
		color.RGBA{R: 128, G: 0, B: 128},   /* magenta */
		color.RGBA{R: 64, G: 64, B: 1},     /* brown */
		color.RGBA{R: 128, G: 128, B: 128}, /* light gray */
		color.RGBA{R: 64, G: 64, B: 64},    /* dark gray */
		color.RGBA{R: 0, G: 0, B: 255},     /* light blue */
		color.RGBA{R: 0, G: 255, B: 1},     /* light green */
		color.RGBA{R: 0, G: 255, B: 255},   /* light cyan */
		color.RGBA{R: 255, G: 0, B: 1},     /* light red */
		color.RGBA{R: 255, G: 0, B: 255},   /* pink */
		color.RGBA{R: 255, G: 255, B: 1},   /* yellow */
		color.RGBA{R: 255, G: 255, B: 255}, /* white */
	}
}

// Dimensions returns the console width and height in characters.
func (cons *VgaTextConsole) Dimensions() (int, int) {
	return cons.width, cons.height
}

// Read returns the cell at the specified location. Reading outside the
// console returns an empty cell.
func (cons *VgaTextConsole) Read(row, col int) Cell {
	if row < 0 || row >= cons.height || col < 0 || col >= cons.width {
		return 0
	}

	return Cell(cons.fb.Read16(row*cons.width + col))
}

// Write a cell to the specified location. Writes outside the console are
// ignored.
func (cons *VgaTextConsole) Write(row, col int, cell Cell) {
	if row < 0 || row >= cons.height || col < 0 || col >= cons.width {
		return
	}

	cons.fb.Write16(row*cons.width+col, uint16(cell))
}

// Fill sets the contents of the specified rectangular region to cell. The
// region is clipped to the console dimensions.
func (cons *VgaTextConsole) Fill(row, col, width, height int, cell Cell) {
	if row < 0 {
		height, row = height+row, 0
	}
	if col < 0 {
		width, col = width+col, 0
	}
	if row >= cons.height || col >= cons.width || width <= 0 || height <= 0 {
		return
	}

	if col+width > cons.width {
		width = cons.width - col
	}

	if row+height > cons.height {
		height = cons.height - row
	}

	rowOffset := (row * cons.width) + col
	for ; height > 0; height, rowOffset = height-1, rowOffset+cons.width {
		for colOffset := rowOffset; colOffset < rowOffset+width; colOffset++ {
			cons.fb.Write16(colOffset, uint16(cell))
		}
	}
}

// Scroll moves the console contents up by the specified number of rows.
// The top rows are discarded and the caller is responsible for updating the
// bottom rows that were scrolled.
func (cons *VgaTextConsole) Scroll(lines int) {
	if lines <= 0 || lines > cons.height {
		return
	}

	offset := lines * cons.width
	for i := 0; i < (cons.height-lines)*cons.width; i++ {
		cons.fb.Write16(i, cons.fb.Read16(i+offset))
	}
}

// DriverName returns the name of this driver.
func (cons *VgaTextConsole) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (cons *VgaTextConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit validates the framebuffer region so it can be written to.
func (cons *VgaTextConsole) DriverInit(w io.Writer) *kernel.Error {
	fb, err := mmio.NewRegion(cons.fbPhysAddr, uintptr(cons.width*cons.height*2))
	if err != nil {
		return err
	}

	cons.fb = fb
	kfmt.Fprintf(w, "framebuffer at 0x%x (%dx%d)\n", fb.Base(), cons.width, cons.height)

	return nil
}
