package console

const (
	// Width is the number of text columns of the VGA text mode console.
	Width = 80

	// Height is the number of text rows of the VGA text mode console.
	Height = 25

	// FramebufferPhysAddr is the physical address of the VGA text mode
	// framebuffer. The bootloader identity-maps it.
	FramebufferPhysAddr = uintptr(0xb8000)
)

// The Device interface is implemented by objects that can function as system
// consoles. Coordinates are 0-based with (0, 0) being the top-left cell.
type Device interface {
	// Dimensions returns the width and height of the console in
	// characters.
	Dimensions() (width, height int)

	// Read returns the cell at the specified location.
	Read(row, col int) Cell

	// Write a cell to the specified location.
	Write(row, col int, cell Cell)

	// Fill sets every cell of the specified rectangular region to cell.
	Fill(row, col, width, height int, cell Cell)

	// Scroll moves the console contents up by the specified number of
	// rows. The caller is responsible for updating (e.g. clear or
	// replace) the rows that were scrolled.
	Scroll(lines int)
}
