package main

import (
	"fmt"
	"image/color"

	"golang.org/x/text/encoding/charmap"

	"tdos/device/video/console"
)

// screen is a decoded dump of the VGA text mode framebuffer.
type screen struct {
	width  int
	height int
	cells  []console.Cell

	palette []color.RGBA
}

// decodeScreen decodes a raw framebuffer dump. Each cell occupies two bytes:
// the CP437 character followed by its color attribute.
func decodeScreen(data []byte, width, height int) (*screen, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid screen dimensions %dx%d", width, height)
	}

	if exp := width * height * 2; len(data) != exp {
		return nil, fmt.Errorf("expected a %d byte dump for a %dx%d screen; got %d bytes", exp, width, height, len(data))
	}

	s := &screen{
		width:   width,
		height:  height,
		cells:   make([]console.Cell, width*height),
		palette: opaquePalette(),
	}

	for i := range s.cells {
		s.cells[i] = console.DecodeCell(data[2*i], data[2*i+1])
	}

	return s, nil
}

// opaquePalette returns the console palette with every color made opaque.
func opaquePalette() []color.RGBA {
	pal := console.DefaultPalette()
	out := make([]color.RGBA, len(pal))
	for i, c := range pal {
		r, g, b, _ := c.RGBA()
		out[i] = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
	}

	return out
}

func (s *screen) cell(row, col int) console.Cell {
	return s.cells[row*s.width+col]
}

// char returns the unicode rendering of the cell at (row, col). Control
// characters are rendered as blanks.
func (s *screen) char(row, col int) rune {
	r := charmap.CodePage437.DecodeByte(s.cell(row, col).Char())
	if r < 0x20 {
		return ' '
	}

	return r
}

// colors returns the foreground and background colors of the cell at
// (row, col).
func (s *screen) colors(row, col int) (fg, bg color.RGBA) {
	cc := s.cell(row, col).Color()
	return s.palette[cc.Foreground()], s.palette[cc.Background()]
}

// text returns the screen contents as lines of unicode text.
func (s *screen) text() []string {
	lines := make([]string, s.height)
	for row := 0; row < s.height; row++ {
		line := make([]rune, s.width)
		for col := range line {
			line[col] = s.char(row, col)
		}
		lines[row] = string(line)
	}

	return lines
}
