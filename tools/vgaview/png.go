package main

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Glyph metrics of basicfont.Face7x13.
const (
	glyphWidth  = 7
	glyphHeight = 13
	glyphAscent = 11
)

// renderImage draws the screen using a 7x13 bitmap font, enlarging each
// pixel scale times.
func renderImage(s *screen, scale int) image.Image {
	if scale < 1 {
		scale = 1
	}

	dc := gg.NewContext(s.width*glyphWidth*scale, s.height*glyphHeight*scale)
	dc.Scale(float64(scale), float64(scale))
	dc.SetFontFace(basicfont.Face7x13)

	for row := 0; row < s.height; row++ {
		for col := 0; col < s.width; col++ {
			fg, bg := s.colors(row, col)
			x, y := float64(col*glyphWidth), float64(row*glyphHeight)

			dc.SetColor(bg)
			dc.DrawRectangle(x, y, glyphWidth, glyphHeight)
			dc.Fill()

			if ch := s.char(row, col); ch != ' ' {
				dc.SetColor(fg)
				dc.DrawString(string(ch), x, y+glyphAscent)
			}
		}
	}

	return dc.Image()
}

// savePNG renders the screen and writes it to path.
func savePNG(s *screen, scale int, path string) error {
	return gg.SavePNG(path, renderImage(s, scale))
}
