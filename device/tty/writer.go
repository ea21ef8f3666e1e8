// Package tty implements the line-oriented console writer that sits on top of
// a text console device.
package tty

import (
	"tdos/device/video/console"
	"tdos/kernel/kfmt"
)

// Writer writes text to the bottom row of a console device. When the row is
// full or a line feed is written, the console contents are scrolled up by one
// row, the top row is discarded and the bottom row is cleared.
//
// Writer never fails: bytes that cannot be displayed are replaced with
// console.UnprintableChar.
type Writer struct {
	cons   console.Device
	width  int
	height int

	column int
	color  console.ColorCode
}

// NewWriter creates a Writer that outputs to cons using yellow text on a
// black background.
func NewWriter(cons console.Device) *Writer {
	w, h := cons.Dimensions()
	return &Writer{
		cons:   cons,
		width:  w,
		height: h,
		color:  console.MakeColorCode(console.Yellow, console.Black),
	}
}

// Column returns the column where the next byte will be written.
func (w *Writer) Column() int {
	return w.column
}

// Color returns the color used for newly written cells.
func (w *Writer) Color() console.ColorCode {
	return w.color
}

// SetColor changes the color used for newly written cells. Cells that have
// already been written keep their color.
func (w *Writer) SetColor(fg, bg console.Color) {
	w.color = console.MakeColorCode(fg, bg)
}

// WriteByte writes b at the current column of the bottom row and advances
// the column, scrolling first if the row is full. A line feed scrolls
// immediately. The byte is written as-is; use WriteString to filter
// unprintable bytes. WriteByte implements io.ByteWriter and always returns
// nil.
func (w *Writer) WriteByte(b byte) error {
	if b == '\n' {
		w.NewLine()
		return nil
	}

	if w.column >= w.width {
		w.NewLine()
	}

	w.cons.Write(w.height-1, w.column, console.MakeCell(b, w.color))
	w.column++
	return nil
}

// WriteString writes s replacing any byte outside the printable ASCII range
// (other than a line feed) with console.UnprintableChar.
func (w *Writer) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		w.WriteByte(printable(s[i]))
	}
}

// Write implements io.Writer. It behaves like WriteString and always
// reports that all of p was written.
func (w *Writer) Write(p []byte) (int, error) {
	for _, b := range p {
		w.WriteByte(printable(b))
	}

	return len(p), nil
}

// Printf writes formatted output using the kfmt verbs.
func (w *Writer) Printf(format string, args ...interface{}) {
	kfmt.Fprintf(w, format, args...)
}

// NewLine scrolls the console contents up by one row, clears the bottom row
// using the current color and moves the cursor to its first column.
func (w *Writer) NewLine() {
	w.cons.Scroll(1)
	w.ClearRow(w.height - 1)
	w.column = 0
}

// ClearRow overwrites the specified row with blank cells in the current
// color.
func (w *Writer) ClearRow(row int) {
	w.cons.Fill(row, 0, w.width, 1, console.MakeCell(console.BlankChar, w.color))
}

// Clear blanks the whole console and resets the cursor column.
func (w *Writer) Clear() {
	w.cons.Fill(0, 0, w.width, w.height, console.MakeCell(console.BlankChar, w.color))
	w.column = 0
}

// printable maps b to itself if it can be displayed or to the unprintable
// glyph otherwise.
func printable(b byte) byte {
	if b == '\n' || (b >= 0x20 && b <= 0x7e) {
		return b
	}
	return console.UnprintableChar
}
