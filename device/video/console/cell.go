package console

// Cell is a single character position in the text mode framebuffer. In
// memory it occupies exactly two bytes: the CP437 character code followed by
// its ColorCode. On a little-endian machine this is a uint16 with the color in
// the high byte.
type Cell uint16

// BlankChar is the character used for clearing cells.
const BlankChar = byte(' ')

// UnprintableChar is the CP437 glyph (a filled square) that replaces bytes
// which cannot be displayed as-is.
const UnprintableChar = byte(0xfe)

// MakeCell encodes ch and cc into a Cell.
func MakeCell(ch byte, cc ColorCode) Cell {
	return Cell(uint16(cc.attr)<<8 | uint16(ch))
}

// DecodeCell builds a Cell from its two bytes in framebuffer order. Bit 7 of
// the attribute byte is discarded.
func DecodeCell(ch, attr byte) Cell {
	return MakeCell(ch, ColorCode{attr: attr & 0x7f})
}

// Char returns the character code stored in the cell.
func (c Cell) Char() byte {
	return byte(c)
}

// Color returns the ColorCode stored in the cell.
func (c Cell) Color() ColorCode {
	return ColorCode{attr: byte(c >> 8)}
}

// Bytes returns the two cell bytes in framebuffer order.
func (c Cell) Bytes() [2]byte {
	return [2]byte{byte(c), byte(c >> 8)}
}
