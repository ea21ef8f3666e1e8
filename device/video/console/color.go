package console

// Color is one of the 16 fixed colors supported by the VGA text mode. The low
// three bits select the base hue and bit 3 selects its bright variant.
type Color uint8

// The list of supported colors.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	Pink
	Yellow
	White
)

var colorNames = [...]string{
	"black", "blue", "green", "cyan", "red", "magenta", "brown", "light gray",
	"dark gray", "light blue", "light green", "light cyan", "light red", "pink",
	"yellow", "white",
}

// String implements fmt.Stringer.
func (c Color) String() string {
	if int(c) >= len(colorNames) {
		return "invalid"
	}
	return colorNames[c]
}

// ColorCode packs a foreground/background color pair into the attribute byte
// used by text mode cells: bits 0-3 hold the foreground color and bits 4-6 the
// background color. Bit 7 (blink on some adapters) is always kept clear so
// only the 8 base hues can be used as background.
type ColorCode struct {
	attr uint8
}

// MakeColorCode returns the ColorCode for the fg/bg pair.
func MakeColorCode(fg, bg Color) ColorCode {
	return ColorCode{attr: (uint8(bg)&0x7)<<4 | uint8(fg)&0xf}
}

// Foreground returns the foreground color.
func (cc ColorCode) Foreground() Color {
	return Color(cc.attr & 0xf)
}

// Background returns the background color.
func (cc ColorCode) Background() Color {
	return Color((cc.attr >> 4) & 0x7)
}
