// Package palette defines the packed color type and the fixed key palettes
// used to recolor nodes and edges.
package palette

import "fmt"

// Color is an RGBA color packed as 0xAARRGGBB, the layout Qt's
// QColor.rgba() produces. Layout documents store it as a plain integer.
type Color uint32

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xff)
}

// RGBA packs the four channels.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }
func (c Color) A() uint8 { return uint8(c >> 24) }

// Hex formats the color as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	if c.A() == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R(), c.G(), c.B())
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R(), c.G(), c.B(), c.A())
}

func (c Color) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return c.Hex()
}

// Named colors.
var (
	White     = RGB(255, 255, 255)
	Black     = RGB(0, 0, 0)
	LightGray = RGB(192, 192, 192)
	DarkBlue  = RGB(50, 50, 150)
	DarkGreen = RGB(0, 100, 0)
	Orange    = RGB(255, 165, 0)
)

// Defaults for freshly created items.
var (
	DefaultNode = LightGray
	DefaultEdge = White
)

var names = map[Color]string{
	White:     "white",
	Black:     "black",
	LightGray: "lightgray",
	DarkBlue:  "darkblue",
	DarkGreen: "darkgreen",
	Orange:    "orange",
}

// Edge maps keys 1-3 to edge colors.
var Edge = map[rune]Color{
	'1': White,
	'2': DarkBlue,
	'3': DarkGreen,
}

// Node maps keys 0-9 to node colors.
var Node = map[rune]Color{
	'1': RGB(228, 208, 0),
	'2': RGB(228, 210, 160),
	'3': Orange,
	'4': RGB(0, 128, 0),
	'5': RGB(132, 100, 204),
	'6': RGB(128, 128, 0),
	'7': RGB(0, 139, 139),
	'8': White,
	'9': RGB(103, 216, 230),
	'0': LightGray,
}

// EdgeColor returns the edge palette entry for key.
func EdgeColor(key rune) (Color, bool) {
	c, ok := Edge[key]
	return c, ok
}

// NodeColor returns the node palette entry for key.
func NodeColor(key rune) (Color, bool) {
	c, ok := Node[key]
	return c, ok
}

// IsDigit reports whether key is one of '0'..'9'.
func IsDigit(key rune) bool {
	return key >= '0' && key <= '9'
}
