package fixture

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit RGB value, 0xRRGGBB.
type Color uint32

const White Color = 0xffffff

// ColorFromRGB packs three channels.
func ColorFromRGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ParseColor accepts "#rrggbb" or "#rgb".
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return ColorFromRGB(r, g, b), nil
}

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

// Colorful converts to a go-colorful color for blending and naming.
func (c Color) Colorful() colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Inverted is the outline color drawn around a selected body.
func (c Color) Inverted() Color {
	return c ^ White
}

func (c Color) Valid() bool {
	return c <= White
}
