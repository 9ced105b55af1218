package protocol

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB triple. On the wire it is always written GRB.
type Color struct {
	R, G, B uint8
}

// GRB returns the wire representation of c.
func (c Color) GRB() [3]byte {
	return [3]byte{c.G, c.R, c.B}
}

// Scale returns c with every channel divided by div, truncating toward zero.
func (c Color) Scale(div float64) Color {
	return Color{
		R: uint8(float64(c.R) / div),
		G: uint8(float64(c.G) / div),
		B: uint8(float64(c.B) / div),
	}
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

// ParseColor parses a hex color ("#ff8800", "ff8800" or "#f80").
func ParseColor(s string) (Color, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// ParseColors parses a list of hex colors, stopping at the first invalid entry.
func ParseColors(values []string) ([]Color, error) {
	colors := make([]Color, 0, len(values))
	for i, v := range values {
		c, err := ParseColor(v)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i+1, err)
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// appendColors appends colors in GRB order followed by zero padding for the
// unused slots up to maxColors, never growing buf past FrameSize.
func appendColors(buf []byte, colors []Color, maxColors int) []byte {
	for _, c := range colors {
		grb := c.GRB()
		buf = append(buf, grb[:]...)
	}

	padding := 3 * (maxColors - len(colors))
	if room := FrameSize - len(buf); padding > room {
		padding = room
	}
	for i := 0; i < padding; i++ {
		buf = append(buf, 0x00)
	}
	return buf
}
