package gfx

import "math"

// Color is a non-premultiplied 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// Hex parses "#rrggbb" or "#rrggbbaa". Malformed input yields opaque white.
func Hex(hex string) Color {
	if (len(hex) != 7 && len(hex) != 9) || hex[0] != '#' {
		return RGB(255, 255, 255)
	}
	c := Color{
		R: parseHexByte(hex[1:3]),
		G: parseHexByte(hex[3:5]),
		B: parseHexByte(hex[5:7]),
		A: 255,
	}
	if len(hex) == 9 {
		c.A = parseHexByte(hex[7:9])
	}
	return c
}

// Fade multiplies the alpha channel by f, clamped to [0, 1].
func (c Color) Fade(f float64) Color {
	if math.IsNaN(f) || f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	c.A = uint8(math.Round(float64(c.A) * f))
	return c
}

// Hex formats the color as "#rrggbb", dropping alpha.
func (c Color) Hex() string {
	return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
}

// Opacity returns alpha in [0, 1].
func (c Color) Opacity() float64 { return float64(c.A) / 255 }

func parseHexByte(s string) uint8 {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return uint8(val)
}

func hexByte(v uint8) string {
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}

var (
	White       = RGB(255, 255, 255)
	Black       = RGB(0, 0, 0)
	Transparent = Color{}
)
