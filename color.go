package gfx

import "image/color"

// Color is a non-premultiplied 8-bit RGBA color, the layout of the
// default vertex color attribute.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color from components in [0, 1].
func RGB(r, g, b float64) Color {
	return RGBA(r, g, b, 1)
}

// RGBA returns a color from components in [0, 1].
func RGBA(r, g, b, a float64) Color {
	return Color{R: unit8(r), G: unit8(g), B: unit8(b), A: unit8(a)}
}

// FromColor converts a standard color.Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// NRGBA converts c to the standard library representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Floats returns the components scaled to [0, 1].
func (c Color) Floats() [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

// Lerp interpolates between c and other.
func (c Color) Lerp(other Color, t float64) Color {
	l := func(a, b uint8) uint8 {
		return unit8((float64(a) + (float64(b)-float64(a))*t) / 255)
	}
	return Color{R: l(c.R, other.R), G: l(c.G, other.G), B: l(c.B, other.B), A: l(c.A, other.A)}
}

// Hex parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA" with an optional
// leading '#'. Malformed input yields opaque black.
func Hex(hex string) Color {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3:
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
	case 8:
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
		parseHex(hex[6:8], &a)
	default:
		return Black
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}
}

func parseHex(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

func unit8(x float64) uint8 {
	x = x*255 + 0.5
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}

// Common colors.
var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Red         = Color{255, 0, 0, 255}
	Green       = Color{0, 255, 0, 255}
	Blue        = Color{0, 0, 255, 255}
	Yellow      = Color{255, 255, 0, 255}
	Transparent = Color{}
)
