package ink

import "image/color"

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Components are straight
// (non-premultiplied); premultiplication happens when colors are
// written into pixmaps or handed to the engine.
type RGBA struct {
	R, G, B, A float64
}

// Common colors.
var (
	Black       = RGBA{0, 0, 0, 1}
	White       = RGBA{1, 1, 1, 1}
	Transparent = RGBA{0, 0, 0, 0}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// RGBA2 creates a color from RGBA components.
func RGBA2(r, g, b, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Transparent
	}
	// color.Color returns premultiplied components; divide out alpha.
	af := float64(a) / 65535
	return RGBA{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(b) / float64(a),
		A: af,
	}
}

// premul returns the premultiplied 8-bit components of the color.
func (c RGBA) premul() (r, g, b, a uint8) {
	a = uint8(clamp255(c.A * 255))
	r = uint8(clamp255(c.R * c.A * 255))
	g = uint8(clamp255(c.G * c.A * 255))
	b = uint8(clamp255(c.B * c.A * 255))
	return r, g, b, a
}

// clamp255 clamps a float64 to the [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
