package ink

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Pattern is a source of color for fills and strokes. Patterns wrap the
// engine's pattern model; construct them with [Solid],
// [NewLinearGradient], [NewRadialGradient], or [NewSurfacePattern].
type Pattern interface {
	enginePattern() gg.Pattern
}

// solidPattern is a single-color pattern.
type solidPattern struct {
	c RGBA
}

// Solid returns a pattern painting a single color everywhere.
func Solid(c RGBA) Pattern {
	return solidPattern{c: c}
}

func (s solidPattern) enginePattern() gg.Pattern {
	return gg.NewSolidPattern(s.c.Color())
}

// Gradient is a linear or radial color gradient.
type Gradient struct {
	g gg.Gradient
}

// NewLinearGradient creates a gradient along the line from (x0, y0)
// to (x1, y1). Add stops with [Gradient.AddColorStop].
func NewLinearGradient(x0, y0, x1, y1 float64) *Gradient {
	return &Gradient{g: gg.NewLinearGradient(x0, y0, x1, y1)}
}

// NewRadialGradient creates a gradient between the circle centered at
// (x0, y0) with radius r0 and the circle centered at (x1, y1) with
// radius r1.
func NewRadialGradient(x0, y0, r0, x1, y1, r1 float64) *Gradient {
	return &Gradient{g: gg.NewRadialGradient(x0, y0, r0, x1, y1, r1)}
}

// AddColorStop adds a color stop at offset in [0, 1].
func (g *Gradient) AddColorStop(offset float64, c RGBA) {
	g.g.AddColorStop(offset, c.Color())
}

func (g *Gradient) enginePattern() gg.Pattern {
	return g.g
}

// RepeatOp specifies how a surface pattern tiles.
type RepeatOp int

const (
	// RepeatBoth tiles in both directions.
	RepeatBoth RepeatOp = iota
	// RepeatX tiles horizontally only.
	RepeatX
	// RepeatY tiles vertically only.
	RepeatY
	// RepeatNone does not tile.
	RepeatNone
)

// SurfacePattern paints with a repeated image.
type SurfacePattern struct {
	p gg.Pattern
}

// NewSurfacePattern creates a pattern from an image with the given
// repeat behavior.
func NewSurfacePattern(img image.Image, op RepeatOp) *SurfacePattern {
	var rep gg.RepeatOp
	switch op {
	case RepeatX:
		rep = gg.RepeatX
	case RepeatY:
		rep = gg.RepeatY
	case RepeatNone:
		rep = gg.RepeatNone
	default:
		rep = gg.RepeatBoth
	}
	return &SurfacePattern{p: gg.NewSurfacePattern(img, rep)}
}

func (s *SurfacePattern) enginePattern() gg.Pattern {
	return s.p
}

// alphaPattern scales the alpha of another pattern, implementing the
// paint's global alpha on top of the engine's pattern model.
type alphaPattern struct {
	p     gg.Pattern
	alpha float64
}

func (a alphaPattern) ColorAt(x, y int) color.Color {
	c := FromColor(a.p.ColorAt(x, y))
	c.A *= a.alpha
	return c.Color()
}

// withAlpha wraps a pattern with a global alpha factor. Alpha values
// >= 1 return the pattern unchanged.
func withAlpha(p gg.Pattern, alpha float64) gg.Pattern {
	if alpha >= 1 {
		return p
	}
	if alpha < 0 {
		alpha = 0
	}
	return alphaPattern{p: p, alpha: alpha}
}
