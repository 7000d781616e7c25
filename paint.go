package ink

import (
	"github.com/fogleman/gg"
)

// CompOp selects how rendered pixels are combined with the destination.
type CompOp int

const (
	// CompOpSrcOver composites source over destination (the default).
	CompOpSrcOver CompOp = iota
	// CompOpSrcCopy replaces destination pixels with the source.
	CompOpSrcCopy
)

// LineCap specifies the shape of stroke endpoints.
type LineCap int

const (
	// LineCapButt ends the stroke flat at the endpoint (the default).
	LineCapButt LineCap = iota
	// LineCapRound ends the stroke with a semicircle.
	LineCapRound
	// LineCapSquare ends the stroke with a half-square extension.
	LineCapSquare
)

// LineJoin specifies the shape of stroke corners.
type LineJoin int

const (
	// LineJoinRound rounds corners (the default).
	LineJoinRound LineJoin = iota
	// LineJoinBevel cuts corners flat.
	LineJoinBevel
)

// FillRule determines which regions a self-intersecting path encloses.
type FillRule int

const (
	// FillRuleWinding uses the non-zero winding rule (the default).
	FillRuleWinding FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// Paint describes how paths are rendered: fill and stroke sources,
// stroke geometry, fill rule, compositing operator, and global alpha.
//
// A nil Fill or Stroke pattern means the corresponding style is unset;
// operations that need one fall back to opaque black. Fields may be set
// directly; the zero value is not useful, use [NewPaint].
type Paint struct {
	Fill      Pattern
	Stroke    Pattern
	LineWidth float64
	LineCap   LineCap
	LineJoin  LineJoin
	FillRule  FillRule
	CompOp    CompOp
	Alpha     float64
}

// NewPaint returns a paint with no fill or stroke set, a line width of
// 1 and full opacity.
func NewPaint() *Paint {
	return &Paint{
		LineWidth: 1,
		Alpha:     1,
	}
}

// Clone returns a copy of the paint. Patterns are shared, not copied.
func (p *Paint) Clone() *Paint {
	if p == nil {
		return NewPaint()
	}
	out := *p
	return &out
}

// SetFillColor sets the fill source to a solid color.
func (p *Paint) SetFillColor(c RGBA) {
	p.Fill = Solid(c)
}

// SetStrokeColor sets the stroke source to a solid color.
func (p *Paint) SetStrokeColor(c RGBA) {
	p.Stroke = Solid(c)
}

// HasFill reports whether a fill source is set.
func (p *Paint) HasFill() bool {
	return p.Fill != nil
}

// HasStroke reports whether a stroke source is set.
func (p *Paint) HasStroke() bool {
	return p.Stroke != nil
}

// fillPattern returns the engine fill pattern with global alpha folded
// in, defaulting to opaque black when no fill is set.
func (p *Paint) fillPattern() gg.Pattern {
	pat := p.Fill
	if pat == nil {
		pat = Solid(Black)
	}
	return withAlpha(pat.enginePattern(), p.Alpha)
}

// strokePattern is the stroke analogue of fillPattern.
func (p *Paint) strokePattern() gg.Pattern {
	pat := p.Stroke
	if pat == nil {
		pat = Solid(Black)
	}
	return withAlpha(pat.enginePattern(), p.Alpha)
}

// applyFill configures dc for filling with this paint.
func (p *Paint) applyFill(dc *gg.Context) {
	dc.SetFillStyle(p.fillPattern())
	if p.FillRule == FillRuleEvenOdd {
		dc.SetFillRule(gg.FillRuleEvenOdd)
	} else {
		dc.SetFillRule(gg.FillRuleWinding)
	}
}

// applyStroke configures dc for stroking with this paint. The engine
// strokes in device units, so the paint's line width is multiplied by
// scale when rendering onto a downsampled surface.
func (p *Paint) applyStroke(dc *gg.Context, scale float64) {
	dc.SetStrokeStyle(p.strokePattern())

	w := p.LineWidth * scale
	if w < 0 {
		w = 0
	}
	dc.SetLineWidth(w)

	switch p.LineCap {
	case LineCapRound:
		dc.SetLineCap(gg.LineCapRound)
	case LineCapSquare:
		dc.SetLineCap(gg.LineCapSquare)
	default:
		dc.SetLineCap(gg.LineCapButt)
	}

	switch p.LineJoin {
	case LineJoinBevel:
		dc.SetLineJoin(gg.LineJoinBevel)
	default:
		dc.SetLineJoin(gg.LineJoinRound)
	}
}
