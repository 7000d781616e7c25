package ink

import (
	"fmt"
	"math"
)

// DefaultFlattenTolerance is the flattening tolerance used when callers
// have no specific accuracy requirement: the maximum perpendicular
// deviation of the polyline from the true curve, in path units.
const DefaultFlattenTolerance = 0.25

// Flatten produces a new path approximating p with only move, line, and
// close commands. Curves are subdivided recursively at their midpoints
// until the control points deviate from the chord by at most tolerance.
//
// The source path is not mutated. Flattening a path that already
// contains only move/line/close commands reproduces it exactly.
//
// Flatten returns [ErrInvalidArgument] for a non-positive tolerance and
// [ErrMalformedPath] if the source command stream is inconsistent.
func (p *Path) Flatten(tolerance float64) (*Path, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil path", ErrInvalidHandle)
	}
	if tolerance <= 0 || math.IsNaN(tolerance) {
		return nil, fmt.Errorf("%w: tolerance %v must be > 0", ErrInvalidArgument, tolerance)
	}

	dst := NewPath()

	var lastOn Point
	var subStart Point
	hasSub := false

	err := p.Walk(func(op PathOp, pts [3]Point) error {
		switch op {
		case OpMoveTo:
			dst.MoveTo(pts[0].X, pts[0].Y)
			lastOn = pts[0]
			subStart = pts[0]
			hasSub = true

		case OpLineTo:
			dst.LineTo(pts[0].X, pts[0].Y)
			lastOn = pts[0]

		case OpQuadTo:
			flattenQuad(dst, lastOn, pts[0], pts[1], tolerance, 0)
			lastOn = pts[1]

		case OpCubicTo:
			flattenCubic(dst, lastOn, pts[0], pts[1], pts[2], tolerance, 0)
			lastOn = pts[2]

		case OpClose:
			if hasSub {
				dst.Close()
				lastOn = subStart
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// maxFlattenDepth bounds midpoint subdivision. 2^32 subdivisions exceed
// any representable tolerance; the cap only matters for non-finite
// coordinates, where the flatness test never passes.
const maxFlattenDepth = 32

// quadFlatness returns the perpendicular distance of the control point
// from the chord p0-p2.
func quadFlatness(p0, p1, p2 Point) float64 {
	u := p2.Sub(p0)
	v := p1.Sub(p0)
	area2 := math.Abs(u.Cross(v))
	length := u.Length()
	if length > 0 {
		return area2 / length
	}
	return 0
}

// cubicFlatness returns the larger perpendicular distance of the two
// control points from the chord p0-p3.
func cubicFlatness(p0, p1, p2, p3 Point) float64 {
	u := p3.Sub(p0)
	length := u.Length()
	if length == 0 {
		return 0
	}

	dist := func(p Point) float64 {
		return math.Abs(u.Cross(p.Sub(p0))) / length
	}
	return math.Max(dist(p1), dist(p2))
}

// flattenQuad recursively bisects a quadratic Bezier until it is flat
// enough, emitting line segments into dst.
func flattenQuad(dst *Path, p0, p1, p2 Point, tol float64, depth int) {
	if depth >= maxFlattenDepth || quadFlatness(p0, p1, p2) <= tol {
		dst.LineTo(p2.X, p2.Y)
		return
	}

	p01 := p0.Lerp(p1, 0.5)
	p12 := p1.Lerp(p2, 0.5)
	p012 := p01.Lerp(p12, 0.5)

	flattenQuad(dst, p0, p01, p012, tol, depth+1)
	flattenQuad(dst, p012, p12, p2, tol, depth+1)
}

// flattenCubic recursively bisects a cubic Bezier via de Casteljau
// midpoint subdivision until it is flat enough.
func flattenCubic(dst *Path, p0, p1, p2, p3 Point, tol float64, depth int) {
	if depth >= maxFlattenDepth || cubicFlatness(p0, p1, p2, p3) <= tol {
		dst.LineTo(p3.X, p3.Y)
		return
	}

	p01 := p0.Lerp(p1, 0.5)
	p12 := p1.Lerp(p2, 0.5)
	p23 := p2.Lerp(p3, 0.5)

	p012 := p01.Lerp(p12, 0.5)
	p123 := p12.Lerp(p23, 0.5)
	p0123 := p012.Lerp(p123, 0.5)

	flattenCubic(dst, p0, p01, p012, p0123, tol, depth+1)
	flattenCubic(dst, p0123, p123, p23, p3, tol, depth+1)
}
