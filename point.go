package ink

import "math"

// Point represents a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of two vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the length of the vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q, intermediate values interpolate.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Rect represents an axis-aligned rectangle.
// Min is the top-left corner, Max the bottom-right.
type Rect struct {
	Min, Max Point
}

// NewRect creates a rectangle from two points.
// The points are normalized so Min <= Max.
func NewRect(p1, p2 Point) Rect {
	return Rect{
		Min: Point{X: math.Min(p1.X, p2.X), Y: math.Min(p1.Y, p2.Y)},
		Max: Point{X: math.Max(p1.X, p2.X), Y: math.Max(p1.Y, p2.Y)},
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, other.Min.X), Y: math.Min(r.Min.Y, other.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, other.Max.X), Y: math.Max(r.Max.Y, other.Max.Y)},
	}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// extend grows the rectangle to include the point.
func (r Rect) extend(p Point) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, p.X), Y: math.Min(r.Min.Y, p.Y)},
		Max: Point{X: math.Max(r.Max.X, p.X), Y: math.Max(r.Max.Y, p.Y)},
	}
}
