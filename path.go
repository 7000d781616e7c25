package ink

import (
	"fmt"
	"math"
)

// pathCmd tags a single command/vertex record in a path's stream.
// Multi-point curve commands are encoded as consecutive records: each
// control point carries a curve tag and the terminal point carries the
// on-curve tag, mirroring how the engine encodes its vertex streams.
type pathCmd uint8

const (
	cmdMove  pathCmd = iota // start a new subpath at the vertex
	cmdOn                   // on-curve vertex: line target or curve endpoint
	cmdQuad                 // quadratic control; must be followed by cmdOn
	cmdCubic                // cubic control; two in a row, then cmdOn
	cmdClose                // close the current subpath
)

// PathOp identifies a logical path command visited by [Path.Walk].
type PathOp uint8

const (
	// OpMoveTo starts a new subpath. pts[0] is the target.
	OpMoveTo PathOp = iota
	// OpLineTo draws a line. pts[0] is the target.
	OpLineTo
	// OpQuadTo draws a quadratic Bezier. pts[0] is the control,
	// pts[1] the endpoint.
	OpQuadTo
	// OpCubicTo draws a cubic Bezier. pts[0] and pts[1] are the
	// controls, pts[2] the endpoint.
	OpCubicTo
	// OpClose closes the current subpath.
	OpClose
)

// Path represents a vector path as an ordered command/vertex stream.
//
// Every record pairs a command tag with one vertex. Build paths with
// MoveTo, LineTo, QuadraticTo, CubicTo, and Close; a drawing command
// issued without a current point starts a new subpath at its target.
type Path struct {
	cmds  []pathCmd
	verts []Point

	start      Point // starting point of current subpath
	current    Point // current point
	hasCurrent bool
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		cmds:  make([]pathCmd, 0, 16),
		verts: make([]Point, 0, 16),
	}
}

// MoveTo moves to a point without drawing, starting a new subpath.
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.cmds = append(p.cmds, cmdMove)
	p.verts = append(p.verts, pt)
	p.start = pt
	p.current = pt
	p.hasCurrent = true
}

// LineTo draws a line to a point.
func (p *Path) LineTo(x, y float64) {
	if !p.hasCurrent {
		p.MoveTo(x, y)
		return
	}
	pt := Pt(x, y)
	p.cmds = append(p.cmds, cmdOn)
	p.verts = append(p.verts, pt)
	p.current = pt
}

// QuadraticTo draws a quadratic Bezier curve with one control point.
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	if !p.hasCurrent {
		p.MoveTo(cx, cy)
	}
	p.cmds = append(p.cmds, cmdQuad, cmdOn)
	p.verts = append(p.verts, Pt(cx, cy), Pt(x, y))
	p.current = Pt(x, y)
}

// CubicTo draws a cubic Bezier curve with two control points.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !p.hasCurrent {
		p.MoveTo(c1x, c1y)
	}
	p.cmds = append(p.cmds, cmdCubic, cmdCubic, cmdOn)
	p.verts = append(p.verts, Pt(c1x, c1y), Pt(c2x, c2y), Pt(x, y))
	p.current = Pt(x, y)
}

// Close closes the current subpath, reconnecting to its start point.
// Close on a path with no open subpath is a no-op.
func (p *Path) Close() {
	if !p.hasCurrent {
		return
	}
	p.cmds = append(p.cmds, cmdClose)
	p.verts = append(p.verts, p.start)
	p.current = p.start
}

// Clear removes all records from the path.
func (p *Path) Clear() {
	p.cmds = p.cmds[:0]
	p.verts = p.verts[:0]
	p.start = Point{}
	p.current = Point{}
	p.hasCurrent = false
}

// IsEmpty reports whether the path contains no records.
func (p *Path) IsEmpty() bool {
	return len(p.cmds) == 0
}

// CurrentPoint returns the current point and whether one is established.
func (p *Path) CurrentPoint() (Point, bool) {
	return p.current, p.hasCurrent
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := &Path{
		cmds:       make([]pathCmd, len(p.cmds)),
		verts:      make([]Point, len(p.verts)),
		start:      p.start,
		current:    p.current,
		hasCurrent: p.hasCurrent,
	}
	copy(result.cmds, p.cmds)
	copy(result.verts, p.verts)
	return result
}

// Walk visits the path's logical commands in order. For each command,
// fn receives the operation and its points: one point for OpMoveTo and
// OpLineTo, two for OpQuadTo, three for OpCubicTo, none for OpClose.
// Walk stops at the first error returned by fn and propagates it.
//
// Walk returns [ErrMalformedPath] if a curve command's trailing records
// are missing or inconsistent.
func (p *Path) Walk(fn func(op PathOp, pts [3]Point) error) error {
	n := len(p.cmds)
	if len(p.verts) != n {
		return fmt.Errorf("%w: %d commands but %d vertices", ErrMalformedPath, n, len(p.verts))
	}

	for i := 0; i < n; i++ {
		var err error
		switch p.cmds[i] {
		case cmdMove:
			err = fn(OpMoveTo, [3]Point{p.verts[i]})

		case cmdOn:
			err = fn(OpLineTo, [3]Point{p.verts[i]})

		case cmdQuad:
			if i+1 >= n || p.cmds[i+1] != cmdOn {
				return fmt.Errorf("%w: quad control at %d without on-curve vertex", ErrMalformedPath, i)
			}
			err = fn(OpQuadTo, [3]Point{p.verts[i], p.verts[i+1]})
			i++

		case cmdCubic:
			if i+2 >= n || p.cmds[i+1] != cmdCubic || p.cmds[i+2] != cmdOn {
				return fmt.Errorf("%w: cubic controls at %d without on-curve vertex", ErrMalformedPath, i)
			}
			err = fn(OpCubicTo, [3]Point{p.verts[i], p.verts[i+1], p.verts[i+2]})
			i += 2

		case cmdClose:
			err = fn(OpClose, [3]Point{})

		default:
			return fmt.Errorf("%w: unknown command %d at %d", ErrMalformedPath, p.cmds[i], i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box over all of the path's
// vertices, including curve control points. ok is false for an empty
// path.
func (p *Path) Bounds() (r Rect, ok bool) {
	if len(p.verts) == 0 {
		return Rect{}, false
	}
	r = Rect{Min: p.verts[0], Max: p.verts[0]}
	for _, v := range p.verts[1:] {
		r = r.extend(v)
	}
	return r, true
}

// Rectangle adds a rectangle to the path.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Circle adds a circle to the path using cubic Bezier curves.
func (p *Path) Circle(cx, cy, r float64) {
	p.Ellipse(cx, cy, r, r)
}

// Ellipse adds an ellipse to the path.
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	// Magic constant for circle approximation with cubic Beziers:
	// 4/3 * (sqrt(2) - 1)
	const k = 0.5522847498307936
	ox := rx * k
	oy := ry * k

	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.Close()
}

// Arc adds a circular arc to the path.
// The arc is drawn from angle1 to angle2 (in radians) around (cx, cy).
func (p *Path) Arc(cx, cy, r, angle1, angle2 float64) {
	const twoPi = 2 * math.Pi
	for angle2 < angle1 {
		angle2 += twoPi
	}

	// Split into cubic segments of at most 90 degrees.
	const maxAngle = math.Pi / 2
	numSegments := int(math.Ceil((angle2 - angle1) / maxAngle))
	if numSegments < 1 {
		numSegments = 1
	}
	angleStep := (angle2 - angle1) / float64(numSegments)

	for i := 0; i < numSegments; i++ {
		a1 := angle1 + float64(i)*angleStep
		a2 := a1 + angleStep
		p.arcSegment(cx, cy, r, a1, a2)
	}
}

// arcSegment adds a single cubic arc segment (<=90 degrees).
func (p *Path) arcSegment(cx, cy, r, a1, a2 float64) {
	alpha := math.Sin(a2-a1) * (math.Sqrt(4+3*math.Tan((a2-a1)/2)*math.Tan((a2-a1)/2)) - 1) / 3

	cos1, sin1 := math.Cos(a1), math.Sin(a1)
	cos2, sin2 := math.Cos(a2), math.Sin(a2)

	x1 := cx + r*cos1
	y1 := cy + r*sin1
	x2 := cx + r*cos2
	y2 := cy + r*sin2

	c1x := x1 - alpha*r*sin1
	c1y := y1 + alpha*r*cos1
	c2x := x2 + alpha*r*sin2
	c2y := y2 - alpha*r*cos2

	if !p.hasCurrent {
		p.MoveTo(x1, y1)
	}
	p.CubicTo(c1x, c1y, c2x, c2y, x2, y2)
}

// RoundedRectangle adds a rectangle with rounded corners.
func (p *Path) RoundedRectangle(x, y, w, h, r float64) {
	maxR := math.Min(w, h) / 2
	if r > maxR {
		r = maxR
	}

	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.Arc(x+w-r, y+r, r, -math.Pi/2, 0)
	p.LineTo(x+w, y+h-r)
	p.Arc(x+w-r, y+h-r, r, 0, math.Pi/2)
	p.LineTo(x+r, y+h)
	p.Arc(x+r, y+h-r, r, math.Pi/2, math.Pi)
	p.LineTo(x, y+r)
	p.Arc(x+r, y+r, r, math.Pi, 3*math.Pi/2)
	p.Close()
}
