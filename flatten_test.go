package ink

import (
	"errors"
	"math"
	"testing"
)

// polylinePoints extracts the vertices of a flattened path, checking
// that only move/line/close commands remain.
func polylinePoints(t *testing.T, p *Path) []Point {
	t.Helper()
	var pts []Point
	err := p.Walk(func(op PathOp, args [3]Point) error {
		switch op {
		case OpMoveTo, OpLineTo:
			pts = append(pts, args[0])
		case OpClose:
		default:
			t.Fatalf("flattened path contains curve op %v", op)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return pts
}

// distToSegment returns the distance from q to segment ab.
func distToSegment(q, a, b Point) float64 {
	ab := b.Sub(a)
	len2 := ab.Dot(ab)
	if len2 == 0 {
		return q.Distance(a)
	}
	t := q.Sub(a).Dot(ab) / len2
	t = math.Max(0, math.Min(1, t))
	return q.Distance(a.Add(ab.Mul(t)))
}

// maxDeviation samples a curve evaluator densely and measures the
// largest distance from the curve to the flattened polyline.
func maxDeviation(pts []Point, eval func(t float64) Point) float64 {
	worst := 0.0
	for i := 0; i <= 512; i++ {
		q := eval(float64(i) / 512)
		best := math.Inf(1)
		for j := 0; j+1 < len(pts); j++ {
			if d := distToSegment(q, pts[j], pts[j+1]); d < best {
				best = d
			}
		}
		if best > worst {
			worst = best
		}
	}
	return worst
}

func TestFlattenValidation(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.QuadraticTo(10, 10, 20, 0)

	if _, err := p.Flatten(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("tolerance 0: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := p.Flatten(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("tolerance -1: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := p.Flatten(math.NaN()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("tolerance NaN: err = %v, want ErrInvalidArgument", err)
	}

	var nilPath *Path
	if _, err := nilPath.Flatten(0.25); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("nil path: err = %v, want ErrInvalidHandle", err)
	}
}

func TestFlattenLinesExact(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)
	p.Close()

	flat, err := p.Flatten(DefaultFlattenTolerance)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	want := walkOps(t, p)
	got := walkOps(t, flat)
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	wantPts := polylinePoints(t, p)
	gotPts := polylinePoints(t, flat)
	for i := range wantPts {
		if gotPts[i] != wantPts[i] {
			t.Errorf("vertex %d = %v, want %v", i, gotPts[i], wantPts[i])
		}
	}
}

func TestFlattenQuadWithinTolerance(t *testing.T) {
	p0, p1, p2 := Pt(0, 0), Pt(50, 80), Pt(100, 0)

	p := NewPath()
	p.MoveTo(p0.X, p0.Y)
	p.QuadraticTo(p1.X, p1.Y, p2.X, p2.Y)

	for _, tol := range []float64{0.25, 1.0} {
		flat, err := p.Flatten(tol)
		if err != nil {
			t.Fatalf("Flatten(%v): %v", tol, err)
		}
		pts := polylinePoints(t, flat)
		if len(pts) < 3 {
			t.Fatalf("tolerance %v: quad not subdivided (%d points)", tol, len(pts))
		}

		dev := maxDeviation(pts, func(t float64) Point {
			s := 1 - t
			x := s*s*p0.X + 2*s*t*p1.X + t*t*p2.X
			y := s*s*p0.Y + 2*s*t*p1.Y + t*t*p2.Y
			return Pt(x, y)
		})
		if dev > tol {
			t.Errorf("tolerance %v: deviation %v exceeds tolerance", tol, dev)
		}
	}
}

func TestFlattenCubicWithinTolerance(t *testing.T) {
	p0, p1, p2, p3 := Pt(0, 0), Pt(0, 100), Pt(100, -100), Pt(100, 0)

	p := NewPath()
	p.MoveTo(p0.X, p0.Y)
	p.CubicTo(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y)

	flat, err := p.Flatten(DefaultFlattenTolerance)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	pts := polylinePoints(t, flat)
	if len(pts) < 4 {
		t.Fatalf("S-curve not subdivided (%d points)", len(pts))
	}

	dev := maxDeviation(pts, func(t float64) Point {
		s := 1 - t
		x := s*s*s*p0.X + 3*s*s*t*p1.X + 3*s*t*t*p2.X + t*t*t*p3.X
		y := s*s*s*p0.Y + 3*s*s*t*p1.Y + 3*s*t*t*p2.Y + t*t*t*p3.Y
		return Pt(x, y)
	})
	if dev > DefaultFlattenTolerance {
		t.Errorf("deviation %v exceeds tolerance %v", dev, DefaultFlattenTolerance)
	}

	// Endpoints must be preserved exactly.
	if pts[0] != p0 || pts[len(pts)-1] != p3 {
		t.Errorf("endpoints %v..%v, want %v..%v", pts[0], pts[len(pts)-1], p0, p3)
	}
}

func TestFlattenDegenerateCurve(t *testing.T) {
	// All control points coincident: flatness is zero, one segment out.
	p := NewPath()
	p.MoveTo(5, 5)
	p.CubicTo(5, 5, 5, 5, 5, 5)

	flat, err := p.Flatten(DefaultFlattenTolerance)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	ops := walkOps(t, flat)
	if len(ops) != 2 || ops[0] != OpMoveTo || ops[1] != OpLineTo {
		t.Errorf("ops = %v, want [MoveTo LineTo]", ops)
	}
}

func TestFlattenCloseResetsToSubpathStart(t *testing.T) {
	// After a close, the next curve starts from the subpath start, not
	// from the last curve endpoint.
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.Close()
	p.QuadraticTo(5, 5, 10, 10)

	flat, err := p.Flatten(DefaultFlattenTolerance)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	pts := polylinePoints(t, flat)
	if pts[len(pts)-1] != Pt(10, 10) {
		t.Errorf("last vertex = %v, want (10, 10)", pts[len(pts)-1])
	}
}

func TestFlattenMalformedStream(t *testing.T) {
	p := &Path{
		cmds:  []pathCmd{cmdMove, cmdQuad},
		verts: []Point{{0, 0}, {5, 5}},
	}
	if _, err := p.Flatten(DefaultFlattenTolerance); !errors.Is(err, ErrMalformedPath) {
		t.Errorf("err = %v, want ErrMalformedPath", err)
	}
}

func TestFlattenFinerToleranceMorePoints(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.CubicTo(30, 90, 70, 90, 100, 0)

	coarse, err := p.Flatten(2.0)
	if err != nil {
		t.Fatalf("Flatten coarse: %v", err)
	}
	fine, err := p.Flatten(0.01)
	if err != nil {
		t.Fatalf("Flatten fine: %v", err)
	}
	if len(polylinePoints(t, fine)) <= len(polylinePoints(t, coarse)) {
		t.Error("finer tolerance did not produce more segments")
	}
}
