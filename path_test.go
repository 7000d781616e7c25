package ink

import (
	"errors"
	"math"
	"testing"
)

// walkOps collects the operation sequence of a path.
func walkOps(t *testing.T, p *Path) []PathOp {
	t.Helper()
	var ops []PathOp
	if err := p.Walk(func(op PathOp, pts [3]Point) error {
		ops = append(ops, op)
		return nil
	}); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return ops
}

func TestPathBuilders(t *testing.T) {
	p := NewPath()
	p.MoveTo(10, 20)
	p.LineTo(30, 20)
	p.QuadraticTo(40, 10, 50, 20)
	p.CubicTo(60, 30, 70, 10, 80, 20)
	p.Close()

	want := []PathOp{OpMoveTo, OpLineTo, OpQuadTo, OpCubicTo, OpClose}
	got := walkOps(t, p)
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if cur, ok := p.CurrentPoint(); !ok || cur != Pt(10, 20) {
		t.Errorf("current point after close = %v, %v; want (10,20), true", cur, ok)
	}
}

func TestPathImplicitMoveTo(t *testing.T) {
	p := NewPath()
	p.LineTo(5, 6)

	got := walkOps(t, p)
	if len(got) != 2 || got[0] != OpMoveTo || got[1] != OpLineTo {
		t.Fatalf("ops = %v, want [MoveTo LineTo]", got)
	}
}

func TestPathCloseWithoutSubpath(t *testing.T) {
	p := NewPath()
	p.Close()
	if !p.IsEmpty() {
		t.Error("close on empty path should be a no-op")
	}
}

func TestPathBounds(t *testing.T) {
	p := NewPath()
	p.MoveTo(10, 10)
	p.QuadraticTo(50, -30, 20, 10)

	r, ok := p.Bounds()
	if !ok {
		t.Fatal("Bounds: empty")
	}
	// Control points participate in the bounding box.
	if r.Min.X != 10 || r.Min.Y != -30 || r.Max.X != 50 || r.Max.Y != 10 {
		t.Errorf("bounds = %+v", r)
	}

	if _, ok := NewPath().Bounds(); ok {
		t.Error("empty path reported bounds")
	}
}

func TestPathClone(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 2)
	p.LineTo(3, 4)

	q := p.Clone()
	q.LineTo(5, 6)

	if len(walkOps(t, p)) != 2 {
		t.Error("mutating clone changed original")
	}
	if len(walkOps(t, q)) != 3 {
		t.Error("clone missing appended command")
	}
}

func TestPathClear(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 1)
	p.LineTo(2, 2)
	p.Clear()

	if !p.IsEmpty() {
		t.Error("path not empty after Clear")
	}
	if _, ok := p.CurrentPoint(); ok {
		t.Error("current point survived Clear")
	}
}

func TestPathWalkMalformed(t *testing.T) {
	tests := []struct {
		name  string
		cmds  []pathCmd
		verts []Point
	}{
		{
			name:  "quad missing on-curve",
			cmds:  []pathCmd{cmdMove, cmdQuad},
			verts: []Point{{0, 0}, {1, 1}},
		},
		{
			name:  "cubic missing second control",
			cmds:  []pathCmd{cmdMove, cmdCubic},
			verts: []Point{{0, 0}, {1, 1}},
		},
		{
			name:  "cubic missing on-curve",
			cmds:  []pathCmd{cmdMove, cmdCubic, cmdCubic},
			verts: []Point{{0, 0}, {1, 1}, {2, 2}},
		},
		{
			name:  "cubic followed by wrong tag",
			cmds:  []pathCmd{cmdMove, cmdCubic, cmdCubic, cmdMove},
			verts: []Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Path{cmds: tt.cmds, verts: tt.verts}
			err := p.Walk(func(PathOp, [3]Point) error { return nil })
			if !errors.Is(err, ErrMalformedPath) {
				t.Errorf("Walk error = %v, want ErrMalformedPath", err)
			}
		})
	}
}

func TestPathShapes(t *testing.T) {
	t.Run("rectangle", func(t *testing.T) {
		p := NewPath()
		p.Rectangle(10, 20, 30, 40)
		r, ok := p.Bounds()
		if !ok || r.Min != Pt(10, 20) || r.Max != Pt(40, 60) {
			t.Errorf("bounds = %+v, %v", r, ok)
		}
	})

	t.Run("circle", func(t *testing.T) {
		p := NewPath()
		p.Circle(0, 0, 10)
		r, ok := p.Bounds()
		if !ok {
			t.Fatal("empty circle path")
		}
		// Bezier control points overshoot the radius slightly.
		if r.Min.X > -10 || r.Max.X < 10 || r.Max.X > 10.6 {
			t.Errorf("bounds = %+v", r)
		}
	})

	t.Run("arc endpoints", func(t *testing.T) {
		p := NewPath()
		p.Arc(0, 0, 5, 0, math.Pi/2)
		cur, ok := p.CurrentPoint()
		if !ok {
			t.Fatal("no current point")
		}
		if math.Abs(cur.X) > 1e-9 || math.Abs(cur.Y-5) > 1e-9 {
			t.Errorf("arc end = %v, want (0, 5)", cur)
		}
	})
}
