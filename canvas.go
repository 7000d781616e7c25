package ink

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/fogleman/gg"
)

// canvasOptions collects optional canvas settings.
type canvasOptions struct {
	img *image.RGBA
}

// CanvasOption configures a canvas at construction time.
type CanvasOption func(*canvasOptions)

// WithImage renders onto an existing RGBA image instead of allocating
// a fresh one. The image bounds must match the canvas dimensions.
func WithImage(img *image.RGBA) CanvasOption {
	return func(o *canvasOptions) {
		o.img = img
	}
}

// Canvas is a raster rendering target. It owns the destination pixels,
// an engine context bound to them, the active paint, and the scratch
// surfaces reused by the blur and watercolor effects.
//
// A canvas is not safe for concurrent use; render through one canvas
// per goroutine.
type Canvas struct {
	width  int
	height int
	img    *image.RGBA
	dc     *gg.Context
	paint  *Paint

	// Effect scratch surfaces, grown on demand and reused across calls.
	blurScratch *Pixmap
	wcMask      *Pixmap
	wcPatch     *Pixmap
}

// NewCanvas creates a canvas with the given pixel dimensions. The
// destination starts fully transparent unless [WithImage] supplies
// existing pixels.
func NewCanvas(width, height int, opts ...CanvasOption) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	if width > maxPixmapPixels/height {
		return nil, fmt.Errorf("%w: canvas %dx%d too large", ErrAllocFailed, width, height)
	}

	var o canvasOptions
	for _, opt := range opts {
		opt(&o)
	}

	img := o.img
	if img == nil {
		img = image.NewRGBA(image.Rect(0, 0, width, height))
	} else if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		return nil, fmt.Errorf("%w: image bounds %v do not match canvas %dx%d",
			ErrInvalidArgument, img.Bounds(), width, height)
	}

	return &Canvas{
		width:  width,
		height: height,
		img:    img,
		dc:     gg.NewContextForRGBA(img),
		paint:  NewPaint(),
	}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Image returns the destination image. The canvas keeps rendering into
// it; copy the pixels if a stable snapshot is needed.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Paint returns the active paint. Mutations take effect on the next
// rendering call.
func (c *Canvas) Paint() *Paint { return c.paint }

// SetPaint replaces the active paint. A nil paint resets to defaults.
func (c *Canvas) SetPaint(p *Paint) {
	if p == nil {
		p = NewPaint()
	}
	c.paint = p
}

// Clear fills the entire canvas with a color, replacing existing
// pixels (including alpha).
func (c *Canvas) Clear(col RGBA) {
	c.dc.SetColor(col.Color())
	c.dc.Clear()
}

// FillPath fills the path using the active paint's fill source and
// fill rule.
func (c *Canvas) FillPath(p *Path) error {
	if c == nil || p == nil {
		return fmt.Errorf("%w: nil canvas or path", ErrInvalidHandle)
	}
	if err := replayPath(c.dc, p); err != nil {
		return err
	}
	c.paint.applyFill(c.dc)
	c.dc.Fill()
	return nil
}

// StrokePath strokes the path using the active paint's stroke source
// and stroke geometry.
func (c *Canvas) StrokePath(p *Path) error {
	if c == nil || p == nil {
		return fmt.Errorf("%w: nil canvas or path", ErrInvalidHandle)
	}
	if err := replayPath(c.dc, p); err != nil {
		return err
	}
	c.paint.applyStroke(c.dc, 1)
	c.dc.Stroke()
	return nil
}

// DrawPixmap composites an RGBA pixmap onto the canvas with its
// top-left corner at (x, y), honoring the paint's compositing
// operator. Alpha pixmaps must be [Pixmap.Colorize]d first.
func (c *Canvas) DrawPixmap(pm *Pixmap, x, y int) error {
	if c == nil || pm == nil {
		return fmt.Errorf("%w: nil canvas or pixmap", ErrInvalidHandle)
	}
	src, err := pm.RGBAImage()
	if err != nil {
		return err
	}

	op := draw.Over
	if c.paint.CompOp == CompOpSrcCopy {
		op = draw.Src
	}
	r := image.Rect(x, y, x+pm.width, y+pm.height)
	draw.Draw(c.img, r, src, image.Point{}, op)
	return nil
}

// SavePNG writes the canvas pixels to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	return gg.SavePNG(path, c.img)
}

// replayPath feeds a path's commands into an engine context, replacing
// any path the context was building. Points pass through the context's
// current transform as they are added.
func replayPath(dc *gg.Context, p *Path) error {
	dc.ClearPath()
	return p.Walk(func(op PathOp, pts [3]Point) error {
		switch op {
		case OpMoveTo:
			dc.MoveTo(pts[0].X, pts[0].Y)
		case OpLineTo:
			dc.LineTo(pts[0].X, pts[0].Y)
		case OpQuadTo:
			dc.QuadraticTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		case OpCubicTo:
			dc.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case OpClose:
			dc.ClosePath()
		}
		return nil
	})
}
