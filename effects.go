package ink

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// BlurMode selects which styled renditions of a path are blurred.
type BlurMode int

const (
	// BlurModeAuto blurs whichever of fill and stroke the paint has
	// set, defaulting to fill when neither is.
	BlurModeAuto BlurMode = iota
	// BlurModeFill blurs the filled path only.
	BlurModeFill
	// BlurModeStroke blurs the stroked path only.
	BlurModeStroke
	// BlurModeFillAndStroke blurs both renditions together.
	BlurModeFillAndStroke
)

// BlurPathOptions adjusts how [Canvas.BlurPath] renders.
//
// Resolution scales the off-screen surface the path is rendered onto
// before blurring: values in (0, 1) trade quality for speed by
// blurring fewer pixels and stretching the result back up. Zero means
// full resolution.
type BlurPathOptions struct {
	Mode       BlurMode
	OffsetX    float64
	OffsetY    float64
	Resolution float64
}

// BlurPath renders the path into an off-screen surface, blurs it with
// an approximate Gaussian of the given sigma, and composites the
// result back onto the canvas where the path lies (plus the optional
// offset). The fill and stroke sources, stroke geometry and
// compositing operator come from the active paint.
//
// The off-screen surface is padded by three sigma on every side, plus
// half the stroke width when stroking, plus the offset magnitude, so
// the blur never clips. The surface is owned by the canvas and reused
// across calls; only size changes reallocate it.
//
// The canvas state and pixels outside the composite region are
// untouched, including on error.
func (c *Canvas) BlurPath(p *Path, sigma float64, opts *BlurPathOptions) error {
	if c == nil || p == nil {
		return fmt.Errorf("%w: nil canvas or path", ErrInvalidHandle)
	}
	if sigma <= 0 || math.IsNaN(sigma) {
		return fmt.Errorf("%w: sigma %v must be > 0", ErrInvalidArgument, sigma)
	}

	var o BlurPathOptions
	if opts != nil {
		o = *opts
	}
	if o.Resolution == 0 {
		o.Resolution = 1
	}
	if !(o.Resolution > 0 && o.Resolution <= 1) {
		return fmt.Errorf("%w: resolution %v must be in (0, 1]", ErrInvalidArgument, o.Resolution)
	}
	fill, stroke, err := blurModeFlags(o.Mode, c.paint)
	if err != nil {
		return err
	}

	bbox, ok := p.Bounds()
	if !ok {
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}

	// Pad so the blur tail, the stroke overhang and the offset all stay
	// inside the scratch surface.
	strokePad := 0.0
	if stroke {
		strokePad = math.Max(0, c.paint.LineWidth*0.5)
	}
	blurPad := math.Ceil(sigma * 3)
	padX := blurPad + strokePad + math.Abs(o.OffsetX)
	padY := blurPad + strokePad + math.Abs(o.OffsetY)

	widthD := bbox.Width() + 2*padX
	heightD := bbox.Height() + 2*padY

	scale := o.Resolution
	w := int(math.Ceil(math.Max(1, widthD*scale)))
	h := int(math.Ceil(math.Max(1, heightD*scale)))

	scratch, err := c.acquireBlurScratch(w, h)
	if err != nil {
		return err
	}
	scratch.zero()

	sim, err := scratch.RGBAImage()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	sctx := gg.NewContextForRGBA(sim)
	sctx.Push()
	sctx.Translate((padX-bbox.Min.X+o.OffsetX)*scale, (padY-bbox.Min.Y+o.OffsetY)*scale)
	sctx.Scale(scale, scale)
	if err := replayPath(sctx, p); err != nil {
		sctx.Pop()
		return err
	}
	if fill {
		c.paint.applyFill(sctx)
		sctx.FillPreserve()
	}
	if stroke {
		c.paint.applyStroke(sctx, scale)
		sctx.StrokePreserve()
	}
	sctx.ClearPath()
	sctx.Pop()

	scratch.blurInPlace(sigma*scale, w, h)

	// Composite at the world-space origin of the padded box; stretch
	// back up when the surface was rendered at reduced resolution.
	dstX := int(math.Floor(bbox.Min.X - padX))
	dstY := int(math.Floor(bbox.Min.Y - padY))
	dstW := int(math.Ceil(math.Max(1, widthD)))
	dstH := int(math.Ceil(math.Max(1, heightD)))
	dstRect := image.Rect(dstX, dstY, dstX+dstW, dstY+dstH)

	op := xdraw.Over
	if c.paint.CompOp == CompOpSrcCopy {
		op = xdraw.Src
	}
	if dstW == w && dstH == h {
		xdraw.Draw(c.img, dstRect, sim, image.Point{}, op)
	} else {
		xdraw.ApproxBiLinear.Scale(c.img, dstRect, sim, sim.Bounds(), op, nil)
	}
	return nil
}

// blurModeFlags resolves a blur mode against the paint into fill and
// stroke render flags.
func blurModeFlags(mode BlurMode, paint *Paint) (fill, stroke bool, err error) {
	switch mode {
	case BlurModeAuto:
		fill = paint.HasFill() || !paint.HasStroke()
		stroke = paint.HasStroke()
	case BlurModeFill:
		fill = true
	case BlurModeStroke:
		stroke = true
	case BlurModeFillAndStroke:
		fill = true
		stroke = true
	default:
		return false, false, fmt.Errorf("%w: blur mode %d", ErrInvalidArgument, mode)
	}
	return fill, stroke, nil
}

// acquireBlurScratch returns the canvas blur scratch surface sized
// exactly w x h, reallocating only when the size changes.
func (c *Canvas) acquireBlurScratch(w, h int) (*Pixmap, error) {
	if c.blurScratch != nil && c.blurScratch.width == w && c.blurScratch.height == h {
		return c.blurScratch, nil
	}
	pm, err := newPixmap(w, h, FormatRGBA)
	if err != nil {
		return nil, err
	}
	Logger().Debug("ink: blur scratch resized", "width", w, "height", h)
	c.blurScratch = pm
	return pm, nil
}
