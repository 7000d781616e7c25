package ink

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/inklab/ink/internal/noise"
)

// WatercolorOptions adjusts the watercolor fill effect.
//
// Zero values for NoiseScale, NoiseOctaves and Resolution fall back to
// their defaults (0.02, 2 and 1); zero is meaningful for the remaining
// fields and is used as given. Pass nil to [Canvas.WatercolorFillPath]
// for the full default set, or start from [NewWatercolorOptions] and
// override individual fields.
type WatercolorOptions struct {
	// BleedSigma softens the silhouette edge, simulating pigment
	// bleeding into wet paper. Zero disables the bleed.
	BleedSigma float64
	// Granulation in [0, 1] controls how strongly paper-grain noise
	// attenuates the pigment.
	Granulation float64
	// NoiseScale is the grain frequency in cycles per pixel.
	NoiseScale float64
	// NoiseOctaves in [1, 8] layers grain detail.
	NoiseOctaves int
	// Seed selects the grain pattern; equal seeds reproduce it exactly.
	Seed int
	// Strength scales the overall pigment opacity.
	Strength float64
	// Resolution in (0, 1] renders the effect at reduced size and
	// stretches it back up.
	Resolution float64
}

// NewWatercolorOptions returns the default watercolor parameters.
func NewWatercolorOptions() *WatercolorOptions {
	return &WatercolorOptions{
		BleedSigma:   6.0,
		Granulation:  0.18,
		NoiseScale:   0.02,
		NoiseOctaves: 2,
		Seed:         1337,
		Strength:     1.0,
		Resolution:   1.0,
	}
}

// WatercolorFillPath fills the path with a watercolor rendition of the
// active paint's fill source: the silhouette is rasterized into an
// alpha mask, the mask is blurred to simulate pigment bleed and
// attenuated by deterministic paper-grain noise, and a color patch
// masked by the result is composited where the path lies.
//
// The mask and patch surfaces are owned by the canvas and reused
// across calls. The paint's compositing operator applies to the final
// composite; its global alpha scales the pigment.
func (c *Canvas) WatercolorFillPath(p *Path, opts *WatercolorOptions) error {
	if c == nil || p == nil {
		return fmt.Errorf("%w: nil canvas or path", ErrInvalidHandle)
	}

	o := NewWatercolorOptions()
	if opts != nil {
		o = &WatercolorOptions{
			BleedSigma:   opts.BleedSigma,
			Granulation:  opts.Granulation,
			NoiseScale:   opts.NoiseScale,
			NoiseOctaves: opts.NoiseOctaves,
			Seed:         opts.Seed,
			Strength:     opts.Strength,
			Resolution:   opts.Resolution,
		}
		if o.NoiseScale == 0 {
			o.NoiseScale = 0.02
		}
		if o.NoiseOctaves == 0 {
			o.NoiseOctaves = 2
		}
		if o.Resolution == 0 {
			o.Resolution = 1
		}
	}
	if err := o.validate(); err != nil {
		return err
	}

	bbox, ok := p.Bounds()
	if !ok {
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}

	bleedPad := math.Ceil(math.Max(0, o.BleedSigma*3))
	widthD := bbox.Width() + 2*bleedPad
	heightD := bbox.Height() + 2*bleedPad

	scale := o.Resolution
	w := int(math.Ceil(math.Max(1, widthD*scale)))
	h := int(math.Ceil(math.Max(1, heightD*scale)))

	if err := c.acquireWatercolorScratch(w, h); err != nil {
		return err
	}
	mask, patch := c.wcMask, c.wcPatch

	// Rasterize the silhouette into the patch surface and lift its
	// alpha channel out as the mask.
	patch.zero()
	pim, err := patch.RGBAImage()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	pctx := gg.NewContextForRGBA(pim)
	pctx.Push()
	pctx.Translate((bleedPad-bbox.Min.X)*scale, (bleedPad-bbox.Min.Y)*scale)
	pctx.Scale(scale, scale)
	if err := replayPath(pctx, p); err != nil {
		pctx.Pop()
		return err
	}
	pctx.SetFillStyle(gg.NewSolidPattern(White.Color()))
	pctx.Fill()
	pctx.Pop()

	for y := 0; y < h; y++ {
		mrow := mask.data[y*mask.stride : y*mask.stride+w]
		prow := patch.data[y*patch.stride:]
		for x := 0; x < w; x++ {
			mrow[x] = prow[x*4+3]
		}
	}

	if o.BleedSigma > 0 {
		mask.blurInPlace(o.BleedSigma*scale, w, h)
	}

	// Render the color patch in world space, then multiply it by the
	// granulated mask. Attenuation only; boosting the mask would
	// produce saturated clumps.
	patch.zero()
	pctx = gg.NewContextForRGBA(pim)
	pctx.Push()
	pctx.Translate((bleedPad-bbox.Min.X)*scale, (bleedPad-bbox.Min.Y)*scale)
	pctx.Scale(scale, scale)
	c.paint.applyFill(pctx)
	pctx.DrawRectangle(bbox.Min.X-bleedPad, bbox.Min.Y-bleedPad, widthD, heightD)
	pctx.Fill()
	pctx.Pop()

	granulation := float32(o.Granulation)
	noiseScale := float32(o.NoiseScale)
	strength := float32(o.Strength)
	seed := uint32(o.Seed)

	// Jitter the noise domain by the seed so distinct seeds shift the
	// grain, not just reshuffle it. Sampled in patch pixel space for
	// stability across resolutions.
	offX := float32(noise.Hash32(seed^0xa1b2c3d4)&0x3ff) * 0.25
	offY := float32(noise.Hash32(seed^0x31415926)&0x3ff) * 0.25

	for y := 0; y < h; y++ {
		mrow := mask.data[y*mask.stride:]
		prow := patch.data[y*patch.stride:]
		for x := 0; x < w; x++ {
			m := mrow[x]
			px := prow[x*4 : x*4+4]
			if m == 0 {
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
				continue
			}

			mf := float32(m) / 255
			if granulation > 0 {
				n := noise.FBM2((float32(x)+offX)*noiseScale, (float32(y)+offY)*noiseScale,
					seed, o.NoiseOctaves)
				paper := clamp01f(0.5 + 0.5*n)
				mf *= (1 - granulation) + granulation*paper
			}
			mf = clamp01f(mf * strength)

			mm := int(mf*255 + 0.5)
			px[0] = uint8((int(px[0])*mm + 127) / 255)
			px[1] = uint8((int(px[1])*mm + 127) / 255)
			px[2] = uint8((int(px[2])*mm + 127) / 255)
			px[3] = uint8((int(px[3])*mm + 127) / 255)
		}
	}

	dstX := int(math.Floor(bbox.Min.X - bleedPad))
	dstY := int(math.Floor(bbox.Min.Y - bleedPad))
	dstW := int(math.Ceil(math.Max(1, widthD)))
	dstH := int(math.Ceil(math.Max(1, heightD)))
	dstRect := image.Rect(dstX, dstY, dstX+dstW, dstY+dstH)

	op := xdraw.Over
	if c.paint.CompOp == CompOpSrcCopy {
		op = xdraw.Src
	}
	if dstW == w && dstH == h {
		xdraw.Draw(c.img, dstRect, pim, image.Point{}, op)
	} else {
		xdraw.ApproxBiLinear.Scale(c.img, dstRect, pim, pim.Bounds(), op, nil)
	}
	return nil
}

func (o *WatercolorOptions) validate() error {
	switch {
	case o.BleedSigma < 0 || math.IsNaN(o.BleedSigma):
		return fmt.Errorf("%w: bleed sigma %v must be >= 0", ErrInvalidArgument, o.BleedSigma)
	case o.Granulation < 0 || o.Granulation > 1 || math.IsNaN(o.Granulation):
		return fmt.Errorf("%w: granulation %v must be in [0, 1]", ErrInvalidArgument, o.Granulation)
	case o.NoiseScale <= 0 || math.IsNaN(o.NoiseScale):
		return fmt.Errorf("%w: noise scale %v must be > 0", ErrInvalidArgument, o.NoiseScale)
	case o.NoiseOctaves < 1 || o.NoiseOctaves > 8:
		return fmt.Errorf("%w: noise octaves %d must be in [1, 8]", ErrInvalidArgument, o.NoiseOctaves)
	case o.Strength < 0 || math.IsNaN(o.Strength):
		return fmt.Errorf("%w: strength %v must be >= 0", ErrInvalidArgument, o.Strength)
	case o.Resolution <= 0 || o.Resolution > 1 || math.IsNaN(o.Resolution):
		return fmt.Errorf("%w: resolution %v must be in (0, 1]", ErrInvalidArgument, o.Resolution)
	}
	return nil
}

// acquireWatercolorScratch sizes the canvas watercolor mask and patch
// surfaces to exactly w x h, reallocating only on size changes.
func (c *Canvas) acquireWatercolorScratch(w, h int) error {
	if c.wcMask != nil && c.wcMask.width == w && c.wcMask.height == h {
		return nil
	}
	mask, err := newPixmap(w, h, FormatAlpha)
	if err != nil {
		return err
	}
	patch, err := newPixmap(w, h, FormatRGBA)
	if err != nil {
		return err
	}
	Logger().Debug("ink: watercolor scratch resized", "width", w, "height", h)
	c.wcMask = mask
	c.wcPatch = patch
	return nil
}

func clamp01f(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
