package ink

import (
	"fmt"
	"image"
	"math"

	"github.com/inklab/ink/internal/boxblur"
)

// Blur returns a new pixmap of identical dimensions and format with an
// approximate Gaussian blur of the given sigma applied. The source is
// deep-copied first and never mutated; the result shares no memory
// with it.
//
// Blur returns [ErrInvalidArgument] for a non-positive sigma. A
// zero-sized pixmap yields a zero-sized copy.
func (p *Pixmap) Blur(sigma float64) (*Pixmap, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil pixmap", ErrInvalidHandle)
	}
	if sigma <= 0 || math.IsNaN(sigma) {
		return nil, fmt.Errorf("%w: sigma %v must be > 0", ErrInvalidArgument, sigma)
	}

	out := p.Clone()
	out.blurInPlace(sigma, 0, 0)
	return out, nil
}

// BlurImage converts any image to a premultiplied-RGBA pixmap and blurs
// it with the given sigma. The source image is never mutated.
func BlurImage(img image.Image, sigma float64) (*Pixmap, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidHandle)
	}
	if sigma <= 0 || math.IsNaN(sigma) {
		return nil, fmt.Errorf("%w: sigma %v must be > 0", ErrInvalidArgument, sigma)
	}

	pm, err := FromImage(img)
	if err != nil {
		return nil, err
	}
	pm.blurInPlace(sigma, 0, 0)
	return pm, nil
}

// blurInPlace blurs the top-left width x height region of the pixmap in
// place. Non-positive or oversized overrides default to the full
// extent; a zero-sized region is a no-op.
func (p *Pixmap) blurInPlace(sigma float64, width, height int) {
	if width <= 0 || width > p.width {
		width = p.width
	}
	if height <= 0 || height > p.height {
		height = p.height
	}
	if width == 0 || height == 0 {
		return
	}
	Logger().Debug("ink: box blur",
		"width", width, "height", height, "sigma", sigma, "format", p.format.String())
	boxblur.Blur(p.data, width, height, p.stride, p.format.BytesPerPixel(), sigma)
}
