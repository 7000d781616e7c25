package ink

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Format identifies the pixel layout of a Pixmap.
type Format int

const (
	// FormatRGBA is premultiplied RGBA, 4 bytes per pixel.
	FormatRGBA Format = iota
	// FormatAlpha is a single alpha channel, 1 byte per pixel.
	FormatAlpha
)

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f Format) BytesPerPixel() int {
	if f == FormatAlpha {
		return 1
	}
	return 4
}

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA:
		return "RGBA"
	case FormatAlpha:
		return "Alpha"
	default:
		return "Unknown"
	}
}

// maxPixmapPixels bounds pixmap allocations; larger requests report
// ErrAllocFailed instead of attempting a multi-gigabyte make.
const maxPixmapPixels = 1 << 28

// Pixmap represents a rectangular pixel buffer.
//
// The buffer holds height rows of width pixels, stride bytes apart
// (stride >= width * bytes-per-pixel). Color pixmaps store
// premultiplied RGBA. Pixmap is not safe for concurrent use.
type Pixmap struct {
	width  int
	height int
	stride int
	format Format
	data   []uint8
}

// NewPixmap creates a premultiplied-RGBA pixmap with the given
// dimensions. Non-positive dimensions yield an empty pixmap.
func NewPixmap(width, height int) *Pixmap {
	p, _ := newPixmap(width, height, FormatRGBA)
	return p
}

// NewAlphaPixmap creates a single-channel alpha pixmap with the given
// dimensions. Non-positive dimensions yield an empty pixmap.
func NewAlphaPixmap(width, height int) *Pixmap {
	p, _ := newPixmap(width, height, FormatAlpha)
	return p
}

// newPixmap allocates a tight-packed pixmap, reporting ErrAllocFailed
// for requests beyond the pixel limit.
func newPixmap(width, height int, format Format) (*Pixmap, error) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width > 0 && height > maxPixmapPixels/width {
		return nil, fmt.Errorf("%w: %dx%d pixmap exceeds pixel limit", ErrAllocFailed, width, height)
	}
	bpp := format.BytesPerPixel()
	return &Pixmap{
		width:  width,
		height: height,
		stride: width * bpp,
		format: format,
		data:   make([]uint8, width*height*bpp),
	}, nil
}

// Width returns the width of the pixmap in pixels.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap in pixels.
func (p *Pixmap) Height() int { return p.height }

// Stride returns the number of bytes between consecutive rows.
func (p *Pixmap) Stride() int { return p.stride }

// Format returns the pixel format.
func (p *Pixmap) Format() Format { return p.format }

// Data returns the raw pixel data. Rows are stride bytes apart.
func (p *Pixmap) Data() []uint8 { return p.data }

// Clone creates a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	out := &Pixmap{
		width:  p.width,
		height: p.height,
		stride: p.stride,
		format: p.format,
		data:   make([]uint8, len(p.data)),
	}
	copy(out.data, p.data)
	return out
}

// SetPixel sets the color of a single pixel. The color is premultiplied
// before storage. No-op for out-of-bounds coordinates or alpha pixmaps.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height || p.format != FormatRGBA {
		return
	}
	r, g, b, a := c.premul()
	i := y*p.stride + x*4
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// GetPixel returns the color of a single pixel with premultiplication
// divided back out. Out-of-bounds coordinates return Transparent.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height || p.format != FormatRGBA {
		return Transparent
	}
	i := y*p.stride + x*4
	a := p.data[i+3]
	if a == 0 {
		return Transparent
	}
	return RGBA{
		R: float64(p.data[i+0]) / float64(a),
		G: float64(p.data[i+1]) / float64(a),
		B: float64(p.data[i+2]) / float64(a),
		A: float64(a) / 255,
	}
}

// SetAlpha sets the alpha value of a single pixel in an alpha pixmap.
func (p *Pixmap) SetAlpha(x, y int, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height || p.format != FormatAlpha {
		return
	}
	p.data[y*p.stride+x] = a
}

// AlphaAt returns the alpha value of a single pixel. For RGBA pixmaps
// this is the stored alpha channel; out of bounds returns 0.
func (p *Pixmap) AlphaAt(x, y int) uint8 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0
	}
	if p.format == FormatAlpha {
		return p.data[y*p.stride+x]
	}
	return p.data[y*p.stride+x*4+3]
}

// Clear fills the entire pixmap with a color. For alpha pixmaps only
// the alpha component is used.
func (p *Pixmap) Clear(c RGBA) {
	if p.format == FormatAlpha {
		a := uint8(clamp255(c.A * 255))
		for y := 0; y < p.height; y++ {
			row := p.data[y*p.stride : y*p.stride+p.width]
			for x := range row {
				row[x] = a
			}
		}
		return
	}

	r, g, b, a := c.premul()
	for y := 0; y < p.height; y++ {
		row := p.data[y*p.stride : y*p.stride+p.width*4]
		for x := 0; x < len(row); x += 4 {
			row[x+0] = r
			row[x+1] = g
			row[x+2] = b
			row[x+3] = a
		}
	}
}

// zero resets every pixel to fully transparent.
func (p *Pixmap) zero() {
	for i := range p.data {
		p.data[i] = 0
	}
}

// RGBAImage returns an *image.RGBA sharing the pixmap's memory.
// Mutations through either view are visible in both.
func (p *Pixmap) RGBAImage() (*image.RGBA, error) {
	if p.format != FormatRGBA {
		return nil, fmt.Errorf("%w: RGBAImage on %s pixmap", ErrConvertFailed, p.format)
	}
	return &image.RGBA{
		Pix:    p.data,
		Stride: p.stride,
		Rect:   image.Rect(0, 0, p.width, p.height),
	}, nil
}

// AlphaImage returns an *image.Alpha sharing the pixmap's memory.
func (p *Pixmap) AlphaImage() (*image.Alpha, error) {
	if p.format != FormatAlpha {
		return nil, fmt.Errorf("%w: AlphaImage on %s pixmap", ErrConvertFailed, p.format)
	}
	return &image.Alpha{
		Pix:    p.data,
		Stride: p.stride,
		Rect:   image.Rect(0, 0, p.width, p.height),
	}, nil
}

// ToImage converts the pixmap to a standalone *image.RGBA copy.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	switch p.format {
	case FormatRGBA:
		for y := 0; y < p.height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+p.width*4], p.data[y*p.stride:y*p.stride+p.width*4])
		}
	case FormatAlpha:
		// Expand the mask to premultiplied white.
		for y := 0; y < p.height; y++ {
			src := p.data[y*p.stride : y*p.stride+p.width]
			dst := img.Pix[y*img.Stride:]
			for x, a := range src {
				dst[x*4+0] = a
				dst[x*4+1] = a
				dst[x*4+2] = a
				dst[x*4+3] = a
			}
		}
	}
	return img
}

// FromImage creates a premultiplied-RGBA pixmap from any image,
// converting the pixel format if necessary.
func FromImage(img image.Image) (*Pixmap, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidHandle)
	}
	bounds := img.Bounds()
	pm, err := newPixmap(bounds.Dx(), bounds.Dy(), FormatRGBA)
	if err != nil {
		return nil, err
	}
	dst, err := pm.RGBAImage()
	if err != nil {
		return nil, err
	}
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return pm, nil
}

// LoadPNG loads a PNG file into a premultiplied-RGBA pixmap.
func LoadPNG(path string) (*Pixmap, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConvertFailed, err)
	}
	return FromImage(img)
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, p.ToImage())
}

// Channel selects a source channel for ExtractChannel.
type Channel int

const (
	// ChannelRed extracts the red channel.
	ChannelRed Channel = iota
	// ChannelGreen extracts the green channel.
	ChannelGreen
	// ChannelBlue extracts the blue channel.
	ChannelBlue
	// ChannelAlpha extracts the alpha channel.
	ChannelAlpha
	// ChannelLuma extracts an integer luma approximation
	// (0.299 R + 0.587 G + 0.114 B).
	ChannelLuma
)

// ExtractChannel produces a new alpha-format pixmap holding one channel
// of an RGBA pixmap. Extracting ChannelAlpha from an alpha pixmap
// returns a copy; any other channel of an alpha pixmap reports
// ErrConvertFailed.
func (p *Pixmap) ExtractChannel(ch Channel) (*Pixmap, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil pixmap", ErrInvalidHandle)
	}
	if p.format == FormatAlpha {
		if ch == ChannelAlpha {
			return p.Clone(), nil
		}
		return nil, fmt.Errorf("%w: channel %d not present in alpha pixmap", ErrConvertFailed, ch)
	}

	var offset int
	switch ch {
	case ChannelRed:
		offset = 0
	case ChannelGreen:
		offset = 1
	case ChannelBlue:
		offset = 2
	case ChannelAlpha:
		offset = 3
	case ChannelLuma:
		offset = -1
	default:
		return nil, fmt.Errorf("%w: unknown channel %d", ErrInvalidArgument, ch)
	}

	out, err := newPixmap(p.width, p.height, FormatAlpha)
	if err != nil {
		return nil, err
	}
	for y := 0; y < p.height; y++ {
		src := p.data[y*p.stride:]
		dst := out.data[y*out.stride:]
		for x := 0; x < p.width; x++ {
			if offset >= 0 {
				dst[x] = src[x*4+offset]
				continue
			}
			r := uint32(src[x*4+0])
			g := uint32(src[x*4+1])
			b := uint32(src[x*4+2])
			dst[x] = uint8((54*r + 183*g + 19*b) >> 8)
		}
	}
	return out, nil
}

// Colorize produces a premultiplied-RGBA pixmap from an alpha mask,
// tinting every pixel with the given color scaled by the mask value.
func (p *Pixmap) Colorize(c RGBA) (*Pixmap, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil pixmap", ErrInvalidHandle)
	}
	if p.format != FormatAlpha {
		return nil, fmt.Errorf("%w: Colorize requires an alpha pixmap", ErrConvertFailed)
	}

	out, err := newPixmap(p.width, p.height, FormatRGBA)
	if err != nil {
		return nil, err
	}
	cr, cg, cb, ca := c.premul()
	for y := 0; y < p.height; y++ {
		src := p.data[y*p.stride:]
		dst := out.data[y*out.stride:]
		for x := 0; x < p.width; x++ {
			m := uint32(src[x])
			dst[x*4+0] = uint8((uint32(cr)*m + 127) / 255)
			dst[x*4+1] = uint8((uint32(cg)*m + 127) / 255)
			dst[x*4+2] = uint8((uint32(cb)*m + 127) / 255)
			dst[x*4+3] = uint8((uint32(ca)*m + 127) / 255)
		}
	}
	return out, nil
}

// Resize produces a new pixmap scaled to the given dimensions using
// bilinear interpolation. The source format is preserved.
func (p *Pixmap) Resize(width, height int) (*Pixmap, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil pixmap", ErrInvalidHandle)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resize to %dx%d", ErrInvalidArgument, width, height)
	}

	out, err := newPixmap(width, height, p.format)
	if err != nil {
		return nil, err
	}

	switch p.format {
	case FormatRGBA:
		src, _ := p.RGBAImage()
		dst, _ := out.RGBAImage()
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	case FormatAlpha:
		src, _ := p.AlphaImage()
		dst, _ := out.AlphaImage()
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	}
	return out, nil
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if p.format == FormatAlpha {
		return color.Alpha{A: p.AlphaAt(x, y)}
	}
	return p.GetPixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	if p.format == FormatAlpha {
		return color.AlphaModel
	}
	return color.NRGBAModel
}
