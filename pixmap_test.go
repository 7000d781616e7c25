package ink

import (
	"errors"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"
)

func TestNewPixmap(t *testing.T) {
	p := NewPixmap(10, 5)
	if p.Width() != 10 || p.Height() != 5 {
		t.Errorf("dims = %dx%d, want 10x5", p.Width(), p.Height())
	}
	if p.Format() != FormatRGBA || p.Stride() != 40 {
		t.Errorf("format %v stride %d", p.Format(), p.Stride())
	}
	if len(p.Data()) != 200 {
		t.Errorf("data length = %d, want 200", len(p.Data()))
	}

	a := NewAlphaPixmap(10, 5)
	if a.Format() != FormatAlpha || a.Stride() != 10 {
		t.Errorf("alpha format %v stride %d", a.Format(), a.Stride())
	}

	// Non-positive dimensions collapse to empty, never panic.
	e := NewPixmap(-3, 4)
	if e.Width() != 0 || len(e.Data()) != 0 {
		t.Errorf("negative width produced %dx%d", e.Width(), e.Height())
	}
}

func TestNewPixmapTooLarge(t *testing.T) {
	_, err := newPixmap(1<<16, 1<<16, FormatRGBA)
	if !errors.Is(err, ErrAllocFailed) {
		t.Errorf("err = %v, want ErrAllocFailed", err)
	}
}

func TestPixelRoundTrip(t *testing.T) {
	p := NewPixmap(4, 4)

	p.SetPixel(1, 2, RGB(1, 0, 0.5))
	got := p.GetPixel(1, 2)
	if math.Abs(got.R-1) > 0.01 || math.Abs(got.B-0.5) > 0.01 || got.A != 1 {
		t.Errorf("opaque round trip = %+v", got)
	}

	p.SetPixel(0, 0, RGBA2(1, 1, 1, 0.5))
	got = p.GetPixel(0, 0)
	if math.Abs(got.A-0.5) > 0.01 || math.Abs(got.R-1) > 0.01 {
		t.Errorf("translucent round trip = %+v", got)
	}

	// Storage is premultiplied.
	if p.Data()[0] > p.Data()[3] {
		t.Errorf("stored R %d exceeds stored A %d", p.Data()[0], p.Data()[3])
	}

	if p.GetPixel(-1, 0) != Transparent || p.GetPixel(0, 99) != Transparent {
		t.Error("out-of-bounds GetPixel not transparent")
	}
}

func TestAlphaRoundTrip(t *testing.T) {
	p := NewAlphaPixmap(3, 3)
	p.SetAlpha(2, 1, 200)
	if got := p.AlphaAt(2, 1); got != 200 {
		t.Errorf("AlphaAt = %d, want 200", got)
	}
	if p.AlphaAt(5, 5) != 0 {
		t.Error("out-of-bounds AlphaAt != 0")
	}
}

func TestPixmapClear(t *testing.T) {
	p := NewPixmap(3, 2)
	p.Clear(RGB(0, 1, 0))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			c := p.GetPixel(x, y)
			if c.G != 1 || c.A != 1 {
				t.Fatalf("pixel (%d,%d) = %+v", x, y, c)
			}
		}
	}

	a := NewAlphaPixmap(3, 2)
	a.Clear(RGBA2(0, 0, 0, 0.5))
	if v := a.AlphaAt(1, 1); v != 127 && v != 128 {
		t.Errorf("alpha clear = %d, want ~127", v)
	}
}

func TestImageViewsShareMemory(t *testing.T) {
	p := NewPixmap(4, 4)
	img, err := p.RGBAImage()
	if err != nil {
		t.Fatalf("RGBAImage: %v", err)
	}
	img.SetRGBA(1, 1, color.RGBA{R: 255, A: 255})
	if got := p.GetPixel(1, 1); got.R != 1 || got.A != 1 {
		t.Errorf("write through image view not visible: %+v", got)
	}

	if _, err := p.AlphaImage(); !errors.Is(err, ErrConvertFailed) {
		t.Errorf("AlphaImage on RGBA: err = %v, want ErrConvertFailed", err)
	}

	a := NewAlphaPixmap(4, 4)
	if _, err := a.RGBAImage(); !errors.Is(err, ErrConvertFailed) {
		t.Errorf("RGBAImage on alpha: err = %v, want ErrConvertFailed", err)
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{G: 255, A: 127})

	p, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if p.Width() != 2 || p.Height() != 2 {
		t.Fatalf("dims = %dx%d", p.Width(), p.Height())
	}
	if c := p.GetPixel(0, 0); c.R != 1 || c.A != 1 {
		t.Errorf("pixel (0,0) = %+v", c)
	}
	if c := p.GetPixel(1, 1); math.Abs(c.A-0.5) > 0.01 {
		t.Errorf("pixel (1,1) alpha = %v, want ~0.5", c.A)
	}

	if _, err := FromImage(nil); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("nil image: err = %v, want ErrInvalidHandle", err)
	}
}

func TestToImageAlphaExpansion(t *testing.T) {
	a := NewAlphaPixmap(2, 1)
	a.SetAlpha(0, 0, 255)
	a.SetAlpha(1, 0, 100)

	img := a.ToImage()
	if img.Pix[0] != 255 || img.Pix[3] != 255 {
		t.Errorf("opaque mask pixel = %v", img.Pix[0:4])
	}
	// Premultiplied white: all channels carry the mask value.
	if img.Pix[4] != 100 || img.Pix[7] != 100 {
		t.Errorf("partial mask pixel = %v", img.Pix[4:8])
	}
}

func TestExtractChannel(t *testing.T) {
	p := NewPixmap(2, 1)
	p.SetPixel(0, 0, RGB(1, 0, 0))
	p.SetPixel(1, 0, RGBA2(0, 1, 0, 0.5))

	t.Run("alpha", func(t *testing.T) {
		m, err := p.ExtractChannel(ChannelAlpha)
		if err != nil {
			t.Fatalf("ExtractChannel: %v", err)
		}
		if m.Format() != FormatAlpha {
			t.Fatalf("format = %v", m.Format())
		}
		if m.AlphaAt(0, 0) != 255 {
			t.Errorf("alpha (0,0) = %d", m.AlphaAt(0, 0))
		}
		if v := m.AlphaAt(1, 0); v < 126 || v > 128 {
			t.Errorf("alpha (1,0) = %d, want ~127", v)
		}
	})

	t.Run("luma", func(t *testing.T) {
		g := NewPixmap(1, 1)
		g.SetPixel(0, 0, RGB(0, 1, 0))
		m, err := g.ExtractChannel(ChannelLuma)
		if err != nil {
			t.Fatalf("ExtractChannel: %v", err)
		}
		// (54*0 + 183*255 + 19*0) >> 8 = 182
		if v := m.AlphaAt(0, 0); v != 182 {
			t.Errorf("green luma = %d, want 182", v)
		}
	})

	t.Run("red", func(t *testing.T) {
		m, err := p.ExtractChannel(ChannelRed)
		if err != nil {
			t.Fatalf("ExtractChannel: %v", err)
		}
		if m.AlphaAt(0, 0) != 255 {
			t.Errorf("red (0,0) = %d", m.AlphaAt(0, 0))
		}
	})

	t.Run("errors", func(t *testing.T) {
		a := NewAlphaPixmap(1, 1)
		if _, err := a.ExtractChannel(ChannelRed); !errors.Is(err, ErrConvertFailed) {
			t.Errorf("red from alpha: err = %v, want ErrConvertFailed", err)
		}
		if got, err := a.ExtractChannel(ChannelAlpha); err != nil || got == a {
			t.Errorf("alpha from alpha should clone: %v, %v", got, err)
		}
		if _, err := p.ExtractChannel(Channel(99)); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("unknown channel: err = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestColorize(t *testing.T) {
	a := NewAlphaPixmap(2, 1)
	a.SetAlpha(0, 0, 255)
	a.SetAlpha(1, 0, 0)

	out, err := a.Colorize(RGB(1, 0, 0))
	if err != nil {
		t.Fatalf("Colorize: %v", err)
	}
	if c := out.GetPixel(0, 0); c.R != 1 || c.A != 1 {
		t.Errorf("full mask = %+v", c)
	}
	if c := out.GetPixel(1, 0); c != Transparent {
		t.Errorf("zero mask = %+v", c)
	}

	p := NewPixmap(1, 1)
	if _, err := p.Colorize(Black); !errors.Is(err, ErrConvertFailed) {
		t.Errorf("colorize RGBA: err = %v, want ErrConvertFailed", err)
	}
}

func TestResize(t *testing.T) {
	p := NewPixmap(8, 8)
	p.Clear(RGB(0, 0, 1))

	out, err := p.Resize(4, 2)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if out.Width() != 4 || out.Height() != 2 || out.Format() != FormatRGBA {
		t.Fatalf("resized to %dx%d %v", out.Width(), out.Height(), out.Format())
	}
	// Constant image survives interpolation.
	if c := out.GetPixel(2, 1); c.B != 1 || c.A != 1 {
		t.Errorf("resized pixel = %+v", c)
	}

	if _, err := p.Resize(0, 4); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero width: err = %v, want ErrInvalidArgument", err)
	}
}

func TestPNGRoundTrip(t *testing.T) {
	p := NewPixmap(3, 3)
	p.SetPixel(1, 1, RGB(1, 0, 0))

	path := filepath.Join(t.TempDir(), "out.png")
	if err := p.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	back, err := LoadPNG(path)
	if err != nil {
		t.Fatalf("LoadPNG: %v", err)
	}
	if back.Width() != 3 || back.Height() != 3 {
		t.Fatalf("dims = %dx%d", back.Width(), back.Height())
	}
	if c := back.GetPixel(1, 1); c.R != 1 || c.A != 1 {
		t.Errorf("pixel (1,1) = %+v", c)
	}

	if _, err := LoadPNG(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("missing file: want error")
	}
}
