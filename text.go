package ink

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// Font is a parsed OpenType font ready for shaping and outline
// extraction. The underlying parsed font is read-only and safe for
// concurrent use; shaping state is pooled internally.
type Font struct {
	fnt *font.Font
}

// LoadFont parses TTF or OTF font data.
func LoadFont(data []byte) (*Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse font: %v", ErrInvalidArgument, err)
	}
	return &Font{fnt: face.Font}, nil
}

// LoadFontFile parses a TTF or OTF font from a file.
func LoadFontFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", path, err)
	}
	return LoadFont(data)
}

// shaperPool pools HarfbuzzShaper instances; they carry mutable buffer
// state and are not safe for concurrent use.
var shaperPool = sync.Pool{
	New: func() any { return &shaping.HarfbuzzShaper{} },
}

// TextPath converts a string to a path of glyph outlines, shaped with
// HarfBuzz (kerning, ligatures, script-specific forms). The pen starts
// at (x, y) on the baseline; the run direction follows the text's base
// direction. Each glyph outline becomes one or more closed subpaths in
// canvas coordinates (y down).
func (f *Font) TextPath(text string, size, x, y float64) (*Path, error) {
	if f == nil || f.fnt == nil {
		return nil, fmt.Errorf("%w: nil font", ErrInvalidHandle)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %v must be > 0", ErrInvalidArgument, size)
	}

	dst := NewPath()
	if text == "" {
		return dst, nil
	}

	face := font.NewFace(f.fnt)
	out := shapeRun(face, text, size)

	scale := size / float64(face.Upem())
	penX, penY := x, y

	for _, g := range out.Glyphs {
		gx := penX + fixedToFloat(g.XOffset)
		gy := penY - fixedToFloat(g.YOffset)
		appendGlyphOutline(dst, face, g.GlyphID, scale, gx, gy)
		penX += fixedToFloat(g.Advance)
	}
	return dst, nil
}

// MeasureText returns the advance width of the shaped text at the
// given size.
func (f *Font) MeasureText(text string, size float64) (float64, error) {
	if f == nil || f.fnt == nil {
		return 0, fmt.Errorf("%w: nil font", ErrInvalidHandle)
	}
	if size <= 0 {
		return 0, fmt.Errorf("%w: size %v must be > 0", ErrInvalidArgument, size)
	}
	if text == "" {
		return 0, nil
	}

	out := shapeRun(font.NewFace(f.fnt), text, size)
	var w fixed.Int26_6
	for _, g := range out.Glyphs {
		w += g.Advance
	}
	return fixedToFloat(w), nil
}

// shapeRun shapes a single run with a pooled shaper. The whole string
// shapes as one run in its base direction; split mixed-direction text
// into runs before shaping for full fidelity.
func shapeRun(face *font.Face, text string, size float64) shaping.Output {
	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: detectDirection(text),
		Face:      face,
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	shaper := shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := shaper.Shape(input)
	shaperPool.Put(shaper)
	return out
}

// detectDirection resolves the base direction of the text with the
// Unicode bidi algorithm.
func detectDirection(text string) di.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return di.DirectionLTR
	}
	if p.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune. Mixed
// scripts shape per the dominant run; split runs by script for full
// fidelity.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// appendGlyphOutline appends one glyph's outline segments to dst.
// Font units are y-up; canvas coordinates are y-down, so Y flips.
func appendGlyphOutline(dst *Path, face *font.Face, gid font.GID, scale, x, y float64) {
	outline, ok := face.GlyphData(gid).(font.GlyphOutline)
	if !ok {
		Logger().Warn("ink: glyph has no outline data, skipping", "glyph", gid)
		return
	}
	if len(outline.Segments) == 0 {
		return
	}

	open := false
	for _, s := range outline.Segments {
		p0x := float64(s.Args[0].X)*scale + x
		p0y := -float64(s.Args[0].Y)*scale + y
		switch s.Op {
		case opentype.SegmentOpMoveTo:
			if open {
				dst.Close()
			}
			dst.MoveTo(p0x, p0y)
			open = true
		case opentype.SegmentOpLineTo:
			dst.LineTo(p0x, p0y)
		case opentype.SegmentOpQuadTo:
			dst.QuadraticTo(p0x, p0y,
				float64(s.Args[1].X)*scale+x, -float64(s.Args[1].Y)*scale+y)
		case opentype.SegmentOpCubeTo:
			dst.CubicTo(p0x, p0y,
				float64(s.Args[1].X)*scale+x, -float64(s.Args[1].Y)*scale+y,
				float64(s.Args[2].X)*scale+x, -float64(s.Args[2].Y)*scale+y)
		}
	}
	if open {
		dst.Close()
	}
}

// fixedToFloat converts a 26.6 fixed-point value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
