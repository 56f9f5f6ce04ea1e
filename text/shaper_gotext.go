package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// ShapedGlyph is a positioned glyph in pixels. Y grows downward, the
// baseline is at zero.
type ShapedGlyph struct {
	GID     uint16
	Cluster int // rune index in the shaped run
	X, Y    float64
	Advance float64
}

// Shaper provides HarfBuzz-level shaping using go-text/typesetting:
// ligatures, kerning, contextual alternates and right-to-left scripts.
//
// Shaper is safe for concurrent use. HarfbuzzShaper instances are not, so
// they are pooled; the parsed font.Font of each source is shared and a
// lightweight font.Face is created per call.
type Shaper struct {
	shaperPool sync.Pool
}

// NewShaper creates a Shaper.
func NewShaper() *Shaper {
	return &Shaper{
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// Shape converts a run of runes with one direction into positioned glyphs
// in visual order.
func (s *Shaper) Shape(runes []rune, src *FontSource, size float64, rtl bool) []ShapedGlyph {
	if len(runes) == 0 || src == nil {
		return nil
	}
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(src.shaping),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.shaperPool.Put(hb)

	return convertGlyphs(output.Glyphs)
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// convertGlyphs turns shaper output into pen positions. Shaper offsets are
// y-up; ShapedGlyph is y-down.
func convertGlyphs(glyphs []shaping.Glyph) []ShapedGlyph {
	if len(glyphs) == 0 {
		return nil
	}
	result := make([]ShapedGlyph, len(glyphs))
	var x float64
	for i, g := range glyphs {
		adv := fixedToFloat(g.Advance)
		result[i] = ShapedGlyph{
			GID:     uint16(g.GlyphID), //nolint:gosec // sfnt glyph indices are 16-bit
			Cluster: g.TextIndex(),
			X:       x + fixedToFloat(g.XOffset),
			Y:       -fixedToFloat(g.YOffset),
			Advance: adv,
		}
		x += adv
	}
	return result
}
