package text

import (
	"log/slog"
	"strings"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/shape"
	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
)

const unknownStr = "unknown"

// Justify is the horizontal alignment of a text document.
type Justify int

const (
	// JustifyLeft starts lines at the origin (default).
	JustifyLeft Justify = document.JustifyLeft
	// JustifyRight ends lines at the origin.
	JustifyRight Justify = document.JustifyRight
	// JustifyCenter centers lines on the origin.
	JustifyCenter Justify = document.JustifyCenter
)

// String returns the string representation of the justification.
func (j Justify) String() string {
	switch j {
	case JustifyLeft:
		return "left"
	case JustifyRight:
		return "right"
	case JustifyCenter:
		return "center"
	default:
		return unknownStr
	}
}

// Caps values of text documents.
const (
	capsAll   = 1
	capsSmall = 2
)

// DefaultLineHeight is the line height, relative to the font size, of
// documents that do not set one.
const DefaultLineHeight = 1.2

type charKey struct {
	ch, family, style string
}

// charGlyph is an embedded glyph, authored at size.
type charGlyph struct {
	paths []*shape.Path
	size  float64
	width float64
}

// placedGlyph is a glyph outline positioned on a line.
type placedGlyph struct {
	paths []*shape.Path
	scale float64
	x, y  float64
}

// Engine lays out the text documents of one animation. It resolves each
// document font once and caches glyph outlines.
//
// Engine is not safe for concurrent use.
type Engine struct {
	doc   *document.Animation
	fonts FontResolver
	log   *slog.Logger

	shaper   *Shaper
	outlines *OutlineCache
	sources  map[string]*FontSource
	chars    map[charKey]*charGlyph
	families map[string]bool
	missing  map[charKey]bool
	upper    cases.Caser
}

// NewEngine indexes the embedded characters of doc. fonts may be nil, in
// which case every font without embedded characters falls back to Go
// Regular.
func NewEngine(doc *document.Animation, fonts FontResolver, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		doc:      doc,
		fonts:    fonts,
		log:      log,
		shaper:   NewShaper(),
		outlines: NewOutlineCache(0),
		sources:  make(map[string]*FontSource),
		chars:    make(map[charKey]*charGlyph),
		families: make(map[string]bool),
		missing:  make(map[charKey]bool),
		upper:    cases.Upper(xlanguage.Und),
	}
	if doc != nil {
		for _, ch := range doc.Chars {
			if ch == nil {
				continue
			}
			g := &charGlyph{size: ch.Size, width: ch.Width}
			if g.size <= 0 {
				g.size = 100
			}
			if ch.Data != nil {
				g.paths = collectPaths(g.paths, ch.Data.Shapes)
			}
			e.chars[charKey{ch: ch.Ch, family: ch.Family, style: ch.Style}] = g
			e.families[ch.Family+"\x00"+ch.Style] = true
		}
	}
	return e
}

// collectPaths gathers the path items of an embedded glyph. Glyph shapes
// are static; animated ones contribute their first keyframe.
func collectPaths(dst []*shape.Path, items []*document.ShapeItem) []*shape.Path {
	for _, item := range items {
		if item == nil || item.Hidden {
			continue
		}
		switch item.Type {
		case document.ShapeGroup:
			if item.Group != nil {
				dst = collectPaths(dst, item.Group.Items)
			}
		case document.ShapePath:
			if item.Path == nil || item.Path.Data == nil {
				continue
			}
			data := item.Path.Data.Static
			if data == nil && len(item.Path.Data.Keyframes) > 0 {
				data = item.Path.Data.Keyframes[0].Start()
			}
			if data == nil {
				continue
			}
			p := shape.NewPath(len(data.Vertices))
			property.FillPath(p, data)
			dst = append(dst, p)
		}
	}
	return dst
}

// fontRef is the resolved glyph source of one document.
type fontRef struct {
	family, style string
	embedded      bool
	src           *FontSource
	ascent        float64 // fraction of the font size
}

func (e *Engine) resolve(name string) (*fontRef, error) {
	ref := &fontRef{family: name, ascent: 0.75}
	var f *document.Font
	if e.doc != nil {
		f = e.doc.Font(name)
	}
	if f != nil {
		ref.family, ref.style = f.Family, f.Style
		if f.Ascent > 0 {
			ref.ascent = f.Ascent / 100
		}
	}
	if e.families[ref.family+"\x00"+ref.style] {
		ref.embedded = true
		return ref, nil
	}
	if src, ok := e.sources[name]; ok {
		ref.src = src
		return ref, nil
	}
	src, err := e.load(name, f)
	if err != nil {
		return nil, err
	}
	e.sources[name] = src
	ref.src = src
	return ref, nil
}

func (e *Engine) load(name string, f *document.Font) (*FontSource, error) {
	if e.fonts != nil && f != nil {
		data, err := e.fonts.ResolveFont(f)
		if err == nil {
			src, perr := NewFontSource(name, data)
			if perr == nil {
				e.log.Info("text: font loaded", "font", name, "family", f.Family)
				return src, nil
			}
			err = perr
		}
		e.log.Warn("text: font unavailable, using fallback", "font", name, "err", err)
	}
	src, err := Default()
	if err != nil {
		return nil, &FontError{Font: name, Err: ErrNoFont}
	}
	return src, nil
}

// Layout appends the glyph contours of d to dst as pooled paths in layer
// space. The first baseline of point text sits at the origin; box text
// starts at the top of its box.
func (e *Engine) Layout(ctx *property.Context, d *document.TextDocument, dst *shape.Collection) error {
	if d == nil || d.Text == "" || d.Size <= 0 {
		return nil
	}
	ref, err := e.resolve(d.Font)
	if err != nil {
		return err
	}

	s := e.content(d)
	size := d.Size
	tracking := d.Tracking / 1000 * size
	lineHeight := d.LineHeight
	if lineHeight <= 0 {
		lineHeight = size * DefaultLineHeight
	}

	var origin geom.Point
	boxWidth := -1.0
	if len(d.BoxSize) >= 2 {
		boxWidth = d.BoxSize[0]
		if len(d.BoxPosition) >= 2 {
			origin = geom.Pt(d.BoxPosition[0], d.BoxPosition[1])
		}
		origin.Y += ref.ascent * size
	}

	lines := splitLines(s)
	if boxWidth >= 0 {
		lines = e.wrap(lines, ref, size, tracking, boxWidth)
	}

	for i, line := range lines {
		glyphs, width := e.place(line, ref, size, tracking)
		x := origin.X
		switch Justify(d.Justify) {
		case JustifyRight:
			if boxWidth >= 0 {
				x += boxWidth - width
			} else {
				x -= width
			}
		case JustifyCenter:
			if boxWidth >= 0 {
				x += (boxWidth - width) / 2
			} else {
				x -= width / 2
			}
		}
		y := origin.Y + float64(i)*lineHeight - d.BaselineShift
		for _, g := range glyphs {
			m := geom.Identity()
			if g.scale != 1 {
				m.Scale(g.scale, g.scale, 1)
			}
			m.Translate(x+g.x, y+g.y, 0)
			for _, p := range g.paths {
				out := ctx.Pools.Paths.Acquire()
				p.TransformInto(&m, out)
				dst.AddOwned(out)
			}
		}
	}
	return nil
}

// place positions the glyphs of one line and returns them with the line
// width.
func (e *Engine) place(line string, ref *fontRef, size, tracking float64) ([]placedGlyph, float64) {
	var glyphs []placedGlyph
	pen := 0.0
	for _, seg := range Segments(line) {
		runes := []rune(seg.Text)
		if ref.embedded {
			if seg.RTL {
				reverse(runes)
			}
			for _, r := range runes {
				key := charKey{ch: string(r), family: ref.family, style: ref.style}
				g, ok := e.chars[key]
				if !ok {
					if !e.missing[key] {
						e.missing[key] = true
						e.log.Warn("text: character missing from embedded font", "char", string(r), "family", ref.family)
					}
					continue
				}
				scale := size / g.size
				glyphs = append(glyphs, placedGlyph{paths: g.paths, scale: scale, x: pen})
				pen += g.width*scale + tracking
			}
			continue
		}
		for _, sg := range e.shaper.Shape(runes, ref.src, size, seg.RTL) {
			paths, err := e.outlines.Outline(ref.src, sg.GID, size)
			if err != nil {
				e.log.Debug("text: glyph has no outline", "gid", sg.GID, "err", err)
			}
			glyphs = append(glyphs, placedGlyph{paths: paths, scale: 1, x: pen + sg.X, y: sg.Y})
			pen += sg.Advance + tracking
		}
	}
	if len(glyphs) > 0 {
		pen -= tracking
	}
	return glyphs, pen
}

// wrap breaks lines at spaces so that each fits within width. A single
// word wider than the box gets a line of its own.
func (e *Engine) wrap(lines []string, ref *fontRef, size, tracking, width float64) []string {
	var out []string
	for _, line := range lines {
		words := strings.Split(line, " ")
		cur := ""
		for i, w := range words {
			if i == 0 {
				cur = w
				continue
			}
			candidate := cur + " " + w
			if _, cw := e.place(candidate, ref, size, tracking); cw > width && cur != "" {
				out = append(out, cur)
				cur = w
				continue
			}
			cur = candidate
		}
		out = append(out, cur)
	}
	return out
}

// Measure returns the width of the widest line of d without building any
// geometry.
func (e *Engine) Measure(d *document.TextDocument) (float64, error) {
	if d == nil || d.Size <= 0 {
		return 0, nil
	}
	ref, err := e.resolve(d.Font)
	if err != nil {
		return 0, err
	}
	widest := 0.0
	for _, line := range splitLines(e.content(d)) {
		if _, w := e.place(line, ref, d.Size, d.Tracking/1000*d.Size); w > widest {
			widest = w
		}
	}
	return widest, nil
}

// content returns the document text with its caps setting applied. Small
// caps are rendered as full capitals.
func (e *Engine) content(d *document.TextDocument) string {
	if d.Caps == capsAll || d.Caps == capsSmall {
		return e.upper.String(d.Text)
	}
	return d.Text
}

func reverse(r []rune) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}
