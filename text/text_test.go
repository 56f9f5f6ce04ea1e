package text

import (
	"math"
	"testing"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/shape"
)

// glyphDoc embeds an "A" drawn as a 50x70 box above the baseline and an
// empty space, both authored at size 100.
func glyphDoc() *document.Animation {
	box := &document.ShapeItem{
		Type: document.ShapePath,
		Path: &document.PathShape{Data: &document.AnimatedShape{Static: &document.ShapeData{
			Closed:   true,
			Vertices: [][2]float64{{0, -70}, {50, -70}, {50, 0}, {0, 0}},
		}}},
	}
	return &document.Animation{
		Fonts: &document.FontList{List: []document.Font{
			{Name: "Box-Regular", Family: "Box", Style: "Regular", Ascent: 80},
		}},
		Chars: []*document.Char{
			{Ch: "A", Size: 100, Width: 50, Family: "Box", Style: "Regular", Data: &document.CharData{
				Shapes: []*document.ShapeItem{{Type: document.ShapeGroup, Group: &document.Group{Items: []*document.ShapeItem{box}}}},
			}},
			{Ch: " ", Size: 100, Width: 20, Family: "Box", Style: "Regular"},
		},
	}
}

func layout(t *testing.T, e *Engine, d *document.TextDocument) *shape.Collection {
	t.Helper()
	ctx := property.NewContext(nil, nil)
	c := ctx.Pools.Collections.Acquire()
	if err := e.Layout(ctx, d, c); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return c
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestSplitLines(t *testing.T) {
	got := splitLines("a\rb\nc\r\nd\x03e")
	want := []string{"a", "b", "c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("splitLines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantRTL bool
	}{
		{"latin", "hello", false},
		{"hebrew", "שלום", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Segments(tt.line)
			if len(segs) != 1 {
				t.Fatalf("Segments(%q) = %+v, want one run", tt.line, segs)
			}
			if segs[0].RTL != tt.wantRTL {
				t.Errorf("RTL = %v, want %v", segs[0].RTL, tt.wantRTL)
			}
		})
	}
	if segs := Segments(""); segs != nil {
		t.Errorf("Segments(\"\") = %+v, want nil", segs)
	}
}

func TestEmbeddedLayout(t *testing.T) {
	tests := []struct {
		name     string
		doc      document.TextDocument
		wantMinX []float64
		wantMaxY []float64
	}{
		{
			name:     "left",
			doc:      document.TextDocument{Text: "AA", Font: "Box-Regular", Size: 50},
			wantMinX: []float64{0, 25},
			wantMaxY: []float64{0, 0},
		},
		{
			name:     "center",
			doc:      document.TextDocument{Text: "AA", Font: "Box-Regular", Size: 50, Justify: document.JustifyCenter},
			wantMinX: []float64{-25, 0},
			wantMaxY: []float64{0, 0},
		},
		{
			name:     "right",
			doc:      document.TextDocument{Text: "AA", Font: "Box-Regular", Size: 50, Justify: document.JustifyRight},
			wantMinX: []float64{-50, -25},
			wantMaxY: []float64{0, 0},
		},
		{
			name:     "tracking",
			doc:      document.TextDocument{Text: "AA", Font: "Box-Regular", Size: 50, Tracking: 100},
			wantMinX: []float64{0, 30},
			wantMaxY: []float64{0, 0},
		},
		{
			name:     "lines",
			doc:      document.TextDocument{Text: "A\rA", Font: "Box-Regular", Size: 50, LineHeight: 60},
			wantMinX: []float64{0, 0},
			wantMaxY: []float64{0, 60},
		},
		{
			name:     "baseline shift",
			doc:      document.TextDocument{Text: "A", Font: "Box-Regular", Size: 50, BaselineShift: 10},
			wantMinX: []float64{0},
			wantMaxY: []float64{-10},
		},
		{
			name:     "box wraps at spaces",
			doc:      document.TextDocument{Text: "AA AA", Font: "Box-Regular", Size: 50, BoxSize: []float64{60, 200}, BoxPosition: []float64{0, 0}},
			wantMinX: []float64{0, 25, 0, 25},
			wantMaxY: []float64{40, 40, 100, 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(glyphDoc(), nil, nil)
			c := layout(t, e, &tt.doc)
			if c.Len() != len(tt.wantMinX) {
				t.Fatalf("got %d paths, want %d", c.Len(), len(tt.wantMinX))
			}
			for i, p := range c.Paths() {
				b := p.Bounds()
				if !approx(b.Min.X, tt.wantMinX[i]) || !approx(b.Max.Y, tt.wantMaxY[i]) {
					t.Errorf("glyph %d bounds = %+v, want min x %v max y %v", i, b, tt.wantMinX[i], tt.wantMaxY[i])
				}
				if !approx(b.Width(), 25) || !approx(b.Height(), 35) {
					t.Errorf("glyph %d size = %vx%v, want 25x35", i, b.Width(), b.Height())
				}
			}
		})
	}
}

func TestEmbeddedMissingCharacter(t *testing.T) {
	e := NewEngine(glyphDoc(), nil, nil)
	c := layout(t, e, &document.TextDocument{Text: "AZA", Font: "Box-Regular", Size: 100})
	if c.Len() != 2 {
		t.Fatalf("got %d paths, want 2", c.Len())
	}
	if b := c.Path(1).Bounds(); !approx(b.Min.X, 50) {
		t.Errorf("second glyph starts at %v, want 50", b.Min.X)
	}
	if !e.missing[charKey{ch: "Z", family: "Box", style: "Regular"}] {
		t.Error("missing character not recorded")
	}
}

func TestCaps(t *testing.T) {
	e := NewEngine(glyphDoc(), nil, nil)
	c := layout(t, e, &document.TextDocument{Text: "aa", Font: "Box-Regular", Size: 100, Caps: 1})
	if c.Len() != 2 {
		t.Errorf("all caps: got %d paths, want 2", c.Len())
	}
}

func TestMeasure(t *testing.T) {
	e := NewEngine(glyphDoc(), nil, nil)
	w, err := e.Measure(&document.TextDocument{Text: "A A\rA", Font: "Box-Regular", Size: 100})
	if err != nil {
		t.Fatal(err)
	}
	if !approx(w, 120) {
		t.Errorf("Measure = %v, want 120", w)
	}
}

func TestDefaultFontOutline(t *testing.T) {
	src, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	glyphs := NewShaper().Shape([]rune("H"), src, 40, false)
	if len(glyphs) != 1 {
		t.Fatalf("Shape(H) = %d glyphs, want 1", len(glyphs))
	}
	if glyphs[0].Advance <= 0 {
		t.Errorf("advance = %v, want > 0", glyphs[0].Advance)
	}
	cache := NewOutlineCache(0)
	paths, err := cache.Outline(src, glyphs[0].GID, 40)
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("H has no contours")
	}
	for i, p := range paths {
		if !p.Closed() {
			t.Errorf("contour %d is open", i)
		}
		b := p.Bounds()
		if b.Min.Y >= 0 || b.Max.Y > 1 {
			t.Errorf("contour %d bounds %+v, want above the baseline", i, b)
		}
	}
	if _, err := cache.Outline(src, glyphs[0].GID, 40); err != nil || cache.Len() != 1 {
		t.Errorf("second lookup: err %v, cached %d", err, cache.Len())
	}
	if st := cache.Stats(); st.Hits != 1 || st.Misses != 1 {
		t.Errorf("stats = %+v, want one hit and one miss", st)
	}
}

func TestFallbackFont(t *testing.T) {
	resolved := 0
	fonts := FontResolverFunc(func(*document.Font) ([]byte, error) {
		resolved++
		return nil, ErrEmptyFontData
	})
	doc := &document.Animation{Fonts: &document.FontList{List: []document.Font{{Name: "Sans", Family: "Sans"}}}}
	e := NewEngine(doc, fonts, nil)
	d := &document.TextDocument{Text: "Hi", Font: "Sans", Size: 30}
	c := layout(t, e, d)
	if c.Len() == 0 {
		t.Fatal("fallback font produced no geometry")
	}
	layout(t, e, d)
	if resolved != 1 {
		t.Errorf("resolver called %d times, want 1", resolved)
	}
}

func TestSegmentsToPathsQuadratic(t *testing.T) {
	src, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	glyphs := NewShaper().Shape([]rune("O"), src, 100, false)
	paths, err := NewOutlineCache(0).Outline(src, glyphs[0].GID, 100)
	if err != nil {
		t.Fatal(err)
	}
	curved := false
	for _, p := range paths {
		for i := 0; i < p.Len(); i++ {
			if p.Out(i) != (geom.Point{}) {
				curved = true
			}
		}
	}
	if !curved {
		t.Error("O outline has no curve handles")
	}
}
