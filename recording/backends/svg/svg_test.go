package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/recording"
	"github.com/gogpu/lottie/scene"
	"github.com/gogpu/lottie/shape"
)

func rect(w, h float64) *shape.Collection {
	p := shape.NewPath(4)
	shape.BuildRect(p, geom.Pt(w/2, h/2), geom.Pt(w, h), 0, false)
	c := shape.NewCollection()
	c.Add(p)
	return c
}

func translated(x, y float64) geom.Matrix {
	m := geom.Identity()
	m.Translate(x, y, 0)
	return m
}

// wellFormed fails the test when doc is not parseable XML.
func wellFormed(t *testing.T, doc []byte) {
	t.Helper()
	d := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, doc)
		}
	}
}

func play(t *testing.T, frame *scene.Frame) string {
	t.Helper()
	b := New()
	if err := recording.NewRecorder(0, 0).Record(frame).Playback(b); err != nil {
		t.Fatalf("Playback: %v", err)
	}
	wellFormed(t, b.Bytes())
	return string(b.Bytes())
}

func TestRegistered(t *testing.T) {
	b, err := recording.NewBackend("svg")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if _, ok := b.(*Backend); !ok {
		t.Errorf("NewBackend(svg) = %T", b)
	}
}

func TestFillAndStroke(t *testing.T) {
	fill := &scene.Style{Kind: scene.StyleFill, Color: scene.Color{R: 1, A: 1}, Opacity: 0.5,
		FillRule: scene.FillEvenOdd, Paths: rect(10, 20), Matrix: geom.Identity()}
	stroke := &scene.Style{Kind: scene.StyleStroke, Color: scene.Black, Opacity: 1, Width: 2,
		Cap: scene.CapRound, Join: scene.JoinMiter, Miter: 4, Dashes: []float64{3, 1}, DashOffset: 1,
		Paths: rect(10, 20), Matrix: geom.Identity()}
	out := play(t, &scene.Frame{Width: 64, Height: 32, Layers: []*scene.LayerFrame{
		{Kind: scene.LayerShape, Matrix: translated(5, 6), Opacity: 1, Styles: []*scene.Style{fill, stroke}},
	}})

	for _, want := range []string{
		`width="64" height="32" viewBox="0 0 64 32"`,
		`d="M10 0C10 0 10 20 10 20C10 20 0 20 0 20C0 20 0 0 0 0C0 0 10 0 10 0Z"`,
		`transform="matrix(1 0 0 1 5 6)"`,
		`fill="#ff0000" fill-opacity="0.5" fill-rule="evenodd"`,
		`fill="none" stroke="#000000" stroke-opacity="1" stroke-width="2" stroke-linecap="round" stroke-miterlimit="4" stroke-dasharray="3 1" stroke-dashoffset="1"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %s\n%s", want, out)
		}
	}
}

func TestOpacityGroupsAndMasks(t *testing.T) {
	maskPath := rect(4, 4).Path(0)
	lf := &scene.LayerFrame{Kind: scene.LayerShape, Matrix: geom.Identity(), Opacity: 0.25,
		Masks: []*scene.MaskFrame{{Mode: scene.MaskSubtract, Opacity: 1, Path: maskPath}},
		Styles: []*scene.Style{{Kind: scene.StyleFill, Color: scene.Black, Opacity: 1,
			Paths: rect(8, 8), Matrix: geom.Identity()}}}
	out := play(t, &scene.Frame{Width: 8, Height: 8, Layers: []*scene.LayerFrame{lf}})

	for _, want := range []string{
		`<g opacity="0.25">`,
		`<mask id="mask1"`,
		`fill="#000000" fill-opacity="1"/>`,
		`<g mask="url(#mask1)">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %s\n%s", want, out)
		}
	}
	if o, c := strings.Count(out, "<g "), strings.Count(out, "</g>"); o != c {
		t.Errorf("%d groups opened, %d closed", o, c)
	}
}

func TestMatte(t *testing.T) {
	src := &scene.LayerFrame{Index: 0, Kind: scene.LayerShape, Matrix: geom.Identity(), Opacity: 1, MatteSource: true,
		Styles: []*scene.Style{{Kind: scene.StyleFill, Color: scene.Color{G: 1, A: 1}, Opacity: 1,
			Paths: rect(2, 2), Matrix: geom.Identity()}}}
	tests := []struct {
		mode scene.MatteMode
		want []string
	}{
		{scene.MatteAlpha, []string{`mask-type="alpha"`, `<g mask="url(#matte1)">`}},
		{scene.MatteLumaInverted, []string{`mask-type="luminance"`, `<feColorMatrix`, `filter="url(#invert2)"`}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			target := &scene.LayerFrame{Index: 1, Kind: scene.LayerShape, Matrix: geom.Identity(), Opacity: 1,
				Matte: &scene.Matte{Mode: tt.mode, Source: 0},
				Styles: []*scene.Style{{Kind: scene.StyleFill, Color: scene.Black, Opacity: 1,
					Paths: rect(8, 8), Matrix: geom.Identity()}}}
			out := play(t, &scene.Frame{Width: 8, Height: 8, Layers: []*scene.LayerFrame{target, src}})
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output lacks %s\n%s", want, out)
				}
			}
			// The matte content lives in defs only.
			body := out[strings.Index(out, "</defs>"):]
			if strings.Contains(body, "#00ff00") {
				t.Errorf("matte source drawn in the body\n%s", out)
			}
		})
	}
}

func TestGradientAndImage(t *testing.T) {
	grad := &scene.Style{Kind: scene.StyleGradientFill, Opacity: 1, Paths: rect(4, 4), Matrix: geom.Identity(),
		Gradient: &scene.Gradient{Type: scene.GradientLinear, Start: geom.Pt(0, 0), End: geom.Pt(4, 0),
			Stops: []scene.GradientStop{{Offset: 0, Color: scene.Black}, {Offset: 1, Color: scene.Color{B: 1, A: 1}}}}}
	b := New()
	b.ResolveImage = func(id string) string { return "images/" + id + ".png?a=1&b=2" }
	rec := recording.NewRecorder(0, 0).Record(&scene.Frame{Width: 4, Height: 4, Layers: []*scene.LayerFrame{
		{Kind: scene.LayerShape, Matrix: geom.Identity(), Opacity: 1, Styles: []*scene.Style{grad}},
		{Kind: scene.LayerImage, Matrix: geom.Identity(), Opacity: 1, AssetID: "img_0", Size: geom.Pt(4, 2)},
	}})
	if err := rec.Playback(b); err != nil {
		t.Fatal(err)
	}
	wellFormed(t, b.Bytes())
	out := string(b.Bytes())
	for _, want := range []string{
		`<linearGradient id="grad1" gradientUnits="userSpaceOnUse" x1="0" y1="0" x2="4" y2="0">`,
		`<stop offset="1" stop-color="#0000ff" stop-opacity="1"/>`,
		`fill="url(#grad1)"`,
		`<image xlink:href="images/img_0.png?a=1&amp;b=2" width="4" height="2"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %s\n%s", want, out)
		}
	}
}

func TestBeginRejectsEmptyCanvas(t *testing.T) {
	if err := New().Begin(0, 10); err == nil {
		t.Error("Begin(0, 10) succeeded")
	}
}

func TestSaveToFile(t *testing.T) {
	b := New()
	if err := b.Begin(2, 2); err != nil {
		t.Fatal(err)
	}
	b.PopMask()
	b.Restore()
	if err := b.End(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := b.SaveToFile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	wellFormed(t, data)
	var buf bytes.Buffer
	if n, err := b.WriteTo(&buf); err != nil || n != int64(len(data)) {
		t.Errorf("WriteTo = %d, %v", n, err)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"}, {-0.0001, "0"}, {1.5, "1.5"}, {2.0004, "2"}, {-3.14159, "-3.142"}, {100, "100"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
