package recording

import (
	"testing"

	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/scene"
	"github.com/gogpu/lottie/shape"
)

func square(size float64) *shape.Collection {
	p := shape.NewPath(4)
	shape.BuildRect(p, geom.Pt(0, 0), geom.Pt(size, size), 0, false)
	c := shape.NewCollection()
	c.Add(p)
	return c
}

func fillStyle(c scene.Color, paths *shape.Collection) *scene.Style {
	return &scene.Style{Kind: scene.StyleFill, Color: c, Opacity: 1, Paths: paths, Matrix: geom.Identity()}
}

func translated(x, y float64) geom.Matrix {
	m := geom.Identity()
	m.Translate(x, y, 0)
	return m
}

func TestRecordFrame(t *testing.T) {
	red := scene.Color{R: 1, A: 1}
	stroke := &scene.Style{
		Kind: scene.StyleStroke, Color: scene.Black, Opacity: 1, Width: 3,
		Cap: scene.CapRound, Join: scene.JoinBevel, Miter: 4,
		Dashes: []float64{2, 1}, Paths: square(10), Matrix: geom.Identity(),
	}
	frame := &scene.Frame{
		Width: 99.5, Height: 50,
		Layers: []*scene.LayerFrame{
			{Index: 1, Kind: scene.LayerShape, Matrix: translated(10, 20), Opacity: 1,
				Styles: []*scene.Style{fillStyle(red, square(10)), stroke}},
			{Index: 0, Kind: scene.LayerImage, Matrix: geom.Identity(), Opacity: 0.5,
				AssetID: "img", Size: geom.Pt(8, 4)},
		},
	}
	rec := NewRecorder(0, 0).Record(frame)
	if rec.Width() != 100 || rec.Height() != 50 {
		t.Errorf("size = %dx%d, want 100x50", rec.Width(), rec.Height())
	}

	b := newMockBackend("mock")
	if err := rec.Playback(b); err != nil {
		t.Fatalf("Playback: %v", err)
	}
	want := "save; transform 10 20; fill 1; transform 10 20; stroke 1 3; restore; " +
		"save; opacity 0.5; transform 0 0; image img 8x4; restore"
	if got := b.trace(); got != want {
		t.Errorf("trace:\n got %s\nwant %s", got, want)
	}
	if b.beginCalls != 1 || b.endCalls != 1 {
		t.Errorf("begin %d end %d", b.beginCalls, b.endCalls)
	}

	var sc StrokePathCommand
	for _, c := range rec.Commands() {
		if s, ok := c.(StrokePathCommand); ok {
			sc = s
		}
	}
	if sc.Stroke.Cap != LineCapRound || sc.Stroke.Join != LineJoinBevel || len(sc.Stroke.DashPattern) != 2 {
		t.Errorf("stroke = %+v", sc.Stroke)
	}
}

func TestRecordingOutlivesFrame(t *testing.T) {
	paths := square(10)
	frame := &scene.Frame{Width: 10, Height: 10, Layers: []*scene.LayerFrame{
		{Kind: scene.LayerShape, Matrix: geom.Identity(), Opacity: 1,
			Styles: []*scene.Style{fillStyle(scene.Black, paths)}},
	}}
	rec := NewRecorder(0, 0).Record(frame)
	paths.Path(0).SetLength(0)

	if rec.Resources().PathCount() != 1 {
		t.Fatalf("PathCount = %d, want 1", rec.Resources().PathCount())
	}
	if got := rec.Resources().GetPath(0).Len(); got != 4 {
		t.Errorf("recorded path has %d vertices, want 4", got)
	}
}

func TestRecordSkipsInvisibleStyles(t *testing.T) {
	transparent := fillStyle(scene.Black, square(5))
	transparent.Opacity = 0
	thin := &scene.Style{Kind: scene.StyleStroke, Opacity: 1, Paths: square(5), Matrix: geom.Identity()}
	empty := fillStyle(scene.Black, shape.NewCollection())
	frame := &scene.Frame{Layers: []*scene.LayerFrame{
		{Kind: scene.LayerShape, Matrix: geom.Identity(), Opacity: 1,
			Styles: []*scene.Style{transparent, thin, empty}},
	}}
	rec := NewRecorder(10, 10).Record(frame)
	if n := len(rec.Commands()); n != 2 {
		t.Errorf("got %d commands, want only save and restore", n)
	}
}

func TestRecordMasksAndMattes(t *testing.T) {
	maskPath := square(4).Path(0)
	matteSrc := &scene.LayerFrame{Index: 0, Kind: scene.LayerShape, Matrix: geom.Identity(), Opacity: 1,
		MatteSource: true, Styles: []*scene.Style{fillStyle(scene.Black, square(2))}}
	target := &scene.LayerFrame{Index: 1, Kind: scene.LayerShape, Matrix: geom.Identity(), Opacity: 1,
		Matte: &scene.Matte{Mode: scene.MatteLuma, Source: 0},
		Masks: []*scene.MaskFrame{
			{Mode: scene.MaskSubtract, Opacity: 1, Path: maskPath},
			{Mode: scene.MaskNone, Opacity: 1, Path: maskPath},
		},
		Styles: []*scene.Style{fillStyle(scene.Black, square(8))}}

	rec := NewRecorder(10, 10).Record(&scene.Frame{Layers: []*scene.LayerFrame{target, matteSrc}})
	b := newMockBackend("mock")
	if err := rec.Playback(b); err != nil {
		t.Fatal(err)
	}
	want := "save; matte 2; save; transform 0 0; fill 1; restore; end-matte; " +
		"transform 0 0; mask 1 4; transform 0 0; fill 1; restore"
	if got := b.trace(); got != want {
		t.Errorf("trace:\n got %s\nwant %s", got, want)
	}
}

func TestRecordMissingMatte(t *testing.T) {
	tests := []struct {
		mode scene.MatteMode
		want int
	}{
		{scene.MatteAlpha, 0},
		{scene.MatteAlphaInverted, 4},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			lf := &scene.LayerFrame{Index: 1, Kind: scene.LayerShape, Matrix: geom.Identity(), Opacity: 1,
				Matte:  &scene.Matte{Mode: tt.mode, Source: 7},
				Styles: []*scene.Style{fillStyle(scene.Black, square(8))}}
			rec := NewRecorder(10, 10).Record(&scene.Frame{Layers: []*scene.LayerFrame{lf}})
			if got := len(rec.Commands()); got != tt.want {
				t.Errorf("got %d commands", got)
			}
		})
	}
}

func TestRecordPrecompClips(t *testing.T) {
	child := &scene.LayerFrame{Kind: scene.LayerShape, Matrix: translated(5, 5), Opacity: 1,
		Styles: []*scene.Style{fillStyle(scene.Black, square(8))}}
	pre := &scene.LayerFrame{Kind: scene.LayerPrecomp, Matrix: translated(1, 2), Opacity: 1,
		Size: geom.Pt(20, 10), Children: []*scene.LayerFrame{child}}
	rec := NewRecorder(10, 10).Record(&scene.Frame{Layers: []*scene.LayerFrame{pre}})

	b := newMockBackend("mock")
	if err := rec.Playback(b); err != nil {
		t.Fatal(err)
	}
	want := "save; transform 1 2; mask 0 4; save; transform 5 5; fill 1; restore; restore"
	if got := b.trace(); got != want {
		t.Errorf("trace:\n got %s\nwant %s", got, want)
	}
	clip := rec.Resources().GetPath(0).Bounds()
	if clip.Min != geom.Pt(0, 0) || clip.Max != geom.Pt(20, 10) {
		t.Errorf("clip bounds = %+v", clip)
	}
}

func TestBrushFromStyle(t *testing.T) {
	solid := &scene.Style{Kind: scene.StyleFill, Color: scene.Color{G: 1, A: 0.5}, Opacity: 0.5}
	if b, ok := BrushFromStyle(solid).(SolidBrush); !ok || !almostEqual(b.Color.A, 0.25) {
		t.Errorf("solid brush = %#v", BrushFromStyle(solid))
	}

	radial := &scene.Style{Kind: scene.StyleGradientFill, Opacity: 1, Gradient: &scene.Gradient{
		Type: scene.GradientRadial, Start: geom.Pt(0, 0), End: geom.Pt(3, 4), Highlight: geom.Pt(1, 0),
		Stops: []scene.GradientStop{{Offset: 0, Color: scene.Black}, {Offset: 1, Color: scene.Color{R: 1, A: 1}}},
	}}
	rb, ok := BrushFromStyle(radial).(*RadialGradientBrush)
	if !ok {
		t.Fatalf("radial brush = %#v", BrushFromStyle(radial))
	}
	if !almostEqual(rb.EndRadius, 5) || rb.Focus != geom.Pt(1, 0) || len(rb.Stops) != 2 {
		t.Errorf("radial brush = %+v", rb)
	}

	linear := &scene.Style{Kind: scene.StyleGradientStroke, Opacity: 1, Gradient: &scene.Gradient{
		Type: scene.GradientLinear, Start: geom.Pt(0, 0), End: geom.Pt(10, 0),
	}}
	if _, ok := BrushFromStyle(linear).(*LinearGradientBrush); !ok {
		t.Errorf("linear brush = %#v", BrushFromStyle(linear))
	}
}

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		c    CommandType
		want string
	}{
		{CmdSave, "Save"},
		{CmdPushMask, "PushMask"},
		{CmdDrawImage, "DrawImage"},
		{CommandType(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestResourcePoolClear(t *testing.T) {
	p := NewResourcePool()
	p.AddPath(square(1).Path(0))
	ref := p.AddBrush(NewSolidBrush(scene.Black))
	if !ref.IsValid() || p.BrushCount() != 1 {
		t.Fatalf("brush ref %d count %d", ref, p.BrushCount())
	}
	p.Clear()
	if p.PathCount() != 0 || p.BrushCount() != 0 || p.GetPath(0) != nil || p.GetBrush(0) != nil {
		t.Error("Clear left resources behind")
	}
}
