package transform

import (
	"math"
	"testing"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
)

const epsilon = 1e-9

func tick(ctx *property.Context, b *Bundle, frame float64) bool {
	ctx.Begin()
	ctx.Frame = frame
	return b.Update(ctx)
}

// normalized runs tr through validation and normalization the way a parsed
// document would be.
func normalized(t *testing.T, tr *document.Transform, autoOrient bool) *Bundle {
	t.Helper()
	doc := &document.Animation{FrameRate: 30, OutPoint: 60, Width: 1, Height: 1, Layers: []*document.Layer{{
		Type: document.LayerNull, OutPoint: 60, Transform: tr,
	}}}
	if err := doc.Validate(); err != nil {
		t.Fatal(err)
	}
	doc.Normalize()
	return New(tr, autoOrient)
}

func approx(a, b geom.Point) bool {
	return a.Approx(b, 1e-6)
}

func TestStaticComposition(t *testing.T) {
	b := normalized(t, &document.Transform{
		Anchor:   document.Const(10, 10),
		Position: document.Const(50, 50),
		Scale:    document.Const(200, 200),
		Rotation: document.Const(90),
	}, false)
	ctx := property.NewContext(nil, nil)
	if !tick(ctx, b, 0) {
		t.Fatal("first update should report a change")
	}

	tests := []struct {
		in, want geom.Point
	}{
		{geom.Pt(10, 10), geom.Pt(50, 50)},
		{geom.Pt(11, 10), geom.Pt(50, 52)},
		{geom.Pt(10, 11), geom.Pt(48, 50)},
	}
	for _, tt := range tests {
		if got := b.Matrix().ApplyPoint(tt.in); !approx(got, tt.want) {
			t.Errorf("ApplyPoint(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if b.applied != stageRotation {
		t.Errorf("applied = %d, want every stage folded", b.applied)
	}
	if tick(ctx, b, 10) {
		t.Error("constant transform reported a change on the second tick")
	}
	if b.Animated() {
		t.Error("constant transform reports Animated")
	}
}

func TestPreMatrixStopsAtFirstAnimatedStage(t *testing.T) {
	anim := func() *document.Animated {
		return &document.Animated{Keyframes: []document.Keyframe{
			{Time: 0, S: document.Vec{100, 100}},
			{Time: 30, S: document.Vec{50, 50}},
		}}
	}
	tests := []struct {
		name string
		tr   *document.Transform
		want int
	}{
		{"animated anchor", &document.Transform{Anchor: anim()}, 0},
		{"animated scale", &document.Transform{Scale: anim()}, stageAnchor},
		{"animated position", &document.Transform{Position: anim()}, stageRotation},
		{"animated rotation", &document.Transform{Rotation: &document.Animated{Keyframes: []document.Keyframe{
			{Time: 0, S: document.Vec{0}}, {Time: 30, S: document.Vec{90}},
		}}}, stageSkew},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := normalized(t, tt.tr, false)
			if b.applied != tt.want {
				t.Errorf("applied = %d, want %d", b.applied, tt.want)
			}
		})
	}
}

func TestAnimatedScale(t *testing.T) {
	b := normalized(t, &document.Transform{Scale: &document.Animated{Keyframes: []document.Keyframe{
		{Time: 0, S: document.Vec{100, 100}},
		{Time: 30, S: document.Vec{50, 50}},
	}}}, false)
	ctx := property.NewContext(nil, nil)

	tick(ctx, b, 15)
	if got := b.Matrix().ApplyPoint(geom.Pt(10, 10)); !approx(got, geom.Pt(7.5, 7.5)) {
		t.Errorf("scaled point at frame 15 = %v, want (7.5, 7.5)", got)
	}
	if !tick(ctx, b, 20) || !b.MatrixChanged() {
		t.Error("animated scale did not report a change")
	}
	if b.OpacityChanged() {
		t.Error("constant opacity reported a change")
	}
}

func TestOpacity(t *testing.T) {
	b := New(&document.Transform{Opacity: document.Const(50)}, false)
	ctx := property.NewContext(nil, nil)
	tick(ctx, b, 0)
	if got := b.Opacity(); math.Abs(got-0.5) > epsilon {
		t.Errorf("Opacity() = %v, want 0.5", got)
	}

	identity := New(nil, false)
	tick(ctx, identity, 0)
	if !identity.Matrix().IsIdentity() {
		t.Errorf("nil transform matrix = %v, want identity", *identity.Matrix())
	}
	if identity.Opacity() != 1 {
		t.Errorf("nil transform opacity = %v, want 1", identity.Opacity())
	}
}

func TestSkew(t *testing.T) {
	b := New(&document.Transform{Skew: document.Const(45), SkewAxis: document.Const(0)}, false)
	ctx := property.NewContext(nil, nil)
	tick(ctx, b, 0)
	// A horizontal skew keeps the x axis and shears y into x.
	if got := b.Matrix().ApplyPoint(geom.Pt(1, 0)); !approx(got, geom.Pt(1, 0)) {
		t.Errorf("skewed x axis = %v, want (1, 0)", got)
	}
	got := b.Matrix().ApplyPoint(geom.Pt(0, 1))
	if math.Abs(math.Abs(got.X)-1) > 1e-6 || math.Abs(got.Y-1) > 1e-6 {
		t.Errorf("skewed y axis = %v, want (±1, 1)", got)
	}
}

func TestPerAxisRotation(t *testing.T) {
	b := New(&document.Transform{RotationZ: document.Const(90)}, false)
	if !b.Is3D() {
		t.Fatal("per-axis rotation not detected")
	}
	ctx := property.NewContext(nil, nil)
	tick(ctx, b, 0)
	if got := b.Matrix().ApplyPoint(geom.Pt(1, 0)); !approx(got, geom.Pt(0, 1)) {
		t.Errorf("rz=90 maps (1,0) to %v, want (0, 1)", got)
	}
	if b.Rotation() == nil {
		t.Error("Rotation() should expose the z rotation")
	}
}

func TestAutoOrient(t *testing.T) {
	b := normalized(t, &document.Transform{Position: &document.Animated{Keyframes: []document.Keyframe{
		{Time: 0, S: document.Vec{0, 0}},
		{Time: 30, S: document.Vec{100, 100}},
	}}}, true)
	ctx := property.NewContext(nil, nil)

	frames := []float64{-5, 15, 40}
	for _, f := range frames {
		tick(ctx, b, f)
		pos := b.Position().Value().Point()
		got := b.Matrix().ApplyPoint(geom.Pt(1, 0)).Sub(pos)
		want := geom.Pt(math.Sqrt2/2, math.Sqrt2/2)
		if !approx(got, want) {
			t.Errorf("frame %v: heading = %v, want %v", f, got, want)
		}
	}
}

func TestAutoOrientStaticPosition(t *testing.T) {
	b := New(&document.Transform{Position: document.Const(5, 5)}, true)
	ctx := property.NewContext(nil, nil)
	tick(ctx, b, 0)
	if got := b.Matrix().ApplyPoint(geom.Pt(1, 0)); !approx(got, geom.Pt(6, 5)) {
		t.Errorf("static position with auto-orient = %v, want (6, 5)", got)
	}
	if tick(ctx, b, 1) {
		t.Error("auto-orient on a static position reported a change")
	}
}
