// Package transform composes layer and group transforms into matrices.
package transform

import (
	"math"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
)

// Composition stages in application order. The pre-matrix covers every
// leading stage whose properties are constant.
const (
	stageAnchor = iota + 1
	stageScale
	stageSkew
	stageRotation
)

// Bundle is the evaluated form of a transform: anchor, position, scale,
// rotation (single axis, or per axis plus orientation), skew and opacity.
//
// Points are transformed in the fixed order
//
//	translate(-anchor) → scale → skew → rotate → auto-orient → translate(position)
//
// Leading stages that never change are folded once into a pre-matrix; each
// tick the matrix is rebuilt starting from the first animated stage.
type Bundle struct {
	anchor   property.Property
	position property.Property
	scale    property.Property
	rotation property.Property // nil when per-axis rotation is used
	rx, ry   property.Property
	rz       property.Property
	orient   property.Property
	skew     property.Property // nil without skew
	skewAxis property.Property
	opacity  property.Property

	geometry   property.Container
	autoOrient bool
	threeD     bool

	pre     geom.Matrix
	applied int
	m       geom.Matrix

	frameID        uint64
	started        bool
	matrixChanged  bool
	opacityChanged bool
}

// New builds a bundle from document data. A nil transform yields the
// identity with full opacity.
func New(t *document.Transform, autoOrient bool) *Bundle {
	if t == nil {
		t = &document.Transform{}
	}
	b := &Bundle{
		anchor:     property.New(t.Anchor, 1, 0, 0, 0),
		position:   property.New(t.Position, 1, 0, 0, 0),
		scale:      property.New(t.Scale, 0.01, 100, 100, 100),
		opacity:    property.New(t.Opacity, 0.01, 100),
		autoOrient: autoOrient,
	}
	if t.Rotation != nil || !t.Is3D() && t.RotationZ == nil {
		b.rotation = property.New(t.Rotation, property.DegToRad, 0)
	} else {
		b.threeD = true
		b.rx = property.New(t.RotationX, property.DegToRad, 0)
		b.ry = property.New(t.RotationY, property.DegToRad, 0)
		b.rz = property.New(t.RotationZ, property.DegToRad, 0)
		b.orient = property.NewOrientation(t.Orientation, property.DegToRad)
	}
	if t.Skew != nil {
		b.skew = property.New(t.Skew, property.DegToRad, 0)
		b.skewAxis = property.New(t.SkewAxis, property.DegToRad, 0)
	}
	for _, p := range []property.Property{b.anchor, b.position, b.scale, b.rotation, b.rx, b.ry, b.rz,
		b.orient, b.skew, b.skewAxis} {
		if p != nil {
			b.geometry.Add(p)
		}
	}
	b.precompose()
	b.m = b.pre
	return b
}

// precompose folds constant leading stages into the pre-matrix.
func (b *Bundle) precompose() {
	b.pre = geom.Identity()
	if b.anchor.Animated() {
		return
	}
	a := b.anchor.Value()
	b.pre.Translate(-a.Dim(0), -a.Dim(1), -a.Dim(2))
	b.applied = stageAnchor

	if b.scale.Animated() {
		return
	}
	s := b.scale.Value()
	b.pre.Scale(s.Dim(0), s.Dim(1), scaleZ(s))
	b.applied = stageScale

	if b.skew != nil {
		if b.skew.Animated() || b.skewAxis.Animated() {
			return
		}
		b.pre.SkewFromAxis(-b.skew.Value().Float(), b.skewAxis.Value().Float())
	}
	b.applied = stageSkew

	if b.rotation != nil {
		if b.rotation.Animated() {
			return
		}
		b.pre.Rotate(-b.rotation.Value().Float())
	} else {
		if b.rx.Animated() || b.ry.Animated() || b.rz.Animated() || b.orient.Animated() {
			return
		}
		b.rotate3D(&b.pre)
	}
	b.applied = stageRotation
}

func scaleZ(s property.Value) float64 {
	if s.Len() < 3 {
		return 1
	}
	return s.Dim(2)
}

func (b *Bundle) rotate3D(m *geom.Matrix) {
	or := b.orient.Value()
	m.RotateZ(-b.rz.Value().Float()).
		RotateY(b.ry.Value().Float()).
		RotateX(b.rx.Value().Float()).
		RotateZ(-or.Dim(2)).
		RotateY(or.Dim(1)).
		RotateX(or.Dim(0))
}

// Update evaluates the transform for the current tick and reports whether
// the matrix or the opacity changed.
func (b *Bundle) Update(ctx *property.Context) bool {
	if b.started && b.frameID == ctx.FrameID {
		return b.matrixChanged || b.opacityChanged
	}
	b.frameID = ctx.FrameID
	geometry := b.geometry.Update(ctx)
	b.opacityChanged = b.opacity.Update(ctx)
	b.matrixChanged = geometry || b.autoOrient && !b.started
	if geometry || b.autoOrient {
		b.compose(ctx)
	}
	b.started = true
	return b.matrixChanged || b.opacityChanged
}

func (b *Bundle) compose(ctx *property.Context) {
	prev := b.m
	m := &b.m
	m.CopyFrom(&b.pre)
	if b.applied < stageAnchor {
		a := b.anchor.Value()
		m.Translate(-a.Dim(0), -a.Dim(1), -a.Dim(2))
	}
	if b.applied < stageScale {
		s := b.scale.Value()
		m.Scale(s.Dim(0), s.Dim(1), scaleZ(s))
	}
	if b.skew != nil && b.applied < stageSkew {
		m.SkewFromAxis(-b.skew.Value().Float(), b.skewAxis.Value().Float())
	}
	if b.applied < stageRotation {
		if b.rotation != nil {
			m.Rotate(-b.rotation.Value().Float())
		} else {
			b.rotate3D(m)
		}
	}
	if b.autoOrient {
		if angle, ok := b.orientation(ctx); ok {
			m.Rotate(-angle)
		}
	}
	p := b.position.Value()
	m.Translate(p.Dim(0), p.Dim(1), -p.Dim(2))
	if !prev.Equal(m) {
		b.matrixChanged = true
	}
}

// orientation returns the direction of travel of the position at the
// current frame, in radians.
func (b *Bundle) orientation(ctx *property.Context) (float64, bool) {
	first, last, ok := timeRange(b.position)
	if !ok {
		return 0, false
	}
	frame := ctx.Frame
	var v1, v2 geom.Point
	switch {
	case frame <= first:
		v1 = b.position.Sample(ctx, first+0.01).Point()
		v2 = b.position.Sample(ctx, first).Point()
	case frame >= last:
		v1 = b.position.Sample(ctx, last).Point()
		v2 = b.position.Sample(ctx, last-0.05).Point()
	default:
		v1 = b.position.Value().Point()
		v2 = b.position.Sample(ctx, frame-0.01).Point()
	}
	d := v1.Sub(v2)
	if d.IsZero() {
		return 0, false
	}
	return math.Atan2(d.Y, d.X), true
}

// timeRange returns the first and last keyframe times of an animated
// position.
func timeRange(p property.Property) (first, last float64, ok bool) {
	switch p := p.(type) {
	case *property.Keyframed:
		kfs := p.Keyframes()
		return kfs[0].Time, kfs[len(kfs)-1].Time, true
	case *property.Split:
		for _, c := range p.Components() {
			f, l, cok := timeRange(c)
			if !cok {
				continue
			}
			if !ok || f < first {
				first = f
			}
			if !ok || l > last {
				last = l
			}
			ok = true
		}
	}
	return first, last, ok
}

// Matrix returns the composed matrix of the last Update.
func (b *Bundle) Matrix() *geom.Matrix { return &b.m }

// Opacity returns the opacity in [0, 1] (values outside are not clamped).
func (b *Bundle) Opacity() float64 { return b.opacity.Value().Float() }

// MatrixChanged reports whether the last Update changed the matrix.
func (b *Bundle) MatrixChanged() bool { return b.matrixChanged }

// OpacityChanged reports whether the last Update changed the opacity.
func (b *Bundle) OpacityChanged() bool { return b.opacityChanged }

// Animated reports whether any component is animated.
func (b *Bundle) Animated() bool {
	return b.geometry.Animated() || b.opacity.Animated() || b.autoOrient
}

// Is3D reports whether the bundle uses per-axis rotation.
func (b *Bundle) Is3D() bool { return b.threeD }

// Anchor returns the anchor property.
func (b *Bundle) Anchor() property.Property { return b.anchor }

// Position returns the position property.
func (b *Bundle) Position() property.Property { return b.position }

// Scale returns the scale property (fractions, 1 = 100%).
func (b *Bundle) Scale() property.Property { return b.scale }

// Rotation returns the z rotation property in radians.
func (b *Bundle) Rotation() property.Property {
	if b.rotation != nil {
		return b.rotation
	}
	return b.rz
}
