package document

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument is returned (wrapped in a *ValidationError) when a
// document is structurally invalid.
var ErrMalformedDocument = errors.New("document: malformed document")

// ValidationError locates a structural problem in a document.
type ValidationError struct {
	Path   string // JSON-path like location, e.g. $.layers[2].ks.p
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("document: malformed document at %s: %s", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrMalformedDocument }

type validator struct {
	doc *Animation
	err *ValidationError
}

func (v *validator) fail(path, format string, args ...any) bool {
	if v.err == nil {
		v.err = &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
	}
	return false
}

// Validate checks the invariants the evaluator relies on: positive frame
// rate and size, ordered keyframes, resolvable parents and precomposition
// references, and path arrays of equal length. It stops at the first
// problem.
func (a *Animation) Validate() error {
	v := &validator{doc: a}
	v.animation()
	if v.err != nil {
		return v.err
	}
	return nil
}

func (v *validator) animation() {
	a := v.doc
	if a.FrameRate <= 0 {
		v.fail("$.fr", "frame rate must be positive, got %v", a.FrameRate)
		return
	}
	if a.Width <= 0 || a.Height <= 0 {
		v.fail("$", "composition size must be positive, got %vx%v", a.Width, a.Height)
		return
	}
	if a.OutPoint <= a.InPoint {
		v.fail("$.op", "out point %v not after in point %v", a.OutPoint, a.InPoint)
		return
	}
	if a.Layers == nil {
		v.fail("$.layers", "missing layer list")
		return
	}
	ids := make(map[string]bool, len(a.Assets))
	for i, as := range a.Assets {
		path := fmt.Sprintf("$.assets[%d]", i)
		if as == nil || as.ID == "" {
			v.fail(path, "asset without id")
			return
		}
		ids[as.ID] = true
	}
	v.layers("$.layers", a.Layers)
	for i, as := range a.Assets {
		if as.IsPrecomp() {
			v.layers(fmt.Sprintf("$.assets[%d].layers", i), as.Layers)
		}
	}
	for i, ch := range a.Chars {
		if ch != nil && ch.Data != nil {
			v.shapes(fmt.Sprintf("$.chars[%d].data.shapes", i), ch.Data.Shapes)
		}
	}
}

func (v *validator) layers(path string, layers []*Layer) {
	inds := make(map[int]bool, len(layers))
	for _, l := range layers {
		if l != nil && l.Index != nil {
			inds[*l.Index] = true
		}
	}
	for i, l := range layers {
		lp := fmt.Sprintf("%s[%d]", path, i)
		if l == nil {
			v.fail(lp, "null layer")
			return
		}
		if !v.layer(lp, l, inds) {
			return
		}
	}
}

func (v *validator) layer(path string, l *Layer, inds map[int]bool) bool {
	if l.OutPoint < l.InPoint {
		return v.fail(path+".op", "out point %v before in point %v", l.OutPoint, l.InPoint)
	}
	if l.Parent != nil {
		if !inds[*l.Parent] {
			return v.fail(path+".parent", "parent %d does not resolve", *l.Parent)
		}
		if l.Index != nil && *l.Parent == *l.Index {
			return v.fail(path+".parent", "layer is its own parent")
		}
	}
	if l.Type == LayerPrecomp {
		as := v.doc.Asset(l.RefID)
		if as == nil || !as.IsPrecomp() {
			return v.fail(path+".refId", "precomposition %q not found", l.RefID)
		}
	}
	if l.Type == LayerText && (l.Text == nil || l.Text.Document == nil) {
		return v.fail(path+".t", "text layer without text document")
	}
	if !v.transform(path+".ks", l.Transform) {
		return false
	}
	if !v.animated(path+".tm", l.TimeRemap) {
		return false
	}
	for i, m := range l.Masks {
		mp := fmt.Sprintf("%s.masksProperties[%d]", path, i)
		if m == nil || m.Shape == nil {
			return v.fail(mp+".pt", "mask without path")
		}
		if !v.shape(mp+".pt", m.Shape) || !v.animated(mp+".o", m.Opacity) {
			return false
		}
	}
	if l.Text != nil && l.Text.Document != nil {
		kfs := l.Text.Document.Keyframes
		for i := 1; i < len(kfs); i++ {
			if kfs[i].Time < kfs[i-1].Time {
				return v.fail(fmt.Sprintf("%s.t.d.k[%d].t", path, i), "keyframe times not ordered")
			}
		}
	}
	return v.shapes(path+".shapes", l.Shapes)
}

func (v *validator) shapes(path string, items []*ShapeItem) bool {
	for i, it := range items {
		ip := fmt.Sprintf("%s[%d]", path, i)
		if it == nil {
			return v.fail(ip, "null shape item")
		}
		ok := true
		switch {
		case it.Group != nil:
			ok = v.shapes(ip+".it", it.Group.Items)
		case it.Path != nil:
			if it.Path.Data == nil {
				return v.fail(ip+".ks", "path without data")
			}
			ok = v.shape(ip+".ks", it.Path.Data)
		case it.Rect != nil:
			ok = v.animated(ip+".p", it.Rect.Position) && v.animated(ip+".s", it.Rect.Size) &&
				v.animated(ip+".r", it.Rect.Roundness)
		case it.Ellipse != nil:
			ok = v.animated(ip+".p", it.Ellipse.Position) && v.animated(ip+".s", it.Ellipse.Size)
		case it.Star != nil:
			s := it.Star
			ok = v.animated(ip+".p", s.Position) && v.animated(ip+".pt", s.Points) &&
				v.animated(ip+".r", s.Rotation) && v.animated(ip+".or", s.OuterRadius) &&
				v.animated(ip+".ir", s.InnerRadius)
		case it.Fill != nil:
			ok = v.animated(ip+".c", it.Fill.Color) && v.animated(ip+".o", it.Fill.Opacity)
		case it.Stroke != nil:
			ok = v.animated(ip+".c", it.Stroke.Color) && v.animated(ip+".o", it.Stroke.Opacity) &&
				v.animated(ip+".w", it.Stroke.Width)
		case it.Gradient != nil:
			g := it.Gradient
			if g.Colors == nil || g.Colors.Data == nil {
				return v.fail(ip+".g", "gradient without color stops")
			}
			ok = v.animated(ip+".s", g.Start) && v.animated(ip+".e", g.End) &&
				v.animated(ip+".g.k", g.Colors.Data)
		case it.Transform != nil:
			ok = v.transform(ip, it.Transform)
		case it.Trim != nil:
			ok = v.animated(ip+".s", it.Trim.Start) && v.animated(ip+".e", it.Trim.End) &&
				v.animated(ip+".o", it.Trim.Offset)
		case it.RoundCorners != nil:
			ok = v.animated(ip+".r", it.RoundCorners.Radius)
		case it.Repeater != nil:
			ok = v.animated(ip+".c", it.Repeater.Copies) && v.animated(ip+".o", it.Repeater.Offset) &&
				v.transform(ip+".tr", it.Repeater.Transform)
		}
		if !ok {
			return false
		}
	}
	return true
}

func (v *validator) transform(path string, t *Transform) bool {
	if t == nil {
		return true
	}
	props := []struct {
		key string
		a   *Animated
	}{
		{"a", t.Anchor}, {"p", t.Position}, {"s", t.Scale}, {"r", t.Rotation},
		{"rx", t.RotationX}, {"ry", t.RotationY}, {"rz", t.RotationZ}, {"or", t.Orientation},
		{"sk", t.Skew}, {"sa", t.SkewAxis}, {"o", t.Opacity}, {"so", t.StartOpacity}, {"eo", t.EndOpacity},
	}
	for _, p := range props {
		if !v.animated(path+"."+p.key, p.a) {
			return false
		}
	}
	return true
}

func (v *validator) animated(path string, a *Animated) bool {
	if a == nil {
		return true
	}
	if a.Split {
		if a.X == nil || a.Y == nil {
			return v.fail(path, "split property without x and y components")
		}
		return v.animated(path+".x", a.X) && v.animated(path+".y", a.Y) && v.animated(path+".z", a.Z)
	}
	if len(a.Keyframes) == 0 {
		if a.Static == nil {
			return v.fail(path+".k", "missing value")
		}
		return true
	}
	for i := range a.Keyframes {
		kf := &a.Keyframes[i]
		if i > 0 && kf.Time < a.Keyframes[i-1].Time {
			return v.fail(fmt.Sprintf("%s.k[%d].t", path, i), "keyframe times not ordered (%v after %v)",
				kf.Time, a.Keyframes[i-1].Time)
		}
		last := i == len(a.Keyframes)-1
		if kf.S == nil && (!last || i == 0) {
			return v.fail(fmt.Sprintf("%s.k[%d].s", path, i), "keyframe without start value")
		}
		if kf.E != nil && kf.S != nil && len(kf.E) != len(kf.S) {
			return v.fail(fmt.Sprintf("%s.k[%d].e", path, i), "end value has %d dimensions, start has %d",
				len(kf.E), len(kf.S))
		}
	}
	return true
}

func (v *validator) shape(path string, a *AnimatedShape) bool {
	if a.Static == nil && len(a.Keyframes) == 0 {
		return v.fail(path+".k", "missing path data")
	}
	if a.Static != nil {
		return v.shapeData(path+".k", a.Static)
	}
	for i := range a.Keyframes {
		kf := &a.Keyframes[i]
		kp := fmt.Sprintf("%s.k[%d]", path, i)
		if i > 0 && kf.Time < a.Keyframes[i-1].Time {
			return v.fail(kp+".t", "keyframe times not ordered (%v after %v)", kf.Time, a.Keyframes[i-1].Time)
		}
		last := i == len(a.Keyframes)-1
		if kf.Start() == nil && (!last || i == 0) {
			return v.fail(kp+".s", "keyframe without start path")
		}
		if s := kf.Start(); s != nil && !v.shapeData(kp+".s", s) {
			return false
		}
		if e := kf.End(); e != nil && !v.shapeData(kp+".e", e) {
			return false
		}
	}
	return true
}

func (v *validator) shapeData(path string, d *ShapeData) bool {
	if len(d.In) != len(d.Vertices) || len(d.Out) != len(d.Vertices) {
		return v.fail(path, "vertex and tangent arrays differ in length (v=%d i=%d o=%d)",
			len(d.Vertices), len(d.In), len(d.Out))
	}
	return true
}
