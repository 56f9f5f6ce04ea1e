package document

import (
	"math"

	"github.com/gogpu/lottie/geom"
)

// tangentTolerance is the collinearity tolerance used when discarding
// degenerate spatial tangents.
const tangentTolerance = 1e-3

// Normalize prepares a validated document for evaluation. It is idempotent,
// so segment loads can simply run it again.
//
//   - a zero stretch factor becomes 1
//   - keyframe end values default to the next keyframe's start value, and a
//     trailing keyframe without a start value takes the previous end value
//   - spatial tangents collinear with their chord are dropped, turning the
//     motion path segment into a straight line
func (a *Animation) Normalize() {
	normalizeLayers(a.Layers)
	for _, as := range a.Assets {
		normalizeLayers(as.Layers)
	}
	for _, ch := range a.Chars {
		if ch != nil && ch.Data != nil {
			normalizeShapes(ch.Data.Shapes)
		}
	}
	a.normalized = true
}

func normalizeLayers(layers []*Layer) {
	for _, l := range layers {
		if l.Stretch == 0 {
			l.Stretch = 1
		}
		normalizeTransform(l.Transform)
		normalizeAnimated(l.TimeRemap)
		for _, m := range l.Masks {
			normalizeShape(m.Shape)
			normalizeAnimated(m.Opacity)
			normalizeAnimated(m.Expand)
		}
		normalizeShapes(l.Shapes)
	}
}

func normalizeTransform(t *Transform) {
	if t == nil {
		return
	}
	for _, a := range []*Animated{
		t.Anchor, t.Position, t.Scale, t.Rotation, t.RotationX, t.RotationY, t.RotationZ,
		t.Orientation, t.Skew, t.SkewAxis, t.Opacity, t.StartOpacity, t.EndOpacity,
	} {
		normalizeAnimated(a)
	}
}

func normalizeShapes(items []*ShapeItem) {
	for _, it := range items {
		switch {
		case it.Group != nil:
			normalizeShapes(it.Group.Items)
		case it.Path != nil:
			normalizeShape(it.Path.Data)
		case it.Rect != nil:
			normalizeAll(it.Rect.Position, it.Rect.Size, it.Rect.Roundness)
		case it.Ellipse != nil:
			normalizeAll(it.Ellipse.Position, it.Ellipse.Size)
		case it.Star != nil:
			s := it.Star
			normalizeAll(s.Position, s.Points, s.Rotation, s.OuterRadius, s.OuterRoundness,
				s.InnerRadius, s.InnerRoundness)
		case it.Fill != nil:
			normalizeAll(it.Fill.Color, it.Fill.Opacity)
		case it.Stroke != nil:
			normalizeAll(it.Stroke.Color, it.Stroke.Opacity)
			normalizeStroke(&it.Stroke.StrokeParams)
		case it.Gradient != nil:
			g := it.Gradient
			normalizeAll(g.Opacity, g.Start, g.End, g.HighlightLength, g.HighlightAngle)
			if g.Colors != nil {
				normalizeAnimated(g.Colors.Data)
			}
			normalizeStroke(&g.StrokeParams)
		case it.Transform != nil:
			normalizeTransform(it.Transform)
		case it.Trim != nil:
			normalizeAll(it.Trim.Start, it.Trim.End, it.Trim.Offset)
		case it.RoundCorners != nil:
			normalizeAnimated(it.RoundCorners.Radius)
		case it.Repeater != nil:
			normalizeAll(it.Repeater.Copies, it.Repeater.Offset)
			normalizeTransform(it.Repeater.Transform)
		}
	}
}

func normalizeStroke(s *StrokeParams) {
	normalizeAnimated(s.Width)
	for _, d := range s.Dashes {
		normalizeAnimated(d.Value)
	}
}

func normalizeAll(props ...*Animated) {
	for _, a := range props {
		normalizeAnimated(a)
	}
}

func normalizeAnimated(a *Animated) {
	if a == nil {
		return
	}
	if a.Split {
		normalizeAll(a.X, a.Y, a.Z)
		return
	}
	kfs := a.Keyframes
	for i := range kfs {
		kf := &kfs[i]
		if kf.S == nil && i > 0 {
			kf.S = append(Vec(nil), kfs[i-1].E...)
		}
		if kf.E == nil && i+1 < len(kfs) && kfs[i+1].S != nil {
			kf.E = append(Vec(nil), kfs[i+1].S...)
		}
		if kf.To != nil && kf.Ti != nil && degenerateTangents(kf.S, kf.E, kf.To, kf.Ti) {
			kf.To, kf.Ti = nil, nil
		}
	}
}

// degenerateTangents reports whether both spatial handles lie on the chord
// between s and e, in which case the curve is a straight line.
func degenerateTangents(s, e, to, ti []float64) bool {
	if len(s) < 2 || len(e) < 2 || len(to) < 2 || len(ti) < 2 {
		return false
	}
	if len(s) >= 3 && len(e) >= 3 && len(to) >= 3 && len(ti) >= 3 {
		return onLine3D(s, e, []float64{s[0] + to[0], s[1] + to[1], s[2] + to[2]}) &&
			onLine3D(s, e, []float64{e[0] + ti[0], e[1] + ti[1], e[2] + ti[2]})
	}
	a := geom.Pt(s[0], s[1])
	b := geom.Pt(e[0], e[1])
	return geom.PointOnLine(a, b, geom.Pt(s[0]+to[0], s[1]+to[1]), tangentTolerance) &&
		geom.PointOnLine(a, b, geom.Pt(e[0]+ti[0], e[1]+ti[1]), tangentTolerance)
}

func onLine3D(a, b, p []float64) bool {
	ab := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	ap := [3]float64{p[0] - a[0], p[1] - a[1], p[2] - a[2]}
	cx := ab[1]*ap[2] - ab[2]*ap[1]
	cy := ab[2]*ap[0] - ab[0]*ap[2]
	cz := ab[0]*ap[1] - ab[1]*ap[0]
	return math.Sqrt(cx*cx+cy*cy+cz*cz) < tangentTolerance
}

func normalizeShape(a *AnimatedShape) {
	if a == nil {
		return
	}
	kfs := a.Keyframes
	for i := range kfs {
		kf := &kfs[i]
		if kf.S == nil && i > 0 && kfs[i-1].E != nil {
			kf.S = kfs[i-1].E
		}
		if kf.E == nil && i+1 < len(kfs) && kfs[i+1].S != nil {
			kf.E = kfs[i+1].S
		}
	}
}
