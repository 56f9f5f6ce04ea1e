package property

import (
	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
)

// Keyframe is the runtime form of a numeric keyframe. Timing functions and
// the motion path arc-length table are built on first use.
type Keyframe struct {
	Time  float64
	Start []float64
	End   []float64
	Hold  bool

	Out, In *document.Handle

	// Spatial tangents; both set means the value moves along a curve.
	To, Ti []float64

	easings []*geom.Easing
	motion  *geom.BezierLength
}

func keyframesFrom(src []document.Keyframe) []Keyframe {
	kfs := make([]Keyframe, len(src))
	for i := range src {
		s := &src[i]
		kfs[i] = Keyframe{
			Time:  s.Time,
			Start: s.S,
			End:   s.E,
			Hold:  s.IsHold(),
			Out:   s.Out,
			In:    s.In,
			To:    s.To,
			Ti:    s.Ti,
		}
	}
	return kfs
}

// spatial reports whether the keyframe follows a motion path.
func (k *Keyframe) spatial() bool {
	return k.To != nil && k.Ti != nil && len(k.Start) >= 2
}

// ease maps linear progress t to eased progress for dimension dim.
func (k *Keyframe) ease(ctx *Context, dim int, t float64) float64 {
	if k.Out == nil || k.In == nil {
		return t
	}
	if dim >= len(k.easings) {
		grown := make([]*geom.Easing, dim+1)
		copy(grown, k.easings)
		k.easings = grown
	}
	e := k.easings[dim]
	if e == nil {
		ox, oy := k.Out.At(dim)
		ix, iy := k.In.At(dim)
		e = ctx.Easing(ox, oy, ix, iy)
		k.easings[dim] = e
	}
	return e.At(t)
}

// path returns the lazily built arc-length table of the motion path from
// Start to end.
func (k *Keyframe) path(ctx *Context, end []float64) *geom.BezierLength {
	if k.motion == nil {
		n := len(k.Start)
		k.motion = geom.NewBezierLength(k.Start, pad(end, n), pad(k.To, n), pad(k.Ti, n), ctx.segments())
	}
	return k.motion
}

// pad returns v resized to n components, filling with zeros.
func pad(v []float64, n int) []float64 {
	if len(v) == n {
		return v
	}
	out := make([]float64, n)
	copy(out, v)
	return out
}

// endValue returns the value the keyframe interpolates towards: its own end
// value, defaulting to the start of the next keyframe.
func endValue(k, next *Keyframe) []float64 {
	switch {
	case k.End != nil:
		return k.End
	case next.Start != nil:
		return next.Start
	default:
		return k.Start
	}
}

// lastValue returns the value held at and after the final keyframe next.
func lastValue(k, next *Keyframe) []float64 {
	if next.Start != nil {
		return next.Start
	}
	return endValue(k, next)
}

// progress returns the linear progress of frame between two keyframes.
func progress(k, next *Keyframe, frame float64) float64 {
	span := next.Time - k.Time
	if span <= 0 {
		return 1
	}
	return (frame - k.Time) / span
}
