package property

import (
	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/shape"
)

// FillPath writes document path data into dst.
func FillPath(dst *shape.Path, d *document.ShapeData) {
	dst.Reset()
	dst.SetClosed(d.Closed)
	dst.SetLength(len(d.Vertices))
	for i, v := range d.Vertices {
		var in, out geom.Point
		if i < len(d.In) {
			in = geom.Pt(d.In[i][0], d.In[i][1])
		}
		if i < len(d.Out) {
			out = geom.Pt(d.Out[i][0], d.Out[i][1])
		}
		dst.SetTriple(i, geom.Pt(v[0], v[1]), in, out)
	}
}

type shapeKeyframe struct {
	Time       float64
	Start, End *shape.Path
	Hold       bool
	Out, In    *document.Handle

	easing *geom.Easing
}

// Shape is a path property: a constant path or a morph between keyframed
// paths. Each change produces a fresh pooled path and releases the one it
// supersedes, so consumers must not hold on to a path past the next
// Update.
type Shape struct {
	memo
	kfs    []shapeKeyframe
	cursor int
	expr   string

	base   *shape.Path // constant source path
	path   *shape.Path
	pooled bool
}

// NewShape builds a path property from document data.
func NewShape(a *document.AnimatedShape) *Shape {
	s := &Shape{expr: a.Expression}
	switch {
	case len(a.Keyframes) > 1:
		s.kfs = make([]shapeKeyframe, len(a.Keyframes))
		for i := range a.Keyframes {
			src := &a.Keyframes[i]
			kf := shapeKeyframe{Time: src.Time, Hold: src.IsHold(), Out: src.Out, In: src.In}
			if d := src.Start(); d != nil {
				kf.Start = shape.NewPath(len(d.Vertices))
				FillPath(kf.Start, d)
			}
			if d := src.End(); d != nil {
				kf.End = shape.NewPath(len(d.Vertices))
				FillPath(kf.End, d)
			}
			s.kfs[i] = kf
		}
	case len(a.Keyframes) == 1 && a.Keyframes[0].Start() != nil:
		s.base = shape.NewPath(0)
		FillPath(s.base, a.Keyframes[0].Start())
	case a.Static != nil:
		s.base = shape.NewPath(len(a.Static.Vertices))
		FillPath(s.base, a.Static)
	default:
		s.base = shape.NewPath(0)
	}
	if s.base != nil {
		s.path = s.base
		s.evaluations = 1
	}
	return s
}

// NewStaticShape wraps a fixed path.
func NewStaticShape(p *shape.Path) *Shape {
	return &Shape{base: p, path: p, memo: memo{evaluations: 1}}
}

// Animated implements Property.
func (s *Shape) Animated() bool { return len(s.kfs) > 0 || s.expr != "" }

// Path returns the current path.
func (s *Shape) Path() *shape.Path { return s.path }

// Value implements Property.
func (s *Shape) Value() Value { return ShapeValue(s.path) }

// Update implements Property.
func (s *Shape) Update(ctx *Context) bool {
	if s.cached(ctx) {
		return s.changed
	}
	if !s.Animated() {
		return s.stamp(ctx, !s.evaluated)
	}
	if len(s.kfs) > 0 && s.evaluated && s.expr == "" && s.settled(ctx.Frame) {
		return s.stamp(ctx, false)
	}

	s.evaluations++
	next := ctx.Pools.Paths.Acquire()
	if len(s.kfs) > 0 {
		if ctx.Frame < s.kfs[s.cursor].Time {
			s.cursor = 0
		}
		s.interpolate(ctx, ctx.Frame, next, &s.cursor)
	} else {
		next.CopyFrom(s.base)
	}
	if s.expr != "" && ctx.Expressions != nil {
		if out, ok := ctx.Expressions.Evaluate(s.expr, ctx.Frame, ShapeValue(next)); ok &&
			out.Kind == KindShape && out.Shape != nil && out.Shape != next {
			next.CopyFrom(out.Shape)
		}
	}

	changed := !s.evaluated || !next.Equal(s.path)
	if !changed {
		ctx.Pools.Paths.Release(next)
		return s.stamp(ctx, false)
	}
	s.swap(ctx, next)
	return s.stamp(ctx, true)
}

func (s *Shape) swap(ctx *Context, next *shape.Path) {
	if s.pooled {
		ctx.Pools.Paths.Release(s.path)
	}
	s.path = next
	s.pooled = true
}

func (s *Shape) settled(frame float64) bool {
	first := s.kfs[0].Time
	last := s.kfs[len(s.kfs)-1].Time
	prev := s.lastFrame
	return frame == prev ||
		(prev >= last && frame >= last) ||
		(prev < first && frame < first)
}

// Sample implements Property. The returned path is freshly allocated.
func (s *Shape) Sample(ctx *Context, frame float64) Value {
	p := shape.NewPath(0)
	if len(s.kfs) == 0 {
		p.CopyFrom(s.base)
		return ShapeValue(p)
	}
	cursor := 0
	s.interpolate(ctx, frame, p, &cursor)
	return ShapeValue(p)
}

// Release returns the current path to the pool. The property must be
// updated again before its value is read.
func (s *Shape) Release(ctx *Context) {
	if s.pooled {
		ctx.Pools.Paths.Release(s.path)
		s.path = s.base
		s.pooled = false
		s.evaluated = false
	}
}

func (s *Shape) interpolate(ctx *Context, frame float64, dst *shape.Path, cursor *int) {
	kfs := s.kfs
	n := len(kfs)
	c := *cursor
	if c > n-2 {
		c = n - 2
	}
	for c < n-2 && kfs[c+1].Time <= frame {
		c++
	}
	*cursor = c
	k, next := &kfs[c], &kfs[c+1]

	end := k.End
	if end == nil {
		end = next.Start
	}
	if end == nil {
		end = k.Start
	}
	switch {
	case frame >= next.Time:
		if next.Start != nil {
			dst.CopyFrom(next.Start)
		} else {
			dst.CopyFrom(end)
		}
		return
	case frame < k.Time || k.Hold:
		dst.CopyFrom(k.Start)
		return
	}
	span := next.Time - k.Time
	t := (frame - k.Time) / span
	if k.Out != nil && k.In != nil {
		if k.easing == nil {
			ox, oy := k.Out.At(0)
			ix, iy := k.In.At(0)
			k.easing = ctx.Easing(ox, oy, ix, iy)
		}
		t = k.easing.At(t)
	}
	dst.Lerp(k.Start, end, t)
}
