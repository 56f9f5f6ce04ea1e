package property

import (
	"github.com/gogpu/lottie/geom"
)

// Keyframed is a scalar or vector property driven by two or more
// keyframes.
//
// The bracketing keyframe pair is found through a cursor carried between
// evaluations. Playback mostly moves forward, so the search resumes from
// the cursor and only restarts from the first keyframe when the requested
// frame moves back past it.
type Keyframed struct {
	memo
	kfs        []Keyframe
	dim        int
	scalar     bool
	mult       float64
	quaternion bool
	expr       string

	cursor  int
	rescans int

	pv []float64 // interpolated, before mult
	v  []float64
}

func newKeyframed(kfs []Keyframe, mult float64, quaternion bool, expr string) *Keyframed {
	dim := 0
	for i := range kfs {
		if len(kfs[i].Start) > dim {
			dim = len(kfs[i].Start)
		}
	}
	return &Keyframed{
		kfs:        kfs,
		dim:        dim,
		scalar:     dim == 1,
		mult:       mult,
		quaternion: quaternion && dim >= 3,
		expr:       expr,
		pv:         make([]float64, dim),
		v:          make([]float64, dim),
	}
}

// NewKeyframed creates a keyframed property. Keyframes must be ordered by
// time and normalized.
func NewKeyframed(kfs []Keyframe, mult float64) *Keyframed {
	return newKeyframed(kfs, mult, false, "")
}

// Update implements Property.
func (p *Keyframed) Update(ctx *Context) bool {
	if p.cached(ctx) {
		return p.changed
	}
	frame := ctx.Frame
	if p.evaluated && p.expr == "" && p.settled(frame) {
		return p.stamp(ctx, false)
	}

	p.evaluations++
	if frame < p.kfs[p.cursor].Time && p.cursor > 0 {
		p.rescans++
		ctx.Log.Debug("property: keyframe cursor rescan", "frame", frame, "cursor", p.cursor)
		p.cursor = 0
	}
	p.interpolate(ctx, frame, p.pv, &p.cursor)

	var changed bool
	if p.expr != "" && ctx.Expressions != nil {
		changed = applyExpression(ctx, p.expr, p.pv, p.v, p.scalar, p.mult)
	} else {
		changed = scale(p.v, p.pv, p.mult)
	}
	return p.stamp(ctx, changed || !p.evaluated)
}

// settled reports whether frame yields the same value as the last
// evaluation without interpolating: same frame, or both clamped to the
// same end of the keyframe list.
func (p *Keyframed) settled(frame float64) bool {
	first := p.kfs[0].Time
	last := p.kfs[len(p.kfs)-1].Time
	prev := p.lastFrame
	return frame == prev ||
		(prev >= last && frame >= last) ||
		(prev < first && frame < first)
}

// Value implements Property.
func (p *Keyframed) Value() Value { return value(p.v, p.scalar) }

// Animated implements Property.
func (p *Keyframed) Animated() bool { return true }

// Keyframes returns the keyframe list.
func (p *Keyframed) Keyframes() []Keyframe { return p.kfs }

// Rescans returns how many times the cursor restarted from the first
// keyframe.
func (p *Keyframed) Rescans() int { return p.rescans }

// Sample implements Property.
func (p *Keyframed) Sample(ctx *Context, frame float64) Value {
	pv := make([]float64, p.dim)
	cursor := 0
	p.interpolate(ctx, frame, pv, &cursor)
	for i := range pv {
		pv[i] *= p.mult
	}
	return value(pv, p.scalar)
}

// interpolate writes the raw value at frame into dst, advancing *cursor.
func (p *Keyframed) interpolate(ctx *Context, frame float64, dst []float64, cursor *int) {
	kfs := p.kfs
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

	switch {
	case frame >= next.Time:
		// Past the last keyframe.
		copy(dst, lastValue(k, next))
		return
	case frame < k.Time || k.Hold:
		copy(dst, k.Start)
		return
	}

	end := endValue(k, next)
	t := progress(k, next, frame)

	switch {
	case k.spatial():
		perc := k.ease(ctx, 0, t)
		k.path(ctx, end).PointAt(perc, dst)
	case p.quaternion:
		perc := k.ease(ctx, 0, t)
		q0 := geom.QuaternionFromEuler(k.Start[1], k.Start[0], k.Start[2])
		q1 := geom.QuaternionFromEuler(end[1], end[0], end[2])
		heading, attitude, bank := q0.Slerp(q1, perc).Euler()
		dst[0], dst[1], dst[2] = attitude, heading, bank
	default:
		for i := range dst {
			if i >= len(k.Start) || i >= len(end) {
				dst[i] = 0
				continue
			}
			perc := k.ease(ctx, i, t)
			dst[i] = k.Start[i] + (end[i]-k.Start[i])*perc
		}
	}
}
