package property

import "github.com/gogpu/lottie/document"

// Split is a vector whose components are independent properties, as used
// by separated position dimensions.
type Split struct {
	memo
	parts []Property
	v     []float64
}

func newSplit(a *document.Animated, mult float64, def []float64) *Split {
	comps := []*document.Animated{a.X, a.Y}
	if a.Z != nil {
		comps = append(comps, a.Z)
	}
	s := &Split{v: make([]float64, len(comps))}
	for i, c := range comps {
		var d float64
		if i < len(def) {
			d = def[i]
		}
		s.parts = append(s.parts, New(c, mult, d))
		s.v[i] = s.parts[i].Value().Float()
	}
	return s
}

// Update implements Property.
func (s *Split) Update(ctx *Context) bool {
	if s.cached(ctx) {
		return s.changed
	}
	changed := !s.evaluated
	for i, p := range s.parts {
		if p.Update(ctx) {
			changed = true
		}
		s.v[i] = p.Value().Float()
	}
	if changed {
		s.evaluations++
	}
	return s.stamp(ctx, changed)
}

// Value implements Property.
func (s *Split) Value() Value { return Vector(s.v) }

// Animated implements Property.
func (s *Split) Animated() bool {
	for _, p := range s.parts {
		if p.Animated() {
			return true
		}
	}
	return false
}

// Sample implements Property.
func (s *Split) Sample(ctx *Context, frame float64) Value {
	out := make([]float64, len(s.parts))
	for i, p := range s.parts {
		out[i] = p.Sample(ctx, frame).Float()
	}
	return Vector(out)
}

// Components returns the per-dimension properties.
func (s *Split) Components() []Property { return s.parts }
