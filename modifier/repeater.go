package modifier

import (
	"math"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/transform"
)

// Instance is one copy produced by a Repeater.
type Instance struct {
	// Step is the number of transform steps applied to this copy, counting
	// from the original at step 0 and excluding the offset.
	Step    int
	Matrix  geom.Matrix
	Opacity float64
	Visible bool
}

// Repeater duplicates the content that precedes it. Copy k is transformed
// by the repeater transform applied k+offset times (fractional offsets
// apply a partial step) and its opacity ramps linearly from the start to
// the end opacity. A fractional copy count rounds up.
//
// A Repeater is not a Modifier: copies carry their own opacity and repeat
// styles as well as paths, so callers read Instances and PaintOrder and
// clone the preceding content themselves.
//
// Instances are kept when the count drops; trailing ones are marked
// invisible instead of being discarded so growing again is free.
type Repeater struct {
	props      property.Container
	copies     property.Property
	offset     property.Property
	startAlpha property.Property
	endAlpha   property.Property
	tr         *transform.Bundle
	composite  int

	instances []Instance
	order     []int
	count     int
}

// NewRepeater builds a repeater from document data.
func NewRepeater(d *document.Repeater) *Repeater {
	r := &Repeater{composite: d.Composite, tr: transform.New(d.Transform, false)}
	r.copies = r.props.Add(property.New(d.Copies, 1, 1))
	r.offset = r.props.Add(property.New(d.Offset, 1, 0))
	var so, eo *document.Animated
	if d.Transform != nil {
		so, eo = d.Transform.StartOpacity, d.Transform.EndOpacity
	}
	r.startAlpha = r.props.Add(property.New(so, 0.01, 100))
	r.endAlpha = r.props.Add(property.New(eo, 0.01, 100))
	return r
}

// Update evaluates the repeater's properties. Instances are recomputed when
// any of them changed.
func (r *Repeater) Update(ctx *property.Context) bool {
	changed := r.props.Update(ctx)
	if r.tr.Update(ctx) {
		changed = true
	}
	if changed {
		r.layout()
	}
	return changed
}

// Count returns the number of visible copies.
func (r *Repeater) Count() int { return r.count }

// Instances returns every copy built so far, visible or not, indexed by
// step.
func (r *Repeater) Instances() []Instance { return r.instances }

// PaintOrder returns the steps of the visible copies in the order they are
// painted. Later entries are drawn on top.
func (r *Repeater) PaintOrder() []int { return r.order }

// step accumulates one partial application of the repeater transform.
type step struct {
	p, r, s geom.Matrix
}

func (st *step) apply(anchor, pos, scale geom.Point, rot, perc float64, inv bool) {
	dir := 1.0
	if inv {
		dir = -1
	}
	sx := scale.X + (1-scale.X)*(1-perc)
	sy := scale.Y + (1-scale.Y)*(1-perc)
	if inv {
		sx, sy = 1/sx, 1/sy
	}
	st.p.Translate(pos.X*dir*perc, pos.Y*dir*perc, 0)
	st.r.Translate(-anchor.X, -anchor.Y, 0).Rotate(-rot*dir*perc).Translate(anchor.X, anchor.Y, 0)
	st.s.Translate(-anchor.X, -anchor.Y, 0).Scale(sx, sy, 1).Translate(anchor.X, anchor.Y, 0)
}

func (st *step) matrix() geom.Matrix {
	m := st.r
	m.Multiply(&st.s).Multiply(&st.p)
	return m
}

// layout recomputes instance matrices and opacities.
func (r *Repeater) layout() {
	n := int(math.Ceil(r.copies.Value().Float()))
	if n < 0 {
		n = 0
	}
	for len(r.instances) < n {
		r.instances = append(r.instances, Instance{Step: len(r.instances)})
	}
	r.count = n

	anchor := r.tr.Anchor().Value().Point()
	pos := r.tr.Position().Value().Point()
	sv := r.tr.Scale().Value()
	scale := geom.Pt(sv.Dim(0), sv.Dim(1))
	rot := r.tr.Rotation().Value().Float()

	st := step{p: geom.Identity(), r: geom.Identity(), s: geom.Identity()}
	offset := r.offset.Value().Float()
	whole, frac := math.Modf(offset)
	inv := offset < 0
	for i := 0; i < int(math.Abs(whole)); i++ {
		st.apply(anchor, pos, scale, rot, 1, inv)
	}
	if frac != 0 {
		st.apply(anchor, pos, scale, rot, math.Abs(frac), inv)
	}

	so := r.startAlpha.Value().Float()
	eo := r.endAlpha.Value().Float()
	for i := range r.instances {
		inst := &r.instances[i]
		inst.Visible = i < n
		if !inst.Visible {
			continue
		}
		if i > 0 {
			st.apply(anchor, pos, scale, rot, 1, false)
		}
		if i == 0 && offset == 0 {
			inst.Matrix = geom.Identity()
		} else {
			inst.Matrix = st.matrix()
		}
		if n == 1 {
			inst.Opacity = so
		} else {
			inst.Opacity = so + (eo-so)*float64(i)/float64(n-1)
		}
	}

	r.order = r.order[:0]
	for i := 0; i < n; i++ {
		if r.composite == document.CompositeBelow {
			r.order = append(r.order, n-1-i)
		} else {
			r.order = append(r.order, i)
		}
	}
}
