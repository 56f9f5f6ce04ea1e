package modifier

import (
	"math"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/shape"
)

// span is a range along a collection, in length units.
type span struct{ s, e float64 }

// measured caches the segment lengths of one input collection.
type measured struct {
	in      *shape.Collection
	gen     uint64
	lengths []*shape.SegmentLengths
	total   float64
}

// Trim keeps a fraction of each target's outline.
//
// Start and end are percentages, offset is in degrees (360° is one full
// turn around the outline). In simultaneous mode each target is trimmed on
// its own; in individual mode the targets are treated as one continuous
// outline, walked from the last target to the first.
type Trim struct {
	props  property.Container
	start  property.Property
	end    property.Property
	offset property.Property
	mode   int

	s, e  float64
	cache []measured
}

// NewTrim builds a trim modifier from document data.
func NewTrim(d *document.Trim) *Trim {
	t := &Trim{mode: d.Mode}
	t.start = t.props.Add(property.New(d.Start, 0.01, 0))
	t.end = t.props.Add(property.New(d.End, 0.01, 100))
	t.offset = t.props.Add(property.New(d.Offset, 1, 0))
	t.resolve()
	return t
}

// Update implements Modifier.
func (t *Trim) Update(ctx *property.Context) bool {
	if !t.props.Update(ctx) {
		return false
	}
	t.resolve()
	return true
}

// resolve folds start, end and offset into a range within [0, 2].
func (t *Trim) resolve() {
	o := math.Mod(t.offset.Value().Float(), 360) / 360
	if o < 0 {
		o++
	}
	s := geom.Clamp(t.start.Value().Float(), 0, 1) + o
	e := geom.Clamp(t.end.Value().Float(), 0, 1) + o
	if s > e {
		s, e = e, s
	}
	t.s = math.Round(s*10000) * 0.0001
	t.e = math.Round(e*10000) * 0.0001
}

// Range returns the resolved start and end. Values above 1 wrap around to
// the start of the outline.
func (t *Trim) Range() (s, e float64) { return t.s, t.e }

// Apply implements Modifier.
func (t *Trim) Apply(ctx *property.Context, in, out []*shape.Collection) {
	s, e := t.s, t.e
	switch {
	case s == e:
		t.release(ctx)
		return
	case s == 0 && e == 1:
		for i := range in {
			copyAll(ctx, in[i], out[i])
		}
		return
	}

	var total float64
	t.measure(ctx, in)
	for i := range t.cache {
		total += t.cache[i].total
	}

	var added float64
	individual := t.mode == document.TrimIndividual && len(in) > 1
	for i := len(in) - 1; i >= 0; i-- {
		m := &t.cache[i]
		var edges []span
		if individual {
			edges = shapeEdges(s, e, m.total, added, total)
			added += m.total
		} else {
			edges = []span{{s, e}}
		}
		for _, edge := range edges {
			ranges := wrap(edge, m.total)
			cut(ctx, in[i], m, ranges[0], out[i], nil)
			if len(ranges) < 2 || ranges[0].s == ranges[0].e {
				continue
			}
			var cont *shape.Path
			if in[i].Len() == 1 && in[i].Path(0).Closed() && out[i].Len() > 0 {
				cont = out[i].Path(out[i].Len() - 1)
			}
			cut(ctx, in[i], m, ranges[1], out[i], cont)
		}
	}
}

// wrap converts a fractional range into one or two length ranges. A range
// that crosses 1 is split at the end of the outline.
func wrap(r span, length float64) []span {
	switch {
	case r.e <= 1:
		return []span{{length * r.s, length * r.e}}
	case r.s >= 1:
		return []span{{length * (r.s - 1), length * (r.e - 1)}}
	default:
		return []span{{length * r.s, length}, {0, length * (r.e - 1)}}
	}
}

// shapeEdges maps the global range [s, e] onto one target that occupies
// [added, added+length] of a combined outline of the given total.
func shapeEdges(s, e, length, added, total float64) []span {
	var global []span
	switch {
	case e <= 1:
		global = []span{{s, e}}
	case s >= 1:
		global = []span{{s - 1, e - 1}}
	default:
		global = []span{{s, 1}, {0, e - 1}}
	}
	var local []span
	for _, g := range global {
		gs, ge := g.s*total, g.e*total
		if ge < added || gs > added+length {
			continue
		}
		r := span{0, 1}
		if gs > added {
			r.s = (gs - added) / length
		}
		if ge < added+length {
			r.e = (ge - added) / length
		}
		local = append(local, r)
	}
	if len(local) == 0 {
		local = append(local, span{})
	}
	return local
}

// measure refreshes the cached lengths of targets whose input collection
// changed since the last Apply.
func (t *Trim) measure(ctx *property.Context, in []*shape.Collection) {
	if len(t.cache) != len(in) {
		t.release(ctx)
		t.cache = make([]measured, len(in))
	}
	for i, c := range in {
		m := &t.cache[i]
		if m.in == c && m.gen == c.Generation() && len(m.lengths) == c.Len() {
			continue
		}
		for _, l := range m.lengths {
			ctx.Pools.Lengths.Release(l)
		}
		m.lengths = m.lengths[:0]
		m.in = c
		m.gen = c.Generation()
		m.total = 0
		for _, p := range c.Paths() {
			l := ctx.Pools.Lengths.Acquire()
			l.Compute(p, lengthSamples)
			m.lengths = append(m.lengths, l)
			m.total += l.Total
		}
	}
}

// release drops every cached length table.
func (t *Trim) release(ctx *property.Context) {
	for i := range t.cache {
		for _, l := range t.cache[i].lengths {
			ctx.Pools.Lengths.Release(l)
		}
		t.cache[i] = measured{}
	}
	t.cache = t.cache[:0]
}

// cut writes the part of in that lies within r into out. When cont is set
// the first piece is appended to it instead of starting a new path.
func cut(ctx *property.Context, in *shape.Collection, m *measured, r span, out *shape.Collection, cont *shape.Path) {
	if r.s == r.e {
		return
	}
	var added float64
	for pi, p := range in.Paths() {
		lengths := m.lengths[pi]
		start := added
		added += lengths.Total
		if added <= r.s {
			continue
		}
		if start >= r.e {
			break
		}
		if cont == nil && r.s <= start && r.e >= added {
			out.AddOwned(ctx.Pools.Paths.Clone(p))
			continue
		}

		piece := cont
		if piece == nil {
			piece = ctx.Pools.Paths.Acquire()
		}
		pos := start
		for j := 0; j < p.SegmentCount(); j++ {
			segLen := lengths.Lengths[j]
			segStart := pos
			pos += segLen
			if pos <= r.s {
				continue
			}
			if segStart >= r.e {
				break
			}
			seg := p.Segment(j)
			if r.s <= segStart && r.e >= pos {
				appendSegment(piece, seg)
				continue
			}
			if segLen == 0 {
				continue
			}
			t0 := geom.Clamp((r.s-segStart)/segLen, 0, 1)
			t1 := geom.Clamp((r.e-segStart)/segLen, 0, 1)
			if !seg.IsLine() {
				table := geom.NewCubicLength(seg, lengthSamples)
				t0, t1 = table.TAt(t0), table.TAt(t1)
			}
			appendSegment(piece, seg.Subsegment(t0, t1))
		}

		if piece != cont {
			if piece.Len() == 0 {
				ctx.Pools.Paths.Release(piece)
			} else {
				out.AddOwned(piece)
			}
		}
		cont = nil
	}
}
