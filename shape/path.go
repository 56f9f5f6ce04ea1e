package shape

import (
	"math"

	"github.com/gogpu/lottie/geom"
)

// Path is a mutable polygon with tangents: an ordered list of vertices, each
// carrying an incoming and an outgoing control handle stored as offsets
// relative to the vertex, plus a closed flag.
//
// Segment i runs from vertex i (leaving along its out handle) to vertex i+1
// (arriving along its in handle). A closed path has one extra segment from
// the last vertex back to the first.
//
// Paths are normally obtained from a PathPool and returned to it once the
// frame that produced them has been superseded. A Path must not be used
// after it has been released.
type Path struct {
	closed bool
	length int
	v      []geom.Point
	in     []geom.Point
	out    []geom.Point

	pooled bool
}

// NewPath allocates an empty path with room for capacity vertices.
// Prefer PathPool.Acquire inside per-frame code.
func NewPath(capacity int) *Path {
	if capacity < 4 {
		capacity = 4
	}
	return &Path{
		v:   make([]geom.Point, capacity),
		in:  make([]geom.Point, capacity),
		out: make([]geom.Point, capacity),
	}
}

// Reset clears the path while keeping its buffers.
func (p *Path) Reset() {
	p.closed = false
	p.length = 0
}

// Len returns the number of vertices.
func (p *Path) Len() int {
	return p.length
}

// Closed reports whether the path is closed.
func (p *Path) Closed() bool {
	return p.closed
}

// SetClosed sets the closed flag.
func (p *Path) SetClosed(closed bool) {
	p.closed = closed
}

// SetLength resizes the path to n vertices. New vertices are zeroed.
// Buffers grow by doubling and are never shrunk, so a path reused across
// frames stops allocating once it has seen its largest size.
func (p *Path) SetLength(n int) {
	if n > len(p.v) {
		p.grow(n)
	}
	for i := p.length; i < n; i++ {
		p.v[i] = geom.Point{}
		p.in[i] = geom.Point{}
		p.out[i] = geom.Point{}
	}
	p.length = n
}

func (p *Path) grow(n int) {
	capacity := len(p.v) * 2
	if capacity < n {
		capacity = n
	}
	if capacity < 4 {
		capacity = 4
	}
	v := make([]geom.Point, capacity)
	in := make([]geom.Point, capacity)
	out := make([]geom.Point, capacity)
	copy(v, p.v[:p.length])
	copy(in, p.in[:p.length])
	copy(out, p.out[:p.length])
	p.v, p.in, p.out = v, in, out
}

// Vertex returns vertex i.
func (p *Path) Vertex(i int) geom.Point { return p.v[i] }

// In returns the incoming handle of vertex i relative to the vertex.
func (p *Path) In(i int) geom.Point { return p.in[i] }

// Out returns the outgoing handle of vertex i relative to the vertex.
func (p *Path) Out(i int) geom.Point { return p.out[i] }

// InPoint returns the absolute position of the incoming handle of vertex i.
func (p *Path) InPoint(i int) geom.Point { return p.v[i].Add(p.in[i]) }

// OutPoint returns the absolute position of the outgoing handle of vertex i.
func (p *Path) OutPoint(i int) geom.Point { return p.v[i].Add(p.out[i]) }

// SetTriple sets vertex i with relative handles, growing the path if i is
// past the end.
func (p *Path) SetTriple(i int, v, in, out geom.Point) {
	if i >= p.length {
		p.SetLength(i + 1)
	}
	p.v[i] = v
	p.in[i] = in
	p.out[i] = out
}

// SetTripleAbs sets vertex i with handles given as absolute positions.
func (p *Path) SetTripleAbs(i int, v, inAbs, outAbs geom.Point) {
	p.SetTriple(i, v, inAbs.Sub(v), outAbs.Sub(v))
}

// Append adds a vertex with relative handles.
func (p *Path) Append(v, in, out geom.Point) {
	p.SetTriple(p.length, v, in, out)
}

// SegmentCount returns the number of drawable segments.
func (p *Path) SegmentCount() int {
	switch {
	case p.length == 0:
		return 0
	case p.closed:
		return p.length
	default:
		return p.length - 1
	}
}

// Segment returns segment i as a cubic Bezier.
func (p *Path) Segment(i int) geom.CubicBez {
	j := i + 1
	if j == p.length {
		j = 0
	}
	return geom.CubicBez{
		P0: p.v[i],
		P1: p.OutPoint(i),
		P2: p.InPoint(j),
		P3: p.v[j],
	}
}

// CopyFrom makes p a deep copy of src.
func (p *Path) CopyFrom(src *Path) {
	p.SetLength(src.length)
	copy(p.v, src.v[:src.length])
	copy(p.in, src.in[:src.length])
	copy(p.out, src.out[:src.length])
	p.closed = src.closed
}

// Equal reports whether p and o have the same structure and coordinates.
func (p *Path) Equal(o *Path) bool {
	if p == o {
		return true
	}
	if p == nil || o == nil || p.length != o.length || p.closed != o.closed {
		return false
	}
	for i := 0; i < p.length; i++ {
		if p.v[i] != o.v[i] || p.in[i] != o.in[i] || p.out[i] != o.out[i] {
			return false
		}
	}
	return true
}

// ApproxEqual compares coordinates within epsilon.
func (p *Path) ApproxEqual(o *Path, epsilon float64) bool {
	if p.length != o.length || p.closed != o.closed {
		return false
	}
	for i := 0; i < p.length; i++ {
		if !p.v[i].Approx(o.v[i], epsilon) ||
			!p.in[i].Approx(o.in[i], epsilon) ||
			!p.out[i].Approx(o.out[i], epsilon) {
			return false
		}
	}
	return true
}

// Reverse reverses the vertex order in place, swapping in and out handles.
// The first vertex of a closed path stays first, matching how a reversed
// rectangle or ellipse is described in exported documents.
func (p *Path) Reverse() {
	n := p.length
	if n < 2 {
		return
	}
	start := 0
	if p.closed {
		start = 1
	}
	for i, j := start, n-1; i < j; i, j = i+1, j-1 {
		p.v[i], p.v[j] = p.v[j], p.v[i]
		p.in[i], p.in[j] = p.in[j], p.in[i]
		p.out[i], p.out[j] = p.out[j], p.out[i]
	}
	for i := 0; i < n; i++ {
		p.in[i], p.out[i] = p.out[i], p.in[i]
	}
}

// TransformInto writes p transformed by m into dst. Handles are transformed
// as absolute points and stored back as offsets, so non-uniform transforms
// stay exact.
func (p *Path) TransformInto(m *geom.Matrix, dst *Path) {
	dst.SetLength(p.length)
	dst.closed = p.closed
	for i := 0; i < p.length; i++ {
		v := m.ApplyPoint(p.v[i])
		in := m.ApplyPoint(p.InPoint(i))
		out := m.ApplyPoint(p.OutPoint(i))
		dst.v[i] = v
		dst.in[i] = in.Sub(v)
		dst.out[i] = out.Sub(v)
	}
}

// Bounds returns the tight bounding box of the path.
func (p *Path) Bounds() geom.Rect {
	r := geom.EmptyRect()
	if p.length == 1 {
		return r.AddPoint(p.v[0])
	}
	for i := 0; i < p.SegmentCount(); i++ {
		r = r.Union(p.Segment(i).BoundingBox())
	}
	return r
}

// Length returns the approximate arc length of the whole path.
func (p *Path) Length(steps int) float64 {
	var total float64
	for i := 0; i < p.SegmentCount(); i++ {
		total += p.Segment(i).Length(steps)
	}
	return total
}

// IsSharp reports whether vertex i has both handles collapsed onto it.
func (p *Path) IsSharp(i int) bool {
	return p.in[i].IsZero() && p.out[i].IsZero()
}

// Lerp writes the vertex-wise interpolation between a and b into p. Paths
// with differing vertex counts interpolate over the shorter one.
func (p *Path) Lerp(a, b *Path, t float64) {
	n := int(math.Min(float64(a.length), float64(b.length)))
	p.SetLength(n)
	for i := 0; i < n; i++ {
		p.v[i] = a.v[i].Lerp(b.v[i], t)
		p.in[i] = a.in[i].Lerp(b.in[i], t)
		p.out[i] = a.out[i].Lerp(b.out[i], t)
	}
	p.closed = a.closed
}
