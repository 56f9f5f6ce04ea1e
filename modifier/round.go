package modifier

import (
	"math"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/shape"
)

// roundCorner is the handle length factor that approximates a circular arc
// with a cubic.
const roundCorner = 0.5519

// RoundCorners replaces every sharp vertex with an arc. Each corner becomes
// two vertices placed min(distance/2, radius) toward its neighbours. The
// endpoints of open paths are kept.
type RoundCorners struct {
	props  property.Container
	radius property.Property
}

// NewRoundCorners builds a round-corners modifier from document data.
func NewRoundCorners(d *document.RoundCorners) *RoundCorners {
	m := &RoundCorners{}
	m.radius = m.props.Add(property.New(d.Radius, 1, 0))
	return m
}

// Update implements Modifier.
func (m *RoundCorners) Update(ctx *property.Context) bool {
	return m.props.Update(ctx)
}

// Radius returns the current corner radius.
func (m *RoundCorners) Radius() float64 { return m.radius.Value().Float() }

// Apply implements Modifier.
func (m *RoundCorners) Apply(ctx *property.Context, in, out []*shape.Collection) {
	r := m.Radius()
	for i, c := range in {
		if r == 0 {
			copyAll(ctx, c, out[i])
			continue
		}
		for _, p := range c.Paths() {
			dst := ctx.Pools.Paths.Acquire()
			roundPath(dst, p, r)
			out[i].AddOwned(dst)
		}
	}
}

// roundPath writes src with rounded corners into dst.
func roundPath(dst, src *shape.Path, radius float64) {
	dst.Reset()
	dst.SetClosed(src.Closed())
	n := src.Len()
	for i := 0; i < n; i++ {
		cur := src.Vertex(i)
		if !src.IsSharp(i) || !src.Closed() && (i == 0 || i == n-1) {
			dst.Append(cur, src.In(i), src.Out(i))
			continue
		}
		prev := src.Vertex((i - 1 + n) % n)
		next := src.Vertex((i + 1) % n)

		// Arrive at the corner: the new vertex sits toward the previous
		// vertex and leaves toward the corner.
		v := cur.Add(prev.Sub(cur).Mul(cornerFraction(cur, prev, radius)))
		dst.Append(v, geom.Point{}, cur.Sub(v).Mul(roundCorner))

		// Leave the corner toward the next vertex.
		v = cur.Add(next.Sub(cur).Mul(cornerFraction(cur, next, radius)))
		dst.Append(v, cur.Sub(v).Mul(roundCorner), geom.Point{})
	}
}

// cornerFraction returns how far along cur→other the rounded vertex lies.
func cornerFraction(cur, other geom.Point, radius float64) float64 {
	d := cur.Distance(other)
	if d == 0 {
		return 0
	}
	return math.Min(d/2, radius) / d
}
