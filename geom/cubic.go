package geom

import (
	"math"
	"sort"
)

// CubicBez represents a cubic Bezier curve with control points P0, P1, P2, P3.
// P0 is the start point, P1 and P2 are control points, P3 is the end point.
type CubicBez struct {
	P0, P1, P2, P3 Point
}

// NewCubicBez creates a new cubic Bezier curve.
func NewCubicBez(p0, p1, p2, p3 Point) CubicBez {
	return CubicBez{P0: p0, P1: p1, P2: p2, P3: p3}
}

// Eval evaluates the curve at parameter t (0 to 1).
func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*c.P0.X + 3*mt2*t*c.P1.X + 3*mt*t2*c.P2.X + t3*c.P3.X,
		Y: mt3*c.P0.Y + 3*mt2*t*c.P1.Y + 3*mt*t2*c.P2.Y + t3*c.P3.Y,
	}
}

// IsLine reports whether both control points coincide with their endpoints,
// which makes the segment a straight line.
func (c CubicBez) IsLine() bool {
	return c.P1 == c.P0 && c.P2 == c.P3
}

// Split divides the curve at t using de Casteljau's algorithm.
func (c CubicBez) Split(t float64) (CubicBez, CubicBez) {
	p01 := c.P0.Lerp(c.P1, t)
	p12 := c.P1.Lerp(c.P2, t)
	p23 := c.P2.Lerp(c.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	mid := p012.Lerp(p123, t)

	return CubicBez{P0: c.P0, P1: p01, P2: p012, P3: mid},
		CubicBez{P0: mid, P1: p123, P2: p23, P3: c.P3}
}

// Subsegment returns the portion of the curve from t0 to t1.
func (c CubicBez) Subsegment(t0, t1 float64) CubicBez {
	if t0 <= 0 && t1 >= 1 {
		return c
	}
	if t1 <= t0 {
		p := c.Eval(t0)
		return CubicBez{P0: p, P1: p, P2: p, P3: p}
	}
	// Cut the tail first, then rescale t0 into the remaining head.
	head, _ := c.Split(t1)
	if t0 <= 0 {
		return head
	}
	_, mid := head.Split(t0 / t1)
	return mid
}

// Deriv returns the first derivative at t.
func (c CubicBez) Deriv(t float64) Point {
	mt := 1.0 - t
	d0 := c.P1.Sub(c.P0)
	d1 := c.P2.Sub(c.P1)
	d2 := c.P3.Sub(c.P2)
	return Point{
		X: 3 * (d0.X*mt*mt + 2*d1.X*mt*t + d2.X*t*t),
		Y: 3 * (d0.Y*mt*mt + 2*d1.Y*mt*t + d2.Y*t*t),
	}
}

// Tangent returns the unit tangent at t. Degenerate derivatives fall back to
// the chord direction.
func (c CubicBez) Tangent(t float64) Point {
	d := c.Deriv(t)
	if d.Length() < 1e-12 {
		d = c.P3.Sub(c.P0)
	}
	return d.Normalize()
}

// Extrema returns parameter values where the derivative is zero.
func (c CubicBez) Extrema() []float64 {
	result := make([]float64, 0, 4)

	d0 := c.P1.Sub(c.P0)
	d1 := c.P2.Sub(c.P1)
	d2 := c.P3.Sub(c.P2)

	result = append(result, SolveQuadraticInUnitInterval(d0.X-2*d1.X+d2.X, 2*(d1.X-d0.X), d0.X)...)
	result = append(result, SolveQuadraticInUnitInterval(d0.Y-2*d1.Y+d2.Y, 2*(d1.Y-d0.Y), d0.Y)...)

	sort.Float64s(result)
	return result
}

// BoundingBox returns the tight axis-aligned bounding box of the curve.
func (c CubicBez) BoundingBox() Rect {
	bbox := EmptyRect().AddPoint(c.P0).AddPoint(c.P3)
	for _, t := range c.Extrema() {
		bbox = bbox.AddPoint(c.Eval(t))
	}
	return bbox
}

// Length approximates the arc length by sampling the curve at the given
// number of steps. Straight segments are measured exactly.
func (c CubicBez) Length(steps int) float64 {
	if c.IsLine() {
		return c.P0.Distance(c.P3)
	}
	if steps < 2 {
		steps = 2
	}
	var length float64
	prev := c.P0
	for i := 1; i <= steps; i++ {
		p := c.Eval(float64(i) / float64(steps))
		length += prev.Distance(p)
		prev = p
	}
	return length
}

// PointOnLine reports whether p lies on the infinite line through a and b
// within tolerance. Used to detect degenerate tangents.
func PointOnLine(a, b, p Point, tolerance float64) bool {
	det := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	return math.Abs(det) < tolerance
}
