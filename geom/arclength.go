package geom

import (
	"math"
	"sort"
)

// DefaultCurveSegments is the default number of samples used to build an
// arc-length table for a motion path.
const DefaultCurveSegments = 150

// BezierLength is an arc-length lookup table for a cubic Bezier curve in
// any number of dimensions. It maps a fraction of the total length back to
// a position on the curve, so eased motion follows the curve at constant
// speed instead of bunching up where control points are close together.
type BezierLength struct {
	dim     int
	samples []float64 // samples*dim coordinates
	lengths []float64 // cumulative length at each sample
	ts      []float64 // curve parameter at each sample
	total   float64
}

// NewBezierLength samples the curve start → start+outTan → end+inTan → end.
// outTan and inTan are offsets relative to start and end respectively.
// All slices must have the same length.
func NewBezierLength(start, end, outTan, inTan []float64, segments int) *BezierLength {
	if segments < 2 {
		segments = DefaultCurveSegments
	}
	dim := len(start)
	bl := &BezierLength{
		dim:     dim,
		samples: make([]float64, segments*dim),
		lengths: make([]float64, segments),
		ts:      make([]float64, segments),
	}
	for k := 0; k < segments; k++ {
		t := float64(k) / float64(segments-1)
		mt := 1 - t
		b0 := mt * mt * mt
		b1 := 3 * mt * mt * t
		b2 := 3 * mt * t * t
		b3 := t * t * t
		var dist float64
		for i := 0; i < dim; i++ {
			v := b0*start[i] + b1*(start[i]+outTan[i]) + b2*(end[i]+inTan[i]) + b3*end[i]
			bl.samples[k*dim+i] = v
			if k > 0 {
				d := v - bl.samples[(k-1)*dim+i]
				dist += d * d
			}
		}
		bl.ts[k] = t
		if k > 0 {
			bl.total += math.Sqrt(dist)
		}
		bl.lengths[k] = bl.total
	}
	return bl
}

// NewCubicLength builds a 2D table for c.
func NewCubicLength(c CubicBez, segments int) *BezierLength {
	return NewBezierLength(
		[]float64{c.P0.X, c.P0.Y},
		[]float64{c.P3.X, c.P3.Y},
		[]float64{c.P1.X - c.P0.X, c.P1.Y - c.P0.Y},
		[]float64{c.P2.X - c.P3.X, c.P2.Y - c.P3.Y},
		segments,
	)
}

// Total returns the approximate arc length of the curve.
func (bl *BezierLength) Total() float64 {
	return bl.total
}

// locate returns the sample index k and blend fraction such that the
// requested length lies between sample k and k+1.
func (bl *BezierLength) locate(fraction float64) (int, float64) {
	n := len(bl.lengths)
	if fraction <= 0 || bl.total == 0 {
		return 0, 0
	}
	if fraction >= 1 {
		return n - 2, 1
	}
	target := fraction * bl.total
	k := sort.SearchFloat64s(bl.lengths, target) - 1
	if k < 0 {
		k = 0
	}
	if k > n-2 {
		k = n - 2
	}
	span := bl.lengths[k+1] - bl.lengths[k]
	if span == 0 {
		return k, 0
	}
	return k, (target - bl.lengths[k]) / span
}

// PointAt writes the position at the given length fraction into dst and
// returns it. dst is grown when needed.
func (bl *BezierLength) PointAt(fraction float64, dst []float64) []float64 {
	if cap(dst) < bl.dim {
		dst = make([]float64, bl.dim)
	}
	dst = dst[:bl.dim]
	k, f := bl.locate(fraction)
	for i := 0; i < bl.dim; i++ {
		a := bl.samples[k*bl.dim+i]
		b := bl.samples[(k+1)*bl.dim+i]
		dst[i] = a + (b-a)*f
	}
	return dst
}

// TAt returns the curve parameter at the given length fraction.
func (bl *BezierLength) TAt(fraction float64) float64 {
	k, f := bl.locate(fraction)
	return bl.ts[k] + (bl.ts[k+1]-bl.ts[k])*f
}
