package geom

import "math"

// Easing is a cubic-bezier timing function through (0,0), (X1,Y1), (X2,Y2),
// (1,1). Given a progress fraction x it solves for the curve parameter whose
// x coordinate matches and returns the corresponding y.
//
// The solver precomputes an 11-entry sample table, refines the initial guess
// with Newton-Raphson when the slope allows it and falls back to bisection
// otherwise.
type Easing struct {
	X1, Y1, X2, Y2 float64

	linear  bool
	samples [splineTableSize]float64
}

const (
	splineTableSize    = 11
	sampleStepSize     = 1.0 / (splineTableSize - 1)
	newtonIterations   = 4
	newtonMinSlope     = 0.001
	subdivisionEpsilon = 1e-7
	subdivisionMaxIter = 10
)

// NewEasing creates a timing function for the given control handles.
// X coordinates are clamped into [0, 1] so the curve stays a function of x.
func NewEasing(x1, y1, x2, y2 float64) *Easing {
	e := &Easing{
		X1: Clamp(x1, 0, 1),
		Y1: y1,
		X2: Clamp(x2, 0, 1),
		Y2: y2,
	}
	e.linear = e.X1 == e.Y1 && e.X2 == e.Y2
	if !e.linear {
		for i := 0; i < splineTableSize; i++ {
			e.samples[i] = calcBezier(float64(i)*sampleStepSize, e.X1, e.X2)
		}
	}
	return e
}

// Linear reports whether the function is the identity.
func (e *Easing) Linear() bool {
	return e.linear
}

// At returns the eased value for progress x in [0, 1].
func (e *Easing) At(x float64) float64 {
	if e.linear {
		return x
	}
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return calcBezier(e.tForX(x), e.Y1, e.Y2)
}

func (e *Easing) tForX(x float64) float64 {
	intervalStart := 0.0
	current := 1
	last := splineTableSize - 1
	for ; current != last && e.samples[current] <= x; current++ {
		intervalStart += sampleStepSize
	}
	current--

	dist := (x - e.samples[current]) / (e.samples[current+1] - e.samples[current])
	guess := intervalStart + dist*sampleStepSize

	slope := getSlope(guess, e.X1, e.X2)
	switch {
	case slope >= newtonMinSlope:
		return newtonRaphson(x, guess, e.X1, e.X2)
	case slope == 0:
		return guess
	default:
		return binarySubdivide(x, intervalStart, intervalStart+sampleStepSize, e.X1, e.X2)
	}
}

func coeffA(a1, a2 float64) float64 { return 1.0 - 3.0*a2 + 3.0*a1 }
func coeffB(a1, a2 float64) float64 { return 3.0*a2 - 6.0*a1 }
func coeffC(a1 float64) float64     { return 3.0 * a1 }

// calcBezier returns x(t) given t, x1 and x2, or y(t) given t, y1 and y2.
func calcBezier(t, a1, a2 float64) float64 {
	return ((coeffA(a1, a2)*t+coeffB(a1, a2))*t + coeffC(a1)) * t
}

func getSlope(t, a1, a2 float64) float64 {
	return 3.0*coeffA(a1, a2)*t*t + 2.0*coeffB(a1, a2)*t + coeffC(a1)
}

func newtonRaphson(x, guess, x1, x2 float64) float64 {
	for i := 0; i < newtonIterations; i++ {
		slope := getSlope(guess, x1, x2)
		if slope == 0 {
			return guess
		}
		guess -= (calcBezier(guess, x1, x2) - x) / slope
	}
	return guess
}

func binarySubdivide(x, a, b, x1, x2 float64) float64 {
	var current, t float64
	for i := 0; i < subdivisionMaxIter; i++ {
		t = a + (b-a)/2
		current = calcBezier(t, x1, x2) - x
		if current > 0 {
			b = t
		} else {
			a = t
		}
		if math.Abs(current) <= subdivisionEpsilon {
			break
		}
	}
	return t
}

// EasingCache deduplicates timing functions by their handles. Documents
// reuse a small set of easing curves across thousands of keyframes.
//
// EasingCache is not safe for concurrent use; each animation owns one.
type EasingCache struct {
	entries map[[4]float64]*Easing
}

// NewEasingCache creates an empty cache.
func NewEasingCache() *EasingCache {
	return &EasingCache{entries: make(map[[4]float64]*Easing)}
}

// Get returns the shared timing function for the handles, creating it on
// first use.
func (c *EasingCache) Get(x1, y1, x2, y2 float64) *Easing {
	key := [4]float64{x1, y1, x2, y2}
	if e, ok := c.entries[key]; ok {
		return e
	}
	e := NewEasing(x1, y1, x2, y2)
	c.entries[key] = e
	return e
}

// Len returns the number of distinct timing functions.
func (c *EasingCache) Len() int {
	return len(c.entries)
}
