package geom

import "math"

// Polynomial root helpers used for curve extrema.
// Based on kurbo's numerically robust formulation.

// SolveQuadratic finds real roots of ax^2 + bx + c = 0 in ascending order.
// Degenerates to the linear case when a is zero or nearly so.
func SolveQuadratic(a, b, c float64) []float64 {
	sc0 := c / a
	sc1 := b / a
	if !isFinite(sc0) || !isFinite(sc1) {
		root := -c / b
		if isFinite(root) {
			return []float64{root}
		}
		if c == 0 && b == 0 {
			return []float64{0}
		}
		return nil
	}

	arg := sc1*sc1 - 4.0*sc0
	if !isFinite(arg) {
		root1 := -sc1
		root2 := sc0 / root1
		if !isFinite(root2) {
			return []float64{root1}
		}
		return sortedPair(root1, root2)
	}
	if arg < 0 {
		return nil
	}
	if arg == 0 {
		return []float64{-0.5 * sc1}
	}

	root1 := -0.5 * (sc1 + math.Copysign(math.Sqrt(arg), sc1))
	root2 := sc0 / root1
	if !isFinite(root2) {
		return []float64{root1}
	}
	return sortedPair(root1, root2)
}

// SolveQuadraticInUnitInterval returns roots of ax^2 + bx + c = 0 in [0, 1].
func SolveQuadraticInUnitInterval(a, b, c float64) []float64 {
	roots := SolveQuadratic(a, b, c)
	if len(roots) == 0 {
		return nil
	}
	const eps = 1e-12
	result := roots[:0]
	for _, r := range roots {
		if r >= -eps && r <= 1+eps {
			result = append(result, Clamp(r, 0, 1))
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func sortedPair(a, b float64) []float64 {
	if a > b {
		return []float64{b, a}
	}
	return []float64{a, b}
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
