package recording

import (
	"math"

	"github.com/gogpu/lottie/geom"
)

// Matrix is the 2D affine transform handed to backends, in row-major
// order:
//
//	| A  B  C |
//	| D  E  F |
//
// This represents the transformation:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// FromGeom projects a 4x4 scene matrix onto the 2D plane. The z row and
// column are dropped.
func FromGeom(m *geom.Matrix) Matrix {
	a, b, c, d, e, f := m.Affine()
	return Matrix{
		A: a, B: c, C: e,
		D: b, E: d, F: f,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	const eps = 1e-10
	return math.Abs(m.A-1) < eps && math.Abs(m.B) < eps && math.Abs(m.C) < eps &&
		math.Abs(m.D) < eps && math.Abs(m.E-1) < eps && math.Abs(m.F) < eps
}
