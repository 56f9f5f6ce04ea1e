package geom

import "math"

// Matrix is a 4x4 transformation matrix stored in row-major order and
// applied to row vectors:
//
//	x' = x*m[0] + y*m[4] + z*m[8]  + m[12]
//	y' = x*m[1] + y*m[5] + z*m[9]  + m[13]
//	z' = x*m[2] + y*m[6] + z*m[10] + m[14]
//
// Every composing method post-multiplies (m = m × T), so a chain such as
// Translate(-anchor).Scale(s).Rotate(r).Translate(pos) transforms points in
// the order it is written. In 2D mode only the upper-left 2x2 block and the
// translation row are non-trivial.
//
// Methods mutate the receiver and return it to allow chaining. Matrix values
// are plain arrays; copy with assignment or CopyFrom.
type Matrix [16]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Reset sets m to the identity matrix.
func (m *Matrix) Reset() *Matrix {
	*m = Identity()
	return m
}

// CopyFrom copies other into m.
func (m *Matrix) CopyFrom(other *Matrix) *Matrix {
	*m = *other
	return m
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m *Matrix) IsIdentity() bool {
	return *m == Identity()
}

// Equal reports whether m and other have identical coefficients.
func (m *Matrix) Equal(other *Matrix) bool {
	return *m == *other
}

// Is2D reports whether m leaves the z axis untouched, i.e. it can be
// represented by the six affine coefficients returned by Affine.
func (m *Matrix) Is2D() bool {
	return m[2] == 0 && m[3] == 0 && m[6] == 0 && m[7] == 0 &&
		m[8] == 0 && m[9] == 0 && m[10] == 1 && m[11] == 0 &&
		m[14] == 0 && m[15] == 1
}

// Affine returns the 2D affine coefficients (a, b, c, d, e, f) such that
// x' = a*x + c*y + e and y' = b*x + d*y + f. This is the layout used by SVG
// and canvas style APIs.
func (m *Matrix) Affine() (a, b, c, d, e, f float64) {
	return m[0], m[1], m[4], m[5], m[12], m[13]
}

// transform post-multiplies m by the matrix given in row-major order.
func (m *Matrix) transform(t *Matrix) *Matrix {
	if t.IsIdentity() {
		return m
	}
	if m.IsIdentity() {
		*m = *t
		return m
	}
	var r Matrix
	for row := 0; row < 4; row++ {
		a0, a1, a2, a3 := m[row*4], m[row*4+1], m[row*4+2], m[row*4+3]
		for col := 0; col < 4; col++ {
			r[row*4+col] = a0*t[col] + a1*t[4+col] + a2*t[8+col] + a3*t[12+col]
		}
	}
	*m = r
	return m
}

// Multiply post-multiplies m by other (m = m × other).
func (m *Matrix) Multiply(other *Matrix) *Matrix {
	return m.transform(other)
}

// Translate appends a translation.
func (m *Matrix) Translate(tx, ty, tz float64) *Matrix {
	if tx == 0 && ty == 0 && tz == 0 {
		return m
	}
	// Translation only touches the last row, so skip the full product.
	m[12] += tx*m[15]
	m[13] += ty*m[15]
	m[14] += tz*m[15]
	if m[3] != 0 || m[7] != 0 || m[11] != 0 {
		m[0] += tx * m[3]
		m[1] += ty * m[3]
		m[2] += tz * m[3]
		m[4] += tx * m[7]
		m[5] += ty * m[7]
		m[6] += tz * m[7]
		m[8] += tx * m[11]
		m[9] += ty * m[11]
		m[10] += tz * m[11]
	}
	return m
}

// Scale appends a scale.
func (m *Matrix) Scale(sx, sy, sz float64) *Matrix {
	if sx == 1 && sy == 1 && sz == 1 {
		return m
	}
	t := Matrix{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, sz, 0,
		0, 0, 0, 1,
	}
	return m.transform(&t)
}

// Rotate appends a rotation about the z axis (angle in radians).
func (m *Matrix) Rotate(angle float64) *Matrix {
	if angle == 0 {
		return m
	}
	sin, cos := math.Sincos(angle)
	t := Matrix{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	return m.transform(&t)
}

// RotateZ is an alias for Rotate.
func (m *Matrix) RotateZ(angle float64) *Matrix {
	return m.Rotate(angle)
}

// RotateX appends a rotation about the x axis (angle in radians).
func (m *Matrix) RotateX(angle float64) *Matrix {
	if angle == 0 {
		return m
	}
	sin, cos := math.Sincos(angle)
	t := Matrix{
		1, 0, 0, 0,
		0, cos, -sin, 0,
		0, sin, cos, 0,
		0, 0, 0, 1,
	}
	return m.transform(&t)
}

// RotateY appends a rotation about the y axis (angle in radians).
func (m *Matrix) RotateY(angle float64) *Matrix {
	if angle == 0 {
		return m
	}
	sin, cos := math.Sincos(angle)
	t := Matrix{
		cos, 0, sin, 0,
		0, 1, 0, 0,
		-sin, 0, cos, 0,
		0, 0, 0, 1,
	}
	return m.transform(&t)
}

// Shear appends a shear with the given x and y factors.
func (m *Matrix) Shear(sx, sy float64) *Matrix {
	if sx == 0 && sy == 0 {
		return m
	}
	t := Matrix{
		1, sy, 0, 0,
		sx, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	return m.transform(&t)
}

// Skew appends a shear of angle radians along the x axis.
func (m *Matrix) Skew(angle float64) *Matrix {
	return m.Shear(math.Tan(angle), 0)
}

// SkewFromAxis appends a skew of skew radians along an axis rotated by
// axis radians: rotate into the axis, shear, rotate back.
func (m *Matrix) SkewFromAxis(skew, axis float64) *Matrix {
	if skew == 0 {
		return m
	}
	sin, cos := math.Sincos(axis)
	into := Matrix{
		cos, sin, 0, 0,
		-sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	shear := Matrix{
		1, 0, 0, 0,
		math.Tan(skew), 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	back := Matrix{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	return m.transform(&into).transform(&shear).transform(&back)
}

// ApplyPoint transforms a 2D point (z = 0).
func (m *Matrix) ApplyPoint(p Point) Point {
	return Point{
		X: p.X*m[0] + p.Y*m[4] + m[12],
		Y: p.X*m[1] + p.Y*m[5] + m[13],
	}
}

// ApplyVector transforms a 2D displacement, ignoring translation.
func (m *Matrix) ApplyVector(p Point) Point {
	return Point{
		X: p.X*m[0] + p.Y*m[4],
		Y: p.X*m[1] + p.Y*m[5],
	}
}

// ApplyPoint3 transforms a 3D point.
func (m *Matrix) ApplyPoint3(x, y, z float64) (float64, float64, float64) {
	return x*m[0] + y*m[4] + z*m[8] + m[12],
		x*m[1] + y*m[5] + z*m[9] + m[13],
		x*m[2] + y*m[6] + z*m[10] + m[14]
}

// Invert2D returns the inverse of the 2D affine part of m.
// Returns the identity matrix if the matrix is not invertible.
func (m *Matrix) Invert2D() Matrix {
	a, b, c, d, e, f := m.Affine()
	det := a*d - b*c
	if math.Abs(det) < 1e-12 {
		return Identity()
	}
	inv := 1.0 / det
	r := Identity()
	r[0] = d * inv
	r[1] = -b * inv
	r[4] = -c * inv
	r[5] = a * inv
	r[12] = (c*f - d*e) * inv
	r[13] = (b*e - a*f) * inv
	return r
}

// ScaleFactor returns the geometric mean of the 2D axis scale factors,
// useful to scale stroke widths by a transform.
func (m *Matrix) ScaleFactor() float64 {
	a, b, c, d, _, _ := m.Affine()
	return math.Sqrt(math.Abs(a*d - b*c))
}
