package geom

import "math"

// Quaternion is a rotation quaternion (X, Y, Z, W).
type Quaternion struct {
	X, Y, Z, W float64
}

const degToRad = math.Pi / 180

// QuaternionFromEuler builds a quaternion from heading, attitude and bank
// angles in degrees, matching the x/y/z orientation triple of a transform.
func QuaternionFromEuler(heading, attitude, bank float64) Quaternion {
	s1, c1 := math.Sincos(heading * degToRad / 2)
	s2, c2 := math.Sincos(attitude * degToRad / 2)
	s3, c3 := math.Sincos(bank * degToRad / 2)
	return Quaternion{
		X: s1*s2*c3 + c1*c2*s3,
		Y: s1*c2*c3 + c1*s2*s3,
		Z: c1*s2*c3 - s1*c2*s3,
		W: c1*c2*c3 - s1*s2*s3,
	}
}

// Euler converts q back into heading, attitude and bank angles in degrees.
func (q Quaternion) Euler() (heading, attitude, bank float64) {
	heading = math.Atan2(2*q.Y*q.W-2*q.X*q.Z, 1-2*q.Y*q.Y-2*q.Z*q.Z)
	attitude = math.Asin(Clamp(2*q.X*q.Y+2*q.Z*q.W, -1, 1))
	bank = math.Atan2(2*q.X*q.W-2*q.Y*q.Z, 1-2*q.X*q.X-2*q.Z*q.Z)
	return heading / degToRad, attitude / degToRad, bank / degToRad
}

// Dot returns the 4D dot product.
func (q Quaternion) Dot(o Quaternion) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Slerp spherically interpolates from q to o by t, taking the shortest arc.
func (q Quaternion) Slerp(o Quaternion, t float64) Quaternion {
	cosOmega := q.Dot(o)
	if cosOmega < 0 {
		cosOmega = -cosOmega
		o = Quaternion{X: -o.X, Y: -o.Y, Z: -o.Z, W: -o.W}
	}
	var scale0, scale1 float64
	if 1-cosOmega > 1e-6 {
		omega := math.Acos(cosOmega)
		sinOmega := math.Sin(omega)
		scale0 = math.Sin((1-t)*omega) / sinOmega
		scale1 = math.Sin(t*omega) / sinOmega
	} else {
		// Nearly parallel; linear blend is accurate enough.
		scale0 = 1 - t
		scale1 = t
	}
	return Quaternion{
		X: scale0*q.X + scale1*o.X,
		Y: scale0*q.Y + scale1*o.Y,
		Z: scale0*q.Z + scale1*o.Z,
		W: scale0*q.W + scale1*o.W,
	}
}
