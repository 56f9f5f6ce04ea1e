package shape

import (
	"math"

	"github.com/gogpu/lottie/geom"
)

// RoundCorner is the handle length factor that approximates a quarter
// circle with one cubic segment.
const RoundCorner = 0.5519

// BuildRect writes a rectangle centred at center into dst. Corners are
// rounded by radius (clamped to half the shorter side). The path starts at
// the top of the right edge and runs clockwise unless reversed is set.
func BuildRect(dst *Path, center, size geom.Point, radius float64, reversed bool) {
	p0, p1 := center.X, center.Y
	v0, v1 := size.X/2, size.Y/2
	round := math.Min(math.Min(v0, v1), math.Max(radius, 0))
	c := round * (1 - RoundCorner)

	dst.Reset()
	dst.SetClosed(true)
	set := func(vx, vy, ox, oy, ix, iy float64) {
		dst.SetTripleAbs(dst.Len(), geom.Pt(vx, vy), geom.Pt(ix, iy), geom.Pt(ox, oy))
	}

	set(p0+v0, p1-v1+round, p0+v0, p1-v1+round, p0+v0, p1-v1+c)
	set(p0+v0, p1+v1-round, p0+v0, p1+v1-c, p0+v0, p1+v1-round)
	if round != 0 {
		set(p0+v0-round, p1+v1, p0+v0-round, p1+v1, p0+v0-c, p1+v1)
		set(p0-v0+round, p1+v1, p0-v0+c, p1+v1, p0-v0+round, p1+v1)
		set(p0-v0, p1+v1-round, p0-v0, p1+v1-round, p0-v0, p1+v1-c)
		set(p0-v0, p1-v1+round, p0-v0, p1-v1+c, p0-v0, p1-v1+round)
		set(p0-v0+round, p1-v1, p0-v0+round, p1-v1, p0-v0+c, p1-v1)
		set(p0+v0-round, p1-v1, p0+v0-c, p1-v1, p0+v0-round, p1-v1)
	} else {
		set(p0-v0, p1+v1, p0-v0, p1+v1, p0-v0, p1+v1)
		set(p0-v0, p1-v1, p0-v0, p1-v1, p0-v0, p1-v1)
	}
	if reversed {
		dst.Reverse()
	}
}

// BuildEllipse writes an ellipse centred at center with the given
// diameters into dst, starting at the top and running clockwise unless
// reversed is set.
func BuildEllipse(dst *Path, center, size geom.Point, reversed bool) {
	p0, p1 := center.X, center.Y
	s0, s1 := size.X/2, size.Y/2
	dir := 1.0
	if reversed {
		dir = -1
	}
	c := RoundCorner

	dst.Reset()
	dst.SetClosed(true)
	dst.Append(geom.Pt(p0, p1-s1), geom.Pt(-dir*s0*c, 0), geom.Pt(dir*s0*c, 0))
	dst.Append(geom.Pt(p0+dir*s0, p1), geom.Pt(0, -s1*c), geom.Pt(0, s1*c))
	dst.Append(geom.Pt(p0, p1+s1), geom.Pt(dir*s0*c, 0), geom.Pt(-dir*s0*c, 0))
	dst.Append(geom.Pt(p0-dir*s0, p1), geom.Pt(0, s1*c), geom.Pt(0, -s1*c))
}

// StarParams describes a star or regular polygon.
type StarParams struct {
	Center         geom.Point
	Points         float64 // vertex count; fractional values are floored
	Rotation       float64 // degrees
	OuterRadius    float64
	OuterRoundness float64 // percent
	InnerRadius    float64 // stars only
	InnerRoundness float64 // percent, stars only
	Polygon        bool
	Reversed       bool
}

// BuildStar writes a star (alternating outer and inner vertices) or a
// regular polygon into dst.
func BuildStar(dst *Path, sp StarParams) {
	dst.Reset()
	dst.SetClosed(true)

	numPts := int(math.Floor(sp.Points))
	if numPts <= 0 {
		return
	}
	dir := 1.0
	if sp.Reversed {
		dir = -1
	}
	angle := sp.Rotation*math.Pi/180 - math.Pi/2

	type ring struct {
		radius, roundness, perim float64
	}
	var rings []ring
	var step float64
	if sp.Polygon {
		rings = []ring{{sp.OuterRadius, sp.OuterRoundness / 100, 2 * math.Pi * sp.OuterRadius / float64(numPts*4)}}
		step = 2 * math.Pi / float64(numPts)
	} else {
		rings = []ring{
			{sp.OuterRadius, sp.OuterRoundness / 100, 2 * math.Pi * sp.OuterRadius / float64(numPts*2)},
			{sp.InnerRadius, sp.InnerRoundness / 100, 2 * math.Pi * sp.InnerRadius / float64(numPts*2)},
		}
		step = math.Pi / float64(numPts)
		numPts *= 2
	}

	for i := 0; i < numPts; i++ {
		r := rings[i%len(rings)]
		sin, cos := math.Sincos(angle)
		x, y := r.radius*cos, r.radius*sin
		var ox, oy float64
		if x != 0 || y != 0 {
			l := math.Hypot(x, y)
			ox, oy = y/l, -x/l
		}
		h := r.perim * r.roundness * dir
		dst.Append(
			geom.Pt(x+sp.Center.X, y+sp.Center.Y),
			geom.Pt(ox*h, oy*h),
			geom.Pt(-ox*h, -oy*h),
		)
		angle += step * dir
	}
}
