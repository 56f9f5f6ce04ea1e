package recording

import (
	"math"
	"testing"

	"github.com/gogpu/lottie/geom"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func apply(m Matrix, p geom.Point) geom.Point {
	return geom.Pt(m.A*p.X+m.B*p.Y+m.C, m.D*p.X+m.E*p.Y+m.F)
}

func TestFromGeom(t *testing.T) {
	tests := []struct {
		name  string
		build func(m *geom.Matrix)
	}{
		{"identity", func(*geom.Matrix) {}},
		{"translate", func(m *geom.Matrix) { m.Translate(10, -4, 0) }},
		{"scale rotate translate", func(m *geom.Matrix) {
			m.Scale(2, 3, 1).Rotate(math.Pi/2).Translate(10, 20, 0)
		}},
		{"skew", func(m *geom.Matrix) { m.Skew(0.3).Translate(1, 1, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := geom.Identity()
			tt.build(&g)
			m := FromGeom(&g)
			for _, p := range []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 3, Y: -4}} {
				want := g.ApplyPoint(p)
				if got := apply(m, p); !almostEqual(got.X, want.X) || !almostEqual(got.Y, want.Y) {
					t.Errorf("%v maps to %v, want %v", p, got, want)
				}
			}
		})
	}
}

func TestFromGeomDropsDepth(t *testing.T) {
	g := geom.Identity()
	g.Translate(5, 6, 40)
	m := FromGeom(&g)
	if m != (Matrix{A: 1, E: 1, C: 5, F: 6}) {
		t.Errorf("FromGeom = %+v", m)
	}
}

func TestIsIdentity(t *testing.T) {
	tests := []struct {
		m    Matrix
		want bool
	}{
		{Identity(), true},
		{Matrix{A: 1, E: 1 + 1e-12}, true},
		{Matrix{A: 1, E: 1, C: 0.5}, false},
		{Matrix{A: -1, E: 1}, false},
	}
	for _, tt := range tests {
		if got := tt.m.IsIdentity(); got != tt.want {
			t.Errorf("%+v.IsIdentity() = %v, want %v", tt.m, got, tt.want)
		}
	}
}
