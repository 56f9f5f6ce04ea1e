package recording

import (
	"math"

	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/scene"
)

// Brush represents a fill/stroke paint for recording commands.
// This is a sealed interface - only types in this package implement it.
type Brush interface {
	brushMarker()
}

// SolidBrush is a solid color brush. Color carries the style opacity in
// its alpha.
type SolidBrush struct {
	Color scene.Color
}

func (SolidBrush) brushMarker() {}

// NewSolidBrush creates a solid color brush.
func NewSolidBrush(color scene.Color) SolidBrush {
	return SolidBrush{Color: color}
}

// LinearGradientBrush is a linear gradient brush.
// Colors transition linearly from Start to End.
type LinearGradientBrush struct {
	Start   geom.Point
	End     geom.Point
	Stops   []GradientStop
	Opacity float64
}

func (*LinearGradientBrush) brushMarker() {}

// RadialGradientBrush is a radial gradient brush centered on Center with
// radius EndRadius. Focus is the focal point of the highlight.
type RadialGradientBrush struct {
	Center    geom.Point
	Focus     geom.Point
	EndRadius float64
	Stops     []GradientStop
	Opacity   float64
}

func (*RadialGradientBrush) brushMarker() {}

// GradientStop defines a color stop in a gradient.
type GradientStop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Color  scene.Color
}

// BrushFromStyle converts the paint of an evaluated style to a brush. The
// style opacity is folded into the brush.
func BrushFromStyle(s *scene.Style) Brush {
	switch s.Kind {
	case scene.StyleGradientFill, scene.StyleGradientStroke:
		if s.Gradient != nil {
			return gradientFromScene(s.Gradient, s.Opacity)
		}
	}
	c := s.Color
	c.A *= s.Opacity
	return SolidBrush{Color: c}
}

func gradientFromScene(g *scene.Gradient, opacity float64) Brush {
	stops := make([]GradientStop, len(g.Stops))
	for i, stop := range g.Stops {
		stops[i] = GradientStop{Offset: stop.Offset, Color: stop.Color}
	}
	if g.Type == scene.GradientRadial {
		return &RadialGradientBrush{
			Center:    g.Start,
			Focus:     g.Highlight,
			EndRadius: math.Hypot(g.End.X-g.Start.X, g.End.Y-g.Start.Y),
			Stops:     stops,
			Opacity:   opacity,
		}
	}
	return &LinearGradientBrush{
		Start:   g.Start,
		End:     g.End,
		Stops:   stops,
		Opacity: opacity,
	}
}
