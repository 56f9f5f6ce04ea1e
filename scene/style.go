package scene

import (
	"math"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
)

type dashProp struct {
	offset bool
	value  property.Property
}

// styleNode is a fill, stroke, gradient fill or gradient stroke item.
type styleNode struct {
	kind  StyleKind
	props property.Container

	color   property.Property
	opacity property.Property
	rule    FillRule

	width  property.Property
	cap    LineCap
	join   LineJoin
	miter  float64
	dashes []dashProp

	gradType  GradientType
	start     property.Property
	end       property.Property
	hlLength  property.Property
	hlAngle   property.Property
	stops     property.Property
	stopCount int

	changed bool
}

func newStyle(item *document.ShapeItem) *styleNode {
	s := &styleNode{}
	switch item.Type {
	case document.ShapeFill:
		s.kind = StyleFill
		s.color = s.props.Add(property.New(item.Fill.Color, 1, 0, 0, 0, 1))
		s.opacity = s.props.Add(property.New(item.Fill.Opacity, 0.01, 100))
		s.rule = fillRule(item.Fill.FillRule)
	case document.ShapeStroke:
		s.kind = StyleStroke
		s.color = s.props.Add(property.New(item.Stroke.Color, 1, 0, 0, 0, 1))
		s.opacity = s.props.Add(property.New(item.Stroke.Opacity, 0.01, 100))
		s.strokeParams(&item.Stroke.StrokeParams)
	case document.ShapeGradientFill, document.ShapeGradientStroke:
		g := item.Gradient
		s.kind = StyleGradientFill
		if item.Type == document.ShapeGradientStroke {
			s.kind = StyleGradientStroke
			s.strokeParams(&g.StrokeParams)
		}
		s.opacity = s.props.Add(property.New(g.Opacity, 0.01, 100))
		s.rule = fillRule(g.FillRule)
		s.gradType = GradientLinear
		if g.GradientType == document.GradientRadial {
			s.gradType = GradientRadial
		}
		s.start = s.props.Add(property.New(g.Start, 1, 0, 0))
		s.end = s.props.Add(property.New(g.End, 1, 0, 0))
		s.hlLength = s.props.Add(property.New(g.HighlightLength, 0.01, 0))
		s.hlAngle = s.props.Add(property.New(g.HighlightAngle, property.DegToRad, 0))
		var data *document.Animated
		if g.Colors != nil {
			s.stopCount = g.Colors.Count
			data = g.Colors.Data
		}
		s.stops = s.props.Add(property.New(data, 1))
	}
	return s
}

func fillRule(v int) FillRule {
	if v == document.FillRuleEvenOdd {
		return FillEvenOdd
	}
	return FillNonZero
}

func (s *styleNode) strokeParams(p *document.StrokeParams) {
	s.width = s.props.Add(property.New(p.Width, 1, 1))
	switch p.LineCap {
	case 2:
		s.cap = CapRound
	case 3:
		s.cap = CapSquare
	default:
		s.cap = CapButt
	}
	switch p.LineJoin {
	case 2:
		s.join = JoinRound
	case 3:
		s.join = JoinBevel
	default:
		s.join = JoinMiter
	}
	s.miter = p.MiterLimit
	if s.miter == 0 {
		s.miter = 4
	}
	for _, d := range p.Dashes {
		s.dashes = append(s.dashes, dashProp{
			offset: d.Name == "o",
			value:  s.props.Add(property.New(d.Value, 1, 0)),
		})
	}
}

func (s *styleNode) update(ctx *property.Context) bool {
	s.changed = s.props.Update(ctx)
	return s.changed
}

// write stores the evaluated paint into dst. alpha is the product of the
// enclosing group opacities.
func (s *styleNode) write(dst *Style, alpha float64) {
	dst.Kind = s.kind
	dst.Opacity = s.opacity.Value().Float() * alpha
	dst.FillRule = s.rule
	if s.color != nil {
		dst.Color = ColorFromVector(s.color.Value().Vector)
	}
	if s.kind.IsStroke() {
		dst.Width = s.width.Value().Float()
		dst.Cap = s.cap
		dst.Join = s.join
		dst.Miter = s.miter
		dst.Dashes = dst.Dashes[:0]
		dst.DashOffset = 0
		for _, d := range s.dashes {
			v := d.value.Value().Float()
			if d.offset {
				dst.DashOffset = v
				continue
			}
			dst.Dashes = append(dst.Dashes, v)
		}
	}
	if s.stops != nil {
		if dst.Gradient == nil {
			dst.Gradient = &Gradient{}
		}
		s.writeGradient(dst.Gradient)
	}
}

func (s *styleNode) writeGradient(g *Gradient) {
	g.Type = s.gradType
	g.Start = s.start.Value().Point()
	g.End = s.end.Value().Point()
	g.Highlight = g.Start
	if g.Type == GradientRadial {
		d := g.End.Sub(g.Start)
		radius := d.Length()
		pct := geom.Clamp(s.hlLength.Value().Float(), -0.99, 0.99)
		angle := math.Atan2(d.Y, d.X) + s.hlAngle.Value().Float()
		g.Highlight = geom.Pt(
			g.Start.X+math.Cos(angle)*radius*pct,
			g.Start.Y+math.Sin(angle)*radius*pct,
		)
	}
	g.Stops = decodeStops(g.Stops[:0], s.stops.Value().Vector, s.stopCount)
}

// decodeStops unpacks count color stops (offset, r, g, b) followed by
// optional (offset, alpha) pairs. Alpha is interpolated at each color
// stop's offset.
func decodeStops(dst []GradientStop, data []float64, count int) []GradientStop {
	if count*4 > len(data) {
		count = len(data) / 4
	}
	alphas := data[count*4:]
	for i := 0; i < count; i++ {
		o := data[i*4]
		dst = append(dst, GradientStop{
			Offset: o,
			Color:  Color{R: data[i*4+1], G: data[i*4+2], B: data[i*4+3], A: alphaAt(alphas, o)},
		})
	}
	return dst
}

func alphaAt(pairs []float64, offset float64) float64 {
	n := len(pairs) / 2
	if n == 0 {
		return 1
	}
	if offset <= pairs[0] {
		return pairs[1]
	}
	for i := 1; i < n; i++ {
		o0, a0 := pairs[(i-1)*2], pairs[(i-1)*2+1]
		o1, a1 := pairs[i*2], pairs[i*2+1]
		if offset <= o1 {
			if o1 == o0 {
				return a1
			}
			return a0 + (a1-a0)*(offset-o0)/(o1-o0)
		}
	}
	return pairs[(n-1)*2+1]
}
