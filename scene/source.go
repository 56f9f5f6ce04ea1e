package scene

import (
	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/shape"
)

// sourceNode produces path geometry: a free-form path or a rectangle,
// ellipse or star primitive.
type sourceNode struct {
	typ      string
	props    property.Container
	path     *property.Shape
	reversed bool

	position  property.Property
	size      property.Property
	roundness property.Property

	polygon        bool
	points         property.Property
	rotation       property.Property
	outerRadius    property.Property
	outerRoundness property.Property
	innerRadius    property.Property
	innerRoundness property.Property

	coll    *shape.Collection
	changed bool
}

func newSource(item *document.ShapeItem) *sourceNode {
	s := &sourceNode{typ: item.Type}
	switch item.Type {
	case document.ShapePath:
		data := item.Path.Data
		if data == nil {
			data = &document.AnimatedShape{}
		}
		s.path = property.NewShape(data)
	case document.ShapeRect:
		r := item.Rect
		s.reversed = r.Direction == document.DirectionReversed
		s.position = s.props.Add(property.New(r.Position, 1, 0, 0))
		s.size = s.props.Add(property.New(r.Size, 1, 0, 0))
		s.roundness = s.props.Add(property.New(r.Roundness, 1, 0))
	case document.ShapeEllipse:
		e := item.Ellipse
		s.reversed = e.Direction == document.DirectionReversed
		s.position = s.props.Add(property.New(e.Position, 1, 0, 0))
		s.size = s.props.Add(property.New(e.Size, 1, 0, 0))
	case document.ShapeStar:
		st := item.Star
		s.reversed = st.Direction == document.DirectionReversed
		s.polygon = st.StarType == document.StarTypePolygon
		s.position = s.props.Add(property.New(st.Position, 1, 0, 0))
		s.points = s.props.Add(property.New(st.Points, 1, 5))
		s.rotation = s.props.Add(property.New(st.Rotation, 1, 0))
		s.outerRadius = s.props.Add(property.New(st.OuterRadius, 1, 0))
		s.outerRoundness = s.props.Add(property.New(st.OuterRoundness, 1, 0))
		s.innerRadius = s.props.Add(property.New(st.InnerRadius, 1, 0))
		s.innerRoundness = s.props.Add(property.New(st.InnerRoundness, 1, 0))
	}
	return s
}

// update evaluates the source and rebuilds its collection when the
// geometry changed.
func (s *sourceNode) update(ctx *property.Context) bool {
	if s.path != nil {
		s.changed = s.path.Update(ctx)
	} else {
		s.changed = s.props.Update(ctx)
	}
	if !s.changed && s.coll != nil {
		return false
	}
	s.changed = true
	s.release(ctx)
	s.coll = ctx.Pools.Collections.Acquire()
	if s.path != nil {
		s.coll.Add(s.path.Path())
		return true
	}
	p := ctx.Pools.Paths.Acquire()
	switch s.typ {
	case document.ShapeRect:
		shape.BuildRect(p, s.position.Value().Point(), s.size.Value().Point(),
			s.roundness.Value().Float(), s.reversed)
	case document.ShapeEllipse:
		shape.BuildEllipse(p, s.position.Value().Point(), s.size.Value().Point(), s.reversed)
	case document.ShapeStar:
		shape.BuildStar(p, shape.StarParams{
			Center:         s.position.Value().Point(),
			Points:         s.points.Value().Float(),
			Rotation:       s.rotation.Value().Float(),
			OuterRadius:    s.outerRadius.Value().Float(),
			OuterRoundness: s.outerRoundness.Value().Float(),
			InnerRadius:    s.innerRadius.Value().Float(),
			InnerRoundness: s.innerRoundness.Value().Float(),
			Polygon:        s.polygon,
			Reversed:       s.reversed,
		})
	}
	s.coll.AddOwned(p)
	return true
}

func (s *sourceNode) release(ctx *property.Context) {
	if s.coll != nil {
		ctx.Pools.Collections.Release(s.coll)
		s.coll = nil
	}
}
