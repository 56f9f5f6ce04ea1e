package scene

import (
	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/property"
)

type maskNode struct {
	path    *property.Shape
	opacity property.Property
	expand  property.Property
	out     MaskFrame
}

func newMask(m *document.Mask) *maskNode {
	data := m.Shape
	if data == nil {
		data = &document.AnimatedShape{}
	}
	return &maskNode{
		path:    property.NewShape(data),
		opacity: property.New(m.Opacity, 0.01, 100),
		expand:  property.New(m.Expand, 1, 0),
		out: MaskFrame{
			Name:     m.Name,
			Mode:     maskMode(m.Mode),
			Inverted: m.Inverted,
		},
	}
}

func maskMode(s string) MaskMode {
	switch s {
	case document.MaskSubtract:
		return MaskSubtract
	case document.MaskIntersect:
		return MaskIntersect
	case document.MaskLighten:
		return MaskLighten
	case document.MaskDarken:
		return MaskDarken
	case document.MaskDifference:
		return MaskDifference
	case document.MaskNone:
		return MaskNone
	default:
		return MaskAdd
	}
}

func (m *maskNode) update(ctx *property.Context) *MaskFrame {
	changed := m.path.Update(ctx)
	if m.opacity.Update(ctx) {
		changed = true
	}
	if m.expand.Update(ctx) {
		changed = true
	}
	m.out.Path = m.path.Path()
	m.out.Opacity = m.opacity.Value().Float()
	m.out.Expand = m.expand.Value().Float()
	m.out.Changed = changed
	return &m.out
}
