package scene

import (
	"log/slog"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/shape"
	"github.com/gogpu/lottie/text"
	"github.com/gogpu/lottie/transform"
)

// LayerKind tags the payload of a Layer.
type LayerKind uint8

// Layer kinds.
const (
	LayerNull LayerKind = iota
	LayerSolid
	LayerImage
	LayerPrecomp
	LayerShape
	LayerText
	LayerCamera
)

func (k LayerKind) String() string {
	switch k {
	case LayerNull:
		return "null"
	case LayerSolid:
		return "solid"
	case LayerImage:
		return "image"
	case LayerPrecomp:
		return "precomp"
	case LayerShape:
		return "shape"
	case LayerText:
		return "text"
	case LayerCamera:
		return "camera"
	default:
		return unknownStr
	}
}

func kindOf(t document.LayerType) (LayerKind, bool) {
	switch t {
	case document.LayerNull:
		return LayerNull, true
	case document.LayerSolid:
		return LayerSolid, true
	case document.LayerImage:
		return LayerImage, true
	case document.LayerPrecomp:
		return LayerPrecomp, true
	case document.LayerShape:
		return LayerShape, true
	case document.LayerText:
		return LayerText, true
	case document.LayerCamera:
		return LayerCamera, true
	default:
		return LayerNull, false
	}
}

// Layer is the runtime form of a document layer: common timing, hierarchy
// and transform state plus one payload selected by Kind.
type Layer struct {
	Kind  LayerKind
	Name  string
	Index int // position in the composition's layer list
	Ind   int // document index, -1 when absent

	doc       *document.Layer
	comp      *composition
	transform *transform.Bundle
	blend     BlendMode
	masks     []*maskNode
	matte     *Matte

	hierarchy []*Layer // ancestors, nearest first
	resolved  bool

	shapes  *shapeTree
	solid   *solidLayer
	precomp *precompLayer
	text    *textLayer

	evalID        uint64
	matrixChanged bool
	final         geom.Matrix
	started       bool
	shownID       uint64
	out           LayerFrame
}

type solidLayer struct {
	style Style
}

type precompLayer struct {
	comp      *composition
	timeRemap property.Property
	frameRate float64
}

type textLayer struct {
	doc    *document.TextDocumentProp
	engine *text.Engine
	last   *document.TextDocument
	coll   *shape.Collection
	styles []*Style
	fill   Style
	stroke Style
}

// newLayer builds the runtime layer for l. Camera layers are rejected.
func newLayer(b *builder, comp *composition, index int, l *document.Layer) (*Layer, error) {
	kind, known := kindOf(l.Type)
	if !known {
		b.log.Warn("lottie: treating unknown layer type as null", "type", int(l.Type), "layer", l.Name)
	}
	if kind == LayerCamera {
		return nil, unsupported("camera layer", l.Name)
	}
	if len(l.Effects) > 0 {
		b.log.Warn("lottie: ignoring layer effects", "layer", l.Name, "count", len(l.Effects))
	}
	ly := &Layer{
		Kind:      kind,
		Name:      l.Name,
		Index:     index,
		Ind:       l.Ind(),
		doc:       l,
		comp:      comp,
		transform: transform.New(l.Transform, l.AutoOrient == 1),
		blend:     blendFromDocument(l.BlendMode),
	}
	for _, m := range l.Masks {
		if m != nil {
			ly.masks = append(ly.masks, newMask(m))
		}
	}
	if l.MatteMode > 0 {
		ly.matte = &Matte{Mode: MatteMode(l.MatteMode), Source: index - 1}
	}

	var err error
	switch kind {
	case LayerShape:
		ly.shapes, err = newShapeTree(l.Shapes, l.Name, b.log)
	case LayerSolid:
		ly.solid = newSolid(l)
	case LayerPrecomp:
		ly.precomp, err = b.precomp(l)
	case LayerText:
		ly.text = &textLayer{engine: b.text}
		if l.Text != nil {
			ly.text.doc = l.Text.Document
		}
	}
	if err != nil {
		return nil, err
	}
	return ly, nil
}

func newSolid(l *document.Layer) *solidLayer {
	p := shape.NewPath(4)
	shape.BuildRect(p, geom.Pt(l.SolidWidth/2, l.SolidHeight/2), geom.Pt(l.SolidWidth, l.SolidHeight), 0, false)
	paths := shape.NewCollection()
	paths.Add(p)
	return &solidLayer{
		style: Style{
			Kind:    StyleFill,
			Color:   Hex(l.SolidColor),
			Opacity: 1,
			Paths:   paths,
			Matrix:  geom.Identity(),
		},
	}
}

// localTime maps composition time to the layer's own time.
func (l *Layer) localTime(compFrame float64) float64 {
	sr := l.doc.Stretch
	if sr == 0 {
		sr = 1
	}
	return (compFrame - l.doc.StartTime) / sr
}

// inRange reports whether the layer is shown at composition frame f.
func (l *Layer) inRange(f float64) bool {
	return l.doc.InPoint <= f && f < l.doc.OutPoint
}

// resolveHierarchy walks the parent chain once. A cycle or a dangling
// parent index ends the chain.
func (l *Layer) resolveHierarchy(log *slog.Logger) {
	if l.resolved {
		return
	}
	l.resolved = true
	seen := map[*Layer]bool{l: true}
	cur := l
	for cur.doc.Parent != nil {
		p := l.comp.byInd[*cur.doc.Parent]
		if p == nil {
			log.Warn("lottie: parent layer not found", "layer", cur.Name, "parent", *cur.doc.Parent)
			break
		}
		if seen[p] {
			log.Warn("lottie: parent cycle", "layer", l.Name)
			break
		}
		seen[p] = true
		l.hierarchy = append(l.hierarchy, p)
		cur = p
	}
}

// prepareLayer evaluates the transform of l and of every ancestor at
// their own local time, then updates the final matrix if any link in the
// chain changed. It reports whether the final matrix changed.
func prepareLayer(ctx *property.Context, l *Layer, compFrame float64, log *slog.Logger) bool {
	if l.started && l.evalID == ctx.FrameID {
		return l.matrixChanged
	}
	l.evalID = ctx.FrameID
	l.resolveHierarchy(log)

	ctx.Frame = l.localTime(compFrame)
	l.transform.Update(ctx)
	changed := l.transform.MatrixChanged() || l.comp.baseChanged || !l.started

	var parent *Layer
	if len(l.hierarchy) > 0 {
		parent = l.hierarchy[0]
		if prepareLayer(ctx, parent, compFrame, log) {
			changed = true
		}
	}
	if changed {
		l.final = *l.transform.Matrix()
		if parent != nil {
			l.final.Multiply(&parent.final)
		} else {
			l.final.Multiply(&l.comp.base)
		}
	}
	l.matrixChanged = changed
	l.started = true
	return changed
}

// renderLayer evaluates the payload of l and fills its output frame. It
// returns nil for layers that draw nothing.
func renderLayer(ctx *property.Context, s *Scene, l *Layer, compFrame float64) (*LayerFrame, error) {
	matrixChanged := prepareLayer(ctx, l, compFrame, s.log)
	local := l.localTime(compFrame)
	ctx.Frame = local

	out := &l.out
	changed := matrixChanged || l.transform.OpacityChanged() || l.shownID+1 != ctx.FrameID
	l.shownID = ctx.FrameID

	out.Index = l.Index
	out.Ind = l.Ind
	out.Name = l.Name
	out.Kind = l.Kind
	out.Matrix = l.final
	out.Opacity = l.transform.Opacity()
	out.Blend = l.blend
	out.Matte = l.matte
	out.MatteSource = l.doc.MatteSource != 0
	out.Styles = out.Styles[:0]
	out.Masks = out.Masks[:0]
	out.Children = out.Children[:0]

	for _, m := range l.masks {
		mf := m.update(ctx)
		changed = changed || mf.Changed
		out.Masks = append(out.Masks, mf)
	}

	switch l.Kind {
	case LayerShape:
		styles, c := l.shapes.evaluate(ctx)
		out.Styles = append(out.Styles, styles...)
		changed = changed || c
	case LayerSolid:
		l.solid.style.Changed = changed
		out.Styles = append(out.Styles, &l.solid.style)
		out.Size = geom.Pt(l.doc.SolidWidth, l.doc.SolidHeight)
	case LayerImage:
		out.AssetID = l.doc.RefID
		if a := s.doc.Asset(l.doc.RefID); a != nil {
			out.Size = geom.Pt(a.Width, a.Height)
		}
	case LayerPrecomp:
		out.AssetID = l.doc.RefID
		out.Size = geom.Pt(l.doc.Width, l.doc.Height)
		p := l.precomp
		childFrame := local
		if p.timeRemap != nil {
			if p.timeRemap.Update(ctx) {
				changed = true
			}
			childFrame = p.timeRemap.Value().Float() * p.frameRate
		}
		p.comp.base = l.final
		p.comp.baseChanged = matrixChanged
		children, c, err := p.comp.render(ctx, s, childFrame, out.Children)
		if err != nil {
			return nil, err
		}
		out.Children = children
		changed = changed || c
	case LayerText:
		styles, c, err := l.text.update(ctx, local)
		if err != nil {
			return nil, err
		}
		out.Styles = append(out.Styles, styles...)
		changed = changed || c
	default:
		return nil, nil
	}
	out.Changed = changed
	return out, nil
}

// update lays out the text document in effect at local and rebuilds the
// fill and stroke styles when it differs from the last one.
func (t *textLayer) update(ctx *property.Context, local float64) ([]*Style, bool, error) {
	d := t.doc.At(local)
	if d == t.last && t.coll != nil {
		for _, st := range t.styles {
			st.Changed = false
		}
		return t.styles, false, nil
	}
	t.last = d
	t.release(ctx)
	t.coll = ctx.Pools.Collections.Acquire()
	t.styles = t.styles[:0]
	if d == nil {
		return t.styles, true, nil
	}
	if err := t.engine.Layout(ctx, d, t.coll); err != nil {
		return nil, false, err
	}

	t.fill = Style{
		Kind:    StyleFill,
		Color:   ColorFromVector(d.FillColor),
		Opacity: 1,
		Paths:   t.coll,
		Matrix:  geom.Identity(),
		Changed: true,
	}
	hasFill := len(d.FillColor) >= 3
	hasStroke := len(d.StrokeColor) >= 3 && d.StrokeWidth > 0
	if hasStroke {
		t.stroke = Style{
			Kind:    StyleStroke,
			Color:   ColorFromVector(d.StrokeColor),
			Opacity: 1,
			Width:   d.StrokeWidth,
			Join:    JoinMiter,
			Miter:   4,
			Paths:   t.coll,
			Matrix:  geom.Identity(),
			Changed: true,
		}
	}
	// Later styles paint on top.
	switch {
	case hasFill && hasStroke && d.StrokeOverFill:
		t.styles = append(t.styles, &t.fill, &t.stroke)
	case hasFill && hasStroke:
		t.styles = append(t.styles, &t.stroke, &t.fill)
	case hasFill:
		t.styles = append(t.styles, &t.fill)
	case hasStroke:
		t.styles = append(t.styles, &t.stroke)
	}
	return t.styles, true, nil
}

func (t *textLayer) release(ctx *property.Context) {
	if t.coll != nil {
		ctx.Pools.Collections.Release(t.coll)
		t.coll = nil
	}
}

// releaseLayer returns every pooled object held by l.
func releaseLayer(ctx *property.Context, l *Layer) {
	switch l.Kind {
	case LayerShape:
		l.shapes.releaseAll(ctx)
	case LayerText:
		l.text.release(ctx)
		l.text.last = nil
	case LayerPrecomp:
		l.precomp.comp.release(ctx)
	}
	for _, m := range l.masks {
		m.path.Release(ctx)
	}
	l.started = false
}
