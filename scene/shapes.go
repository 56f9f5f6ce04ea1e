package scene

import (
	"log/slog"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/modifier"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/shape"
	"github.com/gogpu/lottie/transform"
)

// geometry is the current path set of one source. Modifiers replace c in
// place, so every group level that references the source sees the result.
type geometry struct {
	c     *shape.Collection
	dirty bool
}

// piece places a geometry in the space of one group.
type piece struct {
	geo *geometry
	m   geom.Matrix
}

type nodeKind uint8

const (
	nodeSource nodeKind = iota
	nodeStyle
	nodeModifier
	nodeGroup
	nodeRepeat
)

type shapeNode struct {
	kind   nodeKind
	source *sourceNode
	style  *styleNode
	mod    modifier.Modifier
	group  *groupNode
	repeat *repeatNode

	modChanged bool
	geo        geometry
	pieces     []piece
}

// groupNode is a shape group: an ordered item list under one transform.
// Items earlier in the list are painted on top of later ones.
type groupNode struct {
	items     []*shapeNode
	transform *transform.Bundle
}

// repeatNode holds the items preceding a repeater, copied once per
// repeater instance.
type repeatNode struct {
	rep     *modifier.Repeater
	sub     *groupNode
	changed bool
}

// buildGroup converts document items into a group. Items before a repeater
// are folded into a repeatNode so the repeater copies exactly them.
func buildGroup(items []*document.ShapeItem, layer string, log *slog.Logger) (*groupNode, error) {
	g := &groupNode{}
	for _, item := range items {
		if item == nil || item.Hidden {
			continue
		}
		var n *shapeNode
		switch item.Type {
		case document.ShapeTransform:
			g.transform = transform.New(item.Transform, false)
			continue
		case document.ShapeGroup:
			var children []*document.ShapeItem
			if item.Group != nil {
				children = item.Group.Items
			}
			child, err := buildGroup(children, layer, log)
			if err != nil {
				return nil, err
			}
			n = &shapeNode{kind: nodeGroup, group: child}
		case document.ShapePath, document.ShapeRect, document.ShapeEllipse, document.ShapeStar:
			n = &shapeNode{kind: nodeSource, source: newSource(item)}
		case document.ShapeFill, document.ShapeStroke, document.ShapeGradientFill, document.ShapeGradientStroke:
			n = &shapeNode{kind: nodeStyle, style: newStyle(item)}
		case document.ShapeTrim:
			n = &shapeNode{kind: nodeModifier, mod: modifier.NewTrim(item.Trim)}
		case document.ShapeRoundCorners:
			n = &shapeNode{kind: nodeModifier, mod: modifier.NewRoundCorners(item.RoundCorners)}
		case document.ShapeRepeater:
			sub := &groupNode{items: g.items}
			g.items = []*shapeNode{{kind: nodeRepeat, repeat: &repeatNode{
				rep: modifier.NewRepeater(item.Repeater),
				sub: sub,
			}}}
			continue
		case document.ShapeMerge:
			return nil, unsupported("merge paths", layer)
		case document.ShapeOffset:
			return nil, unsupported("offset path", layer)
		case document.ShapePuckerBloat:
			return nil, unsupported("pucker/bloat", layer)
		case document.ShapeZigZag:
			return nil, unsupported("zig zag", layer)
		case document.ShapeTwist:
			return nil, unsupported("twist", layer)
		default:
			log.Warn("lottie: ignoring unknown shape item", "type", item.Type, "name", item.Name, "layer", layer)
			continue
		}
		g.items = append(g.items, n)
	}
	return g, nil
}

func (g *groupNode) matrix() *geom.Matrix {
	if g.transform == nil {
		return nil
	}
	return g.transform.Matrix()
}

func (g *groupNode) opacity() float64 {
	if g.transform == nil {
		return 1
	}
	return g.transform.Opacity()
}

func (g *groupNode) transformChanged() bool {
	return g.transform != nil && (g.transform.MatrixChanged() || g.transform.OpacityChanged())
}

// update evaluates every property in the group and reports whether any of
// them changed.
func (g *groupNode) update(ctx *property.Context) bool {
	changed := false
	if g.transform != nil && g.transform.Update(ctx) {
		changed = true
	}
	for _, n := range g.items {
		var c bool
		switch n.kind {
		case nodeSource:
			c = n.source.update(ctx)
		case nodeStyle:
			c = n.style.update(ctx)
		case nodeModifier:
			n.modChanged = n.mod.Update(ctx)
			c = n.modChanged
		case nodeGroup:
			c = n.group.update(ctx)
		case nodeRepeat:
			r := n.repeat
			r.changed = r.rep.Update(ctx)
			if r.sub.update(ctx) {
				c = true
			}
			c = c || r.changed
		}
		if c {
			changed = true
		}
	}
	return changed
}

// layout collects the geometry of every item, expressed in the group's
// space, and runs the group's modifiers over it.
func (g *groupNode) layout(ctx *property.Context, t *shapeTree) {
	for i, n := range g.items {
		n.pieces = n.pieces[:0]
		switch n.kind {
		case nodeSource:
			n.geo = geometry{c: n.source.coll, dirty: n.source.changed}
			n.pieces = append(n.pieces, piece{geo: &n.geo, m: geom.Identity()})
		case nodeGroup:
			child := n.group
			child.layout(ctx, t)
			cm := child.matrix()
			dirty := child.transformChanged()
			for _, c := range child.items {
				for _, p := range c.pieces {
					if cm != nil {
						p.m.Multiply(cm)
					}
					p.geo.dirty = p.geo.dirty || dirty
					n.pieces = append(n.pieces, p)
				}
			}
		case nodeRepeat:
			r := n.repeat
			r.sub.layout(ctx, t)
			inst := r.rep.Instances()
			for _, k := range r.rep.PaintOrder() {
				for _, c := range r.sub.items {
					for _, p := range c.pieces {
						p.m.Multiply(&inst[k].Matrix)
						p.geo.dirty = p.geo.dirty || r.changed
						n.pieces = append(n.pieces, p)
					}
				}
			}
		case nodeModifier:
			g.modify(ctx, t, n, g.items[:i])
		}
	}
}

// modify applies the modifier n to the distinct geometries of targets.
func (g *groupNode) modify(ctx *property.Context, t *shapeTree, n *shapeNode, targets []*shapeNode) {
	var geos []*geometry
	seen := make(map[*geometry]bool)
	for _, tn := range targets {
		for _, p := range tn.pieces {
			if !seen[p.geo] {
				seen[p.geo] = true
				geos = append(geos, p.geo)
			}
		}
	}
	if len(geos) == 0 {
		return
	}
	in := make([]*shape.Collection, len(geos))
	out := make([]*shape.Collection, len(geos))
	for i, geo := range geos {
		in[i] = geo.c
		out[i] = ctx.Pools.Collections.Acquire()
		t.owned = append(t.owned, out[i])
	}
	n.mod.Apply(ctx, in, out)
	for i, geo := range geos {
		geo.c = out[i]
		geo.dirty = geo.dirty || n.modChanged
	}
}

// emit appends the group's styles to t in paint order. toLayer maps group
// space to layer space and alpha is the product of enclosing opacities.
func (g *groupNode) emit(ctx *property.Context, t *shapeTree, toLayer geom.Matrix, alpha float64, chainChanged bool) {
	for i := len(g.items) - 1; i >= 0; i-- {
		n := g.items[i]
		switch n.kind {
		case nodeStyle:
			t.paint(ctx, n.style, g.items[:i], toLayer, alpha, chainChanged)
		case nodeGroup:
			child := n.group
			m := toLayer
			if cm := child.matrix(); cm != nil {
				m = *cm
				m.Multiply(&toLayer)
			}
			child.emit(ctx, t, m, alpha*child.opacity(), chainChanged || child.transformChanged())
		case nodeRepeat:
			r := n.repeat
			inst := r.rep.Instances()
			for _, k := range r.rep.PaintOrder() {
				m := inst[k].Matrix
				m.Multiply(&toLayer)
				r.sub.emit(ctx, t, m, alpha*inst[k].Opacity, chainChanged || r.changed)
			}
		}
	}
}

// shapeTree is the evaluated shape list of one shape layer.
type shapeTree struct {
	root    *groupNode
	owned   []*shape.Collection
	styles  []*Style
	n       int
	started bool
}

func newShapeTree(items []*document.ShapeItem, layer string, log *slog.Logger) (*shapeTree, error) {
	root, err := buildGroup(items, layer, log)
	if err != nil {
		return nil, err
	}
	return &shapeTree{root: root}, nil
}

// evaluate updates the tree and, when anything changed, rebuilds its
// styles. It returns the styles and whether they changed.
func (t *shapeTree) evaluate(ctx *property.Context) ([]*Style, bool) {
	changed := t.root.update(ctx)
	if !changed && t.started {
		for _, s := range t.styles[:t.n] {
			s.Changed = false
		}
		return t.styles[:t.n], false
	}
	t.release(ctx)
	t.root.layout(ctx, t)
	t.n = 0
	t.root.emit(ctx, t, geom.Identity(), 1, !t.started)
	t.started = true
	return t.styles[:t.n], true
}

// paint emits one style painting the geometry of items.
func (t *shapeTree) paint(ctx *property.Context, s *styleNode, items []*shapeNode, toLayer geom.Matrix, alpha float64, chainChanged bool) {
	if t.n == len(t.styles) {
		t.styles = append(t.styles, &Style{})
	}
	out := t.styles[t.n]
	t.n++

	prevAlpha := out.Opacity
	s.write(out, alpha)
	changed := chainChanged || s.changed || out.Opacity != prevAlpha || !out.Matrix.Equal(&toLayer)
	out.Matrix = toLayer

	c := ctx.Pools.Collections.Acquire()
	t.owned = append(t.owned, c)
	for _, n := range items {
		for _, p := range n.pieces {
			changed = changed || p.geo.dirty
			for _, path := range p.geo.c.Paths() {
				if p.m.IsIdentity() {
					c.Add(path)
					continue
				}
				dst := ctx.Pools.Paths.Acquire()
				path.TransformInto(&p.m, dst)
				c.AddOwned(dst)
			}
		}
	}
	out.Paths = c
	out.Changed = changed
}

// release returns the collections built by the last rebuild.
func (t *shapeTree) release(ctx *property.Context) {
	for _, c := range t.owned {
		ctx.Pools.Collections.Release(c)
	}
	t.owned = t.owned[:0]
}

// releaseAll returns every pooled object held by the tree.
func (t *shapeTree) releaseAll(ctx *property.Context) {
	t.release(ctx)
	t.root.releaseSources(ctx)
	t.started = false
}

func (g *groupNode) releaseSources(ctx *property.Context) {
	for _, n := range g.items {
		switch n.kind {
		case nodeSource:
			n.source.release(ctx)
			if n.source.path != nil {
				n.source.path.Release(ctx)
			}
		case nodeGroup:
			n.group.releaseSources(ctx)
		case nodeRepeat:
			n.repeat.sub.releaseSources(ctx)
		}
	}
}
