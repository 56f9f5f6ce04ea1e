package scene

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/shape"
	"github.com/gogpu/lottie/text"
)

// Options configures Build. The zero value is usable.
type Options struct {
	Log         *slog.Logger
	Fonts       text.FontResolver
	Expressions property.ExpressionHook

	// CurveSegments is the sample count of motion path arc-length tables.
	CurveSegments int
	// PoolCapacity is the initial capacity of each free list.
	PoolCapacity int
}

// Scene is the evaluated form of one document. Render walks it
// synchronously; a Scene is not safe for concurrent use, but independent
// scenes share no mutable state.
type Scene struct {
	doc  *document.Animation
	ctx  *property.Context
	root *composition
	log  *slog.Logger

	cancel context.Context
	frame  Frame
}

// composition is one layer list: the root document or the contents of a
// precomposition layer.
type composition struct {
	layers []*Layer
	byInd  map[int]*Layer

	// base maps the composition into root space.
	base        geom.Matrix
	baseChanged bool

	shown, prev []int
}

type builder struct {
	doc    *document.Animation
	log    *slog.Logger
	text   *text.Engine
	active map[string]bool
}

// Build creates the runtime scene for doc, normalizing it first if
// needed. Camera layers and unsupported shape modifiers fail with an
// *UnsupportedFeatureError.
func Build(doc *document.Animation, opts Options) (*Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("scene: nil document: %w", document.ErrMalformedDocument)
	}
	if !doc.Normalized() {
		doc.Normalize()
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ctx := property.NewContext(shape.NewPools(opts.PoolCapacity), log)
	ctx.Expressions = opts.Expressions
	if opts.CurveSegments > 0 {
		ctx.CurveSegments = opts.CurveSegments
	}

	b := &builder{
		doc:    doc,
		log:    log,
		text:   text.NewEngine(doc, opts.Fonts, log),
		active: make(map[string]bool),
	}
	root, err := b.composition(doc.Layers)
	if err != nil {
		return nil, err
	}
	log.Debug("lottie: scene built", "layers", len(root.layers), "assets", len(doc.Assets))
	return &Scene{doc: doc, ctx: ctx, root: root, log: log}, nil
}

func (b *builder) composition(layers []*document.Layer) (*composition, error) {
	c := &composition{byInd: make(map[int]*Layer), base: geom.Identity()}
	for i, dl := range layers {
		if dl == nil {
			continue
		}
		l, err := newLayer(b, c, i, dl)
		if err != nil {
			return nil, err
		}
		c.layers = append(c.layers, l)
		if l.Ind >= 0 {
			c.byInd[l.Ind] = l
		}
	}
	for _, l := range c.layers {
		if l.matte == nil || l.doc.MatteParent == nil {
			continue
		}
		if src := c.byInd[*l.doc.MatteParent]; src != nil {
			l.matte.Source = src.Index
		}
	}
	return c, nil
}

func (b *builder) precomp(l *document.Layer) (*precompLayer, error) {
	p := &precompLayer{frameRate: b.doc.FrameRate}
	if l.TimeRemap != nil {
		p.timeRemap = property.New(l.TimeRemap, 1, 0)
	}
	a := b.doc.Asset(l.RefID)
	if a == nil || !a.IsPrecomp() {
		b.log.Warn("lottie: precomp asset not found", "layer", l.Name, "ref", l.RefID)
		p.comp = &composition{byInd: make(map[int]*Layer), base: geom.Identity()}
		return p, nil
	}
	if b.active[a.ID] {
		return nil, fmt.Errorf("scene: precomp %q contains itself: %w", a.ID, document.ErrMalformedDocument)
	}
	b.active[a.ID] = true
	defer delete(b.active, a.ID)

	comp, err := b.composition(a.Layers)
	if err != nil {
		return nil, err
	}
	p.comp = comp
	return p, nil
}

// render evaluates the visible layers at composition frame f and appends
// them to dst in paint order. The flag reports whether anything differs
// from the previous render.
func (c *composition) render(ctx *property.Context, s *Scene, f float64, dst []*LayerFrame) ([]*LayerFrame, bool, error) {
	changed := false
	c.shown = c.shown[:0]
	for i := len(c.layers) - 1; i >= 0; i-- {
		if s.cancel != nil {
			if err := s.cancel.Err(); err != nil {
				return nil, false, err
			}
		}
		l := c.layers[i]
		if l.doc.Hidden || !l.inRange(f) {
			continue
		}
		lf, err := renderLayer(ctx, s, l, f)
		if err != nil {
			return nil, false, err
		}
		if lf == nil {
			continue
		}
		changed = changed || lf.Changed
		c.shown = append(c.shown, l.Index)
		dst = append(dst, lf)
	}
	if !slices.Equal(c.shown, c.prev) {
		changed = true
	}
	c.shown, c.prev = c.prev, c.shown
	return dst, changed, nil
}

func (c *composition) release(ctx *property.Context) {
	for _, l := range c.layers {
		releaseLayer(ctx, l)
	}
	c.prev = c.prev[:0]
}

// Render evaluates the scene at frame, in root composition frames. Frames
// outside the document range are clamped to it. ctx is checked between
// layers; a cancelled render returns ctx.Err() and no partial frame.
//
// The returned Frame is reused by the next Render.
func (s *Scene) Render(ctx context.Context, frame float64) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	frame = s.clamp(frame)
	id := s.ctx.Begin()

	s.cancel = ctx
	layers, _, err := s.root.render(s.ctx, s, frame, s.frame.Layers[:0])
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	s.frame = Frame{
		FrameID: id,
		Number:  frame,
		Width:   s.doc.Width,
		Height:  s.doc.Height,
		Layers:  layers,
	}
	return &s.frame, nil
}

// clamp limits frame to [ip, op). The last renderable frame of a
// document with integral out point is op-1.
func (s *Scene) clamp(frame float64) float64 {
	ip, op := s.doc.InPoint, s.doc.OutPoint
	if frame >= op {
		frame = op - 1
	}
	if frame < ip {
		frame = ip
	}
	return frame
}

// Release returns every pooled object held by the scene. The scene can
// still render afterwards; the next frame is rebuilt from scratch.
func (s *Scene) Release() {
	s.root.release(s.ctx)
	s.frame = Frame{}
}

// Pools returns the scene's pool arena, for statistics.
func (s *Scene) Pools() *shape.Pools { return s.ctx.Pools }

// Context returns the evaluation context.
func (s *Scene) Context() *property.Context { return s.ctx }

// Layers returns the root layers in document order.
func (s *Scene) Layers() []*Layer { return s.root.layers }

// Document returns the document the scene was built from.
func (s *Scene) Document() *document.Animation { return s.doc }
