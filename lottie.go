package lottie

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/scene"
	"github.com/gogpu/lottie/shape"
)

// Frame is the result of Animation.Render.
type Frame = scene.Frame

// Marker is a named frame range of the document.
type Marker = document.Marker

// Animation is a loaded document plus its evaluated scene. Render is
// synchronous and an Animation is not safe for concurrent use; separate
// Animations share nothing and can render in parallel.
type Animation struct {
	doc   *document.Animation
	scene *scene.Scene
	opts  options
	log   *slog.Logger

	hrefMu sync.Mutex
	hrefs  map[string]string
}

// Load reads, validates and normalizes a document and builds its scene.
func Load(r io.Reader, opts ...Option) (*Animation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lottie: read: %w", err)
	}
	return LoadBytes(data, opts...)
}

// LoadFile loads the document stored at name.
func LoadFile(name string, opts ...Option) (*Animation, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("lottie: %w", err)
	}
	return LoadBytes(data, opts...)
}

// LoadBytes is Load for an in-memory document.
func LoadBytes(data []byte, opts ...Option) (*Animation, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log
	if log == nil {
		log = Logger()
	}

	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lottie: load: %w", err)
	}
	if fr, ok := o.expressions.(interface{ SetFrameRate(float64) }); ok {
		fr.SetFrameRate(doc.FrameRate)
	}

	a := &Animation{doc: doc, opts: o, log: log}
	if err := a.build(); err != nil {
		return nil, err
	}
	log.Info("lottie: document loaded",
		"name", doc.Name,
		"version", doc.Version,
		"size", fmt.Sprintf("%gx%g", doc.Width, doc.Height),
		"frames", doc.OutPoint-doc.InPoint,
		"layers", len(doc.Layers))
	return a, nil
}

func (a *Animation) build() error {
	s, err := scene.Build(a.doc, scene.Options{
		Log:           a.log,
		Fonts:         a.opts.fonts,
		Expressions:   a.opts.expressions,
		CurveSegments: a.opts.curveSegments,
		PoolCapacity:  a.opts.poolCapacity,
	})
	if err != nil {
		return fmt.Errorf("lottie: build scene: %w", err)
	}
	a.scene = s
	return nil
}

// Render evaluates the animation at frame, in document frames. Frames
// outside [InPoint, OutPoint) are clamped. ctx is checked between layers;
// a cancelled render returns ctx.Err() and no frame.
//
// The returned Frame is owned by the Animation and is overwritten by the
// next Render.
func (a *Animation) Render(ctx context.Context, frame float64) (*Frame, error) {
	return a.scene.Render(ctx, frame)
}

// RenderProgress renders at normalized progress t, where 0 is the first
// frame and 1 the last.
func (a *Animation) RenderProgress(ctx context.Context, t float64) (*Frame, error) {
	return a.Render(ctx, a.FrameAt(t))
}

// FrameAt converts normalized progress to a document frame.
func (a *Animation) FrameAt(t float64) float64 {
	t = min(max(t, 0), 1)
	return a.doc.InPoint + t*a.lastFrameSpan()
}

func (a *Animation) lastFrameSpan() float64 {
	return max(a.doc.OutPoint-1-a.doc.InPoint, 0)
}

// AppendSegment merges a segment payload (additional layers, assets,
// fonts and markers) into the document and rebuilds the scene. On error
// the animation is unchanged.
func (a *Animation) AppendSegment(data []byte) error {
	seg, err := document.ParseSegment(data)
	if err != nil {
		return fmt.Errorf("lottie: segment: %w", err)
	}
	backup := *a.doc
	if err := a.doc.AppendSegment(seg); err != nil {
		return fmt.Errorf("lottie: segment: %w", err)
	}
	old := a.scene
	if err := a.build(); err != nil {
		*a.doc = backup
		return err
	}
	old.Release()
	a.log.Info("lottie: segment appended", "layers", len(seg.Layers), "assets", len(seg.Assets))
	return nil
}

// Release returns the pooled geometry held by the animation. It can still
// render afterwards.
func (a *Animation) Release() {
	a.scene.Release()
}

// Width returns the composition width.
func (a *Animation) Width() float64 { return a.doc.Width }

// Height returns the composition height.
func (a *Animation) Height() float64 { return a.doc.Height }

// FrameRate returns frames per second.
func (a *Animation) FrameRate() float64 { return a.doc.FrameRate }

// InPoint returns the first frame.
func (a *Animation) InPoint() float64 { return a.doc.InPoint }

// OutPoint returns the frame after the last one.
func (a *Animation) OutPoint() float64 { return a.doc.OutPoint }

// Name returns the document name.
func (a *Animation) Name() string { return a.doc.Name }

// Duration returns the play time from InPoint to OutPoint.
func (a *Animation) Duration() time.Duration {
	return a.FramesToDuration(a.doc.OutPoint - a.doc.InPoint)
}

// FramesToDuration converts a frame count to play time.
func (a *Animation) FramesToDuration(frames float64) time.Duration {
	return time.Duration(frames / a.doc.FrameRate * float64(time.Second))
}

// Markers returns the document markers.
func (a *Animation) Markers() []Marker { return a.doc.Markers }

// MarkerFrame returns the start frame of the marker named name.
func (a *Animation) MarkerFrame(name string) (float64, error) {
	m, ok := a.doc.Marker(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMarker, name)
	}
	return m.Time, nil
}

// AssetHref returns the reference for an image asset as produced by the
// AssetResolver. Results are cached. Unknown ids resolve to themselves.
func (a *Animation) AssetHref(id string) (string, error) {
	a.hrefMu.Lock()
	defer a.hrefMu.Unlock()
	if h, ok := a.hrefs[id]; ok {
		return h, nil
	}
	as := a.doc.Asset(id)
	if as == nil || as.IsPrecomp() {
		return id, nil
	}
	h, err := a.opts.assets.ResolveAsset(as)
	if err != nil {
		return "", fmt.Errorf("lottie: asset %q: %w", id, err)
	}
	if a.hrefs == nil {
		a.hrefs = make(map[string]string)
	}
	a.hrefs[id] = h
	return h, nil
}

// PoolStats reports geometry pool activity.
type PoolStats struct {
	Paths       shape.PoolStats
	Collections shape.PoolStats
	Lengths     shape.PoolStats
}

// Stats returns a snapshot of the pool counters.
func (a *Animation) Stats() PoolStats {
	p := a.scene.Pools()
	return PoolStats{
		Paths:       p.Paths.Stats(),
		Collections: p.Collections.Stats(),
		Lengths:     p.Lengths.Stats(),
	}
}

// Document returns the normalized document. It must not be modified.
func (a *Animation) Document() *document.Animation { return a.doc }

// Scene returns the runtime scene.
func (a *Animation) Scene() *scene.Scene { return a.scene }
