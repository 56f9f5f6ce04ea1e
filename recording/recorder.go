package recording

import (
	"math"

	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/scene"
	"github.com/gogpu/lottie/shape"
)

// Recorder converts evaluated frames into drawing commands. Use Record
// for a one-shot conversion or RecordFrame plus FinishRecording to
// collect several frames into one recording.
//
// Example:
//
//	frame, _ := anim.Render(ctx, 12)
//	r := recording.NewRecorder(0, 0).Record(frame)
//	svg, _ := recording.NewBackend("svg")
//	r.Playback(svg)
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	width, height int
	commands      []Command
	resources     *ResourcePool
}

// NewRecorder creates a new Recorder for the given canvas size. A zero
// size is taken from the first recorded frame.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:     width,
		height:    height,
		commands:  make([]Command, 0, 256),
		resources: NewResourcePool(),
	}
}

// FinishRecording returns an immutable Recording containing all recorded
// commands. The Recorder starts over empty afterwards.
func (r *Recorder) FinishRecording() *Recording {
	rec := &Recording{
		width:     r.width,
		height:    r.height,
		commands:  r.commands,
		resources: r.resources,
	}
	r.commands = make([]Command, 0, 256)
	r.resources = NewResourcePool()
	return rec
}

// Record converts frame into a recording. Paths are copied, so the
// recording stays valid after the next render.
func (r *Recorder) Record(frame *scene.Frame) *Recording {
	r.RecordFrame(frame)
	return r.FinishRecording()
}

// RecordFrame appends the drawing commands of frame.
func (r *Recorder) RecordFrame(frame *scene.Frame) {
	if frame == nil {
		return
	}
	if r.width == 0 && r.height == 0 {
		r.width = int(math.Ceil(frame.Width))
		r.height = int(math.Ceil(frame.Height))
	}
	r.layers(frame.Layers)
}

// Width returns the width of the recording canvas.
func (r *Recorder) Width() int {
	return r.width
}

// Height returns the height of the recording canvas.
func (r *Recorder) Height() int {
	return r.height
}

func (r *Recorder) push(c Command) {
	r.commands = append(r.commands, c)
}

// layers records a list in paint order. Matte sources are drawn only as
// part of the layer they clip.
func (r *Recorder) layers(layers []*scene.LayerFrame) {
	for _, lf := range layers {
		if lf.MatteSource {
			continue
		}
		var matte *scene.LayerFrame
		if lf.Matte != nil {
			matte = findLayer(layers, lf.Matte.Source)
			if matte == nil {
				// An absent matte is empty: it hides everything unless
				// inverted.
				if !matteMode(lf.Matte.Mode).Inverted() {
					continue
				}
			}
		}
		r.layer(lf, matte)
	}
}

func findLayer(layers []*scene.LayerFrame, index int) *scene.LayerFrame {
	for _, lf := range layers {
		if lf.Index == index {
			return lf
		}
	}
	return nil
}

func (r *Recorder) layer(lf *scene.LayerFrame, matte *scene.LayerFrame) {
	r.push(SaveCommand{})
	if lf.Opacity < 1 {
		r.push(SetOpacityCommand{Alpha: lf.Opacity})
	}
	if matte != nil {
		r.push(BeginMatteCommand{Mode: matteMode(lf.Matte.Mode)})
		r.layer(matte, nil)
		r.push(EndMatteCommand{})
	}

	m := FromGeom(&lf.Matrix)
	transformSet := false
	setLayerTransform := func() {
		if !transformSet {
			r.push(SetTransformCommand{Matrix: m})
			transformSet = true
		}
	}
	for _, mf := range lf.Masks {
		if mf.Mode == scene.MaskNone || mf.Path == nil {
			continue
		}
		setLayerTransform()
		r.push(PushMaskCommand{
			Path: r.resources.AddPath(mf.Path),
			Mask: Mask{Mode: MaskMode(mf.Mode), Inverted: mf.Inverted, Opacity: mf.Opacity},
		})
	}

	switch lf.Kind {
	case scene.LayerImage:
		setLayerTransform()
		r.push(DrawImageCommand{AssetID: lf.AssetID, Width: lf.Size.X, Height: lf.Size.Y})
	case scene.LayerPrecomp:
		if lf.Size.X > 0 && lf.Size.Y > 0 {
			setLayerTransform()
			clip := shape.NewPath(4)
			shape.BuildRect(clip, geom.Pt(lf.Size.X/2, lf.Size.Y/2), lf.Size, 0, false)
			r.push(PushMaskCommand{Path: r.resources.AddPath(clip), Mask: Mask{Opacity: 1}})
		}
		r.layers(lf.Children)
	}
	for _, st := range lf.Styles {
		r.style(st, &lf.Matrix)
	}
	r.push(RestoreCommand{})
}

func (r *Recorder) style(st *scene.Style, layer *geom.Matrix) {
	if st.Paths == nil || st.Paths.Len() == 0 || st.Opacity <= 0 {
		return
	}
	if st.Kind.IsStroke() && st.Width <= 0 {
		return
	}
	refs := make([]PathRef, 0, st.Paths.Len())
	for _, p := range st.Paths.Paths() {
		if p.Len() == 0 {
			continue
		}
		refs = append(refs, r.resources.AddPath(p))
	}
	if len(refs) == 0 {
		return
	}
	m := st.Matrix
	m.Multiply(layer)
	r.push(SetTransformCommand{Matrix: FromGeom(&m)})
	brush := r.resources.AddBrush(BrushFromStyle(st))
	if st.Kind.IsStroke() {
		r.push(StrokePathCommand{Paths: refs, Brush: brush, Stroke: strokeFromStyle(st)})
		return
	}
	rule := FillRuleNonZero
	if st.FillRule == scene.FillEvenOdd {
		rule = FillRuleEvenOdd
	}
	r.push(FillPathCommand{Paths: refs, Brush: brush, Rule: rule})
}

func strokeFromStyle(st *scene.Style) Stroke {
	s := Stroke{
		Width:      st.Width,
		Cap:        LineCap(st.Cap),
		Join:       LineJoin(st.Join),
		MiterLimit: st.Miter,
		DashOffset: st.DashOffset,
	}
	if len(st.Dashes) > 0 {
		s.DashPattern = append([]float64(nil), st.Dashes...)
	}
	return s
}

func matteMode(m scene.MatteMode) MatteMode {
	switch m {
	case scene.MatteAlphaInverted:
		return MatteAlphaInverted
	case scene.MatteLuma:
		return MatteLuma
	case scene.MatteLumaInverted:
		return MatteLumaInverted
	default:
		return MatteAlpha
	}
}

// Recording is an immutable container for recorded drawing commands.
// It can be replayed to any Backend implementation.
type Recording struct {
	width, height int
	commands      []Command
	resources     *ResourcePool
}

// Width returns the width of the recording canvas.
func (r *Recording) Width() int {
	return r.width
}

// Height returns the height of the recording canvas.
func (r *Recording) Height() int {
	return r.height
}

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Resources returns the resource pool.
func (r *Recording) Resources() *ResourcePool {
	return r.resources
}

// Playback replays the recording to the given backend.
func (r *Recording) Playback(backend Backend) error {
	if err := backend.Begin(r.width, r.height); err != nil {
		return err
	}

	var paths []*shape.Path
	for _, cmd := range r.commands {
		switch c := cmd.(type) {
		case SaveCommand:
			backend.Save()
		case RestoreCommand:
			backend.Restore()
		case SetTransformCommand:
			backend.SetTransform(c.Matrix)
		case SetOpacityCommand:
			backend.SetOpacity(c.Alpha)
		case PushMaskCommand:
			backend.PushMask(r.resources.GetPath(c.Path), c.Mask)
		case BeginMatteCommand:
			backend.BeginMatte(c.Mode)
		case EndMatteCommand:
			backend.EndMatte()
		case PopMaskCommand:
			backend.PopMask()
		case FillPathCommand:
			paths = r.resolve(paths[:0], c.Paths)
			backend.FillPath(paths, r.resources.GetBrush(c.Brush), c.Rule)
		case StrokePathCommand:
			paths = r.resolve(paths[:0], c.Paths)
			backend.StrokePath(paths, r.resources.GetBrush(c.Brush), c.Stroke)
		case DrawImageCommand:
			backend.DrawImage(c.AssetID, c.Width, c.Height)
		}
	}

	return backend.End()
}

func (r *Recording) resolve(dst []*shape.Path, refs []PathRef) []*shape.Path {
	for _, ref := range refs {
		if p := r.resources.GetPath(ref); p != nil {
			dst = append(dst, p)
		}
	}
	return dst
}
