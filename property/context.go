package property

import (
	"log/slog"

	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/shape"
)

// ExpressionHook may replace a property's interpolated value with a
// computed one. It is called once per evaluation of a property that carries
// expression source; returning ok == false keeps the interpolated value.
type ExpressionHook interface {
	Evaluate(source string, frame float64, v Value) (out Value, ok bool)
}

// Context is the per-animation evaluation state passed down every Update
// call. It replaces dirty flags and pools that would otherwise live in the
// object graph or in package globals.
//
// A Context is owned by one animation and is not safe for concurrent use.
type Context struct {
	// FrameID identifies the current render tick. Properties evaluate at
	// most once per FrameID.
	FrameID uint64

	// Frame is the local time of the element being evaluated, in frames.
	Frame float64

	Pools       *shape.Pools
	Expressions ExpressionHook
	Log         *slog.Logger

	// CurveSegments is the sample count of motion path arc-length tables.
	CurveSegments int

	easings *geom.EasingCache
}

// NewContext creates a context with its own pools and easing cache.
func NewContext(pools *shape.Pools, log *slog.Logger) *Context {
	if pools == nil {
		pools = shape.NewPools(shape.DefaultPoolCapacity)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Context{
		Pools:         pools,
		Log:           log,
		CurveSegments: geom.DefaultCurveSegments,
		easings:       geom.NewEasingCache(),
	}
}

// Begin starts a new render tick and returns its id.
func (c *Context) Begin() uint64 {
	c.FrameID++
	return c.FrameID
}

// At sets the local time and returns the previous one, so callers can
// restore it after evaluating a nested element:
//
//	defer ctx.At(ctx.At(local))
func (c *Context) At(frame float64) float64 {
	prev := c.Frame
	c.Frame = frame
	return prev
}

// Easing returns the shared timing function for the given handles.
func (c *Context) Easing(x1, y1, x2, y2 float64) *geom.Easing {
	if c.easings == nil {
		c.easings = geom.NewEasingCache()
	}
	return c.easings.Get(x1, y1, x2, y2)
}

// Easings returns the number of distinct timing functions built so far.
func (c *Context) Easings() int {
	if c.easings == nil {
		return 0
	}
	return c.easings.Len()
}

func (c *Context) segments() int {
	if c.CurveSegments < 2 {
		return geom.DefaultCurveSegments
	}
	return c.CurveSegments
}
