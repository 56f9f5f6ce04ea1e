package property

import (
	"math"

	"github.com/gogpu/lottie/document"
)

// Property is an animatable value.
//
// Update evaluates the property for ctx.FrameID at ctx.Frame and reports
// whether the value changed since the previous evaluation. Repeated calls
// with the same FrameID return the memoized result without recomputing.
// Value returns the result of the last Update.
type Property interface {
	Update(ctx *Context) bool
	Value() Value
	Animated() bool

	// Sample evaluates the property at an arbitrary frame without touching
	// the memoized value or the keyframe cursor. Expressions are not
	// applied.
	Sample(ctx *Context, frame float64) Value
}

// Counter is implemented by properties that count their evaluations.
type Counter interface {
	Evaluations() int
}

// Degrees to radians multiplier for rotation properties.
const DegToRad = math.Pi / 180

// memo carries the per-frame memoization state shared by all property
// kinds.
type memo struct {
	frameID     uint64
	evaluated   bool
	changed     bool
	lastFrame   float64
	evaluations int
}

// cached reports whether the property was already evaluated this tick.
func (m *memo) cached(ctx *Context) bool {
	return m.evaluated && m.frameID == ctx.FrameID
}

func (m *memo) stamp(ctx *Context, changed bool) bool {
	m.frameID = ctx.FrameID
	m.lastFrame = ctx.Frame
	m.evaluated = true
	m.changed = changed
	return changed
}

// Evaluations returns how many times the value was recomputed.
func (m *memo) Evaluations() int { return m.evaluations }

// New builds a property from document data. mult scales every component
// (for example 1/100 for percentages or DegToRad for rotations). A nil a
// yields a static property holding def.
//
// A single keyframe is treated like a constant: the property is static and
// evaluated once.
func New(a *document.Animated, mult float64, def ...float64) Property {
	return build(a, mult, false, def)
}

// NewOrientation builds a 3-component rotation property whose keyframes
// are interpolated along the shortest arc between orientations instead of
// per axis.
func NewOrientation(a *document.Animated, mult float64) Property {
	return build(a, mult, true, []float64{0, 0, 0})
}

func build(a *document.Animated, mult float64, quaternion bool, def []float64) Property {
	switch {
	case a == nil:
		return NewStatic(def, mult)
	case a.Split:
		return newSplit(a, mult, def)
	case len(a.Keyframes) > 1:
		return newKeyframed(keyframesFrom(a.Keyframes), mult, quaternion, a.Expression)
	case len(a.Keyframes) == 1:
		return newStatic(a.Keyframes[0].S, mult, a.Expression)
	case a.Static != nil:
		return newStatic(a.Static, mult, a.Expression)
	default:
		return newStatic(def, mult, a.Expression)
	}
}

// Static is a constant value. Without an expression it is computed once at
// construction and Update only reports a change on its first call.
type Static struct {
	memo
	pv     []float64
	v      []float64
	scalar bool
	mult   float64
	expr   string
}

// NewStatic creates a constant property.
func NewStatic(v []float64, mult float64) *Static {
	return newStatic(v, mult, "")
}

func newStatic(v []float64, mult float64, expr string) *Static {
	s := &Static{
		pv:     append([]float64(nil), v...),
		v:      make([]float64, len(v)),
		scalar: len(v) == 1,
		mult:   mult,
		expr:   expr,
	}
	scale(s.v, s.pv, mult)
	s.evaluations = 1
	return s
}

// Update implements Property.
func (s *Static) Update(ctx *Context) bool {
	if s.cached(ctx) {
		return s.changed
	}
	if s.expr == "" || ctx.Expressions == nil {
		return s.stamp(ctx, !s.evaluated)
	}
	s.evaluations++
	changed := applyExpression(ctx, s.expr, s.pv, s.v, s.scalar, s.mult)
	return s.stamp(ctx, changed || !s.evaluated)
}

// Value implements Property.
func (s *Static) Value() Value { return value(s.v, s.scalar) }

// Animated reports whether an expression makes the value time dependent.
func (s *Static) Animated() bool { return s.expr != "" }

// Sample implements Property.
func (s *Static) Sample(*Context, float64) Value {
	return value(append([]float64(nil), s.v...), s.scalar)
}

func value(v []float64, scalar bool) Value {
	if scalar {
		return Scalar(v[0])
	}
	return Vector(v)
}

// scale writes src*mult into dst and reports whether dst changed.
func scale(dst, src []float64, mult float64) bool {
	changed := false
	for i, x := range src {
		x *= mult
		if dst[i] != x {
			dst[i] = x
			changed = true
		}
	}
	return changed
}

// applyExpression runs the expression hook on the raw value pv and writes
// the scaled result into v. Without a substitution v is refreshed from pv.
func applyExpression(ctx *Context, src string, pv, v []float64, scalar bool, mult float64) bool {
	out, ok := ctx.Expressions.Evaluate(src, ctx.Frame, value(pv, scalar))
	if !ok {
		return scale(v, pv, mult)
	}
	changed := false
	for i := range v {
		x := out.Dim(i) * mult
		if out.Kind == KindScalar && i > 0 {
			x = pv[i] * mult
		}
		if v[i] != x {
			v[i] = x
			changed = true
		}
	}
	return changed
}
