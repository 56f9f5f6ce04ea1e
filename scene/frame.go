package scene

import (
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/shape"
)

// Frame is the renderable result of one Render call. Layers are listed in
// paint order: later entries are drawn on top.
//
// A Frame and everything reachable from it, paths included, stay valid
// until the next Render on the same scene. Backends must treat paths as
// read-only and copy what they need to keep.
type Frame struct {
	FrameID uint64
	Number  float64
	Width   float64
	Height  float64
	Layers  []*LayerFrame
}

// LayerFrame is the evaluated state of one visible layer.
type LayerFrame struct {
	Index int // position in the layer list of its composition
	Ind   int // document layer index, -1 when absent
	Name  string
	Kind  LayerKind

	// Matrix maps layer space to root composition space.
	Matrix  geom.Matrix
	Opacity float64
	Blend   BlendMode

	Styles []*Style
	Masks  []*MaskFrame

	// Matte is set when the layer is clipped by a track matte.
	Matte *Matte
	// MatteSource is set when the layer only serves as another layer's
	// track matte and is not drawn itself.
	MatteSource bool

	AssetID string
	Size    geom.Point

	// Children holds the contents of a precomposition in paint order. The
	// layer's opacity, masks and size act on the group as a whole.
	Children []*LayerFrame

	// Changed is false when nothing about the layer differs from the
	// previous frame.
	Changed bool
}

// StyleKind identifies how a style paints its paths.
type StyleKind uint8

// Style kinds.
const (
	StyleFill StyleKind = iota
	StyleStroke
	StyleGradientFill
	StyleGradientStroke
)

func (k StyleKind) String() string {
	switch k {
	case StyleFill:
		return "fill"
	case StyleStroke:
		return "stroke"
	case StyleGradientFill:
		return "gradient-fill"
	case StyleGradientStroke:
		return "gradient-stroke"
	default:
		return unknownStr
	}
}

// IsStroke reports whether the style strokes its paths.
func (k StyleKind) IsStroke() bool { return k == StyleStroke || k == StyleGradientStroke }

// FillRule selects the winding rule of fills.
type FillRule uint8

// Fill rules.
const (
	FillNonZero FillRule = iota
	FillEvenOdd
)

// LineCap is a stroke cap style.
type LineCap uint8

// Line caps.
const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin is a stroke join style.
type LineJoin uint8

// Line joins.
const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// GradientType distinguishes linear from radial gradients.
type GradientType uint8

// Gradient types.
const (
	GradientLinear GradientType = iota
	GradientRadial
)

// GradientStop is one color stop.
type GradientStop struct {
	Offset float64
	Color  Color
}

// Gradient describes a gradient paint in style space.
type Gradient struct {
	Type       GradientType
	Start, End geom.Point
	// Highlight is the focal point of radial gradients.
	Highlight geom.Point
	Stops     []GradientStop
}

// Style is one paint operation: a fill or stroke applied to a set of paths.
type Style struct {
	Kind     StyleKind
	Color    Color
	Opacity  float64 // style opacity times the opacity of enclosing groups
	FillRule FillRule

	Width      float64
	Cap        LineCap
	Join       LineJoin
	Miter      float64
	Dashes     []float64
	DashOffset float64

	Gradient *Gradient

	// Paths are expressed in style space; Matrix maps style space to layer
	// space.
	Paths  *shape.Collection
	Matrix geom.Matrix

	Changed bool
}

// MaskMode is how a mask combines with the masks before it.
type MaskMode uint8

// Mask modes.
const (
	MaskAdd MaskMode = iota
	MaskSubtract
	MaskIntersect
	MaskLighten
	MaskDarken
	MaskDifference
	MaskNone
)

func (m MaskMode) String() string {
	switch m {
	case MaskAdd:
		return "add"
	case MaskSubtract:
		return "subtract"
	case MaskIntersect:
		return "intersect"
	case MaskLighten:
		return "lighten"
	case MaskDarken:
		return "darken"
	case MaskDifference:
		return "difference"
	case MaskNone:
		return "none"
	default:
		return unknownStr
	}
}

// MaskFrame is the evaluated state of one layer mask. The path is in layer
// space.
type MaskFrame struct {
	Name     string
	Mode     MaskMode
	Inverted bool
	Opacity  float64
	Expand   float64
	Path     *shape.Path
	Changed  bool
}

// MatteMode is the channel a track matte uses.
type MatteMode uint8

// Track matte modes, numbered as in documents.
const (
	MatteAlpha MatteMode = iota + 1
	MatteAlphaInverted
	MatteLuma
	MatteLumaInverted
)

func (m MatteMode) String() string {
	switch m {
	case MatteAlpha:
		return "alpha"
	case MatteAlphaInverted:
		return "alpha-inverted"
	case MatteLuma:
		return "luma"
	case MatteLumaInverted:
		return "luma-inverted"
	default:
		return unknownStr
	}
}

// Matte links a layer to the layer providing its track matte.
type Matte struct {
	Mode MatteMode
	// Source is the position of the matte layer in the same composition.
	Source int
}
