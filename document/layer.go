package document

import "encoding/json"

// LayerType is the layer type tag (ty).
type LayerType int

// Layer types.
const (
	LayerPrecomp LayerType = 0
	LayerSolid   LayerType = 1
	LayerImage   LayerType = 2
	LayerNull    LayerType = 3
	LayerShape   LayerType = 4
	LayerText    LayerType = 5
	LayerAudio   LayerType = 6
	LayerCamera  LayerType = 13
)

func (t LayerType) String() string {
	switch t {
	case LayerPrecomp:
		return "precomp"
	case LayerSolid:
		return "solid"
	case LayerImage:
		return "image"
	case LayerNull:
		return "null"
	case LayerShape:
		return "shape"
	case LayerText:
		return "text"
	case LayerAudio:
		return "audio"
	case LayerCamera:
		return "camera"
	default:
		return "unknown"
	}
}

// Layer is one entry of a layer list.
type Layer struct {
	Type      LayerType  `json:"ty"`
	Name      string     `json:"nm,omitempty"`
	Index     *int       `json:"ind,omitempty"`
	Parent    *int       `json:"parent,omitempty"`
	InPoint   float64    `json:"ip"`
	OutPoint  float64    `json:"op"`
	StartTime float64    `json:"st"`
	Stretch   float64    `json:"sr,omitempty"`
	Transform *Transform `json:"ks,omitempty"`

	AutoOrient int  `json:"ao,omitempty"`
	BlendMode  int  `json:"bm,omitempty"`
	ThreeD     int  `json:"ddd,omitempty"`
	Hidden     bool `json:"hd,omitempty"`

	MatteMode   int  `json:"tt,omitempty"`
	MatteParent *int `json:"tp,omitempty"`
	MatteSource int  `json:"td,omitempty"`

	Masks []*Mask `json:"masksProperties,omitempty"`

	Shapes []*ShapeItem `json:"shapes,omitempty"`
	Text   *TextData    `json:"t,omitempty"`

	RefID     string    `json:"refId,omitempty"`
	Width     float64   `json:"w,omitempty"`
	Height    float64   `json:"h,omitempty"`
	TimeRemap *Animated `json:"tm,omitempty"`

	SolidColor  string  `json:"sc,omitempty"`
	SolidWidth  float64 `json:"sw,omitempty"`
	SolidHeight float64 `json:"sh,omitempty"`

	Effects []json.RawMessage `json:"ef,omitempty"`
}

// Ind returns the layer index, or -1 when the layer has none.
func (l *Layer) Ind() int {
	if l.Index == nil {
		return -1
	}
	return *l.Index
}

// HasParent reports whether the layer is parented.
func (l *Layer) HasParent() bool { return l.Parent != nil }

// Transform is a layer or group transform. StartOpacity and EndOpacity are
// only used by repeaters.
type Transform struct {
	Anchor      *Animated `json:"a,omitempty"`
	Position    *Animated `json:"p,omitempty"`
	Scale       *Animated `json:"s,omitempty"`
	Rotation    *Animated `json:"r,omitempty"`
	RotationX   *Animated `json:"rx,omitempty"`
	RotationY   *Animated `json:"ry,omitempty"`
	RotationZ   *Animated `json:"rz,omitempty"`
	Orientation *Animated `json:"or,omitempty"`
	Skew        *Animated `json:"sk,omitempty"`
	SkewAxis    *Animated `json:"sa,omitempty"`
	Opacity     *Animated `json:"o,omitempty"`

	StartOpacity *Animated `json:"so,omitempty"`
	EndOpacity   *Animated `json:"eo,omitempty"`
}

// Is3D reports whether the transform uses per-axis rotation.
func (t *Transform) Is3D() bool {
	return t.RotationX != nil || t.RotationY != nil || t.Orientation != nil
}

// Mask modes.
const (
	MaskAdd        = "a"
	MaskSubtract   = "s"
	MaskIntersect  = "i"
	MaskLighten    = "l"
	MaskDarken     = "d"
	MaskDifference = "f"
	MaskNone       = "n"
)

// Mask is a layer mask.
type Mask struct {
	Name     string         `json:"nm,omitempty"`
	Mode     string         `json:"mode"`
	Inverted bool           `json:"inv,omitempty"`
	Shape    *AnimatedShape `json:"pt"`
	Opacity  *Animated      `json:"o,omitempty"`
	Expand   *Animated      `json:"x,omitempty"`
}
