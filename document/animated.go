package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Animated is an animatable property as exported: either a constant
// (Static) or an ordered keyframe list. Position properties may instead be
// split into independent X/Y/Z components.
type Animated struct {
	Static     []float64
	Keyframes  []Keyframe
	Expression string
	Index      int

	Split   bool
	X, Y, Z *Animated
}

// Keyframe is one anchor of an animated property.
type Keyframe struct {
	Time float64 `json:"t"`
	S    Vec     `json:"s,omitempty"`
	E    Vec     `json:"e,omitempty"`
	Hold int     `json:"h,omitempty"`
	Out  *Handle `json:"o,omitempty"`
	In   *Handle `json:"i,omitempty"`

	// Spatial tangents for motion paths, relative to S and E.
	To Vec `json:"to,omitempty"`
	Ti Vec `json:"ti,omitempty"`
}

// Vec is a list of numbers that also accepts a bare number when decoded.
type Vec []float64

// UnmarshalJSON accepts a number or an array of numbers.
func (v *Vec) UnmarshalJSON(data []byte) error {
	n, err := numbers(data)
	*v = n
	return err
}

// IsHold reports whether the keyframe is a step.
func (k *Keyframe) IsHold() bool { return k.Hold == 1 }

// Handle is an easing control point. X and Y hold either one shared value
// or one value per dimension.
type Handle struct {
	X Vec `json:"x"`
	Y Vec `json:"y"`
}

// At returns the handle for dimension i, falling back to the first entry.
func (h *Handle) At(i int) (x, y float64) {
	if h == nil {
		return 0, 0
	}
	return pick(h.X, i), pick(h.Y, i)
}

func pick(v []float64, i int) float64 {
	switch {
	case len(v) == 0:
		return 0
	case i < len(v):
		return v[i]
	default:
		return v[0]
	}
}

// IsAnimated reports whether the property has more than one keyframe or is
// split into animated components.
func (a *Animated) IsAnimated() bool {
	if a == nil {
		return false
	}
	if a.Split {
		return a.X.IsAnimated() || a.Y.IsAnimated() || a.Z.IsAnimated()
	}
	return len(a.Keyframes) > 1
}

// Value returns the constant value, or the first keyframe value of an
// animated property. Useful for defaults and validation messages.
func (a *Animated) Value() []float64 {
	if a == nil {
		return nil
	}
	if len(a.Keyframes) > 0 {
		return a.Keyframes[0].S
	}
	return a.Static
}

// Const creates a constant property. Used by tests and builders.
func Const(v ...float64) *Animated {
	return &Animated{Static: v}
}

type rawAnimated struct {
	A  int             `json:"a"`
	K  json.RawMessage `json:"k"`
	X  json.RawMessage `json:"x"`
	Ix int             `json:"ix"`
	S  bool            `json:"s"`
	Y  *Animated       `json:"y"`
	Z  *Animated       `json:"z"`
}

// UnmarshalJSON accepts the constant, keyframed and split encodings.
func (a *Animated) UnmarshalJSON(data []byte) error {
	var raw rawAnimated
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Index = raw.Ix

	if len(raw.X) > 0 {
		switch raw.X[0] {
		case '"':
			if err := json.Unmarshal(raw.X, &a.Expression); err != nil {
				return err
			}
		case '{':
			a.X = new(Animated)
			if err := json.Unmarshal(raw.X, a.X); err != nil {
				return fmt.Errorf("x: %w", err)
			}
		}
	}
	if raw.S && a.X != nil {
		a.Split = true
		a.Y, a.Z = raw.Y, raw.Z
		return nil
	}

	k := bytes.TrimSpace(raw.K)
	if len(k) == 0 {
		return nil
	}
	switch k[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(k, &elems); err != nil {
			return err
		}
		if len(elems) > 0 && bytes.HasPrefix(bytes.TrimSpace(elems[0]), []byte("{")) {
			return json.Unmarshal(k, &a.Keyframes)
		}
		return json.Unmarshal(k, &a.Static)
	default:
		var v float64
		if err := json.Unmarshal(k, &v); err != nil {
			return err
		}
		a.Static = []float64{v}
		return nil
	}
}

// MarshalJSON writes the property back in its exported encoding.
func (a *Animated) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if a.Index != 0 {
		out["ix"] = a.Index
	}
	if a.Expression != "" {
		out["x"] = a.Expression
	}
	switch {
	case a.Split:
		out["s"] = true
		out["x"] = a.X
		out["y"] = a.Y
		if a.Z != nil {
			out["z"] = a.Z
		}
	case len(a.Keyframes) > 0:
		out["a"] = 1
		out["k"] = a.Keyframes
	case len(a.Static) == 1:
		out["a"] = 0
		out["k"] = a.Static[0]
	default:
		out["a"] = 0
		out["k"] = a.Static
	}
	return json.Marshal(out)
}

func numbers(data json.RawMessage) ([]float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] == '[' {
		var v []float64
		err := json.Unmarshal(data, &v)
		return v, err
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return []float64{v}, nil
}

// ShapeData is a static path: vertices and handle offsets relative to each
// vertex.
type ShapeData struct {
	Closed   bool         `json:"c"`
	Vertices [][2]float64 `json:"v"`
	In       [][2]float64 `json:"i"`
	Out      [][2]float64 `json:"o"`
}

// AnimatedShape is a path property: a constant path or a morph between
// keyframed paths.
type AnimatedShape struct {
	Static     *ShapeData
	Keyframes  []ShapeKeyframe
	Expression string
	Index      int
}

// ShapeKeyframe is one anchor of a path morph. Paths are wrapped in
// single-element arrays in the exported format.
type ShapeKeyframe struct {
	Time float64     `json:"t"`
	S    []ShapeData `json:"s,omitempty"`
	E    []ShapeData `json:"e,omitempty"`
	Hold int         `json:"h,omitempty"`
	Out  *Handle     `json:"o,omitempty"`
	In   *Handle     `json:"i,omitempty"`
}

// IsHold reports whether the keyframe is a step.
func (k *ShapeKeyframe) IsHold() bool { return k.Hold == 1 }

// Start returns the start path or nil.
func (k *ShapeKeyframe) Start() *ShapeData {
	if len(k.S) == 0 {
		return nil
	}
	return &k.S[0]
}

// End returns the end path or nil.
func (k *ShapeKeyframe) End() *ShapeData {
	if len(k.E) == 0 {
		return nil
	}
	return &k.E[0]
}

// IsAnimated reports whether the path morphs.
func (a *AnimatedShape) IsAnimated() bool {
	return a != nil && len(a.Keyframes) > 1
}

// UnmarshalJSON accepts the constant and keyframed encodings.
func (a *AnimatedShape) UnmarshalJSON(data []byte) error {
	var raw rawAnimated
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Index = raw.Ix
	if len(raw.X) > 0 && raw.X[0] == '"' {
		if err := json.Unmarshal(raw.X, &a.Expression); err != nil {
			return err
		}
	}
	k := bytes.TrimSpace(raw.K)
	if len(k) == 0 {
		return nil
	}
	if k[0] == '[' {
		return json.Unmarshal(k, &a.Keyframes)
	}
	a.Static = new(ShapeData)
	return json.Unmarshal(k, a.Static)
}

// MarshalJSON writes the property back in its exported encoding.
func (a *AnimatedShape) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if a.Index != 0 {
		out["ix"] = a.Index
	}
	if a.Expression != "" {
		out["x"] = a.Expression
	}
	if len(a.Keyframes) > 0 {
		out["a"] = 1
		out["k"] = a.Keyframes
	} else {
		out["a"] = 0
		out["k"] = a.Static
	}
	return json.Marshal(out)
}
