package document

import (
	"encoding/json"
	"fmt"
)

// Shape item type tags.
const (
	ShapeGroup          = "gr"
	ShapePath           = "sh"
	ShapeRect           = "rc"
	ShapeEllipse        = "el"
	ShapeStar           = "sr"
	ShapeFill           = "fl"
	ShapeStroke         = "st"
	ShapeGradientFill   = "gf"
	ShapeGradientStroke = "gs"
	ShapeTransform      = "tr"
	ShapeTrim           = "tm"
	ShapeRoundCorners   = "rd"
	ShapeRepeater       = "rp"
	ShapeMerge          = "mm"
	ShapeOffset         = "op"
	ShapePuckerBloat    = "pb"
	ShapeZigZag         = "zz"
	ShapeTwist          = "tw"
)

// ShapeItem is one entry of a shape tree. Exactly one of the typed payload
// pointers is set for known types; unknown types only carry Type and Name.
type ShapeItem struct {
	Type   string
	Name   string
	Hidden bool

	Group        *Group
	Path         *PathShape
	Rect         *Rect
	Ellipse      *Ellipse
	Star         *Star
	Fill         *Fill
	Stroke       *Stroke
	Gradient     *Gradient
	Transform    *Transform
	Trim         *Trim
	RoundCorners *RoundCorners
	Repeater     *Repeater
}

// Group is a nested shape list.
type Group struct {
	Items []*ShapeItem `json:"it"`
}

// Direction value of a reversed primitive.
const DirectionReversed = 3

// PathShape is a free-form path.
type PathShape struct {
	Direction int            `json:"d,omitempty"`
	Data      *AnimatedShape `json:"ks"`
}

// Rect is a rectangle primitive.
type Rect struct {
	Direction int       `json:"d,omitempty"`
	Position  *Animated `json:"p"`
	Size      *Animated `json:"s"`
	Roundness *Animated `json:"r"`
}

// Ellipse is an ellipse primitive.
type Ellipse struct {
	Direction int       `json:"d,omitempty"`
	Position  *Animated `json:"p"`
	Size      *Animated `json:"s"`
}

// Star types.
const (
	StarTypeStar    = 1
	StarTypePolygon = 2
)

// Star is a star or polygon primitive.
type Star struct {
	Direction      int       `json:"d,omitempty"`
	StarType       int       `json:"sy"`
	Position       *Animated `json:"p"`
	Points         *Animated `json:"pt"`
	Rotation       *Animated `json:"r"`
	OuterRadius    *Animated `json:"or"`
	OuterRoundness *Animated `json:"os"`
	InnerRadius    *Animated `json:"ir,omitempty"`
	InnerRoundness *Animated `json:"is,omitempty"`
}

// Fill rules.
const (
	FillRuleNonZero = 1
	FillRuleEvenOdd = 2
)

// Fill is a solid fill style.
type Fill struct {
	Color    *Animated `json:"c"`
	Opacity  *Animated `json:"o"`
	FillRule int       `json:"r,omitempty"`
}

// Dash is one entry of a stroke dash pattern. Name is "d" (dash), "g" (gap)
// or "o" (offset).
type Dash struct {
	Name  string    `json:"n"`
	Value *Animated `json:"v"`
}

// StrokeParams holds the stroke attributes shared by solid and gradient
// strokes.
type StrokeParams struct {
	Width      *Animated `json:"w"`
	LineCap    int       `json:"lc,omitempty"`
	LineJoin   int       `json:"lj,omitempty"`
	MiterLimit float64   `json:"ml,omitempty"`
	Dashes     []*Dash   `json:"d,omitempty"`
}

// Stroke is a solid stroke style.
type Stroke struct {
	Color   *Animated `json:"c"`
	Opacity *Animated `json:"o"`
	StrokeParams
}

// Gradient types.
const (
	GradientLinear = 1
	GradientRadial = 2
)

// GradientColors holds the color stops: Count stops packed as
// offset,r,g,b followed by optional offset,alpha pairs.
type GradientColors struct {
	Count int       `json:"p"`
	Data  *Animated `json:"k"`
}

// Gradient is a gradient fill or stroke style.
type Gradient struct {
	Opacity         *Animated       `json:"o"`
	FillRule        int             `json:"r,omitempty"`
	Start           *Animated       `json:"s"`
	End             *Animated       `json:"e"`
	GradientType    int             `json:"t"`
	Colors          *GradientColors `json:"g"`
	HighlightLength *Animated       `json:"h,omitempty"`
	HighlightAngle  *Animated       `json:"a,omitempty"`
	StrokeParams
}

// Trim modes.
const (
	TrimSimultaneous = 1
	TrimIndividual   = 2
)

// Trim is a trim-path modifier.
type Trim struct {
	Start  *Animated `json:"s"`
	End    *Animated `json:"e"`
	Offset *Animated `json:"o"`
	Mode   int       `json:"m,omitempty"`
}

// RoundCorners is a round-corners modifier.
type RoundCorners struct {
	Radius *Animated `json:"r"`
}

// Repeater composite orders.
const (
	CompositeAbove = 1
	CompositeBelow = 2
)

// Repeater is a repeater modifier.
type Repeater struct {
	Copies    *Animated  `json:"c"`
	Offset    *Animated  `json:"o"`
	Composite int        `json:"m,omitempty"`
	Transform *Transform `json:"tr"`
}

type shapeHead struct {
	Type   string `json:"ty"`
	Name   string `json:"nm,omitempty"`
	Hidden bool   `json:"hd,omitempty"`
}

// payload returns the typed payload for the item's type, allocating it when
// alloc is set.
func (s *ShapeItem) payload(alloc bool) any {
	switch s.Type {
	case ShapeGroup:
		if alloc {
			s.Group = new(Group)
		}
		return s.Group
	case ShapePath:
		if alloc {
			s.Path = new(PathShape)
		}
		return s.Path
	case ShapeRect:
		if alloc {
			s.Rect = new(Rect)
		}
		return s.Rect
	case ShapeEllipse:
		if alloc {
			s.Ellipse = new(Ellipse)
		}
		return s.Ellipse
	case ShapeStar:
		if alloc {
			s.Star = new(Star)
		}
		return s.Star
	case ShapeFill:
		if alloc {
			s.Fill = new(Fill)
		}
		return s.Fill
	case ShapeStroke:
		if alloc {
			s.Stroke = new(Stroke)
		}
		return s.Stroke
	case ShapeGradientFill, ShapeGradientStroke:
		if alloc {
			s.Gradient = new(Gradient)
		}
		return s.Gradient
	case ShapeTransform:
		if alloc {
			s.Transform = new(Transform)
		}
		return s.Transform
	case ShapeTrim:
		if alloc {
			s.Trim = new(Trim)
		}
		return s.Trim
	case ShapeRoundCorners:
		if alloc {
			s.RoundCorners = new(RoundCorners)
		}
		return s.RoundCorners
	case ShapeRepeater:
		if alloc {
			s.Repeater = new(Repeater)
		}
		return s.Repeater
	}
	return nil
}

// UnmarshalJSON dispatches on the ty tag.
func (s *ShapeItem) UnmarshalJSON(data []byte) error {
	var head shapeHead
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	s.Type, s.Name, s.Hidden = head.Type, head.Name, head.Hidden
	p := s.payload(true)
	if p == nil {
		return nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("shape %q (%s): %w", head.Name, head.Type, err)
	}
	return nil
}

// MarshalJSON merges the head and the typed payload into one object.
func (s *ShapeItem) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if p := s.payload(false); p != nil {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = map[string]any{}
		}
	}
	out["ty"] = s.Type
	if s.Name != "" {
		out["nm"] = s.Name
	}
	if s.Hidden {
		out["hd"] = true
	}
	return json.Marshal(out)
}
