package document

import (
	"encoding/json"
	"fmt"
	"io"
)

// Animation is the root of an exported document.
type Animation struct {
	Version   string    `json:"v,omitempty"`
	Name      string    `json:"nm,omitempty"`
	FrameRate float64   `json:"fr"`
	InPoint   float64   `json:"ip"`
	OutPoint  float64   `json:"op"`
	Width     float64   `json:"w"`
	Height    float64   `json:"h"`
	ThreeD    int       `json:"ddd,omitempty"`
	Layers    []*Layer  `json:"layers"`
	Assets    []*Asset  `json:"assets,omitempty"`
	Markers   []Marker  `json:"markers,omitempty"`
	Fonts     *FontList `json:"fonts,omitempty"`
	Chars     []*Char   `json:"chars,omitempty"`

	normalized bool
}

// Marker is a named time range.
type Marker struct {
	Comment  string  `json:"cm"`
	Time     float64 `json:"tm"`
	Duration float64 `json:"dr"`
}

// Asset is a pre-composition (a nested layer list) or an external file
// reference such as an image.
type Asset struct {
	ID       string   `json:"id"`
	Name     string   `json:"nm,omitempty"`
	Layers   []*Layer `json:"layers,omitempty"`
	Width    float64  `json:"w,omitempty"`
	Height   float64  `json:"h,omitempty"`
	Dir      string   `json:"u,omitempty"`
	File     string   `json:"p,omitempty"`
	Embedded int      `json:"e,omitempty"`
}

// IsPrecomp reports whether the asset holds layers.
func (a *Asset) IsPrecomp() bool { return a.Layers != nil }

// FontList is the font table.
type FontList struct {
	List []Font `json:"list"`
}

// Font describes a font referenced by text layers.
type Font struct {
	Name   string  `json:"fName"`
	Family string  `json:"fFamily"`
	Style  string  `json:"fStyle"`
	Ascent float64 `json:"ascent"`
	Path   string  `json:"fPath,omitempty"`
	Origin int     `json:"origin,omitempty"`
}

// Char is an embedded glyph: shape data for one character of one font.
type Char struct {
	Ch     string    `json:"ch"`
	Size   float64   `json:"size"`
	Style  string    `json:"style"`
	Width  float64   `json:"w"`
	Family string    `json:"fFamily"`
	Data   *CharData `json:"data,omitempty"`
}

// CharData holds the shapes of an embedded glyph.
type CharData struct {
	Shapes []*ShapeItem `json:"shapes,omitempty"`
}

// Font returns the font named name, or nil.
func (a *Animation) Font(name string) *Font {
	if a.Fonts == nil {
		return nil
	}
	for i := range a.Fonts.List {
		if a.Fonts.List[i].Name == name {
			return &a.Fonts.List[i]
		}
	}
	return nil
}

// Asset returns the asset with the given id, or nil.
func (a *Animation) Asset(id string) *Asset {
	for _, as := range a.Assets {
		if as.ID == id {
			return as
		}
	}
	return nil
}

// Marker returns the marker whose comment is name.
func (a *Animation) Marker(name string) (Marker, bool) {
	for _, m := range a.Markers {
		if m.Comment == name {
			return m, true
		}
	}
	return Marker{}, false
}

// Normalized reports whether Normalize has run.
func (a *Animation) Normalized() bool { return a.normalized }

// Decode reads a document from r. The result is neither validated nor
// normalized.
func Decode(r io.Reader) (*Animation, error) {
	var a Animation
	dec := json.NewDecoder(r)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	return &a, nil
}

// Parse decodes, validates and normalizes data.
func Parse(data []byte) (*Animation, error) {
	var a Animation
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, &ValidationError{Path: "$", Reason: err.Error()}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	a.Normalize()
	return &a, nil
}
