package document

import (
	"bytes"
	"encoding/json"
)

// TextData is the payload of a text layer.
type TextData struct {
	Document  *TextDocumentProp `json:"d"`
	Animators []json.RawMessage `json:"a,omitempty"`
	More      json.RawMessage   `json:"m,omitempty"`
	Path      json.RawMessage   `json:"p,omitempty"`
}

// TextDocumentProp is a hold-only keyframed text document.
type TextDocumentProp struct {
	Keyframes []TextKeyframe `json:"k"`
}

// TextKeyframe is a text document taking effect at Time.
type TextKeyframe struct {
	Time float64      `json:"t"`
	S    TextDocument `json:"s"`
}

// Justification values.
const (
	JustifyLeft   = 0
	JustifyRight  = 1
	JustifyCenter = 2
)

// TextDocument is the styled text shown by a text layer.
type TextDocument struct {
	Text           string    `json:"t"`
	Font           string    `json:"f"`
	Size           float64   `json:"s"`
	Justify        int       `json:"j,omitempty"`
	Tracking       float64   `json:"tr,omitempty"`
	LineHeight     float64   `json:"lh,omitempty"`
	BaselineShift  float64   `json:"ls,omitempty"`
	FillColor      []float64 `json:"fc,omitempty"`
	StrokeColor    []float64 `json:"sc,omitempty"`
	StrokeWidth    float64   `json:"sw,omitempty"`
	StrokeOverFill bool      `json:"of,omitempty"`
	BoxSize        []float64 `json:"sz,omitempty"`
	BoxPosition    []float64 `json:"ps,omitempty"`
	Caps           int       `json:"ca,omitempty"`
}

// UnmarshalJSON accepts the keyframe list as well as the legacy encoding
// where k is a single document object.
func (p *TextDocumentProp) UnmarshalJSON(data []byte) error {
	var raw struct {
		K json.RawMessage `json:"k"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	k := bytes.TrimSpace(raw.K)
	if len(k) == 0 {
		return nil
	}
	if k[0] == '{' {
		var doc TextDocument
		if err := json.Unmarshal(k, &doc); err != nil {
			return err
		}
		p.Keyframes = []TextKeyframe{{S: doc}}
		return nil
	}
	return json.Unmarshal(k, &p.Keyframes)
}

// At returns the document in effect at frame.
func (p *TextDocumentProp) At(frame float64) *TextDocument {
	if p == nil || len(p.Keyframes) == 0 {
		return nil
	}
	i := 0
	for i+1 < len(p.Keyframes) && p.Keyframes[i+1].Time <= frame {
		i++
	}
	return &p.Keyframes[i].S
}
