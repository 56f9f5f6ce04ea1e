package document

import "encoding/json"

// AppendSegment merges a segment payload into the document: its layers are
// appended to the root layer list and its assets are added by id, replacing
// assets with the same id. The merged document is validated and normalized
// again. On validation failure the document is left unchanged.
func (a *Animation) AppendSegment(seg *Animation) error {
	merged := *a
	merged.Layers = append(append([]*Layer(nil), a.Layers...), seg.Layers...)
	merged.Assets = append([]*Asset(nil), a.Assets...)
	for _, as := range seg.Assets {
		replaced := false
		for i, old := range merged.Assets {
			if old.ID == as.ID {
				merged.Assets[i] = as
				replaced = true
				break
			}
		}
		if !replaced {
			merged.Assets = append(merged.Assets, as)
		}
	}
	merged.Chars = append(append([]*Char(nil), a.Chars...), seg.Chars...)
	merged.Markers = append(append([]Marker(nil), a.Markers...), seg.Markers...)
	if seg.Fonts != nil {
		fonts := &FontList{}
		if a.Fonts != nil {
			fonts.List = append(fonts.List, a.Fonts.List...)
		}
		for _, f := range seg.Fonts.List {
			if merged.Font(f.Name) == nil {
				fonts.List = append(fonts.List, f)
			}
		}
		merged.Fonts = fonts
	}

	if err := merged.Validate(); err != nil {
		return err
	}
	merged.Normalize()
	*a = merged
	return nil
}

// ParseSegment decodes a segment payload. Segments only carry layers,
// assets, chars, fonts and markers, so they are not validated on their own.
func ParseSegment(data []byte) (*Animation, error) {
	var seg Animation
	if err := json.Unmarshal(data, &seg); err != nil {
		return nil, &ValidationError{Path: "$", Reason: err.Error()}
	}
	return &seg, nil
}
