package document

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const rectDoc = `{
  "v": "5.7.4", "fr": 30, "ip": 0, "op": 60, "w": 200, "h": 200, "nm": "rect",
  "markers": [{"cm": "intro", "tm": 10, "dr": 5}],
  "layers": [{
    "ty": 4, "ind": 1, "nm": "box", "ip": 0, "op": 60, "st": 0,
    "ks": {
      "a": {"a": 0, "k": [0, 0, 0]},
      "p": {"a": 0, "k": [100, 100, 0]},
      "s": {"a": 1, "k": [
        {"t": 0, "s": [100, 100, 100], "o": {"x": [0], "y": [0]}, "i": {"x": [1], "y": [1]}},
        {"t": 30, "s": [50, 50, 100]}
      ]},
      "r": {"a": 0, "k": 0},
      "o": {"a": 0, "k": 100}
    },
    "shapes": [{
      "ty": "gr", "nm": "group",
      "it": [
        {"ty": "rc", "nm": "r", "p": {"a": 0, "k": [0, 0]}, "s": {"a": 0, "k": [50, 50]}, "r": {"a": 0, "k": 0}},
        {"ty": "fl", "c": {"a": 0, "k": [1, 0, 0, 1]}, "o": {"a": 0, "k": 100}, "r": 1},
        {"ty": "tr", "p": {"a": 0, "k": [0, 0]}, "a": {"a": 0, "k": [0, 0]}, "s": {"a": 0, "k": [100, 100]},
         "r": {"a": 0, "k": 0}, "o": {"a": 0, "k": 100}}
      ]
    }]
  }]
}`

func TestParseRectDocument(t *testing.T) {
	doc, err := Parse([]byte(rectDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !doc.Normalized() {
		t.Error("Parse should normalize")
	}
	if doc.FrameRate != 30 || doc.Width != 200 || len(doc.Layers) != 1 {
		t.Fatalf("header = %+v", doc)
	}
	l := doc.Layers[0]
	if l.Type != LayerShape || l.Ind() != 1 || l.Stretch != 1 {
		t.Errorf("layer = type %v ind %d sr %v", l.Type, l.Ind(), l.Stretch)
	}
	scale := l.Transform.Scale
	if !scale.IsAnimated() || len(scale.Keyframes) != 2 {
		t.Fatalf("scale keyframes = %+v", scale.Keyframes)
	}
	if got := scale.Keyframes[0].E; len(got) != 3 || got[0] != 50 {
		t.Errorf("implicit end value = %v, want [50 50 100]", got)
	}
	if x, y := scale.Keyframes[0].Out.At(2); x != 0 || y != 0 {
		t.Errorf("out handle for dim 2 = (%v, %v)", x, y)
	}
	if got := l.Transform.Rotation.Static; len(got) != 1 || got[0] != 0 {
		t.Errorf("rotation = %v", got)
	}

	group := l.Shapes[0]
	if group.Group == nil || len(group.Group.Items) != 3 {
		t.Fatalf("group = %+v", group)
	}
	items := group.Group.Items
	if items[0].Rect == nil || items[1].Fill == nil || items[2].Transform == nil {
		t.Errorf("payloads not dispatched: %+v %+v %+v", items[0], items[1], items[2])
	}
	if items[1].Fill.FillRule != FillRuleNonZero {
		t.Errorf("fill rule = %d", items[1].Fill.FillRule)
	}
	if m, ok := doc.Marker("intro"); !ok || m.Time != 10 {
		t.Errorf("marker = %+v, %v", m, ok)
	}
}

func TestAnimatedEncodings(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		static     []float64
		keyframes  int
		split      bool
		expression string
	}{
		{"number", `{"a":0,"k":42}`, []float64{42}, 0, false, ""},
		{"vector", `{"a":0,"k":[1,2,3]}`, []float64{1, 2, 3}, 0, false, ""},
		{"keyframes", `{"a":1,"k":[{"t":0,"s":[0]},{"t":10,"s":[1]}]}`, nil, 2, false, ""},
		{"scalar keyframe values", `{"a":1,"k":[{"t":0,"s":0},{"t":10,"s":1}]}`, nil, 2, false, ""},
		{"split", `{"s":true,"x":{"a":0,"k":5},"y":{"a":0,"k":6}}`, nil, 0, true, ""},
		{"expression", `{"a":0,"k":1,"x":"result = value * 2"}`, []float64{1}, 0, false, "result = value * 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Animated
			if err := json.Unmarshal([]byte(tt.json), &a); err != nil {
				t.Fatal(err)
			}
			if len(a.Static) != len(tt.static) {
				t.Errorf("static = %v, want %v", a.Static, tt.static)
			}
			for i := range tt.static {
				if a.Static[i] != tt.static[i] {
					t.Errorf("static[%d] = %v, want %v", i, a.Static[i], tt.static[i])
				}
			}
			if len(a.Keyframes) != tt.keyframes {
				t.Errorf("keyframes = %d, want %d", len(a.Keyframes), tt.keyframes)
			}
			if a.Split != tt.split {
				t.Errorf("split = %v, want %v", a.Split, tt.split)
			}
			if a.Expression != tt.expression {
				t.Errorf("expression = %q, want %q", a.Expression, tt.expression)
			}
		})
	}
}

func TestAnimatedShapeEncodings(t *testing.T) {
	var static AnimatedShape
	err := json.Unmarshal([]byte(`{"a":0,"k":{"c":true,"v":[[0,0],[1,0],[1,1]],"i":[[0,0],[0,0],[0,0]],"o":[[0,0],[0,0],[0,0]]}}`), &static)
	if err != nil {
		t.Fatal(err)
	}
	if static.Static == nil || len(static.Static.Vertices) != 3 || !static.Static.Closed {
		t.Errorf("static shape = %+v", static.Static)
	}

	var anim AnimatedShape
	err = json.Unmarshal([]byte(`{"a":1,"k":[
		{"t":0,"s":[{"c":false,"v":[[0,0]],"i":[[0,0]],"o":[[0,0]]}]},
		{"t":5,"s":[{"c":false,"v":[[9,9]],"i":[[0,0]],"o":[[0,0]]}]}]}`), &anim)
	if err != nil {
		t.Fatal(err)
	}
	normalizeShape(&anim)
	if !anim.IsAnimated() || anim.Keyframes[0].End() == nil || anim.Keyframes[0].End().Vertices[0][0] != 9 {
		t.Errorf("morph keyframes = %+v", anim.Keyframes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(map[string]any)
		path string
	}{
		{"zero frame rate", func(m map[string]any) { m["fr"] = 0 }, "$.fr"},
		{"empty range", func(m map[string]any) { m["op"] = 0 }, "$.op"},
		{"missing layers", func(m map[string]any) { delete(m, "layers") }, "$.layers"},
		{"dangling parent", func(m map[string]any) { layer(m)["parent"] = 7 }, "$.layers[0].parent"},
		{"unordered keyframes", func(m map[string]any) {
			ks := layer(m)["ks"].(map[string]any)
			ks["p"] = map[string]any{"a": 1, "k": []any{
				map[string]any{"t": 10, "s": []any{0, 0}},
				map[string]any{"t": 5, "s": []any{1, 1}},
			}}
		}, "$.layers[0].ks.p.k[1].t"},
		{"missing precomp", func(m map[string]any) {
			layer(m)["ty"] = 0
			layer(m)["refId"] = "comp_9"
		}, "$.layers[0].refId"},
		{"ragged path", func(m map[string]any) {
			layer(m)["shapes"] = []any{map[string]any{"ty": "sh", "ks": map[string]any{"a": 0, "k": map[string]any{
				"c": true, "v": []any{[]any{0, 0}, []any{1, 1}}, "i": []any{[]any{0, 0}}, "o": []any{[]any{0, 0}},
			}}}}
		}, "$.layers[0].shapes[0].ks.k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m map[string]any
			if err := json.Unmarshal([]byte(rectDoc), &m); err != nil {
				t.Fatal(err)
			}
			tt.edit(m)
			data, err := json.Marshal(m)
			if err != nil {
				t.Fatal(err)
			}
			_, err = Parse(data)
			if !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("err = %v, want ErrMalformedDocument", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err %T is not a *ValidationError", err)
			}
			if ve.Path != tt.path {
				t.Errorf("path = %q, want %q (%s)", ve.Path, tt.path, ve.Reason)
			}
		})
	}
}

func layer(m map[string]any) map[string]any {
	return m["layers"].([]any)[0].(map[string]any)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte(`{"fr": 30,`))
	if !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("err = %v, want ErrMalformedDocument", err)
	}
}

func TestNormalizeDegenerateTangents(t *testing.T) {
	a := &Animated{Keyframes: []Keyframe{
		{Time: 0, S: Vec{0, 0}, To: Vec{10, 0}, Ti: Vec{-10, 0}},
		{Time: 10, S: Vec{100, 0}},
	}}
	curved := &Animated{Keyframes: []Keyframe{
		{Time: 0, S: Vec{0, 0}, To: Vec{0, 50}, Ti: Vec{0, 50}},
		{Time: 10, S: Vec{100, 0}},
	}}
	normalizeAll(a, curved)

	if a.Keyframes[0].To != nil || a.Keyframes[0].Ti != nil {
		t.Error("tangents on the chord should be discarded")
	}
	if curved.Keyframes[0].To == nil {
		t.Error("curved tangents must be kept")
	}
	if a.Keyframes[0].E[0] != 100 {
		t.Errorf("end = %v, want [100 0]", a.Keyframes[0].E)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	doc, err := Parse([]byte(rectDoc))
	if err != nil {
		t.Fatal(err)
	}
	before, _ := json.Marshal(doc)
	doc.Normalize()
	after, _ := json.Marshal(doc)
	if string(before) != string(after) {
		t.Error("second Normalize changed the document")
	}
}

func TestAppendSegment(t *testing.T) {
	doc, err := Parse([]byte(rectDoc))
	if err != nil {
		t.Fatal(err)
	}
	seg, err := ParseSegment([]byte(`{
		"assets": [{"id": "comp_0", "layers": []}],
		"layers": [{"ty": 0, "ind": 2, "refId": "comp_0", "ip": 0, "op": 60, "st": 0, "sr": 0}]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.AppendSegment(seg); err != nil {
		t.Fatalf("AppendSegment: %v", err)
	}
	if len(doc.Layers) != 2 || doc.Asset("comp_0") == nil {
		t.Fatalf("merged document has %d layers", len(doc.Layers))
	}
	if doc.Layers[1].Stretch != 1 {
		t.Error("appended layers should be normalized")
	}

	bad, _ := ParseSegment([]byte(`{"layers": [{"ty": 0, "refId": "missing", "ip": 0, "op": 1}]}`))
	if err := doc.AppendSegment(bad); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("err = %v, want ErrMalformedDocument", err)
	}
	if len(doc.Layers) != 2 {
		t.Error("failed append must leave the document unchanged")
	}
}

func TestLegacyTextDocument(t *testing.T) {
	var td TextData
	err := json.Unmarshal([]byte(`{"d":{"k":{"t":"Hi","f":"Roboto","s":24}}}`), &td)
	if err != nil {
		t.Fatal(err)
	}
	doc := td.Document.At(100)
	if doc == nil || doc.Text != "Hi" || doc.Size != 24 {
		t.Errorf("document = %+v", doc)
	}
}

func TestShapeItemRoundTrip(t *testing.T) {
	var it ShapeItem
	src := `{"ty":"st","nm":"outline","c":{"a":0,"k":[0,0,0,1]},"o":{"a":0,"k":100},"w":{"a":0,"k":4},"lc":2,"lj":1,"ml":4}`
	if err := json.Unmarshal([]byte(src), &it); err != nil {
		t.Fatal(err)
	}
	if it.Stroke == nil || it.Stroke.LineCap != 2 || it.Stroke.Width == nil {
		t.Fatalf("stroke = %+v", it.Stroke)
	}
	out, err := json.Marshal(&it)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"ty":"st"`) || !strings.Contains(string(out), `"lc":2`) {
		t.Errorf("marshal = %s", out)
	}

	var unknown ShapeItem
	if err := json.Unmarshal([]byte(`{"ty":"xx","nm":"future"}`), &unknown); err != nil {
		t.Fatal(err)
	}
	if unknown.Type != "xx" {
		t.Errorf("unknown type = %q", unknown.Type)
	}
}
