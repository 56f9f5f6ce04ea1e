package expression

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/shape"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		source string
		frame  float64
		in     property.Value
		want   []float64
	}{
		{"bare", "value * 2", 0, property.Scalar(21), []float64{42}},
		{"result", "result := value + frame", 5, property.Scalar(1), []float64{6}},
		{"time", "result := time", 45, property.Scalar(0), []float64{1.5}},
		{"vector", "result := [value[0] + 1, value[1] * 2]", 0, property.Vector([]float64{1, 2}), []float64{2, 4}},
		{"int", "result := 3", 0, property.Scalar(0), []float64{3}},
		{"math", `math := import("math"); result := math.abs(value)`, 0, property.Scalar(-7), []float64{7}},
		{"conditional", "result := frame < 10 ? 0 : value", 20, property.Scalar(9), []float64{9}},
	}
	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := e.Evaluate(tt.source, tt.frame, tt.in)
			if !ok {
				_, err := e.Run(tt.source, tt.frame, tt.in)
				t.Fatalf("Evaluate failed: %v", err)
			}
			if out.Len() != len(tt.want) {
				t.Fatalf("got %v, want %v", out, tt.want)
			}
			for i, w := range tt.want {
				if math.Abs(out.Dim(i)-w) > 1e-9 {
					t.Errorf("dim %d = %v, want %v", i, out.Dim(i), w)
				}
			}
		})
	}
}

func TestEvaluateFailures(t *testing.T) {
	tests := []struct {
		name   string
		source string
		in     property.Value
	}{
		{"syntax", "result := (", property.Scalar(1)},
		{"runtime", "result := value[4]", property.Scalar(1)},
		{"string result", `result := "red"`, property.Scalar(1)},
		{"unassigned", "x := 1; if x > 2 { result := 1 }", property.Scalar(1)},
		{"forbidden import", `os := import("os"); result := 1`, property.Scalar(1)},
		{"shape", "value", property.ShapeValue(shape.NewPath(0))},
	}
	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out, ok := e.Evaluate(tt.source, 0, tt.in); ok {
				t.Errorf("Evaluate succeeded with %v", out)
			}
			// Failing sources stay cached and keep failing.
			if _, ok := e.Evaluate(tt.source, 1, tt.in); ok {
				t.Error("second Evaluate succeeded")
			}
		})
	}
}

func TestRunReportsResultType(t *testing.T) {
	_, err := New().Run(`result := "x"`, 0, property.Scalar(0))
	if !errors.Is(err, ErrResult) {
		t.Errorf("err = %v, want ErrResult", err)
	}
}

func TestCompileCache(t *testing.T) {
	e := New()
	for f := 0.0; f < 5; f++ {
		e.Evaluate("value + frame", f, property.Scalar(0))
	}
	e.Evaluate("value", 0, property.Scalar(0))
	if got := e.Len(); got != 2 {
		t.Errorf("cached %d programs, want 2", got)
	}
}

func TestCacheSize(t *testing.T) {
	e := New(WithCacheSize(1))
	for i := range 20 {
		src := fmt.Sprintf("value + %d", i)
		out, ok := e.Evaluate(src, 0, property.Scalar(1))
		if !ok || out.Float() != float64(i+1) {
			t.Fatalf("%s = %v, %v", src, out, ok)
		}
	}
	if got := e.Len(); got > 8 {
		t.Errorf("cached %d programs, want at most one per shard", got)
	}
}

func TestFrameRate(t *testing.T) {
	e := New(WithFrameRate(60))
	out, _ := e.Evaluate("result := time", 30, property.Scalar(0))
	if out.Float() != 0.5 {
		t.Errorf("time = %v at 60fps, want 0.5", out.Float())
	}
	e.SetFrameRate(10)
	e.SetFrameRate(-1)
	out, _ = e.Evaluate("result := time", 30, property.Scalar(0))
	if out.Float() != 3 {
		t.Errorf("time = %v at 10fps, want 3", out.Float())
	}
}

func TestMaxAllocs(t *testing.T) {
	e := New(WithMaxAllocs(5))
	src := "a := []; for i := 0; i < 100; i++ { a = append(a, [i]) }; result := len(a)"
	if _, ok := e.Evaluate(src, 0, property.Scalar(0)); ok {
		t.Error("allocation limit not enforced")
	}
}

func TestDrivesProperty(t *testing.T) {
	a := &document.Animated{Static: []float64{10}, Expression: "value + frame"}
	p := property.New(a, 1)
	ctx := property.NewContext(nil, nil)
	ctx.Expressions = New()

	for _, frame := range []float64{0, 3} {
		ctx.Begin()
		ctx.Frame = frame
		p.Update(ctx)
		if got, want := p.Value().Float(), 10+frame; got != want {
			t.Errorf("frame %v: value = %v, want %v", frame, got, want)
		}
	}
}
