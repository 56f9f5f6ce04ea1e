package recording

import (
	"fmt"
	"strings"

	"github.com/gogpu/lottie/shape"
)

// mockBackend records the calls it receives, one line per call.
type mockBackend struct {
	name       string
	beginCalls int
	endCalls   int
	width      int
	height     int
	calls      []string
}

func newMockBackend(name string) *mockBackend {
	return &mockBackend{name: name}
}

func (b *mockBackend) Begin(width, height int) error {
	b.beginCalls++
	b.width = width
	b.height = height
	return nil
}

func (b *mockBackend) End() error {
	b.endCalls++
	return nil
}

func (b *mockBackend) log(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *mockBackend) Save()                    { b.log("save") }
func (b *mockBackend) Restore()                 { b.log("restore") }
func (b *mockBackend) SetTransform(m Matrix)    { b.log("transform %g %g", m.C, m.F) }
func (b *mockBackend) SetOpacity(alpha float64) { b.log("opacity %g", alpha) }
func (b *mockBackend) PushMask(p *shape.Path, m Mask) {
	b.log("mask %d %d", m.Mode, p.Len())
}
func (b *mockBackend) BeginMatte(mode MatteMode) { b.log("matte %d", mode) }
func (b *mockBackend) EndMatte()                 { b.log("end-matte") }
func (b *mockBackend) PopMask()                  { b.log("pop") }
func (b *mockBackend) FillPath(paths []*shape.Path, _ Brush, _ FillRule) {
	b.log("fill %d", len(paths))
}
func (b *mockBackend) StrokePath(paths []*shape.Path, _ Brush, s Stroke) {
	b.log("stroke %d %g", len(paths), s.Width)
}
func (b *mockBackend) DrawImage(id string, w, h float64) { b.log("image %s %gx%g", id, w, h) }

func (b *mockBackend) trace() string { return strings.Join(b.calls, "; ") }
