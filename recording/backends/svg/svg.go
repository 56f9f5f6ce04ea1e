// Package svg provides an SVG backend for the recording system. It turns a
// recorded frame into a standalone SVG document.
//
// Paths keep their cubic segments, so the output is exact vector geometry.
// Masks and track mattes become SVG <mask> elements. Mask modes other than
// add and subtract are written as add, and successive masks intersect.
//
// # Example
//
//	import _ "github.com/gogpu/lottie/recording/backends/svg"
//
//	backend, _ := recording.NewBackend("svg")
//	rec.Playback(backend)
//	backend.(recording.FileBackend).SaveToFile("frame.svg")
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/gogpu/lottie/recording"
	"github.com/gogpu/lottie/scene"
	"github.com/gogpu/lottie/shape"
)

func init() {
	recording.Register("svg", func() recording.Backend {
		return New()
	})
}

type state struct {
	transform recording.Matrix
	groups    int // open <g> elements to close on Restore
}

type matte struct {
	body  *bytes.Buffer
	mode  recording.MatteMode
	saved []state
}

// Backend writes recordings as SVG.
type Backend struct {
	// ResolveImage maps an image asset id to the href written for it. The
	// id itself is used when nil.
	ResolveImage func(assetID string) string

	width, height int
	body          *bytes.Buffer
	defs          bytes.Buffer
	out           []byte

	cur    state
	stack  []state
	mattes []matte
	nextID int
}

var (
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
	_ recording.ImageBackend  = (*Backend)(nil)
)

// New creates an SVG backend.
func New() *Backend {
	return &Backend{body: new(bytes.Buffer)}
}

// SetImageResolver sets ResolveImage.
func (b *Backend) SetImageResolver(resolve func(assetID string) string) {
	b.ResolveImage = resolve
}

// Begin starts a new document.
func (b *Backend) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("svg: invalid canvas size %dx%d", width, height)
	}
	b.width, b.height = width, height
	b.body = new(bytes.Buffer)
	b.defs.Reset()
	b.out = nil
	b.cur = state{transform: recording.Identity()}
	b.stack = b.stack[:0]
	b.mattes = b.mattes[:0]
	b.nextID = 0
	return nil
}

// End closes every open element and assembles the document.
func (b *Backend) End() error {
	for len(b.mattes) > 0 {
		b.EndMatte()
	}
	for len(b.stack) > 0 {
		b.Restore()
	}
	b.closeGroups(&b.cur)

	var doc bytes.Buffer
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&doc, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		b.width, b.height, b.width, b.height)
	if b.defs.Len() > 0 {
		doc.WriteString("<defs>\n")
		doc.Write(b.defs.Bytes())
		doc.WriteString("</defs>\n")
	}
	doc.Write(b.body.Bytes())
	doc.WriteString("</svg>\n")
	b.out = doc.Bytes()
	return nil
}

// Bytes returns the document written by End.
func (b *Backend) Bytes() []byte { return b.out }

// WriteTo writes the document to w.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.out)
	return int64(n), err
}

// SaveToFile writes the document to path.
func (b *Backend) SaveToFile(path string) error {
	return os.WriteFile(path, b.out, 0o644)
}

// Save pushes the current state.
func (b *Backend) Save() {
	b.stack = append(b.stack, b.cur)
	b.cur.groups = 0
}

// Restore closes what was opened since the matching Save and pops the
// state. It is a no-op on an empty stack.
func (b *Backend) Restore() {
	if len(b.stack) == 0 {
		return
	}
	b.closeGroups(&b.cur)
	b.cur = b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *Backend) closeGroups(s *state) {
	for ; s.groups > 0; s.groups-- {
		b.body.WriteString("</g>\n")
	}
}

// SetTransform sets the transform applied to subsequent elements.
func (b *Backend) SetTransform(m recording.Matrix) {
	b.cur.transform = m
}

// SetOpacity opens a group with the given opacity.
func (b *Backend) SetOpacity(alpha float64) {
	fmt.Fprintf(b.body, `<g opacity="%s">`+"\n", num(alpha))
	b.cur.groups++
}

func (b *Backend) id(prefix string) string {
	b.nextID++
	return prefix + strconv.Itoa(b.nextID)
}

// PushMask writes the mask definition and opens a group using it.
func (b *Backend) PushMask(path *shape.Path, m recording.Mask) {
	if path == nil {
		return
	}
	id := b.id("mask")
	hide := m.Mode == recording.MaskSubtract
	if m.Inverted {
		hide = !hide
	}
	fmt.Fprintf(&b.defs, `<mask id="%s" maskUnits="userSpaceOnUse" x="-100000" y="-100000" width="200000" height="200000">`+"\n", id)
	pathFill := "#ffffff"
	if hide {
		b.defs.WriteString(`<rect x="-100000" y="-100000" width="200000" height="200000" fill="#ffffff"/>` + "\n")
		pathFill = "#000000"
	}
	fmt.Fprintf(&b.defs, `<path d="%s"%s fill="%s" fill-opacity="%s"/>`+"\n",
		pathData([]*shape.Path{path}), transformAttr(b.cur.transform), pathFill, num(clamp01(m.Opacity)))
	b.defs.WriteString("</mask>\n")
	fmt.Fprintf(b.body, `<g mask="url(#%s)">`+"\n", id)
	b.cur.groups++
}

// BeginMatte redirects output into the content of a new mask.
func (b *Backend) BeginMatte(mode recording.MatteMode) {
	b.mattes = append(b.mattes, matte{body: b.body, mode: mode, saved: b.stack})
	b.body = new(bytes.Buffer)
	b.stack = append([]state(nil), b.stack...)
	b.stack = append(b.stack, b.cur)
	b.cur.groups = 0
}

// EndMatte turns the redirected output into a mask and opens a group
// clipped by it.
func (b *Backend) EndMatte() {
	if len(b.mattes) == 0 {
		return
	}
	for len(b.stack) > len(b.mattes[len(b.mattes)-1].saved) {
		b.Restore()
	}
	mt := b.mattes[len(b.mattes)-1]
	b.mattes = b.mattes[:len(b.mattes)-1]
	content := b.body
	b.body = mt.body
	b.stack = mt.saved

	id := b.id("matte")
	maskType := "alpha"
	if mt.mode.Luma() {
		maskType = "luminance"
	}
	fmt.Fprintf(&b.defs, `<mask id="%s" mask-type="%s" maskUnits="userSpaceOnUse" x="-100000" y="-100000" width="200000" height="200000">`+"\n", id, maskType)
	if mt.mode.Inverted() {
		filter := b.id("invert")
		values := "1 0 0 0 0 0 1 0 0 0 0 0 1 0 0 0 0 0 -1 1"
		if mt.mode.Luma() {
			values = "-1 0 0 0 1 0 -1 0 0 1 0 0 -1 0 1 0 0 0 1 0"
		}
		fmt.Fprintf(&b.defs, `<filter id="%s"><feColorMatrix type="matrix" values="%s"/></filter>`+"\n", filter, values)
		fmt.Fprintf(&b.defs, `<g filter="url(#%s)">`+"\n", filter)
		b.defs.Write(content.Bytes())
		b.defs.WriteString("</g>\n")
	} else {
		b.defs.Write(content.Bytes())
	}
	b.defs.WriteString("</mask>\n")
	fmt.Fprintf(b.body, `<g mask="url(#%s)">`+"\n", id)
	b.cur.groups++
}

// PopMask closes the innermost open group.
func (b *Backend) PopMask() {
	if b.cur.groups > 0 {
		b.body.WriteString("</g>\n")
		b.cur.groups--
	}
}

// FillPath writes a filled path element.
func (b *Backend) FillPath(paths []*shape.Path, brush recording.Brush, rule recording.FillRule) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(b.body, `<path d="%s"%s %s`, pathData(paths), transformAttr(b.cur.transform), b.paint("fill", brush))
	if rule == recording.FillRuleEvenOdd {
		b.body.WriteString(` fill-rule="evenodd"`)
	}
	b.body.WriteString("/>\n")
}

// StrokePath writes a stroked path element.
func (b *Backend) StrokePath(paths []*shape.Path, brush recording.Brush, s recording.Stroke) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(b.body, `<path d="%s"%s fill="none" %s stroke-width="%s"`,
		pathData(paths), transformAttr(b.cur.transform), b.paint("stroke", brush), num(s.Width))
	switch s.Cap {
	case recording.LineCapRound:
		b.body.WriteString(` stroke-linecap="round"`)
	case recording.LineCapSquare:
		b.body.WriteString(` stroke-linecap="square"`)
	}
	switch s.Join {
	case recording.LineJoinRound:
		b.body.WriteString(` stroke-linejoin="round"`)
	case recording.LineJoinBevel:
		b.body.WriteString(` stroke-linejoin="bevel"`)
	default:
		fmt.Fprintf(b.body, ` stroke-miterlimit="%s"`, num(s.MiterLimit))
	}
	if len(s.DashPattern) > 0 {
		b.body.WriteString(` stroke-dasharray="`)
		for i, d := range s.DashPattern {
			if i > 0 {
				b.body.WriteByte(' ')
			}
			b.body.WriteString(num(d))
		}
		b.body.WriteByte('"')
		if s.DashOffset != 0 {
			fmt.Fprintf(b.body, ` stroke-dashoffset="%s"`, num(s.DashOffset))
		}
	}
	b.body.WriteString("/>\n")
}

// DrawImage writes an image element referencing the asset.
func (b *Backend) DrawImage(assetID string, width, height float64) {
	href := assetID
	if b.ResolveImage != nil {
		href = b.ResolveImage(assetID)
	}
	var esc bytes.Buffer
	_ = xml.EscapeText(&esc, []byte(href))
	fmt.Fprintf(b.body, `<image xlink:href="%s" width="%s" height="%s"%s/>`+"\n",
		esc.String(), num(width), num(height), transformAttr(b.cur.transform))
}

// paint returns the fill or stroke attributes for brush, writing gradient
// definitions as needed.
func (b *Backend) paint(attr string, brush recording.Brush) string {
	switch br := brush.(type) {
	case recording.SolidBrush:
		return fmt.Sprintf(`%s="%s" %s-opacity="%s"`, attr, br.Color.Hex(), attr, num(clamp01(br.Color.A)))
	case *recording.LinearGradientBrush:
		id := b.id("grad")
		fmt.Fprintf(&b.defs, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">`+"\n",
			id, num(br.Start.X), num(br.Start.Y), num(br.End.X), num(br.End.Y))
		b.stops(br.Stops)
		b.defs.WriteString("</linearGradient>\n")
		return fmt.Sprintf(`%s="url(#%s)" %s-opacity="%s"`, attr, id, attr, num(clamp01(br.Opacity)))
	case *recording.RadialGradientBrush:
		id := b.id("grad")
		fmt.Fprintf(&b.defs, `<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%s" cy="%s" r="%s" fx="%s" fy="%s">`+"\n",
			id, num(br.Center.X), num(br.Center.Y), num(br.EndRadius), num(br.Focus.X), num(br.Focus.Y))
		b.stops(br.Stops)
		b.defs.WriteString("</radialGradient>\n")
		return fmt.Sprintf(`%s="url(#%s)" %s-opacity="%s"`, attr, id, attr, num(clamp01(br.Opacity)))
	default:
		return fmt.Sprintf(`%s="%s"`, attr, scene.Black.Hex())
	}
}

func (b *Backend) stops(stops []recording.GradientStop) {
	for _, s := range stops {
		fmt.Fprintf(&b.defs, `<stop offset="%s" stop-color="%s" stop-opacity="%s"/>`+"\n",
			num(clamp01(s.Offset)), s.Color.Hex(), num(clamp01(s.Color.A)))
	}
}

// pathData converts paths to SVG path data, one subpath each.
func pathData(paths []*shape.Path) string {
	var sb bytes.Buffer
	for _, p := range paths {
		if p == nil || p.Len() == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		v := p.Vertex(0)
		fmt.Fprintf(&sb, "M%s %s", num(v.X), num(v.Y))
		for i := 0; i < p.SegmentCount(); i++ {
			c := p.Segment(i)
			fmt.Fprintf(&sb, "C%s %s %s %s %s %s",
				num(c.P1.X), num(c.P1.Y), num(c.P2.X), num(c.P2.Y), num(c.P3.X), num(c.P3.Y))
		}
		if p.Closed() {
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

func transformAttr(m recording.Matrix) string {
	if m.IsIdentity() {
		return ""
	}
	return fmt.Sprintf(` transform="matrix(%s %s %s %s %s %s)"`,
		num(m.A), num(m.D), num(m.B), num(m.E), num(m.C), num(m.F))
}

// num formats v with at most three decimals.
func num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
