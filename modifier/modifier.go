// Package modifier implements shape modifiers: operations that rewrite the
// path geometry of the shapes preceding them in a group.
//
// A modifier is evaluated in two steps each tick. Update evaluates its own
// properties and reports whether they changed; Apply then rewrites the
// target collections. Callers re-run Apply only when Update reported a
// change or one of the input collections was rebuilt, and hand the previous
// outputs back to the collection pool afterwards.
package modifier

import (
	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/shape"
)

// Modifier rewrites the geometry of its target shapes.
type Modifier interface {
	// Update evaluates the modifier's properties for the current tick.
	Update(ctx *property.Context) bool

	// Apply writes the modified form of in[i] into out[i]. The out
	// collections are empty on entry and len(out) == len(in). Paths
	// written to out are owned by out.
	Apply(ctx *property.Context, in, out []*shape.Collection)
}

// lengthSamples is the sample count used to measure curved segments.
const lengthSamples = 64

// appendSegment appends cubic c to dst. When dst already has vertices, c is
// assumed to start at the last one and only that vertex's out handle is
// rewritten.
func appendSegment(dst *shape.Path, c geom.CubicBez) {
	n := dst.Len()
	if n == 0 {
		dst.Append(c.P0, geom.Point{}, c.P1.Sub(c.P0))
	} else {
		last := dst.Vertex(n - 1)
		dst.SetTriple(n-1, last, dst.In(n-1), c.P1.Sub(last))
	}
	dst.Append(c.P3, c.P2.Sub(c.P3), geom.Point{})
}

// copyAll clones every path of in into out.
func copyAll(ctx *property.Context, in, out *shape.Collection) {
	for _, p := range in.Paths() {
		out.AddOwned(ctx.Pools.Paths.Clone(p))
	}
}
