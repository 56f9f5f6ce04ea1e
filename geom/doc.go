// Package geom provides the numeric primitives used by the animation
// engine: points, 4x4 transformation matrices, cubic Bezier segments,
// cubic-bezier timing functions, arc-length tables and quaternions.
//
// Matrices follow the row-vector convention used by the exported document
// format: composing methods post-multiply, so transforms apply in the order
// they are written.
package geom
