// Package scene turns a document into a renderable frame.
//
// Build converts the document's layers into a runtime graph: one Layer per
// document layer, tagged by LayerKind, with shape trees, masks, text and
// nested compositions as payloads. Render evaluates every in-range layer
// at a frame and returns a Frame: per layer a final matrix, an opacity, and
// a list of fill and stroke styles with their path geometry. Each item
// carries a Changed flag so backends can skip unchanged work.
//
// Geometry comes from the scene's pools and is recycled by the next
// Render. Consumers that keep paths past that point must copy them.
package scene
