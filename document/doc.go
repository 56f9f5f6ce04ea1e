// Package document defines the exported animation document: composition
// settings, layers, shape trees, animated properties and assets, decoded
// from JSON.
//
// A document goes through three steps before evaluation:
//
//	doc, err := document.Decode(r)  // syntax only
//	err = doc.Validate()            // structure; *ValidationError on failure
//	doc.Normalize()                 // one-time fix-ups (idempotent)
//
// Parse runs all three. Animated properties decode into [Animated] (numbers
// and vectors) or [AnimatedShape] (paths); both accept the constant and the
// keyframed encodings. Shape items decode into [ShapeItem] with one typed
// payload per item type.
package document
