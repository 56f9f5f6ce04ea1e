// Package text lays out the text documents of text layers as path
// geometry.
//
// Glyphs come from one of two places:
//
//   - Embedded characters: shape data for each character stored in the
//     animation itself, used when the document font has any.
//   - Font files: bytes supplied by a FontResolver (or the bundled Go
//     Regular face), shaped with the HarfBuzz port of go-text/typesetting
//     and converted to outlines through golang.org/x/image/font/sfnt.
//
// Lines are split on carriage returns and line feeds, ordered with the
// Unicode bidirectional algorithm and justified left, right or centered
// around the layer origin. Box text wraps at word boundaries inside its
// box.
//
// The output is a shape.Collection of glyph contours in layer space,
// built from the evaluation context's pools.
package text
