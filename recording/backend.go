package recording

import (
	"io"

	"github.com/gogpu/lottie/shape"
)

// Backend is the interface that all export backends must implement.
// Backends receive drawing commands and translate them to their output
// format.
//
// A Backend manages its own state stack for Save/Restore. Every mask,
// matte and opacity group opened after a Save is closed by the matching
// Restore.
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions:
//
//	func init() {
//	    recording.Register("svg", func() recording.Backend {
//	        return New()
//	    })
//	}
type Backend interface {
	// Begin initializes the backend for a canvas of the given size.
	Begin(width, height int) error

	// End finalizes the output.
	End() error

	Save()
	Restore()

	// SetTransform replaces the current transformation matrix.
	SetTransform(m Matrix)

	// SetOpacity composites everything drawn until the next Restore as one
	// group with the given opacity.
	SetOpacity(alpha float64)

	// PushMask clips subsequent drawing by path under the current
	// transform.
	PushMask(path *shape.Path, mask Mask)

	// BeginMatte redirects drawing into the content of a track matte.
	// EndMatte stops the redirection and clips subsequent drawing by the
	// matte. Both are closed by PopMask.
	BeginMatte(mode MatteMode)
	EndMatte()
	PopMask()

	// FillPath and StrokePath paint a compound path: the paths of one
	// style, drawn as a single shape.
	FillPath(paths []*shape.Path, brush Brush, rule FillRule)
	StrokePath(paths []*shape.Path, brush Brush, stroke Stroke)

	// DrawImage draws the referenced image asset scaled to width x height at
	// the origin of the current transform.
	DrawImage(assetID string, width, height float64)
}

// WriterBackend extends Backend with the ability to write output to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered content to the given writer.
	// This should only be called after End().
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend extends Backend with the ability to save output directly to a file.
type FileBackend interface {
	Backend

	// SaveToFile saves the rendered content to a file at the given path.
	// This should only be called after End().
	SaveToFile(path string) error
}

// ImageBackend is implemented by backends that reference image assets by
// location. The resolver maps an asset id to the href written for it.
type ImageBackend interface {
	Backend
	SetImageResolver(resolve func(assetID string) string)
}
