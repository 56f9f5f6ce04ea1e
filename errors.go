package lottie

import (
	"errors"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/scene"
)

// Errors returned by Load and Render. Use errors.Is to test for them;
// the concrete errors are *document.ValidationError and
// *scene.UnsupportedFeatureError.
var (
	ErrMalformedDocument  = document.ErrMalformedDocument
	ErrUnsupportedFeature = scene.ErrUnsupportedFeature
)

// ErrUnknownMarker is returned by Marker lookups for a missing name.
var ErrUnknownMarker = errors.New("lottie: unknown marker")
