package scene

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFeature is returned when a document uses a feature the
// engine does not evaluate. Use errors.As with *UnsupportedFeatureError
// for details.
var ErrUnsupportedFeature = errors.New("lottie: unsupported feature")

// UnsupportedFeatureError names the feature and the layer that uses it.
type UnsupportedFeatureError struct {
	Feature string
	Layer   string
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Layer == "" {
		return fmt.Sprintf("lottie: unsupported feature %q", e.Feature)
	}
	return fmt.Sprintf("lottie: unsupported feature %q in layer %q", e.Feature, e.Layer)
}

// Unwrap returns ErrUnsupportedFeature.
func (e *UnsupportedFeatureError) Unwrap() error { return ErrUnsupportedFeature }

func unsupported(feature, layer string) error {
	return &UnsupportedFeatureError{Feature: feature, Layer: layer}
}
