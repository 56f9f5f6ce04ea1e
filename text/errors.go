package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrNoFont is returned when a document font cannot be resolved and
	// has no embedded characters.
	ErrNoFont = errors.New("text: font not available")
)

// FontError reports a font that failed to load or parse.
type FontError struct {
	Font string
	Err  error
}

func (e *FontError) Error() string {
	return fmt.Sprintf("text: font %q: %v", e.Font, e.Err)
}

func (e *FontError) Unwrap() error { return e.Err }
