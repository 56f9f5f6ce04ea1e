package text

import (
	"bytes"
	"os"
	"sync"
	"sync/atomic"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/lottie/document"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// FontSource represents a loaded font file, parsed once for shaping and
// once for outline extraction.
//
// FontSource is safe for concurrent use.
type FontSource struct {
	id   uint64
	name string
	data []byte

	outlines *sfnt.Font
	shaping  *font.Font
}

// NewFontSource creates a FontSource from font data (TTF or OTF).
// The data slice is copied internally and can be reused after this call.
func NewFontSource(name string, data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	outlines, err := sfnt.Parse(dataCopy)
	if err != nil {
		return nil, &FontError{Font: name, Err: err}
	}
	face, err := font.ParseTTF(bytes.NewReader(dataCopy))
	if err != nil {
		return nil, &FontError{Font: name, Err: err}
	}
	return &FontSource{
		id:       sourceIDs.Add(1),
		name:     name,
		data:     dataCopy,
		outlines: outlines,
		shaping:  face.Font,
	}, nil
}

var sourceIDs atomic.Uint64

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string) (*FontSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FontError{Font: path, Err: err}
	}
	return NewFontSource(path, data)
}

// Name returns the name the source was created with.
func (s *FontSource) Name() string { return s.name }

var fallback struct {
	once sync.Once
	src  *FontSource
	err  error
}

// Default returns the bundled Go Regular font, used when a document font
// cannot be resolved.
func Default() (*FontSource, error) {
	fallback.once.Do(func() {
		fallback.src, fallback.err = NewFontSource("Go Regular", goregular.TTF)
	})
	return fallback.src, fallback.err
}

// FontResolver supplies font file bytes for a document font. It is the
// font half of the asset collaborator: the engine never reads files or
// fetches anything itself.
type FontResolver interface {
	ResolveFont(f *document.Font) ([]byte, error)
}

// FontResolverFunc adapts a function to FontResolver.
type FontResolverFunc func(f *document.Font) ([]byte, error)

// ResolveFont implements FontResolver.
func (fn FontResolverFunc) ResolveFont(f *document.Font) ([]byte, error) { return fn(f) }
