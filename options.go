package lottie

import (
	"log/slog"
	"path"

	"github.com/gogpu/lottie/document"
	"github.com/gogpu/lottie/property"
	"github.com/gogpu/lottie/text"
)

// Option configures Load.
//
// Example:
//
//	anim, err := lottie.LoadBytes(data,
//	    lottie.WithExpressions(expression.New()),
//	    lottie.WithCurveSegments(300))
type Option func(*options)

type options struct {
	fonts         text.FontResolver
	assets        AssetResolver
	expressions   property.ExpressionHook
	log           *slog.Logger
	curveSegments int
	poolCapacity  int
}

func defaultOptions() options {
	return options{
		assets: AssetResolverFunc(defaultAssetHref),
	}
}

// AssetResolver maps an asset to the reference a backend should load,
// typically a file path or URL. It is called lazily, once per asset.
type AssetResolver interface {
	ResolveAsset(a *document.Asset) (string, error)
}

// AssetResolverFunc adapts a function to AssetResolver.
type AssetResolverFunc func(a *document.Asset) (string, error)

// ResolveAsset implements AssetResolver.
func (fn AssetResolverFunc) ResolveAsset(a *document.Asset) (string, error) { return fn(a) }

// defaultAssetHref keeps embedded data URIs and joins directory and file
// name otherwise.
func defaultAssetHref(a *document.Asset) (string, error) {
	if a.Embedded == 1 || a.Dir == "" {
		return a.File, nil
	}
	return path.Join(a.Dir, a.File), nil
}

// WithFontResolver supplies font file bytes for text layers. Without one,
// glyphs embedded in the document are used, then the bundled Go font.
func WithFontResolver(r text.FontResolver) Option {
	return func(o *options) {
		o.fonts = r
	}
}

// WithAssetResolver sets how image assets are referenced by output
// backends.
func WithAssetResolver(r AssetResolver) Option {
	return func(o *options) {
		if r != nil {
			o.assets = r
		}
	}
}

// WithExpressions enables property expressions. If the hook has a
// SetFrameRate(float64) method it is called with the document frame rate.
func WithExpressions(h property.ExpressionHook) Option {
	return func(o *options) {
		o.expressions = h
	}
}

// WithLogger sets the logger for one animation, overriding SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithCurveSegments sets the sample count of motion path arc-length
// tables. The default is 150.
func WithCurveSegments(n int) Option {
	return func(o *options) {
		o.curveSegments = n
	}
}

// WithPoolCapacity sets the initial capacity of the geometry pools.
func WithPoolCapacity(n int) Option {
	return func(o *options) {
		o.poolCapacity = n
	}
}
