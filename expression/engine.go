// Package expression evaluates property expressions with the tengo
// scripting language.
//
// An expression sees the globals value (a float, or an array of floats for
// multi-dimensional properties), frame and time (seconds), and reports its
// answer in result:
//
//	result := [value[0], value[1] + math.sin(time * 6) * 20]
//
// A source that never mentions result is treated as a bare expression, so
// "value * 2" works as written. The math and text modules can be imported.
package expression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/gogpu/lottie/internal/cache"
	"github.com/gogpu/lottie/property"
)

// ErrResult is returned by Run when an expression produces something other
// than a number or an array of numbers.
var ErrResult = errors.New("expression: result is not a number or numeric array")

// DefaultModules are the tengo standard modules scripts may import.
var DefaultModules = []string{"math", "text"}

// Engine compiles each distinct source once and runs it on demand. It
// implements property.ExpressionHook and is safe for concurrent use;
// evaluations are serialized.
type Engine struct {
	frameRate float64
	timeout   time.Duration
	maxAllocs int64
	modules   []string
	log       *slog.Logger

	mu       sync.Mutex
	programs *cache.Cache[string, *program]
}

type program struct {
	compiled *tengo.Compiled
	err      error
	failures int
}

// Option configures an Engine.
type Option func(*Engine)

// WithFrameRate sets the rate used to derive time from frame. The default
// is 30.
func WithFrameRate(fps float64) Option {
	return func(e *Engine) {
		if fps > 0 {
			e.frameRate = fps
		}
	}
}

// WithTimeout bounds a single evaluation. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithMaxAllocs bounds the objects a single evaluation may allocate.
func WithMaxAllocs(n int64) Option {
	return func(e *Engine) { e.maxAllocs = n }
}

// WithModules replaces the importable standard modules.
func WithModules(names ...string) Option {
	return func(e *Engine) { e.modules = names }
}

// WithCacheSize bounds the number of compiled sources kept. The least
// recently used ones are recompiled on demand.
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.programs = cache.New[string, *program](n, cache.StringHasher) }
}

// WithLogger sets the logger for compile and runtime failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		frameRate: 30,
		timeout:   50 * time.Millisecond,
		maxAllocs: 10000,
		modules:   DefaultModules,
		log:       slog.New(slog.DiscardHandler),
		programs:  cache.New[string, *program](0, cache.StringHasher),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetFrameRate changes the rate used to derive time from frame. Load calls
// it with the document's frame rate.
func (e *Engine) SetFrameRate(fps float64) {
	if fps <= 0 {
		return
	}
	e.mu.Lock()
	e.frameRate = fps
	e.mu.Unlock()
}

// Evaluate implements property.ExpressionHook. Failures are logged and
// report ok == false, which keeps the interpolated value. Shape values are
// not passed to scripts.
func (e *Engine) Evaluate(source string, frame float64, v property.Value) (property.Value, bool) {
	if v.Kind == property.KindShape {
		return property.Value{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.program(source)
	if p.err != nil {
		return property.Value{}, false
	}
	out, err := e.run(p.compiled, frame, v)
	if err != nil {
		// First failure per source is a warning, the rest would repeat it
		// every frame.
		level := slog.LevelDebug
		if p.failures == 0 {
			level = slog.LevelWarn
		}
		p.failures++
		e.log.Log(context.Background(), level, "lottie: expression failed", "frame", frame, "error", err)
		return property.Value{}, false
	}
	return out, true
}

// Run compiles (or reuses) source and evaluates it once, returning errors
// instead of logging them.
func (e *Engine) Run(source string, frame float64, v property.Value) (property.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.program(source)
	if p.err != nil {
		return property.Value{}, p.err
	}
	return e.run(p.compiled, frame, v)
}

// Len returns the number of cached programs, failed ones included.
func (e *Engine) Len() int { return e.programs.Len() }

func (e *Engine) program(source string) *program {
	p, _ := e.programs.GetOrCreate(source, func() (*program, error) {
		p := &program{}
		p.compiled, p.err = e.compile(source)
		if p.err != nil {
			e.log.Warn("lottie: expression does not compile", "error", p.err)
		}
		return p, nil
	})
	return p
}

func (e *Engine) compile(source string) (*tengo.Compiled, error) {
	src := source
	if !strings.Contains(src, "result") {
		src = "result := (" + strings.TrimSpace(src) + ")"
	}
	script := tengo.NewScript([]byte(src))
	_ = script.Add("value", 0.0)
	_ = script.Add("frame", 0.0)
	_ = script.Add("time", 0.0)
	script.SetImports(stdlib.GetModuleMap(e.modules...))
	if e.maxAllocs > 0 {
		script.SetMaxAllocs(e.maxAllocs)
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("expression: compile: %w", err)
	}
	return compiled, nil
}

func (e *Engine) run(c *tengo.Compiled, frame float64, v property.Value) (property.Value, error) {
	if err := c.Set("value", toScript(v)); err != nil {
		return property.Value{}, err
	}
	if err := c.Set("frame", frame); err != nil {
		return property.Value{}, err
	}
	if err := c.Set("time", frame/e.frameRate); err != nil {
		return property.Value{}, err
	}

	ctx := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	if err := c.RunContext(ctx); err != nil {
		return property.Value{}, fmt.Errorf("expression: run: %w", err)
	}
	return fromScript(c.Get("result").Value())
}

func toScript(v property.Value) any {
	if v.Kind == property.KindScalar {
		return v.Scalar
	}
	arr := make([]any, len(v.Vector))
	for i, x := range v.Vector {
		arr[i] = x
	}
	return arr
}

func fromScript(x any) (property.Value, error) {
	if f, ok := number(x); ok {
		return property.Scalar(f), nil
	}
	arr, ok := x.([]any)
	if !ok || len(arr) == 0 {
		return property.Value{}, ErrResult
	}
	out := make([]float64, len(arr))
	for i, el := range arr {
		f, ok := number(el)
		if !ok {
			return property.Value{}, ErrResult
		}
		out[i] = f
	}
	return property.Vector(out), nil
}

func number(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

var _ property.ExpressionHook = (*Engine)(nil)
