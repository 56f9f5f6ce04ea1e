package text

import (
	"math"
	"sync"

	"github.com/gogpu/lottie/geom"
	"github.com/gogpu/lottie/internal/cache"
	"github.com/gogpu/lottie/shape"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

type outlineKey struct {
	src  *FontSource
	gid  uint16
	size float64
}

func hashOutlineKey(k outlineKey) uint64 {
	return cache.Mix(k.src.id, uint64(k.gid), math.Float64bits(k.size))
}

// DefaultOutlineCapacity bounds the glyphs kept by NewOutlineCache.
const DefaultOutlineCapacity = 4096

// OutlineCache extracts glyph outlines from fonts and keeps them as
// closed shape paths, one per contour, in pixels at the requested size.
// The least recently used glyphs are dropped once the cache is full.
// Cached paths are shared and must not be mutated.
//
// OutlineCache is safe for concurrent use.
type OutlineCache struct {
	glyphs  *cache.Cache[outlineKey, []*shape.Path]
	buffers sync.Pool
}

// NewOutlineCache creates an empty cache holding up to capacity glyphs,
// or DefaultOutlineCapacity when capacity is not positive.
func NewOutlineCache(capacity int) *OutlineCache {
	if capacity <= 0 {
		capacity = DefaultOutlineCapacity
	}
	return &OutlineCache{
		glyphs:  cache.New[outlineKey, []*shape.Path](capacity, hashOutlineKey),
		buffers: sync.Pool{New: func() any { return new(sfnt.Buffer) }},
	}
}

// Outline returns the contours of glyph gid. Glyphs without an outline,
// such as spaces, yield nil.
func (c *OutlineCache) Outline(src *FontSource, gid uint16, size float64) ([]*shape.Path, error) {
	key := outlineKey{src: src, gid: gid, size: size}
	return c.glyphs.GetOrCreate(key, func() ([]*shape.Path, error) {
		buf := c.buffers.Get().(*sfnt.Buffer)
		defer c.buffers.Put(buf)
		segments, err := src.outlines.LoadGlyph(buf, sfnt.GlyphIndex(gid), fixed.Int26_6(size*64), nil)
		if err != nil {
			return nil, err
		}
		return segmentsToPaths(segments), nil
	})
}

// Len returns the number of cached glyphs.
func (c *OutlineCache) Len() int { return c.glyphs.Len() }

// Stats reports cache hits, misses and evictions.
func (c *OutlineCache) Stats() cache.Stats { return c.glyphs.Stats() }

// segmentsToPaths converts sfnt segments (y-down) into closed paths.
// Quadratic segments are raised to cubics.
func segmentsToPaths(segments sfnt.Segments) []*shape.Path {
	var paths []*shape.Path
	var cur *shape.Path
	for _, seg := range segments {
		if seg.Op == sfnt.SegmentOpMoveTo {
			if cur != nil {
				paths = appendContour(paths, cur)
			}
			cur = shape.NewPath(8)
			cur.Append(fixedPointToGeom(seg.Args[0]), geom.Point{}, geom.Point{})
			continue
		}
		if cur == nil {
			continue
		}
		last := cur.Len() - 1
		p0 := cur.Vertex(last)
		switch seg.Op {
		case sfnt.SegmentOpLineTo:
			cur.Append(fixedPointToGeom(seg.Args[0]), geom.Point{}, geom.Point{})
		case sfnt.SegmentOpQuadTo:
			ctrl := fixedPointToGeom(seg.Args[0])
			p := fixedPointToGeom(seg.Args[1])
			c1 := p0.Lerp(ctrl, 2.0/3)
			c2 := p.Lerp(ctrl, 2.0/3)
			cur.SetTriple(last, p0, cur.In(last), c1.Sub(p0))
			cur.Append(p, c2.Sub(p), geom.Point{})
		case sfnt.SegmentOpCubeTo:
			c1 := fixedPointToGeom(seg.Args[0])
			c2 := fixedPointToGeom(seg.Args[1])
			p := fixedPointToGeom(seg.Args[2])
			cur.SetTriple(last, p0, cur.In(last), c1.Sub(p0))
			cur.Append(p, c2.Sub(p), geom.Point{})
		}
	}
	if cur != nil {
		paths = appendContour(paths, cur)
	}
	return paths
}

// appendContour closes p, folding a final vertex that repeats the first
// one into it.
func appendContour(paths []*shape.Path, p *shape.Path) []*shape.Path {
	n := p.Len()
	if n < 2 {
		return paths
	}
	if p.Vertex(n-1).Approx(p.Vertex(0), 1e-9) {
		p.SetTriple(0, p.Vertex(0), p.In(n-1), p.Out(0))
		p.SetLength(n - 1)
	}
	p.SetClosed(true)
	return append(paths, p)
}

func fixedPointToGeom(p fixed.Point26_6) geom.Point {
	return geom.Pt(float64(p.X)/64.0, float64(p.Y)/64.0)
}
