package shape

import (
	"math"
	"testing"

	"github.com/gogpu/lottie/geom"
)

func square(p *Path) {
	p.Reset()
	p.SetClosed(true)
	p.Append(geom.Pt(0, 0), geom.Point{}, geom.Point{})
	p.Append(geom.Pt(10, 0), geom.Point{}, geom.Point{})
	p.Append(geom.Pt(10, 10), geom.Point{}, geom.Point{})
	p.Append(geom.Pt(0, 10), geom.Point{}, geom.Point{})
}

func TestPathSegments(t *testing.T) {
	p := NewPath(0)
	square(p)

	if got := p.SegmentCount(); got != 4 {
		t.Fatalf("SegmentCount = %d, want 4", got)
	}
	last := p.Segment(3)
	if last.P0 != geom.Pt(0, 10) || last.P3 != geom.Pt(0, 0) {
		t.Errorf("closing segment = %v", last)
	}
	if got := p.Length(10); got != 40 {
		t.Errorf("Length = %v, want 40", got)
	}

	p.SetClosed(false)
	if got := p.SegmentCount(); got != 3 {
		t.Errorf("open SegmentCount = %d, want 3", got)
	}
}

func TestPathGrowKeepsData(t *testing.T) {
	p := NewPath(4)
	for i := 0; i < 20; i++ {
		p.Append(geom.Pt(float64(i), 0), geom.Pt(-1, 0), geom.Pt(1, 0))
	}
	if p.Len() != 20 {
		t.Fatalf("Len = %d, want 20", p.Len())
	}
	for i := 0; i < 20; i++ {
		if p.Vertex(i).X != float64(i) || p.Out(i).X != 1 {
			t.Fatalf("vertex %d corrupted: %v %v", i, p.Vertex(i), p.Out(i))
		}
	}
}

func TestPathReverse(t *testing.T) {
	p := NewPath(0)
	p.SetClosed(true)
	p.Append(geom.Pt(0, 0), geom.Pt(-1, 0), geom.Pt(1, 0))
	p.Append(geom.Pt(10, 0), geom.Pt(0, -2), geom.Pt(0, 2))
	p.Append(geom.Pt(10, 10), geom.Pt(3, 0), geom.Pt(-3, 0))

	p.Reverse()

	if p.Vertex(0) != geom.Pt(0, 0) {
		t.Errorf("closed path should keep its first vertex, got %v", p.Vertex(0))
	}
	if p.Vertex(1) != geom.Pt(10, 10) || p.Vertex(2) != geom.Pt(10, 0) {
		t.Errorf("order = %v %v", p.Vertex(1), p.Vertex(2))
	}
	if p.In(0) != geom.Pt(1, 0) || p.Out(0) != geom.Pt(-1, 0) {
		t.Errorf("handles not swapped: in %v out %v", p.In(0), p.Out(0))
	}
}

func TestPathTransformInto(t *testing.T) {
	p := NewPath(0)
	p.Append(geom.Pt(1, 1), geom.Pt(-1, 0), geom.Pt(1, 0))

	m := geom.Identity()
	m.Scale(2, 3, 1).Translate(10, 0, 0)
	dst := NewPath(0)
	p.TransformInto(&m, dst)

	if dst.Vertex(0) != geom.Pt(12, 3) {
		t.Errorf("vertex = %v, want (12, 3)", dst.Vertex(0))
	}
	if dst.Out(0) != geom.Pt(2, 0) {
		t.Errorf("out handle = %v, want (2, 0)", dst.Out(0))
	}
}

func TestPathEqual(t *testing.T) {
	a := NewPath(0)
	b := NewPath(0)
	square(a)
	square(b)
	if !a.Equal(b) {
		t.Error("identical squares should be equal")
	}
	b.SetTriple(2, geom.Pt(10, 11), geom.Point{}, geom.Point{})
	if a.Equal(b) {
		t.Error("moved vertex should break equality")
	}
}

func TestPathPoolRelease(t *testing.T) {
	pool := NewPathPool(1)

	p := pool.Acquire()
	square(p)
	pool.Release(p)

	q := pool.Acquire()
	if q != p {
		t.Fatal("expected the released path to be recycled")
	}
	if q.Len() != 0 || q.Closed() {
		t.Errorf("recycled path not reset: len %d closed %v", q.Len(), q.Closed())
	}
	stats := pool.Stats()
	if stats.Created != 1 || stats.Reused != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestPathPoolDoubleRelease(t *testing.T) {
	pool := NewPathPool(1)
	p := pool.Acquire()
	pool.Release(p)

	defer func() {
		if recover() == nil {
			t.Error("double release should panic")
		}
	}()
	pool.Release(p)
}

func TestFreeListGrows(t *testing.T) {
	fl := NewFreeList(2, func() *int { return new(int) }, func(x *int) { *x = 0 })
	var items []*int
	for i := 0; i < 5; i++ {
		x := fl.Acquire()
		*x = i + 1
		items = append(items, x)
	}
	for _, x := range items {
		fl.Release(x)
	}
	stats := fl.Stats()
	if stats.Free != 5 {
		t.Errorf("Free = %d, want 5", stats.Free)
	}
	if stats.Capacity != 8 {
		t.Errorf("Capacity = %d, want 8 (2 doubled twice)", stats.Capacity)
	}
	for i := 0; i < 5; i++ {
		if x := fl.Acquire(); *x != 0 {
			t.Errorf("acquired object not reset: %d", *x)
		}
	}
}

func TestCollectionReleaseOwnership(t *testing.T) {
	pools := NewPools(2)
	borrowed := NewPath(0)
	square(borrowed)

	c := pools.Collections.Acquire()
	owned := pools.Paths.Clone(borrowed)
	c.AddOwned(owned)
	c.Add(borrowed)
	pools.Collections.Release(c)

	if borrowed.Len() != 4 {
		t.Error("borrowed path must survive collection release")
	}
	if owned.Len() != 0 {
		t.Error("owned path should be reset on release")
	}
	if got := pools.Paths.Stats().Free; got != 1 {
		t.Errorf("free paths = %d, want 1", got)
	}
	c2 := pools.Collections.Acquire()
	if c2.Len() != 0 {
		t.Errorf("recycled collection has %d paths", c2.Len())
	}
}

func TestSegmentLengths(t *testing.T) {
	p := NewPath(0)
	square(p)
	var l SegmentLengths
	l.Compute(p, 10)
	if len(l.Lengths) != 4 || l.Total != 40 {
		t.Errorf("lengths = %v total %v", l.Lengths, l.Total)
	}
}

func TestBuildRect(t *testing.T) {
	p := NewPath(0)
	BuildRect(p, geom.Pt(0, 0), geom.Pt(20, 10), 0, false)
	if p.Len() != 4 || !p.Closed() {
		t.Fatalf("sharp rect: len %d closed %v", p.Len(), p.Closed())
	}
	if p.Vertex(0) != geom.Pt(10, -5) {
		t.Errorf("first vertex = %v, want (10, -5)", p.Vertex(0))
	}
	if got := p.Length(10); got != 60 {
		t.Errorf("perimeter = %v, want 60", got)
	}

	BuildRect(p, geom.Pt(0, 0), geom.Pt(20, 10), 100, false)
	if p.Len() != 8 {
		t.Fatalf("rounded rect len = %d, want 8", p.Len())
	}
	// Radius clamps to half the short side: the rect becomes a stadium.
	if p.Vertex(0) != geom.Pt(10, 0) {
		t.Errorf("clamped radius vertex = %v, want (10, 0)", p.Vertex(0))
	}
}

func TestBuildEllipse(t *testing.T) {
	p := NewPath(0)
	BuildEllipse(p, geom.Pt(0, 0), geom.Pt(100, 100), false)
	b := p.Bounds()
	if math.Abs(b.Width()-100) > 1e-9 || math.Abs(b.Height()-100) > 1e-9 {
		t.Errorf("bounds = %v", b)
	}
	// Circumference of a circle with radius 50 is ~314.16.
	if l := p.Length(100); math.Abs(l-math.Pi*100) > 0.5 {
		t.Errorf("circumference = %v", l)
	}
}

func TestBuildStar(t *testing.T) {
	p := NewPath(0)
	BuildStar(p, StarParams{Points: 5, OuterRadius: 10, InnerRadius: 5})
	if p.Len() != 10 {
		t.Fatalf("star len = %d, want 10", p.Len())
	}
	if !p.Vertex(0).Approx(geom.Pt(0, -10), 1e-9) {
		t.Errorf("first star vertex = %v, want top (0, -10)", p.Vertex(0))
	}

	BuildStar(p, StarParams{Points: 6, OuterRadius: 10, Polygon: true})
	if p.Len() != 6 {
		t.Errorf("polygon len = %d, want 6", p.Len())
	}
}
