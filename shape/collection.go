package shape

// Collection is an ordered list of paths produced for one shape in one
// frame. Paths added with AddOwned belong to the collection and go back to
// the pool with it; paths added with Add are borrowed (for example the
// cached output of a static shape property) and are left alone on release.
type Collection struct {
	paths []*Path
	owned []bool
	gen   uint64

	pooled bool
}

// NewCollection allocates an empty collection.
// Prefer CollectionPool.Acquire inside per-frame code.
func NewCollection() *Collection {
	return &Collection{
		paths: make([]*Path, 0, 4),
		owned: make([]bool, 0, 4),
	}
}

// Add appends a borrowed path.
func (c *Collection) Add(p *Path) {
	c.paths = append(c.paths, p)
	c.owned = append(c.owned, false)
}

// AddOwned appends a path whose lifetime is tied to the collection.
func (c *Collection) AddOwned(p *Path) {
	c.paths = append(c.paths, p)
	c.owned = append(c.owned, true)
}

// Len returns the number of paths. A zero-length collection is the
// explicit "no geometry" signal.
func (c *Collection) Len() int {
	return len(c.paths)
}

// Path returns path i.
func (c *Collection) Path(i int) *Path {
	return c.paths[i]
}

// Paths returns the underlying slice. Callers must not retain it past the
// frame.
func (c *Collection) Paths() []*Path {
	return c.paths
}

// Empty reports whether the collection carries no drawable geometry.
func (c *Collection) Empty() bool {
	for _, p := range c.paths {
		if p.Len() > 0 {
			return false
		}
	}
	return true
}

// Generation changes every time the collection is reset, so caches keyed
// on a pooled collection can tell a recycled one apart.
func (c *Collection) Generation() uint64 {
	return c.gen
}

// reset drops all paths, returning owned ones to pool.
func (c *Collection) reset(pool *PathPool) {
	c.gen++
	for i, p := range c.paths {
		if c.owned[i] && pool != nil {
			pool.Release(p)
		}
		c.paths[i] = nil
	}
	c.paths = c.paths[:0]
	c.owned = c.owned[:0]
}

// SegmentLengths caches the length of each segment of a path together with
// the total. Trim modifiers rebuild it only when the upstream path changed.
type SegmentLengths struct {
	Lengths []float64
	Total   float64

	pooled bool
}

// Compute measures every segment of p using the given sample count.
func (l *SegmentLengths) Compute(p *Path, steps int) {
	n := p.SegmentCount()
	if cap(l.Lengths) < n {
		l.Lengths = make([]float64, n)
	}
	l.Lengths = l.Lengths[:n]
	l.Total = 0
	for i := 0; i < n; i++ {
		l.Lengths[i] = p.Segment(i).Length(steps)
		l.Total += l.Lengths[i]
	}
}

// Reset clears the table.
func (l *SegmentLengths) Reset() {
	l.Lengths = l.Lengths[:0]
	l.Total = 0
}
