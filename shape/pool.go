package shape

// FreeList is a reuse cache of previously allocated objects. Acquire pops a
// recycled object or allocates a new one when the list is empty; Release
// clears an object and pushes it back. The backing store doubles whenever
// it fills up, so releasing never fails.
//
// FreeList is not safe for concurrent use. Evaluation is single-threaded
// per animation and every animation owns its own lists.
type FreeList[T any] struct {
	items []T
	free  int

	newFn   func() T
	resetFn func(T)

	created int
	reused  int
}

// NewFreeList creates a free list with the given initial capacity.
func NewFreeList[T any](capacity int, newFn func() T, resetFn func(T)) *FreeList[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &FreeList[T]{
		items:   make([]T, capacity),
		newFn:   newFn,
		resetFn: resetFn,
	}
}

// Acquire returns a recycled object or a freshly allocated one.
func (f *FreeList[T]) Acquire() T {
	if f.free > 0 {
		f.free--
		x := f.items[f.free]
		var zero T
		f.items[f.free] = zero
		f.reused++
		return x
	}
	f.created++
	return f.newFn()
}

// Release resets x and keeps it for reuse.
func (f *FreeList[T]) Release(x T) {
	if f.resetFn != nil {
		f.resetFn(x)
	}
	if f.free == len(f.items) {
		grown := make([]T, len(f.items)*2)
		copy(grown, f.items)
		f.items = grown
	}
	f.items[f.free] = x
	f.free++
}

// Stats reports pool activity.
func (f *FreeList[T]) Stats() PoolStats {
	return PoolStats{
		Created:  f.created,
		Reused:   f.reused,
		Free:     f.free,
		Capacity: len(f.items),
	}
}

// PoolStats is a snapshot of FreeList counters.
type PoolStats struct {
	Created  int // objects allocated because the list was empty
	Reused   int // objects served from the list
	Free     int // objects currently waiting for reuse
	Capacity int // size of the backing store
}

// PathPool recycles Path objects.
type PathPool struct {
	list *FreeList[*Path]
}

// NewPathPool creates a path pool.
func NewPathPool(capacity int) *PathPool {
	return &PathPool{
		list: NewFreeList(capacity,
			func() *Path { return NewPath(8) },
			func(p *Path) { p.Reset() },
		),
	}
}

// Acquire returns an empty path.
func (pp *PathPool) Acquire() *Path {
	p := pp.list.Acquire()
	p.pooled = false
	return p
}

// Release returns p to the pool. Releasing a path twice is a logic error
// and panics.
func (pp *PathPool) Release(p *Path) {
	if p == nil {
		return
	}
	if p.pooled {
		panic("shape: path released twice")
	}
	p.pooled = true
	pp.list.Release(p)
}

// Clone deep-copies src into a pooled path.
func (pp *PathPool) Clone(src *Path) *Path {
	p := pp.Acquire()
	p.CopyFrom(src)
	return p
}

// Stats reports pool activity.
func (pp *PathPool) Stats() PoolStats {
	return pp.list.Stats()
}

// CollectionPool recycles Collection objects.
type CollectionPool struct {
	list  *FreeList[*Collection]
	paths *PathPool
}

// NewCollectionPool creates a collection pool that returns owned paths to
// paths on release.
func NewCollectionPool(capacity int, paths *PathPool) *CollectionPool {
	cp := &CollectionPool{paths: paths}
	cp.list = NewFreeList(capacity,
		NewCollection,
		func(c *Collection) { c.reset(cp.paths) },
	)
	return cp
}

// Acquire returns an empty collection.
func (cp *CollectionPool) Acquire() *Collection {
	c := cp.list.Acquire()
	c.pooled = false
	return c
}

// Release returns c and its owned paths to their pools. Releasing a
// collection twice is a logic error and panics.
func (cp *CollectionPool) Release(c *Collection) {
	if c == nil {
		return
	}
	if c.pooled {
		panic("shape: collection released twice")
	}
	c.pooled = true
	cp.list.Release(c)
}

// Stats reports pool activity.
func (cp *CollectionPool) Stats() PoolStats {
	return cp.list.Stats()
}

// LengthsPool recycles SegmentLengths tables.
type LengthsPool struct {
	list *FreeList[*SegmentLengths]
}

// NewLengthsPool creates a segment-length pool.
func NewLengthsPool(capacity int) *LengthsPool {
	return &LengthsPool{
		list: NewFreeList(capacity,
			func() *SegmentLengths { return &SegmentLengths{} },
			func(l *SegmentLengths) { l.Reset() },
		),
	}
}

// Acquire returns an empty table.
func (lp *LengthsPool) Acquire() *SegmentLengths {
	l := lp.list.Acquire()
	l.pooled = false
	return l
}

// Release returns l to the pool.
func (lp *LengthsPool) Release(l *SegmentLengths) {
	if l == nil {
		return
	}
	if l.pooled {
		panic("shape: segment lengths released twice")
	}
	l.pooled = true
	lp.list.Release(l)
}

// Stats reports pool activity.
func (lp *LengthsPool) Stats() PoolStats {
	return lp.list.Stats()
}

// DefaultPoolCapacity is the initial capacity of every free list in Pools.
const DefaultPoolCapacity = 8

// Pools is the arena of free lists owned by one animation instance. It is
// passed by reference through evaluation instead of living in package
// globals, so independent animations never share mutable pool state.
type Pools struct {
	Paths       *PathPool
	Collections *CollectionPool
	Lengths     *LengthsPool
}

// NewPools creates an arena whose lists start at the given capacity.
func NewPools(capacity int) *Pools {
	if capacity <= 0 {
		capacity = DefaultPoolCapacity
	}
	paths := NewPathPool(capacity)
	return &Pools{
		Paths:       paths,
		Collections: NewCollectionPool(capacity, paths),
		Lengths:     NewLengthsPool(capacity),
	}
}
