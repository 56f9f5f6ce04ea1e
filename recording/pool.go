package recording

import "github.com/gogpu/lottie/shape"

// ResourcePool stores resources referenced by recording commands.
// Resources are stored in slices indexed by their reference types.
// Paths are cloned on Add so the recording outlives the frame they came
// from; scene paths are pooled and rewritten by the next render.
//
// ResourcePool is not safe for concurrent use.
type ResourcePool struct {
	paths   []*shape.Path
	brushes []Brush
}

// NewResourcePool creates an empty resource pool with pre-allocated capacity.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		paths:   make([]*shape.Path, 0, 64),
		brushes: make([]Brush, 0, 32),
	}
}

// AddPath adds a copy of path to the pool and returns its reference.
func (p *ResourcePool) AddPath(path *shape.Path) PathRef {
	if path == nil {
		p.paths = append(p.paths, nil)
		// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
		return PathRef(uint32(len(p.paths) - 1))
	}
	cloned := shape.NewPath(path.Len())
	cloned.CopyFrom(path)
	p.paths = append(p.paths, cloned)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	return PathRef(uint32(len(p.paths) - 1))
}

// GetPath returns the path for the given reference, or nil.
func (p *ResourcePool) GetPath(ref PathRef) *shape.Path {
	if int(ref) >= len(p.paths) {
		return nil
	}
	return p.paths[ref]
}

// PathCount returns the number of paths in the pool.
func (p *ResourcePool) PathCount() int {
	return len(p.paths)
}

// AddBrush adds a brush to the pool and returns its reference.
func (p *ResourcePool) AddBrush(brush Brush) BrushRef {
	p.brushes = append(p.brushes, brush)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	return BrushRef(uint32(len(p.brushes) - 1))
}

// GetBrush returns the brush for the given reference, or nil.
func (p *ResourcePool) GetBrush(ref BrushRef) Brush {
	if int(ref) >= len(p.brushes) {
		return nil
	}
	return p.brushes[ref]
}

// BrushCount returns the number of brushes in the pool.
func (p *ResourcePool) BrushCount() int {
	return len(p.brushes)
}

// Clear removes all resources from the pool.
func (p *ResourcePool) Clear() {
	clear(p.paths)
	clear(p.brushes)
	p.paths = p.paths[:0]
	p.brushes = p.brushes[:0]
}
