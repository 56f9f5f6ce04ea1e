package property

// Container groups the properties of one element (a transform, a style, a
// modifier) and reports whether any of them changed this tick. Only
// animated properties are kept for per-frame updates; constant ones are
// resolved at construction.
type Container struct {
	dynamic []Property
	frameID uint64
	started bool
	changed bool
}

// Add registers p and returns it.
func (c *Container) Add(p Property) Property {
	if p.Animated() {
		c.dynamic = append(c.dynamic, p)
	}
	return p
}

// Update evaluates every animated property. The first call always reports
// a change so dependents compute their initial state.
func (c *Container) Update(ctx *Context) bool {
	if c.started && c.frameID == ctx.FrameID {
		return c.changed
	}
	changed := !c.started
	for _, p := range c.dynamic {
		if p.Update(ctx) {
			changed = true
		}
	}
	c.started = true
	c.frameID = ctx.FrameID
	c.changed = changed
	return changed
}

// Animated reports whether the container holds animated properties.
func (c *Container) Animated() bool {
	return len(c.dynamic) > 0
}

// Changed returns the result of the last Update.
func (c *Container) Changed() bool { return c.changed }
