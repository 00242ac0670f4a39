package shader

import "github.com/gogpu/shaderkit/gpucore"

// UniformCache memoizes uniform locations of one program. Missing uniforms
// are cached too, so repeated lookups of an optimized-out name cost nothing.
// The cache resets itself when asked about a different program handle.
type UniformCache struct {
	dev     gpucore.ProgramDevice
	program gpucore.ProgramID
	locs    map[string]int32
}

// NewUniformCache returns an empty cache querying dev.
func NewUniformCache(dev gpucore.ProgramDevice) *UniformCache {
	return &UniformCache{dev: dev}
}

// Location returns the location of name in program. The bool is false when
// the program has no such uniform.
func (c *UniformCache) Location(program gpucore.ProgramID, name string) (int32, bool) {
	if program != c.program || c.locs == nil {
		c.program = program
		c.locs = make(map[string]int32)
	}
	loc, ok := c.locs[name]
	if !ok {
		loc = c.dev.UniformLocation(program, name)
		c.locs[name] = loc
	}
	return loc, loc >= 0
}

// Len returns the number of cached names.
func (c *UniformCache) Len() int { return len(c.locs) }

// Invalidate drops every cached location.
func (c *UniformCache) Invalidate() {
	c.program = gpucore.InvalidID
	c.locs = nil
}
