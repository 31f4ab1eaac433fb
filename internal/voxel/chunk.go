package voxel

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Faultbox/voxmesh/pkg/morton"
)

// Chunk is a cube of N^3 voxels stored in Morton order.
//
// Besides the voxels a chunk tracks whether its mesh is stale (the dirty flag),
// a generation counter bumped by every event that invalidates the mesh, and
// the quads of the last committed mesh.
type Chunk struct {
	coord ChunkCoord
	codec morton.Codec

	// grid is set while the chunk is loaded in a Grid.
	grid atomic.Pointer[Grid]

	mu         sync.RWMutex
	voxels     []Voxel
	dirty      bool
	generation uint64
	quads      []Quad
	meshGen    uint64
	hasMesh    bool
}

// NewChunk creates an empty (all air) chunk.
func NewChunk(coord ChunkCoord, size int) (*Chunk, error) {
	codec, err := newCodec(size)
	if err != nil {
		return nil, err
	}
	return &Chunk{
		coord:  coord,
		codec:  codec,
		voxels: make([]Voxel, codec.Len()),
		dirty:  true,
	}, nil
}

// NewChunkFunc creates a chunk whose voxels are produced by fn.
// Storage slots are visited in Morton order.
func NewChunkFunc(coord ChunkCoord, size int, fn func(x, y, z int) Voxel) (*Chunk, error) {
	c, err := NewChunk(coord, size)
	if err != nil {
		return nil, err
	}
	for i := range c.voxels {
		x, y, z := c.codec.Coord(i)
		c.voxels[i] = fn(x, y, z)
	}
	return c, nil
}

// Coord returns the chunk coordinate.
func (c *Chunk) Coord() ChunkCoord {
	return c.coord
}

// Size returns the edge length N.
func (c *Chunk) Size() int {
	return c.codec.Size()
}

// Get returns the voxel at a local coordinate.
func (c *Chunk) Get(x, y, z int) (Voxel, error) {
	i, err := c.codec.Encode(x, y, z)
	if err != nil {
		return Air, fmt.Errorf("chunk %s: %w", c.coord, err)
	}
	c.mu.RLock()
	v := c.voxels[i]
	c.mu.RUnlock()
	return v, nil
}

// Set writes a voxel and reports whether the stored value changed.
//
// A change marks the chunk dirty and bumps its generation. If the voxel lies
// on a boundary face and the chunk is loaded in a grid, the neighbor sharing
// that face is invalidated as well. Writing the value already present does
// nothing.
func (c *Chunk) Set(x, y, z int, v Voxel) (bool, error) {
	i, err := c.codec.Encode(x, y, z)
	if err != nil {
		return false, fmt.Errorf("chunk %s: %w", c.coord, err)
	}

	c.mu.Lock()
	if c.voxels[i] == v {
		c.mu.Unlock()
		return false, nil
	}
	c.voxels[i] = v
	c.invalidateLocked()
	c.mu.Unlock()

	if g := c.grid.Load(); g != nil {
		g.invalidateAcross(c, x, y, z)
	}
	return true, nil
}

// Fill sets every voxel to v and reports whether anything changed.
func (c *Chunk) Fill(v Voxel) bool {
	changed := false
	c.mu.Lock()
	for i := range c.voxels {
		if c.voxels[i] != v {
			c.voxels[i] = v
			changed = true
		}
	}
	if changed {
		c.invalidateLocked()
	}
	c.mu.Unlock()

	if changed {
		if g := c.grid.Load(); g != nil {
			g.invalidateNeighbors(c.coord)
		}
	}
	return changed
}

// Count returns the number of non-air voxels.
func (c *Chunk) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, v := range c.voxels {
		if v != Air {
			n++
		}
	}
	return n
}

// IsDirty reports whether the chunk needs remeshing.
func (c *Chunk) IsDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// ClearDirty resets the dirty flag without committing a mesh.
func (c *Chunk) ClearDirty() {
	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
}

// Generation returns the number of mesh-invalidating events seen so far.
func (c *Chunk) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// CachedMesh returns the quads of the last committed mesh and the generation
// they were computed from. The slice must not be modified.
func (c *Chunk) CachedMesh() ([]Quad, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quads, c.meshGen, c.hasMesh
}

// CommitMesh stores quads computed from generation gen. It returns false and
// leaves the chunk untouched if the generation has advanced since.
func (c *Chunk) CommitMesh(gen uint64, quads []Quad) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return false
	}
	c.quads = quads
	c.meshGen = gen
	c.hasMesh = true
	c.dirty = false
	return true
}

func (c *Chunk) invalidate() {
	c.mu.Lock()
	c.invalidateLocked()
	c.mu.Unlock()
}

func (c *Chunk) invalidateLocked() {
	c.generation++
	c.dirty = true
	c.quads = nil
	c.hasMesh = false
}

// boundaryFaces returns the directions whose boundary face contains the local
// coordinate (x, y, z).
func (c *Chunk) boundaryFaces(x, y, z int) []Direction {
	last := c.codec.Size() - 1
	p := [3]int{x, y, z}

	var dirs []Direction
	for axis := 0; axis < 3; axis++ {
		if p[axis] == 0 {
			dirs = append(dirs, Direction(axis*2))
		}
		if p[axis] == last {
			dirs = append(dirs, Direction(axis*2+1))
		}
	}
	return dirs
}

// copyLayer copies the boundary layer facing direction d into dst, indexed
// [v*N+u] on d's tangent axes. It returns the generation the copy was taken at.
func (c *Chunk) copyLayer(d Direction, dst []Voxel) uint64 {
	n := c.codec.Size()
	axis := d.Axis()
	ua, va := d.Tangents()

	var p [3]int
	if d.Positive() {
		p[axis] = n - 1
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for v := 0; v < n; v++ {
		p[va] = v
		for u := 0; u < n; u++ {
			p[ua] = u
			dst[v*n+u] = c.voxels[c.codec.Index(p[0], p[1], p[2])]
		}
	}
	return c.generation
}

// copyVoxels copies the full voxel array and returns the generation it was taken at.
func (c *Chunk) copyVoxels(dst []Voxel) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	copy(dst, c.voxels)
	return c.generation
}
