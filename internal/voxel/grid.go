package voxel

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/voxmesh/internal/logger"
)

// Populator fills a freshly created chunk before it becomes visible in the grid.
type Populator interface {
	Populate(c *Chunk) error
}

// PopulatorFunc adapts a function to Populator.
type PopulatorFunc func(c *Chunk) error

// Populate calls f(c).
func (f PopulatorFunc) Populate(c *Chunk) error {
	return f(c)
}

// Grid owns the loaded chunks of one world and resolves lookups across chunk
// boundaries. It is safe for concurrent use.
type Grid struct {
	size     int
	policy   UnloadedPolicy
	populate Populator

	mu     sync.RWMutex
	chunks map[ChunkCoord]*Chunk
}

// GridOption configures a Grid.
type GridOption func(*Grid)

// WithUnloadedPolicy sets how faces against unloaded chunks are treated.
func WithUnloadedPolicy(p UnloadedPolicy) GridOption {
	return func(g *Grid) {
		g.policy = p
	}
}

// WithPopulator sets the collaborator that fills chunks on Load.
func WithPopulator(p Populator) GridOption {
	return func(g *Grid) {
		g.populate = p
	}
}

// NewGrid creates an empty grid of chunks with edge length size.
func NewGrid(size int, opts ...GridOption) (*Grid, error) {
	if _, err := newCodec(size); err != nil {
		return nil, err
	}
	g := &Grid{
		size:   size,
		chunks: make(map[ChunkCoord]*Chunk),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Size returns the chunk edge length.
func (g *Grid) Size() int {
	return g.size
}

// Policy returns the unloaded neighbor policy.
func (g *Grid) Policy() UnloadedPolicy {
	return g.policy
}

// Len returns the number of loaded chunks.
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.chunks)
}

// Load returns the chunk at coord, creating and populating it if needed.
// Loading a chunk invalidates its loaded neighbors, whose boundary faces now
// look into loaded space.
func (g *Grid) Load(coord ChunkCoord) (*Chunk, error) {
	if c, ok := g.Chunk(coord); ok {
		return c, nil
	}

	c, err := NewChunk(coord, g.size)
	if err != nil {
		return nil, err
	}
	if g.populate != nil {
		if err := g.populate.Populate(c); err != nil {
			return nil, fmt.Errorf("populating chunk %s: %w", coord, err)
		}
	}

	g.mu.Lock()
	if existing, ok := g.chunks[coord]; ok {
		g.mu.Unlock()
		return existing, nil
	}
	c.grid.Store(g)
	g.chunks[coord] = c
	g.mu.Unlock()

	g.invalidateNeighbors(coord)
	logger.Debug("chunk loaded", zap.Object("chunk", coord))
	return c, nil
}

// Unload removes the chunk at coord and reports whether it was loaded.
func (g *Grid) Unload(coord ChunkCoord) bool {
	g.mu.Lock()
	c, ok := g.chunks[coord]
	if ok {
		delete(g.chunks, coord)
		c.grid.Store(nil)
	}
	g.mu.Unlock()

	if !ok {
		return false
	}
	g.invalidateNeighbors(coord)
	logger.Debug("chunk unloaded", zap.Object("chunk", coord))
	return true
}

// Chunk returns the loaded chunk at coord.
func (g *Grid) Chunk(coord ChunkCoord) (*Chunk, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.chunks[coord]
	return c, ok
}

// Neighbor returns the loaded chunk adjacent to coord in direction d.
func (g *Grid) Neighbor(coord ChunkCoord, d Direction) (*Chunk, bool) {
	return g.Chunk(coord.Neighbor(d))
}

// GetVoxelWorld returns the voxel at a world coordinate. ok is false when the
// owning chunk is not loaded.
func (g *Grid) GetVoxelWorld(x, y, z int) (Voxel, bool) {
	coord, local := WorldToChunk(x, y, z, g.size)
	c, ok := g.Chunk(coord)
	if !ok {
		return Air, false
	}
	v, err := c.Get(local[0], local[1], local[2])
	if err != nil {
		return Air, false
	}
	return v, true
}

// SetVoxelWorld writes the voxel at a world coordinate. loaded is false, and
// nothing is written, when the owning chunk is not loaded.
func (g *Grid) SetVoxelWorld(x, y, z int, v Voxel) (changed, loaded bool) {
	coord, local := WorldToChunk(x, y, z, g.size)
	c, ok := g.Chunk(coord)
	if !ok {
		return false, false
	}
	changed, err := c.Set(local[0], local[1], local[2], v)
	if err != nil {
		return false, true
	}
	return changed, true
}

// Loaded returns the coordinates of all loaded chunks in sorted order.
func (g *Grid) Loaded() []ChunkCoord {
	g.mu.RLock()
	keys := make([]ChunkCoord, 0, len(g.chunks))
	for k := range g.chunks {
		keys = append(keys, k)
	}
	g.mu.RUnlock()

	sortCoords(keys)
	return keys
}

// Dirty returns the coordinates of loaded chunks that need remeshing, sorted.
func (g *Grid) Dirty() []ChunkCoord {
	g.mu.RLock()
	var keys []ChunkCoord
	for k, c := range g.chunks {
		if c.IsDirty() {
			keys = append(keys, k)
		}
	}
	g.mu.RUnlock()

	sortCoords(keys)
	return keys
}

// Snapshot takes a Neighborhood of the chunk at coord.
func (g *Grid) Snapshot(coord ChunkCoord) (*Neighborhood, bool) {
	c, ok := g.Chunk(coord)
	if !ok {
		return nil, false
	}

	var neighbors [6]*Chunk
	for _, d := range Directions {
		if nb, ok := g.Neighbor(coord, d); ok {
			neighbors[d] = nb
		}
	}
	return SnapshotChunk(c, neighbors, g.policy), true
}

// invalidateAcross invalidates the neighbors sharing a boundary face with the
// local coordinate (x, y, z) of c.
func (g *Grid) invalidateAcross(c *Chunk, x, y, z int) {
	for _, d := range c.boundaryFaces(x, y, z) {
		if nb, ok := g.Neighbor(c.coord, d); ok {
			nb.invalidate()
		}
	}
}

func (g *Grid) invalidateNeighbors(coord ChunkCoord) {
	for _, d := range Directions {
		if nb, ok := g.Neighbor(coord, d); ok {
			nb.invalidate()
		}
	}
}

func sortCoords(keys []ChunkCoord) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
}
