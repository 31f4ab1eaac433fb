package voxel

import (
	"fmt"

	"github.com/Faultbox/voxmesh/pkg/morton"
)

// UnloadedPolicy decides whether a face looking into an unloaded chunk is drawn.
type UnloadedPolicy uint8

const (
	// OccludeUnloaded hides faces against unloaded chunks so no seams show
	// into unloaded space.
	OccludeUnloaded UnloadedPolicy = iota
	// ShowUnloaded draws them, trading overdraw for no popping when the
	// neighbor arrives.
	ShowUnloaded
)

// ParseUnloadedPolicy parses "occlude" or "visible".
func ParseUnloadedPolicy(s string) (UnloadedPolicy, error) {
	switch s {
	case "occlude", "occluded", "":
		return OccludeUnloaded, nil
	case "visible", "show":
		return ShowUnloaded, nil
	default:
		return OccludeUnloaded, fmt.Errorf("unknown unloaded neighbor policy %q", s)
	}
}

func (p UnloadedPolicy) String() string {
	if p == ShowUnloaded {
		return "visible"
	}
	return "occlude"
}

// Neighborhood is an immutable snapshot of a chunk and the boundary layers of
// its six face-adjacent neighbors, taken at one point in time. It is all the
// mesher needs and is safe to read from any goroutine.
type Neighborhood struct {
	Coord ChunkCoord
	// Generation of the center chunk when the snapshot was taken.
	Generation uint64
	Policy     UnloadedPolicy

	codec  morton.Codec
	voxels []Voxel
	// layers[d] is the neighbor's layer touching the center in direction d,
	// indexed [v*N+u]; nil when the neighbor is not loaded.
	layers [6][]Voxel
}

// SnapshotChunk copies c and the touching layers of its neighbors. neighbors
// is indexed by Direction; nil entries (or chunks of another size) count as
// not loaded. The center generation is read before any neighbor is copied, so
// a neighbor edit racing with the snapshot always leaves it stale.
func SnapshotChunk(c *Chunk, neighbors [6]*Chunk, policy UnloadedPolicy) *Neighborhood {
	n := &Neighborhood{
		Coord:  c.coord,
		Policy: policy,
		codec:  c.codec,
		voxels: make([]Voxel, c.codec.Len()),
	}
	n.Generation = c.copyVoxels(n.voxels)

	size := c.codec.Size()
	for _, d := range Directions {
		nb := neighbors[d]
		if nb == nil || nb.Size() != size {
			continue
		}
		layer := make([]Voxel, size*size)
		nb.copyLayer(d.Opposite(), layer)
		n.layers[d] = layer
	}
	return n
}

// Size returns the chunk edge length.
func (n *Neighborhood) Size() int {
	return n.codec.Size()
}

// At returns the center voxel at a local coordinate. The coordinate must be in range.
func (n *Neighborhood) At(x, y, z int) Voxel {
	return n.voxels[n.codec.Index(x, y, z)]
}

// HasNeighbor reports whether the neighbor in direction d was loaded.
func (n *Neighborhood) HasNeighbor(d Direction) bool {
	return n.layers[d] != nil
}

// Adjacent returns the voxel one step from (x, y, z) in direction d, looking
// into the neighbor layer when the step leaves the chunk. ok is false when
// that neighbor is not loaded.
func (n *Neighborhood) Adjacent(x, y, z int, d Direction) (Voxel, bool) {
	p := [3]int{x, y, z}
	axis := d.Axis()
	p[axis] += d.Sign()

	size := n.codec.Size()
	if p[axis] >= 0 && p[axis] < size {
		return n.voxels[n.codec.Index(p[0], p[1], p[2])], true
	}

	layer := n.layers[d]
	if layer == nil {
		return Air, false
	}
	ua, va := d.Tangents()
	return layer[p[va]*size+p[ua]], true
}

// Count returns the number of non-air voxels in the center chunk.
func (n *Neighborhood) Count() int {
	c := 0
	for _, v := range n.voxels {
		if v != Air {
			c++
		}
	}
	return c
}
