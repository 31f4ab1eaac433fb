// Package mesh turns chunk snapshots into quads and quads into vertex and
// index buffers.
package mesh

import (
	"github.com/Faultbox/voxmesh/internal/voxel"
)

// Materials reports whether a voxel value lets faces behind it show.
// *material.Registry implements it.
type Materials interface {
	IsTransparent(v voxel.Voxel) bool
}

// Mask is the visible-face slice for one direction: cell (u, v) holds the
// material of the exposed face there, or Air for no face.
type Mask struct {
	Size  int
	Dir   voxel.Direction
	Slice int
	// Cells is indexed [v*Size+u].
	Cells []voxel.Voxel
}

// NewMask allocates an empty mask for chunks of edge length size.
func NewMask(size int) *Mask {
	return &Mask{
		Size:  size,
		Cells: make([]voxel.Voxel, size*size),
	}
}

// At returns the cell at (u, v).
func (m *Mask) At(u, v int) voxel.Voxel {
	return m.Cells[v*m.Size+u]
}

// Count returns the number of exposed faces in the mask.
func (m *Mask) Count() int {
	n := 0
	for _, c := range m.Cells {
		if c != voxel.Air {
			n++
		}
	}
	return n
}

// Resolver decides which unit faces of a chunk are exposed.
type Resolver struct {
	materials Materials
}

// NewResolver returns a resolver using m for transparency. With a nil m every
// non-air voxel is opaque.
func NewResolver(m Materials) *Resolver {
	return &Resolver{materials: m}
}

func (r *Resolver) transparent(v voxel.Voxel) bool {
	if v == voxel.Air {
		return true
	}
	if r.materials == nil {
		return false
	}
	return r.materials.IsTransparent(v)
}

// FaceVisible reports whether the face of voxel (x, y, z) pointing along d is
// drawn.
//
// Air has no faces. A face against an unloaded neighbor follows the
// snapshot's policy. Otherwise the face is drawn when the adjacent voxel is
// transparent and not of the same material.
func (r *Resolver) FaceVisible(n *voxel.Neighborhood, x, y, z int, d voxel.Direction) bool {
	v := n.At(x, y, z)
	if v == voxel.Air {
		return false
	}
	adj, ok := n.Adjacent(x, y, z, d)
	if !ok {
		return n.Policy == voxel.ShowUnloaded
	}
	if adj == voxel.Air {
		return true
	}
	return adj != v && r.transparent(adj)
}

// BuildMask fills m with the visible faces of slice along d.
func (r *Resolver) BuildMask(n *voxel.Neighborhood, d voxel.Direction, slice int, m *Mask) {
	size := n.Size()
	if m.Size != size {
		*m = *NewMask(size)
	}
	m.Dir = d
	m.Slice = slice

	ua, va := d.Tangents()
	var p [3]int
	p[d.Axis()] = slice
	for v := 0; v < size; v++ {
		p[va] = v
		for u := 0; u < size; u++ {
			p[ua] = u
			cell := voxel.Air
			if r.FaceVisible(n, p[0], p[1], p[2], d) {
				cell = n.At(p[0], p[1], p[2])
			}
			m.Cells[v*size+u] = cell
		}
	}
}
