package mesh

import (
	"github.com/Faultbox/voxmesh/internal/voxel"
)

// Mesher turns a chunk snapshot into quads.
type Mesher interface {
	Mesh(n *voxel.Neighborhood) []voxel.Quad
}

// Greedy merges coplanar faces of one material into maximal rectangles.
//
// Quads are emitted per direction in voxel.Directions order, then per slice
// ascending, then in row-major order of their origin within the slice, so
// identical input always yields an identical sequence.
type Greedy struct {
	resolver *Resolver
}

// NewGreedy returns a greedy mesher using m for transparency.
func NewGreedy(m Materials) *Greedy {
	return &Greedy{resolver: NewResolver(m)}
}

// Mesh implements Mesher.
func (g *Greedy) Mesh(n *voxel.Neighborhood) []voxel.Quad {
	size := n.Size()
	mask := NewMask(size)

	var quads []voxel.Quad
	for _, d := range voxel.Directions {
		for s := 0; s < size; s++ {
			g.resolver.BuildMask(n, d, s, mask)
			quads = MergeMask(mask, quads)
		}
	}
	return quads
}

// MergeMask appends to out the greedy quads covering every exposed cell of m.
// Covered cells are cleared, so m is empty afterwards.
//
// Rows run along v and cells within a row along u. A rectangle first grows
// along u while cells match, then along v one full row at a time.
func MergeMask(m *Mask, out []voxel.Quad) []voxel.Quad {
	n := m.Size
	cells := m.Cells

	for v := 0; v < n; v++ {
		for u := 0; u < n; {
			mat := cells[v*n+u]
			if mat == voxel.Air {
				u++
				continue
			}

			w := 1
			for u+w < n && cells[v*n+u+w] == mat {
				w++
			}

			h := 1
		grow:
			for v+h < n {
				row := (v + h) * n
				for k := 0; k < w; k++ {
					if cells[row+u+k] != mat {
						break grow
					}
				}
				h++
			}

			for dv := 0; dv < h; dv++ {
				row := (v + dv) * n
				for k := 0; k < w; k++ {
					cells[row+u+k] = voxel.Air
				}
			}

			out = append(out, voxel.Quad{
				Dir:      m.Dir,
				Slice:    m.Slice,
				U:        u,
				V:        v,
				Width:    w,
				Height:   h,
				Material: mat,
			})
			u += w
		}
	}
	return out
}
