package mesh

import (
	"github.com/Faultbox/voxmesh/internal/voxel"
)

// Naive emits one unit quad per exposed face, in the same order as Greedy
// would visit them.
type Naive struct {
	resolver *Resolver
}

// NewNaive returns a naive mesher using m for transparency.
func NewNaive(m Materials) *Naive {
	return &Naive{resolver: NewResolver(m)}
}

// Mesh implements Mesher.
func (nv *Naive) Mesh(n *voxel.Neighborhood) []voxel.Quad {
	size := n.Size()
	mask := NewMask(size)

	var quads []voxel.Quad
	for _, d := range voxel.Directions {
		for s := 0; s < size; s++ {
			nv.resolver.BuildMask(n, d, s, mask)
			for v := 0; v < size; v++ {
				for u := 0; u < size; u++ {
					mat := mask.At(u, v)
					if mat == voxel.Air {
						continue
					}
					quads = append(quads, voxel.Quad{
						Dir:      d,
						Slice:    s,
						U:        u,
						V:        v,
						Width:    1,
						Height:   1,
						Material: mat,
					})
				}
			}
		}
	}
	return quads
}
