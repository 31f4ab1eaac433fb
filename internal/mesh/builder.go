package mesh

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxmesh/internal/material"
	"github.com/Faultbox/voxmesh/internal/voxel"
)

// UVMode selects how texture coordinates span a quad.
type UVMode uint8

const (
	// UVTiled spans [0,w]x[0,h] so a repeating texture tiles once per voxel.
	UVTiled UVMode = iota
	// UVStretched spans [0,1]x[0,1] regardless of quad size.
	UVStretched
)

// ParseUVMode parses "tiled" or "stretched".
func ParseUVMode(s string) (UVMode, error) {
	switch s {
	case "tiled", "":
		return UVTiled, nil
	case "stretched":
		return UVStretched, nil
	default:
		return UVTiled, fmt.Errorf("unknown uv mode %q", s)
	}
}

func (m UVMode) String() string {
	if m == UVStretched {
		return "stretched"
	}
	return "tiled"
}

// TextureResolver maps a material face to a texture id.
// *material.Registry implements it.
type TextureResolver interface {
	Texture(v voxel.Voxel, d voxel.Direction) uint32
}

// Vertex is one corner of a quad.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Texture  uint32
	Material uint32
}

// MaterialGroup is a run of indices sharing one material, for batched draws.
type MaterialGroup struct {
	Material   voxel.Voxel
	StartIndex int32
	IndexCount int32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Mesh is the renderable output for one chunk.
type Mesh struct {
	Coord voxel.ChunkCoord
	// Origin is the world position of the chunk's (0, 0, 0) corner.
	Origin mgl32.Vec3
	// WorldSpace is set when Origin is already baked into vertex positions.
	WorldSpace bool

	Vertices []Vertex
	Indices  []uint32
	Groups   []MaterialGroup
	Bounds   Bounds
}

// QuadCount returns the number of quads in the mesh.
func (m *Mesh) QuadCount() int {
	return len(m.Vertices) / 4
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Builder converts quads into vertex and index buffers.
type Builder struct {
	UVMode UVMode
	// Textures resolves per-face texture ids. When nil the material id is used.
	// Faces resolved to material.NoTexture are not emitted.
	Textures TextureResolver
	// WorldSpace bakes the chunk origin into vertex positions.
	WorldSpace bool
}

// quadCorners are the (u, v) corner offsets, as fractions of width and height.
var quadCorners = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// Triangles for faces whose normal points along +axis and along -axis.
var (
	positiveWinding = [6]uint32{0, 1, 2, 0, 2, 3}
	negativeWinding = [6]uint32{0, 2, 1, 0, 3, 2}
)

// Build creates a mesh for the chunk at coord with edge length size.
// Triangles wind counter-clockwise when seen from outside the face.
func (b *Builder) Build(coord voxel.ChunkCoord, size int, quads []voxel.Quad) *Mesh {
	o := coord.Origin(size)
	origin := mgl32.Vec3{float32(o[0]), float32(o[1]), float32(o[2])}

	var offset mgl32.Vec3
	if b.WorldSpace {
		offset = origin
	}

	vertices := make([]Vertex, 0, len(quads)*4)
	materialIndices := make(map[voxel.Voxel][]uint32)

	bounds := Bounds{
		Min: mgl32.Vec3{1e10, 1e10, 1e10},
		Max: mgl32.Vec3{-1e10, -1e10, -1e10},
	}

	for _, q := range quads {
		axis := q.Dir.Axis()
		ua, va := q.Dir.Tangents()

		plane := float32(q.Slice)
		if q.Dir.Positive() {
			plane++
		}

		step := q.Dir.Offset()
		normal := mgl32.Vec3{float32(step[0]), float32(step[1]), float32(step[2])}

		tex := uint32(q.Material)
		if b.Textures != nil {
			tex = b.Textures.Texture(q.Material, q.Dir)
			if tex == material.NoTexture {
				continue
			}
		}

		w, h := float32(q.Width), float32(q.Height)
		uvs := b.uvs(w, h)

		baseIdx := uint32(len(vertices))
		for i, c := range quadCorners {
			var p mgl32.Vec3
			p[axis] = plane
			p[ua] = float32(q.U) + c[0]*w
			p[va] = float32(q.V) + c[1]*h
			p = p.Add(offset)

			updateBounds(&bounds, p)
			vertices = append(vertices, Vertex{
				Position: p,
				Normal:   normal,
				UV:       uvs[i],
				Texture:  tex,
				Material: uint32(q.Material),
			})
		}

		winding := negativeWinding
		if q.Dir.Positive() {
			winding = positiveWinding
		}
		idx := materialIndices[q.Material]
		for _, k := range winding {
			idx = append(idx, baseIdx+k)
		}
		materialIndices[q.Material] = idx
	}

	// Groups are laid out in ascending material order.
	materials := make([]voxel.Voxel, 0, len(materialIndices))
	for m := range materialIndices {
		materials = append(materials, m)
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i] < materials[j] })

	indices := make([]uint32, 0, len(quads)*6)
	groups := make([]MaterialGroup, 0, len(materials))
	for _, m := range materials {
		idx := materialIndices[m]
		groups = append(groups, MaterialGroup{
			Material:   m,
			StartIndex: int32(len(indices)),
			IndexCount: int32(len(idx)),
		})
		indices = append(indices, idx...)
	}

	if len(vertices) == 0 {
		bounds = Bounds{Min: offset, Max: offset}
	}

	return &Mesh{
		Coord:      coord,
		Origin:     origin,
		WorldSpace: b.WorldSpace,
		Vertices:   vertices,
		Indices:    indices,
		Groups:     groups,
		Bounds:     bounds,
	}
}

// uvs returns the texture coordinates of the four corners.
func (b *Builder) uvs(w, h float32) [4]mgl32.Vec2 {
	if b.UVMode == UVStretched {
		w, h = 1, 1
	}
	return [4]mgl32.Vec2{{0, h}, {w, h}, {w, 0}, {0, 0}}
}

func updateBounds(b *Bounds, p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
