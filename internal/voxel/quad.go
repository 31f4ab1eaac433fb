package voxel

// Quad is an axis-aligned rectangle of exposed faces sharing one material.
//
// Slice is the layer along the direction's axis holding the voxels the faces
// belong to. (U, V) is the origin cell on the two tangent axes and Width and
// Height extend along them (see Direction.Tangents).
type Quad struct {
	Dir      Direction
	Slice    int
	U, V     int
	Width    int
	Height   int
	Material Voxel
}

// Area returns the number of unit faces the quad covers.
func (q Quad) Area() int {
	return q.Width * q.Height
}

// Origin returns the chunk-local coordinate of the quad's origin cell.
func (q Quad) Origin() [3]int {
	var p [3]int
	u, v := q.Dir.Tangents()
	p[q.Dir.Axis()] = q.Slice
	p[u] = q.U
	p[v] = q.V
	return p
}

// WorldOrigin returns the world coordinate of the quad's origin cell.
func (q Quad) WorldOrigin(c ChunkCoord, size int) [3]int {
	p := q.Origin()
	o := c.Origin(size)
	return [3]int{p[0] + o[0], p[1] + o[1], p[2] + o[2]}
}

// Covers reports whether the unit face at (u, v) on the quad's slice lies inside it.
func (q Quad) Covers(u, v int) bool {
	return u >= q.U && u < q.U+q.Width && v >= q.V && v < q.V+q.Height
}
