package voxel

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// ChunkCoord identifies a chunk in chunk units.
type ChunkCoord struct {
	X, Y, Z int
}

// Neighbor returns the coordinate of the face-adjacent chunk in direction d.
func (c ChunkCoord) Neighbor(d Direction) ChunkCoord {
	o := d.Offset()
	return ChunkCoord{c.X + o[0], c.Y + o[1], c.Z + o[2]}
}

// Origin returns the world coordinate of the chunk's (0, 0, 0) cell.
func (c ChunkCoord) Origin(size int) [3]int {
	return [3]int{c.X * size, c.Y * size, c.Z * size}
}

// Less orders coordinates by X, then Y, then Z.
func (c ChunkCoord) Less(o ChunkCoord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// MarshalLogObject lets chunk coordinates be logged with zap.Object.
func (c ChunkCoord) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("x", c.X)
	enc.AddInt("y", c.Y)
	enc.AddInt("z", c.Z)
	return nil
}

// WorldToChunk splits a world voxel coordinate into its chunk and local coordinate.
// Negative coordinates round toward negative infinity.
func WorldToChunk(x, y, z, size int) (ChunkCoord, [3]int) {
	cx, lx := floorDivMod(x, size)
	cy, ly := floorDivMod(y, size)
	cz, lz := floorDivMod(z, size)
	return ChunkCoord{cx, cy, cz}, [3]int{lx, ly, lz}
}

func floorDivMod(a, b int) (int, int) {
	q := a / b
	r := a % b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}
