// Package morton implements Morton (Z-order) encoding of 2D and 3D coordinates.
//
// The 3D code interleaves the bits of x, y and z with x in the lowest bit of
// every triplet, so cells that are close in space stay close in the linear order.
package morton

import (
	"errors"
	"fmt"
	"math/bits"
)

// Codec errors.
var (
	ErrOutOfRange  = errors.New("coordinate out of range")
	ErrInvalidSize = errors.New("invalid codec size")
)

// MaxSize is the largest edge length a 3D codec supports (21 bits per axis).
const MaxSize = 1 << 21

// Encode3 interleaves the low 21 bits of x, y and z.
func Encode3(x, y, z uint32) uint64 {
	return part1By2(uint64(x)) | part1By2(uint64(y))<<1 | part1By2(uint64(z))<<2
}

// Decode3 is the inverse of Encode3.
func Decode3(code uint64) (x, y, z uint32) {
	x = uint32(compact1By2(code))
	y = uint32(compact1By2(code >> 1))
	z = uint32(compact1By2(code >> 2))
	return
}

// Encode2 interleaves the low 16 bits of x and y.
func Encode2(x, y uint16) uint32 {
	return part1By1(uint32(x)) | part1By1(uint32(y))<<1
}

// Decode2 is the inverse of Encode2.
func Decode2(code uint32) (x, y uint16) {
	x = uint16(compact1By1(code))
	y = uint16(compact1By1(code >> 1))
	return
}

// Codec maps coordinates in [0, size)^3 onto storage indices in [0, size^3).
// Because size is a power of two the Morton codes of that cube are exactly
// the integers 0..size^3-1, which makes the mapping a bijection.
type Codec struct {
	size int
}

// NewCodec creates a codec for a cube with the given edge length.
func NewCodec(size int) (Codec, error) {
	if size <= 0 || size > MaxSize || bits.OnesCount(uint(size)) != 1 {
		return Codec{}, fmt.Errorf("%w: %d is not a power of two in [1, %d]", ErrInvalidSize, size, MaxSize)
	}
	return Codec{size: size}, nil
}

// Size returns the edge length.
func (c Codec) Size() int {
	return c.size
}

// Len returns the number of cells, size^3.
func (c Codec) Len() int {
	return c.size * c.size * c.size
}

// Contains reports whether (x, y, z) lies inside the cube.
func (c Codec) Contains(x, y, z int) bool {
	n := uint(c.size)
	return uint(x) < n && uint(y) < n && uint(z) < n
}

// Encode returns the storage index of (x, y, z).
func (c Codec) Encode(x, y, z int) (int, error) {
	if !c.Contains(x, y, z) {
		return 0, fmt.Errorf("%w: (%d, %d, %d) outside [0, %d)", ErrOutOfRange, x, y, z, c.size)
	}
	return c.Index(x, y, z), nil
}

// Decode returns the coordinate stored at index i.
func (c Codec) Decode(i int) (x, y, z int, err error) {
	if uint(i) >= uint(c.Len()) {
		return 0, 0, 0, fmt.Errorf("%w: index %d outside [0, %d)", ErrOutOfRange, i, c.Len())
	}
	x, y, z = c.Coord(i)
	return x, y, z, nil
}

// Index is Encode without the range check. Callers must validate first.
func (c Codec) Index(x, y, z int) int {
	return int(Encode3(uint32(x), uint32(y), uint32(z)))
}

// Coord is Decode without the range check.
func (c Codec) Coord(i int) (x, y, z int) {
	ux, uy, uz := Decode3(uint64(i))
	return int(ux), int(uy), int(uz)
}

func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | x<<32) & 0x1f00000000ffff
	x = (x | x<<16) & 0x1f0000ff0000ff
	x = (x | x<<8) & 0x100f00f00f00f00f
	x = (x | x<<4) & 0x10c30c30c30c30c3
	x = (x | x<<2) & 0x1249249249249249
	return x
}

func compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ x>>2) & 0x10c30c30c30c30c3
	x = (x ^ x>>4) & 0x100f00f00f00f00f
	x = (x ^ x>>8) & 0x1f0000ff0000ff
	x = (x ^ x>>16) & 0x1f00000000ffff
	x = (x ^ x>>32) & 0x1fffff
	return x
}

func part1By1(x uint32) uint32 {
	x &= 0xffff
	x = (x | x<<8) & 0x00ff00ff
	x = (x | x<<4) & 0x0f0f0f0f
	x = (x | x<<2) & 0x33333333
	x = (x | x<<1) & 0x55555555
	return x
}

func compact1By1(x uint32) uint32 {
	x &= 0x55555555
	x = (x ^ x>>1) & 0x33333333
	x = (x ^ x>>2) & 0x0f0f0f0f
	x = (x ^ x>>4) & 0x00ff00ff
	x = (x ^ x>>8) & 0x0000ffff
	return x
}
