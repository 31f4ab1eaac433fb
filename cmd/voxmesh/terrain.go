package main

import (
	"math"

	"github.com/Faultbox/voxmesh/internal/material"
	"github.com/Faultbox/voxmesh/internal/voxel"
)

// terrain fills chunks from a deterministic height field.
type terrain struct {
	seed      uint32
	base      int
	amplitude float64
	scale     float64
	seaLevel  int

	stone, dirt, grass, sand, water voxel.Voxel
}

// newTerrain looks up the materials it places in reg. Missing materials fall
// back to stone.
func newTerrain(seed uint32, reg *material.Registry) *terrain {
	t := &terrain{
		seed:      seed,
		base:      12,
		amplitude: 10,
		scale:     1.0 / 24,
		seaLevel:  9,
	}
	pick := func(name string, fallback voxel.Voxel) voxel.Voxel {
		if m, ok := reg.Lookup(name); ok {
			return m.ID
		}
		return fallback
	}
	t.stone = pick("stone", 1)
	t.dirt = pick("dirt", t.stone)
	t.grass = pick("grass", t.dirt)
	t.sand = pick("sand", t.dirt)
	t.water = pick("water", voxel.Air)
	return t
}

// Populate implements voxel.Populator.
func (t *terrain) Populate(c *voxel.Chunk) error {
	size := c.Size()
	o := c.Coord().Origin(size)

	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			h := t.height(o[0]+x, o[2]+z)
			for y := 0; y < size; y++ {
				if v := t.voxelAt(o[1]+y, h); v != voxel.Air {
					if _, err := c.Set(x, y, z, v); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// voxelAt returns the voxel at world height wy in a column of height h.
func (t *terrain) voxelAt(wy, h int) voxel.Voxel {
	switch {
	case wy < h-3:
		return t.stone
	case wy < h-1:
		return t.dirt
	case wy == h-1:
		if h <= t.seaLevel+1 {
			return t.sand
		}
		return t.grass
	case wy < t.seaLevel:
		return t.water
	default:
		return voxel.Air
	}
}

// height returns the column height at world (x, z).
func (t *terrain) height(x, z int) int {
	fx, fz := float64(x)*t.scale, float64(z)*t.scale
	n := t.noise(fx, fz) + 0.5*t.noise(fx*2, fz*2)
	return t.base + int(math.Round(n*t.amplitude/1.5))
}

// noise is value noise in [-1, 1] with smoothstep interpolation.
func (t *terrain) noise(x, z float64) float64 {
	x0, z0 := math.Floor(x), math.Floor(z)
	fx, fz := smoothstep(x-x0), smoothstep(z-z0)
	ix, iz := int32(x0), int32(z0)

	a := t.lattice(ix, iz)
	b := t.lattice(ix+1, iz)
	c := t.lattice(ix, iz+1)
	d := t.lattice(ix+1, iz+1)

	top := a + (b-a)*fx
	bottom := c + (d-c)*fx
	return top + (bottom-top)*fz
}

func (t *terrain) lattice(x, z int32) float64 {
	h := uint32(x)*0x8da6b343 ^ uint32(z)*0xd8163841 ^ t.seed*0xcb1ab31f
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return float64(h)/float64(math.MaxUint32)*2 - 1
}

func smoothstep(f float64) float64 {
	return f * f * (3 - 2*f)
}
