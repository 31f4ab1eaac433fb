// Package voxel holds the voxel data model: chunks stored in Morton order,
// the grid of loaded chunks, and the read-only neighborhood snapshots the
// mesher works from.
package voxel

import (
	"errors"
	"fmt"

	"github.com/Faultbox/voxmesh/pkg/morton"
)

// Voxel is a material id. Air is the empty voxel.
type Voxel uint16

// Air is the empty voxel.
const Air Voxel = 0

// MaxChunkSize bounds the chunk edge length accepted by NewChunk and NewGrid.
const MaxChunkSize = 256

// Voxel errors.
var (
	// ErrOutOfRange is returned for local coordinates outside [0, N).
	ErrOutOfRange       = morton.ErrOutOfRange
	ErrInvalidChunkSize = errors.New("invalid chunk size")
)

// IsAir reports whether v is empty.
func (v Voxel) IsAir() bool {
	return v == Air
}

func newCodec(size int) (morton.Codec, error) {
	if size > MaxChunkSize {
		return morton.Codec{}, fmt.Errorf("%w: %d exceeds %d", ErrInvalidChunkSize, size, MaxChunkSize)
	}
	codec, err := morton.NewCodec(size)
	if err != nil {
		return morton.Codec{}, fmt.Errorf("%w: %v", ErrInvalidChunkSize, err)
	}
	return codec, nil
}
