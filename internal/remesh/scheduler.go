// Package remesh keeps chunk meshes up to date by meshing dirty chunks on a
// worker pool.
package remesh

import (
	"context"
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/voxmesh/internal/logger"
	"github.com/Faultbox/voxmesh/internal/mesh"
	"github.com/Faultbox/voxmesh/internal/voxel"
)

// Sink receives meshes once they are committed to their chunk.
type Sink interface {
	Commit(m *mesh.Mesh)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(m *mesh.Mesh)

// Commit calls f(m).
func (f SinkFunc) Commit(m *mesh.Mesh) {
	f(m)
}

// Options configures a Scheduler.
type Options struct {
	// Workers is the pool size. Zero means runtime.NumCPU().
	Workers int
	// Mesher defaults to a greedy mesher with every voxel opaque.
	Mesher mesh.Mesher
	// Builder, when set, turns committed quads into a Mesh.
	Builder *mesh.Builder
	// Sink, when set, receives every built mesh. Requires Builder.
	Sink Sink
}

// Result is the outcome of remeshing one chunk.
type Result struct {
	Coord voxel.ChunkCoord
	// Generation the quads were computed from.
	Generation uint64
	Quads      []voxel.Quad
	// Mesh is nil unless the scheduler has a Builder and the result was committed.
	Mesh *mesh.Mesh
	// Committed is false when the chunk changed while it was being meshed. The
	// quads are then discarded and the chunk stays dirty.
	Committed bool
}

// Stats counts scheduler work since creation.
type Stats struct {
	Passes    int
	Meshed    int
	Committed int
	Stale     int
	Quads     int
}

// Scheduler meshes chunks of one grid, one chunk per task.
type Scheduler struct {
	grid    *voxel.Grid
	mesher  mesh.Mesher
	builder *mesh.Builder
	sink    Sink
	pool    pond.Pool
	log     *zap.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates a scheduler for grid.
func New(grid *voxel.Grid, opts Options) *Scheduler {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	mesher := opts.Mesher
	if mesher == nil {
		mesher = mesh.NewGreedy(nil)
	}
	return &Scheduler{
		grid:    grid,
		mesher:  mesher,
		builder: opts.Builder,
		sink:    opts.Sink,
		pool:    pond.NewPool(workers),
		log:     logger.Named("remesh"),
	}
}

// Close waits for running tasks and stops the pool.
func (s *Scheduler) Close() {
	s.pool.StopAndWait()
}

// Stats returns a copy of the counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// RemeshDirty meshes every dirty chunk of the grid and returns the results in
// chunk coordinate order. Committed meshes are handed to the Sink in the same
// order. If ctx is cancelled no further chunks are started and the results
// gathered so far are returned with the context's error.
func (s *Scheduler) RemeshDirty(ctx context.Context) ([]Result, error) {
	return s.run(ctx, s.grid.Dirty())
}

// Remesh meshes a single chunk whether or not it is dirty. ok is false when
// the chunk is not loaded.
func (s *Scheduler) Remesh(ctx context.Context, coord voxel.ChunkCoord) (Result, bool, error) {
	results, err := s.run(ctx, []voxel.ChunkCoord{coord})
	if err != nil || len(results) == 0 {
		return Result{}, false, err
	}
	return results[0], true, nil
}

func (s *Scheduler) run(ctx context.Context, coords []voxel.ChunkCoord) ([]Result, error) {
	slots := make([]Result, len(coords))
	done := make([]bool, len(coords))

	var wg sync.WaitGroup
	for i, coord := range coords {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			slots[i], done[i] = s.remesh(coord)
		})
	}
	wg.Wait()

	results := make([]Result, 0, len(coords))
	for i := range slots {
		if !done[i] {
			continue
		}
		results = append(results, slots[i])
	}

	s.record(results)
	if s.sink != nil {
		for _, r := range results {
			if r.Mesh != nil {
				s.sink.Commit(r.Mesh)
			}
		}
	}
	return results, ctx.Err()
}

// remesh snapshots, meshes and commits one chunk. It reports false when the
// chunk is not loaded.
func (s *Scheduler) remesh(coord voxel.ChunkCoord) (Result, bool) {
	c, ok := s.grid.Chunk(coord)
	if !ok {
		return Result{}, false
	}
	n, ok := s.grid.Snapshot(coord)
	if !ok {
		return Result{}, false
	}

	quads := s.mesher.Mesh(n)
	r := Result{
		Coord:      coord,
		Generation: n.Generation,
		Quads:      quads,
		Committed:  c.CommitMesh(n.Generation, quads),
	}
	if !r.Committed {
		s.log.Debug("discarding stale mesh",
			zap.Object("chunk", coord),
			zap.Uint64("generation", n.Generation),
			zap.Uint64("current", c.Generation()))
		return r, true
	}
	if s.builder != nil {
		r.Mesh = s.builder.Build(coord, n.Size(), quads)
	}
	return r, true
}

func (s *Scheduler) record(results []Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Passes++
	for _, r := range results {
		s.stats.Meshed++
		if r.Committed {
			s.stats.Committed++
			s.stats.Quads += len(r.Quads)
		} else {
			s.stats.Stale++
		}
	}
}
