// voxmesh is a CLI for meshing voxel chunks and inspecting mesh exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/voxmesh/internal/config"
	"github.com/Faultbox/voxmesh/internal/logger"
	"github.com/Faultbox/voxmesh/internal/material"
	"github.com/Faultbox/voxmesh/internal/mesh"
	"github.com/Faultbox/voxmesh/internal/remesh"
	"github.com/Faultbox/voxmesh/internal/voxel"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "mesh":
		err = cmdMesh(args)
	case "export":
		err = cmdExport(args)
	case "inspect":
		err = cmdInspect(args)
	case "materials":
		err = cmdMaterials(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
	}
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`voxmesh - voxel chunk mesher

Usage:
  voxmesh <command> [options]

Commands:
  mesh                 Generate a region of terrain and mesh it
  export -o <file>     Mesh a region and write the compressed mesh export
  inspect <file>       Summarize a mesh export
  materials            List the active material table
  config [-o <file>]   Write the effective configuration

Common options:
  -config <file>       Config file (default $VOXMESH_CONFIG, ./voxmesh.yaml,
                       ./config.yaml or the user config dir)
  -chunk-size <n>      Chunk edge length
  -workers <n>         Meshing workers (0 = one per CPU)
  -unloaded <policy>   occlude or visible
  -uv <mode>           tiled or stretched
  -materials <file>    Material definitions
  -debug               Debug logging

Examples:
  voxmesh mesh -radius 2 -height 2
  voxmesh mesh -naive -chunk-size 16
  voxmesh export -o world.vxms -uv stretched
  voxmesh inspect world.vxms`)
}

// env is the state shared by the commands after flag parsing.
type env struct {
	cfg       *config.Config
	materials *material.Registry
	policy    voxel.UnloadedPolicy
	uvMode    mesh.UVMode
}

// setup parses fs with the config flags bound, then loads the configuration,
// starts logging and loads the material table.
func setup(fs *flag.FlagSet, args []string) (*env, error) {
	config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(cfg.LoggerOptions()); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	e := &env{cfg: cfg}
	// Validated by config.Load.
	e.policy, _ = cfg.UnloadedPolicy()
	e.uvMode, _ = cfg.UVMode()

	if cfg.Materials.Path != "" {
		e.materials, err = material.Load(cfg.Materials.Path)
		if err != nil {
			return nil, err
		}
	} else {
		e.materials = material.Default()
	}
	return e, nil
}

// region describes the block of chunks a command generates.
type region struct {
	radius int
	height int
	seed   uint
}

func (r *region) bind(fs *flag.FlagSet) {
	fs.IntVar(&r.radius, "radius", 1, "Chunks loaded in each horizontal direction from the origin")
	fs.IntVar(&r.height, "height", 1, "Chunk layers loaded from y = 0 upward")
	fs.UintVar(&r.seed, "seed", 1, "Terrain seed")
}

// load creates a grid and loads every chunk of the region.
func (r *region) load(e *env) (*voxel.Grid, error) {
	grid, err := voxel.NewGrid(e.cfg.Chunk.Size,
		voxel.WithUnloadedPolicy(e.policy),
		voxel.WithPopulator(newTerrain(uint32(r.seed), e.materials)))
	if err != nil {
		return nil, err
	}

	for y := 0; y < r.height; y++ {
		for z := -r.radius; z <= r.radius; z++ {
			for x := -r.radius; x <= r.radius; x++ {
				if _, err := grid.Load(voxel.ChunkCoord{X: x, Y: y, Z: z}); err != nil {
					return nil, err
				}
			}
		}
	}
	logger.Info("region loaded",
		zap.Int("chunks", grid.Len()),
		zap.Int("chunk_size", grid.Size()),
		zap.Stringer("unloaded_neighbors", grid.Policy()))
	return grid, nil
}

func (e *env) newScheduler(grid *voxel.Grid, naive bool, sink remesh.Sink) *remesh.Scheduler {
	var mesher mesh.Mesher = mesh.NewGreedy(e.materials)
	if naive {
		mesher = mesh.NewNaive(e.materials)
	}
	return remesh.New(grid, remesh.Options{
		Workers: e.cfg.Meshing.Workers,
		Mesher:  mesher,
		Builder: &mesh.Builder{
			UVMode:     e.uvMode,
			Textures:   e.materials,
			WorldSpace: e.cfg.Meshing.WorldSpace,
		},
		Sink: sink,
	})
}

func cmdMesh(args []string) error {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	var r region
	r.bind(fs)
	naive := fs.Bool("naive", false, "One quad per face instead of greedy merging")
	verbose := fs.Bool("v", false, "Print every chunk")
	edits := fs.Int("edits", 0, "Dig N boundary columns after the first pass and remesh")

	e, err := setup(fs, args)
	if err != nil {
		return err
	}
	grid, err := r.load(e)
	if err != nil {
		return err
	}

	s := e.newScheduler(grid, *naive, nil)
	defer s.Close()

	ctx := context.Background()
	results, err := s.RemeshDirty(ctx)
	if err != nil {
		return err
	}
	printResults(results, *verbose)

	if *edits > 0 {
		changed := digBoundaries(grid, *edits)
		fmt.Printf("\nEdited %d voxels, %d chunks dirty\n", changed, len(grid.Dirty()))
		results, err = s.RemeshDirty(ctx)
		if err != nil {
			return err
		}
		printResults(results, *verbose)
	}

	st := s.Stats()
	logger.Info("meshing done",
		zap.Int("passes", st.Passes),
		zap.Int("committed", st.Committed),
		zap.Int("stale", st.Stale),
		zap.Int("quads", st.Quads))
	return nil
}

func printResults(results []remesh.Result, verbose bool) {
	var quads, vertices, indices, stale int
	for _, r := range results {
		if !r.Committed {
			stale++
			continue
		}
		quads += len(r.Quads)
		if r.Mesh != nil {
			vertices += len(r.Mesh.Vertices)
			indices += len(r.Mesh.Indices)
		}
		if verbose && r.Mesh != nil {
			fmt.Printf("  %-14s gen %-4d quads %-6d vertices %-6d indices %-6d groups %d\n",
				r.Coord, r.Generation, len(r.Quads), len(r.Mesh.Vertices), len(r.Mesh.Indices), len(r.Mesh.Groups))
		}
	}
	fmt.Printf("Chunks:   %d (%d stale)\n", len(results), stale)
	fmt.Printf("Quads:    %d\n", quads)
	fmt.Printf("Vertices: %d\n", vertices)
	fmt.Printf("Indices:  %d\n", indices)
}

// digBoundaries clears a vertical column on the +X boundary of the first n
// loaded chunks and returns the number of voxels changed.
func digBoundaries(grid *voxel.Grid, n int) int {
	size := grid.Size()
	changed := 0
	for i, coord := range grid.Loaded() {
		if i >= n {
			break
		}
		c, _ := grid.Chunk(coord)
		for y := 0; y < size; y++ {
			ok, err := c.Set(size-1, y, size/2, voxel.Air)
			if err == nil && ok {
				changed++
			}
		}
	}
	return changed
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var r region
	r.bind(fs)
	output := fs.String("o", "", "Output file")

	e, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("usage: voxmesh export -o <file>")
	}

	grid, err := r.load(e)
	if err != nil {
		return err
	}

	var meshes []*mesh.Mesh
	s := e.newScheduler(grid, false, remesh.SinkFunc(func(m *mesh.Mesh) {
		meshes = append(meshes, m)
	}))
	defer s.Close()

	if _, err := s.RemeshDirty(context.Background()); err != nil {
		return err
	}
	if err := mesh.WriteFile(*output, meshes); err != nil {
		return fmt.Errorf("writing %s: %w", *output, err)
	}

	info, err := os.Stat(*output)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d meshes to %s (%.1f KB)\n", len(meshes), *output, float64(info.Size())/1024)
	return nil
}

func cmdInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Print every mesh")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: voxmesh inspect <file>")
	}

	meshes, err := mesh.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	var quads, triangles int
	materials := make(map[voxel.Voxel]int)
	for _, m := range meshes {
		quads += m.QuadCount()
		triangles += m.TriangleCount()
		for _, g := range m.Groups {
			materials[g.Material] += int(g.IndexCount) / 6
		}
		if *verbose {
			fmt.Printf("  %-14s quads %-6d bounds %v - %v\n", m.Coord, m.QuadCount(), m.Bounds.Min, m.Bounds.Max)
		}
	}

	fmt.Printf("File:      %s\n", fs.Arg(0))
	fmt.Printf("Meshes:    %d\n", len(meshes))
	fmt.Printf("Quads:     %d\n", quads)
	fmt.Printf("Triangles: %d\n", triangles)
	fmt.Println("Quads by material:")
	ids := make([]voxel.Voxel, 0, len(materials))
	for id := range materials {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Printf("  %-6d %d\n", id, materials[id])
	}
	return nil
}

func cmdMaterials(args []string) error {
	fs := flag.NewFlagSet("materials", flag.ExitOnError)
	e, err := setup(fs, args)
	if err != nil {
		return err
	}

	textures := e.materials.Textures()
	faceName := func(m material.Material, d voxel.Direction) string {
		id := e.materials.Texture(m.ID, d)
		if id == material.NoTexture {
			return "-"
		}
		return textures[id]
	}

	fmt.Printf("%-4s %-10s %-7s %s\n", "ID", "NAME", "OPAQUE", "TEXTURES (left right down up front back)")
	for _, m := range e.materials.Materials() {
		faces := make([]string, 0, len(voxel.Directions))
		for _, d := range voxel.Directions {
			faces = append(faces, faceName(m, d))
		}
		fmt.Printf("%-4d %-10s %-7v %s\n", m.ID, m.Name, m.Opaque, strings.Join(faces, " "))
	}
	return nil
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default: user config dir)")

	e, err := setup(fs, args)
	if err != nil {
		return err
	}

	if *output == "" {
		path, err := e.cfg.Save()
		if err != nil {
			return err
		}
		fmt.Printf("Saved config to %s\n", path)
		return nil
	}
	if err := e.cfg.SaveTo(*output); err != nil {
		return err
	}
	fmt.Printf("Saved config to %s\n", *output)
	return nil
}
