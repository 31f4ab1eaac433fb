package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxmesh/internal/material"
	"github.com/Faultbox/voxmesh/internal/voxel"
)

func TestBuildSingleQuad(t *testing.T) {
	q := voxel.Quad{Dir: voxel.Up, Slice: 2, U: 1, V: 0, Width: 3, Height: 2, Material: 5}
	b := &Builder{}
	m := b.Build(voxel.ChunkCoord{}, 8, []voxel.Quad{q})

	if len(m.Vertices) != 4 || len(m.Indices) != 6 {
		t.Fatalf("expected 4 vertices and 6 indices, got %d and %d", len(m.Vertices), len(m.Indices))
	}

	// Up: plane y = slice + 1, u along Z, v along X.
	want := []mgl32.Vec3{
		{0, 3, 1},
		{0, 3, 4},
		{2, 3, 4},
		{2, 3, 1},
	}
	for i, v := range m.Vertices {
		if v.Position != want[i] {
			t.Errorf("vertex %d: expected position %v, got %v", i, want[i], v.Position)
		}
		if v.Normal != (mgl32.Vec3{0, 1, 0}) {
			t.Errorf("vertex %d: expected normal +Y, got %v", i, v.Normal)
		}
		if v.Material != 5 || v.Texture != 5 {
			t.Errorf("vertex %d: expected material and texture 5, got %d and %d", i, v.Material, v.Texture)
		}
	}

	wantUV := []mgl32.Vec2{{0, 2}, {3, 2}, {3, 0}, {0, 0}}
	for i, v := range m.Vertices {
		if v.UV != wantUV[i] {
			t.Errorf("vertex %d: expected uv %v, got %v", i, wantUV[i], v.UV)
		}
	}

	if m.Bounds.Min != (mgl32.Vec3{0, 3, 1}) || m.Bounds.Max != (mgl32.Vec3{2, 3, 4}) {
		t.Errorf("unexpected bounds %v", m.Bounds)
	}
	if m.QuadCount() != 1 || m.TriangleCount() != 2 {
		t.Errorf("expected 1 quad and 2 triangles, got %d and %d", m.QuadCount(), m.TriangleCount())
	}
}

func TestBuildWindingFacesOutward(t *testing.T) {
	w := newTestWorld(t, 4, voxel.OccludeUnloaded, true)
	w.set(t, 1, 1, 1, 1)
	quads := NewGreedy(nil).Mesh(w.snapshot(t))

	m := (&Builder{}).Build(voxel.ChunkCoord{}, 4, quads)
	center := mgl32.Vec3{1.5, 1.5, 1.5}

	for tri := 0; tri < len(m.Indices); tri += 3 {
		a := m.Vertices[m.Indices[tri]]
		b := m.Vertices[m.Indices[tri+1]]
		c := m.Vertices[m.Indices[tri+2]]

		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		if n.Dot(a.Normal) <= 0 {
			t.Errorf("triangle %d winds against its normal %v", tri/3, a.Normal)
		}
		if a.Position.Sub(center).Dot(a.Normal) <= 0 {
			t.Errorf("triangle %d normal %v points into the voxel", tri/3, a.Normal)
		}
	}
}

func TestBuildStretchedUV(t *testing.T) {
	q := voxel.Quad{Dir: voxel.Front, Slice: 0, Width: 4, Height: 3, Material: 1}
	m := (&Builder{UVMode: UVStretched}).Build(voxel.ChunkCoord{}, 4, []voxel.Quad{q})

	for i, v := range m.Vertices {
		if v.UV[0] < 0 || v.UV[0] > 1 || v.UV[1] < 0 || v.UV[1] > 1 {
			t.Errorf("vertex %d: uv %v outside [0,1]", i, v.UV)
		}
	}
	if m.Vertices[1].UV != (mgl32.Vec2{1, 1}) {
		t.Errorf("expected corner 1 at (1, 1), got %v", m.Vertices[1].UV)
	}
}

func TestBuildGroupsAndWorldSpace(t *testing.T) {
	quads := []voxel.Quad{
		{Dir: voxel.Up, Slice: 0, Width: 1, Height: 1, Material: 3},
		{Dir: voxel.Down, Slice: 0, Width: 1, Height: 1, Material: 1},
		{Dir: voxel.Left, Slice: 0, Width: 1, Height: 1, Material: 3},
	}
	coord := voxel.ChunkCoord{X: 1, Y: -1, Z: 0}
	m := (&Builder{WorldSpace: true}).Build(coord, 16, quads)

	if len(m.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(m.Groups))
	}
	if m.Groups[0].Material != 1 || m.Groups[0].StartIndex != 0 || m.Groups[0].IndexCount != 6 {
		t.Errorf("unexpected first group %+v", m.Groups[0])
	}
	if m.Groups[1].Material != 3 || m.Groups[1].StartIndex != 6 || m.Groups[1].IndexCount != 12 {
		t.Errorf("unexpected second group %+v", m.Groups[1])
	}

	if m.Origin != (mgl32.Vec3{16, -16, 0}) || !m.WorldSpace {
		t.Errorf("unexpected origin %v (world space %v)", m.Origin, m.WorldSpace)
	}
	for i, v := range m.Vertices {
		if v.Position[0] < 16 || v.Position[1] < -16 || v.Position[1] > -15 {
			t.Errorf("vertex %d: position %v not offset by the chunk origin", i, v.Position)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	m := (&Builder{}).Build(voxel.ChunkCoord{}, 8, nil)
	if len(m.Vertices) != 0 || len(m.Indices) != 0 || len(m.Groups) != 0 {
		t.Error("expected an empty mesh")
	}
	if m.Bounds.Min != m.Bounds.Max {
		t.Errorf("empty mesh should have degenerate bounds, got %v", m.Bounds)
	}
}

func TestBuildRegistryTextures(t *testing.T) {
	reg := material.Default()
	grass := reg.MustLookup("grass")
	quads := []voxel.Quad{
		{Dir: voxel.Up, Width: 1, Height: 1, Material: grass},
		{Dir: voxel.Down, Width: 1, Height: 1, Material: grass},
	}

	m := (&Builder{Textures: reg}).Build(voxel.ChunkCoord{}, 4, quads)
	textures := reg.Textures()
	if got := textures[m.Vertices[0].Texture]; got != "grass_top" {
		t.Errorf("expected grass_top on the top face, got %s", got)
	}
	if got := textures[m.Vertices[4].Texture]; got != "dirt" {
		t.Errorf("expected dirt on the bottom face, got %s", got)
	}
	if m.Vertices[0].Material != uint32(grass) {
		t.Errorf("expected material %d, got %d", grass, m.Vertices[0].Material)
	}
}

func TestBuildSkipsUntexturedFaces(t *testing.T) {
	reg, err := material.Parse([]byte("- name: rock\n  texture: rock\n- name: barrier\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rock := reg.MustLookup("rock")
	barrier := reg.MustLookup("barrier")

	w := newTestWorld(t, 4, voxel.OccludeUnloaded, true)
	w.set(t, 1, 1, 1, barrier)
	w.set(t, 2, 1, 1, rock)
	quads := NewGreedy(reg).Mesh(w.snapshot(t))

	// Barrier is transparent, so every rock face shows, including the one
	// against the barrier. The barrier loses only the face against the rock.
	if len(quads) != 11 {
		t.Fatalf("expected 11 quads, got %d", len(quads))
	}

	m := (&Builder{Textures: reg}).Build(voxel.ChunkCoord{}, 4, quads)
	if len(m.Vertices) != 24 || len(m.Indices) != 36 {
		t.Fatalf("expected 24 vertices and 36 indices, got %d and %d", len(m.Vertices), len(m.Indices))
	}
	for i, v := range m.Vertices {
		if v.Material != uint32(rock) {
			t.Errorf("vertex %d: expected material %d, got %d", i, rock, v.Material)
		}
		if v.Texture == material.NoTexture {
			t.Errorf("vertex %d: untextured vertex emitted", i)
		}
	}
	if len(m.Groups) != 1 || m.Groups[0].Material != rock || m.Groups[0].IndexCount != 36 {
		t.Errorf("unexpected groups %+v", m.Groups)
	}

	alone := newTestWorld(t, 4, voxel.OccludeUnloaded, true)
	alone.set(t, 1, 1, 1, barrier)
	m = (&Builder{Textures: reg}).Build(voxel.ChunkCoord{}, 4, NewGreedy(reg).Mesh(alone.snapshot(t)))
	if len(m.Vertices) != 0 || len(m.Indices) != 0 || len(m.Groups) != 0 {
		t.Errorf("expected an empty mesh, got %d vertices and %d groups", len(m.Vertices), len(m.Groups))
	}
	if m.Bounds.Min != m.Bounds.Max {
		t.Errorf("empty mesh should have degenerate bounds, got %v", m.Bounds)
	}
}

func TestParseUVMode(t *testing.T) {
	if m, err := ParseUVMode("stretched"); err != nil || m != UVStretched {
		t.Errorf("expected stretched, got %v (%v)", m, err)
	}
	if m, err := ParseUVMode(""); err != nil || m != UVTiled {
		t.Errorf("expected tiled default, got %v (%v)", m, err)
	}
	if _, err := ParseUVMode("mirrored"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
