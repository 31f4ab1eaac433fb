package voxel

import "testing"

func TestParseUnloadedPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    UnloadedPolicy
		wantErr bool
	}{
		{"", OccludeUnloaded, false},
		{"occlude", OccludeUnloaded, false},
		{"visible", ShowUnloaded, false},
		{"show", ShowUnloaded, false},
		{"sometimes", OccludeUnloaded, true},
	}

	for _, tt := range tests {
		got, err := ParseUnloadedPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUnloadedPolicy(%q): unexpected error state %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUnloadedPolicy(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNeighborhoodAdjacent(t *testing.T) {
	g := newTestGrid(t, 4)
	center := mustLoad(t, g, ChunkCoord{0, 0, 0})
	right := mustLoad(t, g, ChunkCoord{1, 0, 0})
	up := mustLoad(t, g, ChunkCoord{0, 1, 0})

	mustSet(t, center, 3, 1, 2, 1)
	mustSet(t, center, 2, 1, 2, 4)
	mustSet(t, right, 0, 1, 2, 7)
	mustSet(t, right, 1, 1, 2, 8) // not on the touching layer
	mustSet(t, up, 2, 0, 3, 9)

	n, ok := g.Snapshot(ChunkCoord{0, 0, 0})
	if !ok {
		t.Fatal("expected a snapshot of a loaded chunk")
	}

	tests := []struct {
		name   string
		p      [3]int
		d      Direction
		want   Voxel
		wantOK bool
	}{
		{"inside", [3]int{3, 1, 2}, Left, 4, true},
		{"into right neighbor", [3]int{3, 1, 2}, Right, 7, true},
		{"into upper neighbor", [3]int{2, 3, 3}, Up, 9, true},
		{"into unloaded below", [3]int{2, 0, 3}, Down, Air, false},
		{"into unloaded left", [3]int{0, 1, 1}, Left, Air, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := n.Adjacent(tt.p[0], tt.p[1], tt.p[2], tt.d)
			if v != tt.want || ok != tt.wantOK {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.want, tt.wantOK, v, ok)
			}
		})
	}

	if !n.HasNeighbor(Right) || !n.HasNeighbor(Up) || n.HasNeighbor(Back) {
		t.Error("HasNeighbor disagrees with the loaded set")
	}
	if n.At(2, 1, 2) != 4 || n.Count() != 2 {
		t.Errorf("unexpected center contents: at=%d count=%d", n.At(2, 1, 2), n.Count())
	}
}

func TestNeighborhoodIsolatedFromEdits(t *testing.T) {
	g := newTestGrid(t, 4)
	center := mustLoad(t, g, ChunkCoord{0, 0, 0})
	back := mustLoad(t, g, ChunkCoord{0, 0, 1})

	n, _ := g.Snapshot(ChunkCoord{0, 0, 0})
	gen := n.Generation

	mustSet(t, center, 1, 1, 1, 5)
	mustSet(t, back, 1, 1, 0, 5)

	if n.At(1, 1, 1) != Air {
		t.Error("snapshot must not observe later center edits")
	}
	if v, _ := n.Adjacent(1, 1, 3, Back); v != Air {
		t.Error("snapshot must not observe later neighbor edits")
	}
	if center.CommitMesh(gen, nil) {
		t.Error("mesh from the old snapshot should be stale after a boundary edit")
	}
}

func TestSnapshotChunkSkipsMismatchedNeighbor(t *testing.T) {
	center, _ := NewChunk(ChunkCoord{}, 4)
	odd, _ := NewChunk(ChunkCoord{1, 0, 0}, 8)

	var neighbors [6]*Chunk
	neighbors[Right] = odd
	n := SnapshotChunk(center, neighbors, ShowUnloaded)

	if n.HasNeighbor(Right) {
		t.Error("neighbor of another size should be treated as unloaded")
	}
	if n.Policy != ShowUnloaded {
		t.Errorf("expected policy to be carried, got %s", n.Policy)
	}
}
