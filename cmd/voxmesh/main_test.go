package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/voxmesh/internal/config"
	"github.com/Faultbox/voxmesh/internal/mesh"
)

// writeTestConfig writes a small config so commands don't pick up one from
// the working or user config directory.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "voxmesh.yaml")
	data := "chunk:\n  size: 8\nlogging:\n  level: error\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// captureStdout runs fn with os.Stdout redirected and returns what it printed.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	saved := os.Stdout
	os.Stdout = w

	out := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		out <- buf.String()
	}()

	runErr := fn()
	os.Stdout = saved
	w.Close()
	printed := <-out
	r.Close()

	if runErr != nil {
		t.Fatalf("command failed: %v\noutput:\n%s", runErr, printed)
	}
	return printed
}

func TestExportInspectRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestConfig(t, dir)
	file := filepath.Join(dir, "world.vxms")

	// 3x3 columns, two layers.
	const chunks = 18
	printed := captureStdout(t, func() error {
		return cmdExport([]string{"-config", cfg, "-radius", "1", "-height", "2", "-o", file})
	})
	if !strings.Contains(printed, fmt.Sprintf("Wrote %d meshes to %s", chunks, file)) {
		t.Errorf("unexpected export output %q", printed)
	}

	meshes, err := mesh.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(meshes) != chunks {
		t.Fatalf("expected %d meshes, got %d", chunks, len(meshes))
	}
	var quads, triangles int
	for _, m := range meshes {
		quads += m.QuadCount()
		triangles += m.TriangleCount()
	}
	if quads == 0 {
		t.Fatal("expected terrain to produce quads")
	}

	printed = captureStdout(t, func() error {
		return cmdInspect([]string{file})
	})
	for _, want := range []string{
		fmt.Sprintf("Meshes:    %d", chunks),
		fmt.Sprintf("Quads:     %d", quads),
		fmt.Sprintf("Triangles: %d", triangles),
		"Quads by material:",
	} {
		if !strings.Contains(printed, want) {
			t.Errorf("expected %q in inspect output:\n%s", want, printed)
		}
	}
}

func TestInspectMissingFile(t *testing.T) {
	err := cmdInspect([]string{filepath.Join(t.TempDir(), "missing.vxms")})
	if err == nil {
		t.Error("expected an error for a missing file")
	}
	if err := cmdInspect(nil); err == nil {
		t.Error("expected a usage error without a file")
	}
}

func TestMeshWithEdits(t *testing.T) {
	cfg := writeTestConfig(t, t.TempDir())

	printed := captureStdout(t, func() error {
		return cmdMesh([]string{"-config", cfg, "-radius", "1", "-edits", "2"})
	})

	// One pass over the 9 loaded chunks, then a second one after the edits.
	if strings.Count(printed, "Chunks:") != 2 {
		t.Fatalf("expected two meshing passes, got:\n%s", printed)
	}
	if !strings.Contains(printed, "Chunks:   9 (0 stale)") {
		t.Errorf("expected the first pass to mesh 9 chunks, got:\n%s", printed)
	}
	var changed, dirty int
	idx := strings.Index(printed, "Edited ")
	if idx < 0 {
		t.Fatalf("expected an edit summary, got:\n%s", printed)
	}
	if _, err := fmt.Sscanf(printed[idx:], "Edited %d voxels, %d chunks dirty", &changed, &dirty); err != nil {
		t.Fatalf("parsing edit summary: %v", err)
	}
	// Column y = 0 is always solid, and every edit touches the +X boundary.
	if changed == 0 || dirty < 2 {
		t.Errorf("expected edits to dirty chunks, got %d voxels and %d chunks", changed, dirty)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestConfig(t, dir)
	out := filepath.Join(dir, "saved.yaml")

	printed := captureStdout(t, func() error {
		return cmdConfig([]string{"-config", cfg, "-uv", "stretched", "-o", out})
	})
	if !strings.Contains(printed, "Saved config to "+out) {
		t.Errorf("unexpected output %q", printed)
	}

	saved, err := config.LoadFile(out)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if saved.Chunk.Size != 8 || saved.Meshing.UVMode != "stretched" || saved.Logging.Level != "error" {
		t.Errorf("saved config does not merge file and flags: %+v", saved)
	}
}
