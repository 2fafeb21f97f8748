package telemetry

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pthm-cable/planisuss/components"
	"github.com/pthm-cable/planisuss/terrain"
	"github.com/pthm-cable/planisuss/world"
)

func testWorldSnapshot() *world.Snapshot {
	ws := &world.Snapshot{Day: 12, Rows: 2, Cols: 2, Cells: make([]world.CellView, 4)}
	for i := range ws.Cells {
		ws.Cells[i] = world.CellView{Row: i / 2, Col: i % 2, Terrain: terrain.Ground, Density: 10 * i}
	}
	ws.Cells[0] = world.CellView{Row: 0, Col: 0, Terrain: terrain.Water}
	ws.Cells[3].Herd = []world.Individual{
		{ID: 1, Species: components.Erbast, Energy: 40, Age: 3, Lifetime: 50, SocialAttitude: 0.25},
	}
	ws.Cells[3].Pride = []world.Individual{
		{ID: 2, Species: components.Carviz, Energy: 70, Age: 9, Lifetime: 30, SocialAttitude: 0.75},
	}
	return ws
}

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot(testWorldSnapshot(), 42, nil)

	if s.Version != SnapshotVersion || s.Seed != 42 || s.Day != 12 {
		t.Errorf("header = %d/%d/%d", s.Version, s.Seed, s.Day)
	}
	if want := []string{"~.", ".."}; !reflect.DeepEqual(s.Terrain, want) {
		t.Errorf("Terrain = %q, want %q", s.Terrain, want)
	}
	if want := []int{0, 10, 20, 30}; !reflect.DeepEqual(s.Density, want) {
		t.Errorf("Density = %v, want %v", s.Density, want)
	}
	want := []IndividualState{
		{ID: 1, Species: "erbast", Row: 1, Col: 1, Energy: 40, Age: 3, Lifetime: 50, SocialAttitude: 0.25},
		{ID: 2, Species: "carviz", Row: 1, Col: 1, Energy: 70, Age: 9, Lifetime: 30, SocialAttitude: 0.75},
	}
	if !reflect.DeepEqual(s.Individuals, want) {
		t.Errorf("Individuals = %+v, want %+v", s.Individuals, want)
	}
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := NewSnapshot(testWorldSnapshot(), 7, &Bookmark{
		Type:        BookmarkPreyCrash,
		Day:         12,
		Description: "Test bookmark",
	})

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, snapshot) {
		t.Errorf("loaded snapshot differs\n got %+v\nwant %+v", loaded, snapshot)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Day:      500,
		Bookmark: &Bookmark{Type: BookmarkPreyCrash, Day: 500},
	}
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_500_prey_crash.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Day: 300}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_300.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}
