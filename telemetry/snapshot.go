package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/planisuss/terrain"
	"github.com/pthm-cable/planisuss/world"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is the JSON export of the world at a day boundary.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    uint64 `json:"seed"`
	Day     int    `json:"day"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`

	// Terrain rows, '~' water and '.' ground. Same format as a layout.
	Terrain []string `json:"terrain"`
	// Density is row-major, zero on water.
	Density []int `json:"density"`

	Individuals []IndividualState `json:"individuals"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// IndividualState holds one individual's complete state.
type IndividualState struct {
	ID             uint64  `json:"id"`
	Species        string  `json:"species"`
	Row            int     `json:"row"`
	Col            int     `json:"col"`
	Energy         int     `json:"energy"`
	Age            int     `json:"age"`
	Lifetime       int     `json:"lifetime"`
	SocialAttitude float64 `json:"social_attitude"`
}

// NewSnapshot converts a world snapshot for export.
func NewSnapshot(ws *world.Snapshot, seed uint64, bookmark *Bookmark) *Snapshot {
	s := &Snapshot{
		Version:  SnapshotVersion,
		Seed:     seed,
		Day:      ws.Day,
		Rows:     ws.Rows,
		Cols:     ws.Cols,
		Density:  make([]int, len(ws.Cells)),
		Bookmark: bookmark,
	}

	var row strings.Builder
	for r := 0; r < ws.Rows; r++ {
		row.Reset()
		for c := 0; c < ws.Cols; c++ {
			cell := ws.At(r, c)
			if cell.Terrain == terrain.Water {
				row.WriteByte('~')
			} else {
				row.WriteByte('.')
			}
			s.Density[r*ws.Cols+c] = cell.Density
			for _, group := range [][]world.Individual{cell.Herd, cell.Pride} {
				for _, ind := range group {
					s.Individuals = append(s.Individuals, IndividualState{
						ID:             ind.ID,
						Species:        ind.Species.String(),
						Row:            r,
						Col:            c,
						Energy:         ind.Energy,
						Age:            ind.Age,
						Lifetime:       ind.Lifetime,
						SocialAttitude: ind.SocialAttitude,
					})
				}
			}
		}
		s.Terrain = append(s.Terrain, row.String())
	}
	return s
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Day)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Day, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
