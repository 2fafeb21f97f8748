package game

import (
	"strings"
	"testing"

	"github.com/pthm-cable/planisuss/components"
	"github.com/pthm-cable/planisuss/terrain"
	"github.com/pthm-cable/planisuss/world"
)

func TestViewForKey(t *testing.T) {
	for _, v := range ViewModes {
		got, ok := ViewForKey(v.Key())
		if !ok || got != v {
			t.Errorf("ViewForKey(%q) = %v, %v, want %v", v.Key(), got, ok, v)
		}
	}
	if _, ok := ViewForKey('x'); ok {
		t.Error("ViewForKey('x') matched")
	}
}

func TestDescribeCell(t *testing.T) {
	herd := []world.Individual{
		{ID: 1, Species: components.Erbast, Energy: 50, Age: 3, Lifetime: 40, SocialAttitude: 0.5},
		{ID: 2, Species: components.Erbast, Energy: 20, Age: 1, Lifetime: 30},
	}
	pride := []world.Individual{{ID: 9, Species: components.Carviz, Energy: 70, Age: 2, Lifetime: 60}}
	cell := &world.CellView{Row: 2, Col: 3, Terrain: terrain.Ground, Density: 42, Herd: herd, Pride: pride}

	tests := []struct {
		name  string
		limit int
		lines int
		last  string
	}{
		{"all members", 10, 4, "#9"},
		{"truncated", 2, 4, "... 1 more"},
		{"header only", 0, 2, "... 3 more"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := DescribeCell(cell, tt.limit)
			if len(lines) != tt.lines {
				t.Fatalf("got %d lines %q, want %d", len(lines), lines, tt.lines)
			}
			if !strings.Contains(lines[0], "vegetob 42") {
				t.Errorf("header = %q", lines[0])
			}
			if last := lines[len(lines)-1]; !strings.Contains(last, tt.last) {
				t.Errorf("last line = %q, want %q", last, tt.last)
			}
		})
	}

	water := DescribeCell(&world.CellView{Terrain: terrain.Water}, 5)
	if len(water) != 1 || !strings.Contains(water[0], "water") {
		t.Errorf("water = %q", water)
	}
	if DescribeCell(nil, 5) != nil {
		t.Error("nil cell described")
	}
}
