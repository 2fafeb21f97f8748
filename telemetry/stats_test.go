package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/planisuss/components"
	"github.com/pthm-cable/planisuss/world"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
		{"clamped above", []float64{1, 2, 3}, 1.5, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeEnergyStats(t *testing.T) {
	values := []float64{90, 10, 50, 30, 70, 20, 40, 60, 80, 100}
	es := ComputeEnergyStats(values)

	if math.Abs(es.Mean-55) > 0.001 {
		t.Errorf("mean = %v, want 55", es.Mean)
	}
	// Sample standard deviation of 10..100 step 10.
	if math.Abs(es.Std-30.2765) > 0.001 {
		t.Errorf("std = %v, want ~30.28", es.Std)
	}
	if es.P10 != 10 || es.P50 != 50 || es.P90 != 90 {
		t.Errorf("p10/p50/p90 = %v/%v/%v, want 10/50/90", es.P10, es.P50, es.P90)
	}
	if values[0] != 90 {
		t.Error("input slice was reordered")
	}
}

func TestComputeEnergyStatsEdges(t *testing.T) {
	if es := ComputeEnergyStats(nil); es != (EnergyStats{}) {
		t.Errorf("empty = %+v, want zeros", es)
	}
	es := ComputeEnergyStats([]float64{42})
	if es.Mean != 42 || es.Std != 0 || es.P50 != 42 {
		t.Errorf("single = %+v", es)
	}
}

func TestNewDayStats(t *testing.T) {
	var s world.Stats
	s.Day = 7
	s.Erbast.Count = 12
	s.Carviz.Count = 3
	s.Erbast.DeathsBy[components.CauseStarvation] = 2
	s.Carviz.DeathsBy[components.CauseStarvation] = 1
	s.Carviz.DeathsBy[components.CauseAge] = 4
	s.Events.Kills = 5

	row := NewDayStats(s)
	if row.Day != 7 || row.Erbast != 12 || row.Carviz != 3 || row.Kills != 5 {
		t.Errorf("row = %+v", row)
	}
	if row.Starved != 3 || row.Aged != 4 {
		t.Errorf("starved = %d, aged = %d, want 3 and 4", row.Starved, row.Aged)
	}
}
