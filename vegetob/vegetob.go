// Package vegetob holds the per-cell vegetation density layer.
package vegetob

import (
	"fmt"
	"math/rand/v2"

	"github.com/pthm-cable/planisuss/config"
	"github.com/pthm-cable/planisuss/terrain"
)

// MaxDensity bounds every density value.
const MaxDensity = 100

// Layer stores a density for every Ground cell. Water cells hold no value.
type Layer struct {
	grid    *terrain.Grid
	density []int
	growth  int
	cap     int
}

// New creates an empty layer over grid.
func New(grid *terrain.Grid, growth, cap int) *Layer {
	if cap > MaxDensity {
		cap = MaxDensity
	}
	return &Layer{
		grid:    grid,
		density: make([]int, grid.Len()),
		growth:  growth,
		cap:     cap,
	}
}

// Seed draws every Ground density uniformly from r, clamped to the cap.
func (l *Layer) Seed(rng *rand.Rand, r config.IntRange) {
	for i := range l.density {
		if l.ground(i) {
			l.density[i] = min(l.cap, r.Min+rng.IntN(r.Max-r.Min+1))
		}
	}
}

func (l *Layer) ground(i int) bool {
	return l.grid.IsGround(i/l.grid.Cols(), i%l.grid.Cols())
}

// Grow adds the growth quantity to every Ground cell, capped.
func (l *Layer) Grow() {
	for i, d := range l.density {
		if l.ground(i) {
			l.density[i] = min(l.cap, d+l.growth)
		}
	}
}

// Density returns the density at (row, col) and whether the cell is Ground.
func (l *Layer) Density(row, col int) (int, bool) {
	if !l.grid.IsGround(row, col) {
		return 0, false
	}
	return l.density[l.grid.Index(row, col)], true
}

// Set overrides the density of a Ground cell.
func (l *Layer) Set(row, col, d int) error {
	if !l.grid.IsGround(row, col) {
		return fmt.Errorf("vegetob: (%d,%d) is not ground", row, col)
	}
	if d < 0 || d > l.cap {
		return fmt.Errorf("vegetob: density %d outside [0,%d]", d, l.cap)
	}
	l.density[l.grid.Index(row, col)] = d
	return nil
}

// Consume removes up to amount from (row, col) and returns what was taken.
func (l *Layer) Consume(row, col, amount int) int {
	if amount <= 0 || !l.grid.IsGround(row, col) {
		return 0
	}
	i := l.grid.Index(row, col)
	taken := min(amount, l.density[i])
	l.density[i] -= taken
	return taken
}

// Full reports whether (row, col) is Ground at the cap.
func (l *Layer) Full(row, col int) bool {
	d, ok := l.Density(row, col)
	return ok && d >= l.cap
}

// Cap returns the density cap.
func (l *Layer) Cap() int { return l.cap }

// Growth returns the daily growth quantity.
func (l *Layer) Growth() int { return l.growth }

// Total returns the summed density over all Ground cells.
func (l *Layer) Total() int {
	total := 0
	for _, d := range l.density {
		total += d
	}
	return total
}

// Values returns a copy of the raw row-major densities (zero on water).
func (l *Layer) Values() []int {
	return append([]int(nil), l.density...)
}

// Restore replaces the densities with a copy taken by Values.
func (l *Layer) Restore(values []int) {
	copy(l.density, values)
}

// Check verifies density bounds and that water holds nothing.
func (l *Layer) Check() error {
	for i, d := range l.density {
		if !l.ground(i) {
			if d != 0 {
				return fmt.Errorf("water cell %d holds density %d", i, d)
			}
			continue
		}
		if d < 0 || d > l.cap {
			return fmt.Errorf("cell %d density %d outside [0,%d]", i, d, l.cap)
		}
	}
	return nil
}
