// Package terrain generates and holds the static water/ground grid.
package terrain

import (
	"fmt"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/planisuss/config"
)

// Kind is the terrain class of a cell.
type Kind uint8

const (
	Water Kind = iota
	Ground
)

func (k Kind) String() string {
	if k == Ground {
		return "ground"
	}
	return "water"
}

// Grid is an immutable rows x cols terrain array.
type Grid struct {
	rows, cols int
	kinds      []Kind
}

// NewGround returns a grid where every cell is Ground.
func NewGround(rows, cols int) *Grid {
	g := &Grid{rows: rows, cols: cols, kinds: make([]Kind, rows*cols)}
	for i := range g.kinds {
		g.kinds[i] = Ground
	}
	return g
}

// Generate builds a grid according to the configured generator.
func Generate(cfg config.WorldConfig, seed uint64) (*Grid, error) {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, fmt.Errorf("terrain: invalid dimensions %dx%d", cfg.Rows, cfg.Cols)
	}
	g := NewGround(cfg.Rows, cfg.Cols)
	t := cfg.Terrain

	switch t.Generator {
	case config.GeneratorRandom, "":
		rng := rand.New(rand.NewPCG(seed, seed^0x7465727261696e)) // "terrain"
		for i := range g.kinds {
			if rng.Float64() < t.WaterProb {
				g.kinds[i] = Water
			}
		}
	case config.GeneratorSimplex:
		noise := opensimplex.New(int64(seed))
		g.threshold(noise.Eval2, t.NoiseScale, t.NoiseThreshold)
	case config.GeneratorPerlin:
		p := perlin.NewPerlin(2, 2, 3, int64(seed))
		g.threshold(p.Noise2D, t.NoiseScale, t.NoiseThreshold)
	case config.GeneratorLayout:
		if err := g.fromLayout(t.Layout); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("terrain: unknown generator %q", t.Generator)
	}

	if t.WaterBorder {
		for r := 0; r < g.rows; r++ {
			for c := 0; c < g.cols; c++ {
				if r == 0 || c == 0 || r == g.rows-1 || c == g.cols-1 {
					g.kinds[r*g.cols+c] = Water
				}
			}
		}
	}
	return g, nil
}

func (g *Grid) threshold(noise func(x, y float64) float64, scale, cut float64) {
	if scale <= 0 {
		scale = 1
	}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if noise(float64(c)/scale, float64(r)/scale) < cut {
				g.kinds[r*g.cols+c] = Water
			}
		}
	}
}

func (g *Grid) fromLayout(layout []string) error {
	if len(layout) != g.rows {
		return fmt.Errorf("terrain: layout has %d rows, want %d", len(layout), g.rows)
	}
	for r, line := range layout {
		if len(line) != g.cols {
			return fmt.Errorf("terrain: layout row %d has %d columns, want %d", r, len(line), g.cols)
		}
		for c := 0; c < len(line); c++ {
			switch line[c] {
			case '~':
				g.kinds[r*g.cols+c] = Water
			case '.', '#':
				g.kinds[r*g.cols+c] = Ground
			default:
				return fmt.Errorf("terrain: layout cell (%d,%d) has unknown symbol %q", r, c, line[c])
			}
		}
	}
	return nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.kinds) }

// In reports whether (row, col) lies inside the grid.
func (g *Grid) In(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Index returns the row-major index of (row, col).
func (g *Grid) Index(row, col int) int { return row*g.cols + col }

// At returns the terrain of (row, col). Out-of-range cells are Water.
func (g *Grid) At(row, col int) Kind {
	if !g.In(row, col) {
		return Water
	}
	return g.kinds[row*g.cols+col]
}

// IsGround reports whether (row, col) is an in-range Ground cell.
func (g *Grid) IsGround(row, col int) bool {
	return g.At(row, col) == Ground
}

// GroundCount returns the number of Ground cells.
func (g *Grid) GroundCount() int {
	n := 0
	for _, k := range g.kinds {
		if k == Ground {
			n++
		}
	}
	return n
}

// GroundCells returns every Ground coordinate in row-major order.
func (g *Grid) GroundCells() [][2]int {
	out := make([][2]int, 0, len(g.kinds))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.kinds[r*g.cols+c] == Ground {
				out = append(out, [2]int{r, c})
			}
		}
	}
	return out
}

// Neighborhood appends to dst every Ground cell within Chebyshev distance
// radius of (row, col), excluding the center, in row-major order.
func (g *Grid) Neighborhood(dst [][2]int, row, col, radius int) [][2]int {
	for r := row - radius; r <= row+radius; r++ {
		for c := col - radius; c <= col+radius; c++ {
			if r == row && c == col {
				continue
			}
			if g.IsGround(r, c) {
				dst = append(dst, [2]int{r, c})
			}
		}
	}
	return dst
}

// String renders the grid with the layout symbols.
func (g *Grid) String() string {
	buf := make([]byte, 0, (g.cols+1)*g.rows)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.kinds[r*g.cols+c] == Ground {
				buf = append(buf, '.')
			} else {
				buf = append(buf, '~')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
