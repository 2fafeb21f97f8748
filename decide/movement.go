package decide

import (
	"math/rand/v2"

	"github.com/pthm-cable/planisuss/components"
	"github.com/pthm-cable/planisuss/config"
	"github.com/pthm-cable/planisuss/terrain"
)

// Field is the position snapshot movement is scored against. It is taken
// once at the start of the movement phase and never updated during it.
type Field struct {
	Grid    *terrain.Grid
	Density []int // row-major, zero on water
	Herd    []int // Erbast per cell
	Pride   []int // Carviz per cell
}

// Move is one individual's movement decision. To equals the origin when
// the individual stays.
type Move struct {
	ID uint64
	To components.Cell
}

// Score rates cell (row, col) for a group of species sp currently at
// origin.
func (f *Field) Score(sp components.Species, m config.MovementConfig, origin components.Cell, row, col int) float64 {
	i := f.Grid.Index(row, col)
	home := row == origin.Row && col == origin.Col

	var prey, predators, others int
	if sp == components.Erbast {
		predators = f.Pride[i]
		others = f.Herd[i]
	} else {
		prey = f.Herd[i]
		others = f.Pride[i]
	}
	if home {
		others = 0
	}

	score := m.FoodWeight*float64(f.Density[i]) +
		m.PreyWeight*float64(prey) -
		m.PredatorAversion*float64(predators) -
		m.CrowdAversion*float64(others)
	if home {
		score += m.StayBonus
	}
	return score
}

// Best returns every top-scoring candidate for a group at origin: the
// origin itself plus Ground cells within the neighborhood radius.
func (f *Field) Best(sp components.Species, m config.MovementConfig, origin components.Cell) []components.Cell {
	candidates := f.Grid.Neighborhood([][2]int{{origin.Row, origin.Col}}, origin.Row, origin.Col, m.Neighborhood)
	var best []components.Cell
	var top float64
	for k, rc := range candidates {
		s := f.Score(sp, m, origin, rc[0], rc[1])
		switch {
		case k == 0 || s > top:
			top = s
			best = append(best[:0], components.Cell{Row: rc[0], Col: rc[1]})
		case s == top:
			best = append(best, components.Cell{Row: rc[0], Col: rc[1]})
		}
	}
	return best
}

// PlanGroupMove decides where every member of one herd or pride goes.
//
// Each member able to afford the move proposes one of the best cells, ties
// broken by rng. When the most popular proposal holds at least the group
// majority, members whose social attitude reaches the solo threshold
// follow it; the rest keep their own proposal. Members with energy at or
// below the movement cost stay.
func PlanGroupMove(f *Field, sp components.Species, m config.MovementConfig, origin components.Cell, group []Member, rng *rand.Rand) []Move {
	if len(group) == 0 {
		return nil
	}
	best := f.Best(sp, m, origin)

	moves := make([]Move, len(group))
	able := make([]bool, len(group))
	for k, mem := range group {
		moves[k] = Move{ID: mem.ID, To: origin}
		if mem.Energy <= m.Cost {
			continue
		}
		able[k] = true
		if len(best) == 1 {
			moves[k].To = best[0]
		} else {
			moves[k].To = best[rng.IntN(len(best))]
		}
	}

	target, votes := majority(moves, rng)
	if float64(votes) < m.GroupMajority*float64(len(group)) {
		return moves
	}
	for k, mem := range group {
		if able[k] && mem.SocialAttitude >= m.SoloAttitude {
			moves[k].To = target
		}
	}
	return moves
}

// majority returns the most proposed target and its vote count. Equally
// popular targets are chosen between by rng.
func majority(moves []Move, rng *rand.Rand) (components.Cell, int) {
	tally := make(map[components.Cell]int, len(moves))
	var order []components.Cell
	for _, mv := range moves {
		if tally[mv.To] == 0 {
			order = append(order, mv.To)
		}
		tally[mv.To]++
	}
	var tied []components.Cell
	top := 0
	for _, c := range order {
		switch n := tally[c]; {
		case n > top:
			top = n
			tied = append(tied[:0], c)
		case n == top:
			tied = append(tied, c)
		}
	}
	if len(tied) == 1 {
		return tied[0], top
	}
	return tied[rng.IntN(len(tied))], top
}

// Overcrowded returns the members beyond capacity, lowest energy first.
// The highest-energy members are kept.
func Overcrowded(group []Member, capacity int) []uint64 {
	if len(group) <= capacity {
		return nil
	}
	ordered := sorted(group, byEnergyAsc)
	surplus := ordered[:len(group)-capacity]
	ids := make([]uint64, len(surplus))
	for k, m := range surplus {
		ids[k] = m.ID
	}
	return ids
}

// Overwhelmed reports whether (row, col) is surrounded by eight Ground
// neighbours that are all full of vegetob.
func Overwhelmed(grid *terrain.Grid, full func(row, col int) bool, row, col int) bool {
	for r := row - 1; r <= row+1; r++ {
		for c := col - 1; c <= col+1; c++ {
			if r == row && c == col {
				continue
			}
			if !grid.IsGround(r, c) || !full(r, c) {
				return false
			}
		}
	}
	return true
}
