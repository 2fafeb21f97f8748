package decide

import "github.com/pthm-cable/planisuss/config"

// Spawn is the reproduction plan for one herd or pride.
type Spawn struct {
	Offspring int
	Costs     []Delta // energy taken from each parent
}

// OffspringCount returns how many offspring a group of n individuals with
// aggregate energy e produces.
func OffspringCount(n, e int, sp config.SpeciesConfig) int {
	p := sp.Spawn
	if n < p.MinGroup || e < p.MinEnergy || p.GroupPerOffspring <= 0 || p.OffspringEnergy <= 0 {
		return 0
	}
	k := min(p.MaxOffspring, n/p.GroupPerOffspring, e/p.OffspringEnergy, sp.MaxGroup-n)
	return max(k, 0)
}

// PlanSpawn decides offspring for a group and how their energy is paid.
// Parents contribute in proportion to their energy (rounded down); any
// remainder is taken one unit at a time from the highest-energy parents.
// No parent pays more than it has.
func PlanSpawn(group []Member, sp config.SpeciesConfig) Spawn {
	total := totalEnergy(group)
	k := OffspringCount(len(group), total, sp)
	if k == 0 {
		return Spawn{}
	}
	cost := k * sp.Spawn.OffspringEnergy

	parents := sorted(group, byEnergyDesc)
	paid := make([]int, len(parents))
	sum := 0
	for i, p := range parents {
		paid[i] = cost * p.Energy / total
		sum += paid[i]
	}
	for rest := cost - sum; rest > 0; {
		progressed := false
		for i, p := range parents {
			if rest == 0 {
				break
			}
			if paid[i] < p.Energy {
				paid[i]++
				rest--
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	s := Spawn{Offspring: k}
	for i, p := range parents {
		if paid[i] > 0 {
			s.Costs = append(s.Costs, Delta{ID: p.ID, Amount: paid[i]})
		}
	}
	return s
}
