package decide

// Grazing is the outcome of one herd feeding on one cell.
type Grazing struct {
	Meals    []Delta  // energy gained, equal to density removed
	Hungry   []uint64 // found no density left
	Consumed int
}

// PlanGrazing serves eligible Erbast lowest energy first (ties by ID).
// Each takes min(perCap, remaining density, maxEnergy-energy); the sum of
// meals equals the density consumed.
func PlanGrazing(density int, eligible []Member, perCap, maxEnergy int) Grazing {
	var g Grazing
	remaining := density
	for _, m := range sorted(eligible, byEnergyAsc) {
		if remaining <= 0 {
			g.Hungry = append(g.Hungry, m.ID)
			continue
		}
		take := min(perCap, remaining, maxEnergy-m.Energy)
		if take <= 0 {
			continue
		}
		remaining -= take
		g.Consumed += take
		g.Meals = append(g.Meals, Delta{ID: m.ID, Amount: take})
	}
	return g
}
