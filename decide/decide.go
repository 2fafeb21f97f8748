// Package decide holds the pure decision rules of a simulated day.
//
// Every function reads value snapshots (and, where a choice is random, the
// world's *rand.Rand) and returns a plan. Nothing here mutates world state;
// the scheduler applies plans in a separate pass.
package decide

import (
	"cmp"
	"slices"

	"github.com/pthm-cable/planisuss/components"
)

// Member is the decision-relevant view of one individual.
type Member struct {
	ID             uint64
	Energy         int
	SocialAttitude float64
	Origin         components.Cell
}

// Delta is an energy change for one individual.
type Delta struct {
	ID     uint64
	Amount int
}

func byEnergyAsc(a, b Member) int {
	if c := cmp.Compare(a.Energy, b.Energy); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func byEnergyDesc(a, b Member) int {
	if c := cmp.Compare(b.Energy, a.Energy); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func sorted(group []Member, order func(a, b Member) int) []Member {
	out := slices.Clone(group)
	slices.SortFunc(out, order)
	return out
}

func totalEnergy(group []Member) int {
	total := 0
	for _, m := range group {
		total += m.Energy
	}
	return total
}

func meanAttitude(group []Member) float64 {
	if len(group) == 0 {
		return 0
	}
	var sum float64
	for _, m := range group {
		sum += m.SocialAttitude
	}
	return sum / float64(len(group))
}
