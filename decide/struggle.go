package decide

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/pthm-cable/planisuss/components"
	"github.com/pthm-cable/planisuss/config"
)

// Strength is the aggregate fighting strength of a group.
func Strength(group []Member, countWeight float64) float64 {
	return float64(totalEnergy(group)) + countWeight*float64(len(group))
}

// Hunt is the outcome of a pride attacking a herd on one cell.
type Hunt struct {
	Success       bool
	Victims       []uint64 // removed immediately, strongest first
	Gains         []Delta  // energy handed to Carviz
	Costs         []Delta  // energy paid by Carviz after a failed attempt
	Pool          int      // energy made available by the victims
	PrideStrength float64
	HerdStrength  float64
}

// Kills returns the number of Erbast a pride kills: zero below the
// dominance margin, then one more for every kill step above it, bounded by
// maxKills and the herd size.
func Kills(prideStrength, herdStrength float64, herdSize int, s config.StruggleConfig) int {
	if herdSize == 0 {
		return 0
	}
	limit := min(herdSize, s.MaxKills)
	if herdStrength <= 0 {
		if prideStrength > 0 {
			return limit
		}
		return 0
	}
	ratio := prideStrength / herdStrength
	if ratio < s.DominanceMargin {
		return 0
	}
	extra := math.Floor((ratio - s.DominanceMargin) / s.KillStep)
	if extra >= float64(limit) {
		return limit
	}
	return min(limit, 1+int(extra))
}

// ResolveHunt compares pride and herd strength. On success the strongest
// Erbast die and their pooled energy, scaled by efficiency, is handed to
// the Carviz strongest first, each receiving its fair share of what is left
// up to its headroom. On failure every Carviz pays the attempt cost.
func ResolveHunt(herd, pride []Member, s config.StruggleConfig, carvizMax int) Hunt {
	h := Hunt{
		PrideStrength: Strength(pride, s.CountWeight),
		HerdStrength:  Strength(herd, s.CountWeight),
	}
	if len(herd) == 0 || len(pride) == 0 {
		return h
	}

	kills := Kills(h.PrideStrength, h.HerdStrength, len(herd), s)
	if kills == 0 {
		for _, c := range pride {
			if s.AttemptCost > 0 {
				h.Costs = append(h.Costs, Delta{ID: c.ID, Amount: min(s.AttemptCost, c.Energy)})
			}
		}
		return h
	}

	h.Success = true
	victimEnergy := 0
	for _, v := range sorted(herd, byEnergyDesc)[:kills] {
		h.Victims = append(h.Victims, v.ID)
		victimEnergy += v.Energy
	}
	h.Pool = int(math.Floor(float64(victimEnergy) * s.Efficiency))

	remaining := h.Pool
	hunters := sorted(pride, byEnergyDesc)
	for k, c := range hunters {
		if remaining <= 0 {
			break
		}
		left := len(hunters) - k
		share := (remaining + left - 1) / left
		gain := min(share, carvizMax-c.Energy)
		if gain <= 0 {
			continue
		}
		remaining -= gain
		h.Gains = append(h.Gains, Delta{ID: c.ID, Amount: gain})
	}
	return h
}

// SubPride is the part of a pride that arrived from one origin cell.
type SubPride struct {
	Origin  components.Cell
	Members []Member
}

// SplitByOrigin groups pride members by the cell they started the day in,
// ordered by size then origin.
func SplitByOrigin(pride []Member) []SubPride {
	var subs []SubPride
	index := make(map[components.Cell]int)
	for _, m := range pride {
		k, ok := index[m.Origin]
		if !ok {
			k = len(subs)
			index[m.Origin] = k
			subs = append(subs, SubPride{Origin: m.Origin})
		}
		subs[k].Members = append(subs[k].Members, m)
	}
	slices.SortStableFunc(subs, func(a, b SubPride) int {
		if c := cmp.Compare(len(a.Members), len(b.Members)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Origin.Row, b.Origin.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Origin.Col, b.Origin.Col)
	})
	return subs
}

// Rivalry is the outcome of sub-prides meeting on one cell.
type Rivalry struct {
	Hunters []Member // the pride left to hunt
	Losers  []uint64 // pay the rivalry cost and take no further part
	Winners []uint64 // gain the win bonus, once per fight won
	Joins   int
	Fights  int
}

// ResolveRivalry settles sub-prides pairwise, two smallest first. A pair
// whose mean social attitudes sum above the join threshold merges;
// otherwise each side wins with probability proportional to its energy.
func ResolveRivalry(subs []SubPride, s config.StruggleConfig, rng *rand.Rand) Rivalry {
	var r Rivalry
	if len(subs) == 0 {
		return r
	}
	pending := make([][]Member, len(subs))
	for k, sub := range subs {
		pending[k] = slices.Clone(sub.Members)
	}

	for len(pending) > 1 {
		a, b := pending[0], pending[1]
		rest := pending[2:]
		var survivor []Member

		if meanAttitude(a)+meanAttitude(b) > s.JoinAttitude {
			r.Joins++
			survivor = append(a, b...)
		} else {
			r.Fights++
			ea, eb := totalEnergy(a), totalEnergy(b)
			winner, loser := b, a
			if rng.IntN(ea+eb+2) <= ea {
				winner, loser = a, b
			}
			for _, m := range loser {
				r.Losers = append(r.Losers, m.ID)
			}
			for _, m := range winner {
				r.Winners = append(r.Winners, m.ID)
			}
			survivor = winner
		}

		pending = append([][]Member{survivor}, rest...)
		slices.SortStableFunc(pending, func(x, y []Member) int {
			return cmp.Compare(len(x), len(y))
		})
	}
	r.Hunters = pending[0]
	return r
}
