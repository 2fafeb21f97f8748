// Package components defines ECS components for the simulation.
package components

// Species distinguishes the two animal kinds.
type Species uint8

const (
	Erbast Species = iota // herbivore
	Carviz                // carnivore
)

// String returns the lower-case species name used in config and output.
func (s Species) String() string {
	switch s {
	case Erbast:
		return "erbast"
	case Carviz:
		return "carviz"
	}
	return "unknown"
}

// ParseSpecies maps a config name to a Species.
func ParseSpecies(name string) (Species, bool) {
	switch name {
	case "erbast":
		return Erbast, true
	case "carviz":
		return Carviz, true
	}
	return 0, false
}

// Animal holds an individual's persistent state.
type Animal struct {
	ID             uint64
	Species        Species
	Energy         int
	Lifetime       int
	Age            int
	SocialAttitude float64
}

// Cell is the back-reference to the cell hosting an individual.
// It is a lookup key only; the population index owns membership.
type Cell struct {
	Row, Col int
}

// Activity holds per-day flags, cleared at the end of every day.
type Activity struct {
	Moved   bool
	Fought  bool
	Newborn bool
	Doomed  bool
	// Origin is the cell the individual started the day in.
	Origin Cell
	// Cause records why a doomed individual will be removed.
	Cause DeathCause
}

// Busy reports whether the individual takes no further part in the day.
func (a Activity) Busy() bool {
	return a.Newborn || a.Doomed
}

// DeathCause classifies removals for statistics.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseAge
	CauseStarvation
	CausePredation
	CauseOverwhelmed
	CauseOvercrowded

	NumCauses = int(CauseOvercrowded) + 1
)

// String returns the cause name used in stats output.
func (c DeathCause) String() string {
	switch c {
	case CauseAge:
		return "age"
	case CauseStarvation:
		return "starvation"
	case CausePredation:
		return "predation"
	case CauseOverwhelmed:
		return "overwhelmed"
	case CauseOvercrowded:
		return "overcrowded"
	}
	return "none"
}
