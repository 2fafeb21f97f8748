package telemetry

import (
	"github.com/pthm-cable/planisuss/components"
	"github.com/pthm-cable/planisuss/world"
)

// Collector accumulates per-day events within windows of days and produces
// WindowStats.
type Collector struct {
	windowDays int

	// Current window tracking
	windowStartDay int

	// Event counters for current window
	births      [2]int
	deaths      [2]int
	deathsBy    [components.NumCauses]int
	hunts       int
	failedHunts int
	kills       int
	rivalries   int
	joins       int
	grazed      int
	hungry      int
}

// NewCollector creates a collector flushing every windowDays days.
func NewCollector(windowDays int) *Collector {
	if windowDays < 1 {
		windowDays = 1
	}
	return &Collector{windowDays: windowDays}
}

// Record adds the events of one completed day.
func (c *Collector) Record(s world.Stats) {
	c.births[components.Erbast] += s.Erbast.Births
	c.births[components.Carviz] += s.Carviz.Births
	c.deaths[components.Erbast] += s.Erbast.Deaths
	c.deaths[components.Carviz] += s.Carviz.Deaths
	for cause := range c.deathsBy {
		c.deathsBy[cause] += s.Erbast.DeathsBy[cause] + s.Carviz.DeathsBy[cause]
	}
	c.hunts += s.Events.Hunts
	c.failedHunts += s.Events.FailedHunts
	c.kills += s.Events.Kills
	c.rivalries += s.Events.Rivalries
	c.joins += s.Events.Joins
	c.grazed += s.Events.Grazed
	c.hungry += s.Events.Hungry
}

// ShouldFlush returns true if enough days have passed to flush the window.
func (c *Collector) ShouldFlush(day int) bool {
	return day-c.windowStartDay >= c.windowDays
}

// Flush produces a WindowStats from the counters and the end-of-window
// snapshot, then resets counters for the next window.
func (c *Collector) Flush(snap *world.Snapshot) WindowStats {
	var erbastEnergy, carvizEnergy []float64
	for i := range snap.Cells {
		for _, ind := range snap.Cells[i].Herd {
			erbastEnergy = append(erbastEnergy, float64(ind.Energy))
		}
		for _, ind := range snap.Cells[i].Pride {
			carvizEnergy = append(carvizEnergy, float64(ind.Energy))
		}
	}
	erbast := ComputeEnergyStats(erbastEnergy)
	carviz := ComputeEnergyStats(carvizEnergy)

	var huntRate float64
	if c.hunts > 0 {
		huntRate = float64(c.hunts-c.failedHunts) / float64(c.hunts)
	}

	st := snap.Stats
	stats := WindowStats{
		WindowStartDay: c.windowStartDay,
		WindowEndDay:   snap.Day,

		ErbastCount: st.Erbast.Count,
		CarvizCount: st.Carviz.Count,
		HerdCount:   st.Erbast.Groups,
		PrideCount:  st.Carviz.Groups,

		ErbastBirths: c.births[components.Erbast],
		CarvizBirths: c.births[components.Carviz],
		ErbastDeaths: c.deaths[components.Erbast],
		CarvizDeaths: c.deaths[components.Carviz],

		DeathsAge:         c.deathsBy[components.CauseAge],
		DeathsStarvation:  c.deathsBy[components.CauseStarvation],
		DeathsPredation:   c.deathsBy[components.CausePredation],
		DeathsOverwhelmed: c.deathsBy[components.CauseOverwhelmed],
		DeathsOvercrowded: c.deathsBy[components.CauseOvercrowded],

		Hunts:       c.hunts,
		FailedHunts: c.failedHunts,
		Kills:       c.kills,
		HuntRate:    huntRate,
		Rivalries:   c.rivalries,
		Joins:       c.joins,

		Grazed: c.grazed,
		Hungry: c.hungry,

		ErbastEnergyMean: erbast.Mean,
		ErbastEnergyStd:  erbast.Std,
		ErbastEnergyP10:  erbast.P10,
		ErbastEnergyP50:  erbast.P50,
		ErbastEnergyP90:  erbast.P90,

		CarvizEnergyMean: carviz.Mean,
		CarvizEnergyStd:  carviz.Std,
		CarvizEnergyP10:  carviz.P10,
		CarvizEnergyP50:  carviz.P50,
		CarvizEnergyP90:  carviz.P90,

		ErbastAttitude: st.Erbast.MeanSocialAttitude,
		CarvizAttitude: st.Carviz.MeanSocialAttitude,

		VegetobTotal: st.Vegetob.Total,
		VegetobMean:  st.Vegetob.Mean,
		FullCells:    st.Vegetob.FullCells,
	}

	// Reset for next window
	*c = Collector{windowDays: c.windowDays, windowStartDay: snap.Day}
	return stats
}

// WindowDays returns the number of days per window.
func (c *Collector) WindowDays() int {
	return c.windowDays
}
