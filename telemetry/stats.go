package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/planisuss/components"
	"github.com/pthm-cable/planisuss/world"
)

// DayStats is one row of days.csv: the world stats after a single step.
type DayStats struct {
	Day          int     `csv:"day"`
	Erbast       int     `csv:"erbast"`
	Carviz       int     `csv:"carviz"`
	ErbastEnergy int     `csv:"erbast_energy"`
	CarvizEnergy int     `csv:"carviz_energy"`
	ErbastBirths int     `csv:"erbast_births"`
	CarvizBirths int     `csv:"carviz_births"`
	ErbastDeaths int     `csv:"erbast_deaths"`
	CarvizDeaths int     `csv:"carviz_deaths"`
	Kills        int     `csv:"kills"`
	Grazed       int     `csv:"grazed"`
	VegetobTotal int     `csv:"vegetob_total"`
	VegetobMean  float64 `csv:"vegetob_mean"`
	Herds        int     `csv:"herds"`
	Prides       int     `csv:"prides"`
	Starved      int     `csv:"starved"`
	Aged         int     `csv:"aged"`
}

// NewDayStats flattens world stats into a DayStats row.
func NewDayStats(s world.Stats) DayStats {
	return DayStats{
		Day:          s.Day,
		Erbast:       s.Erbast.Count,
		Carviz:       s.Carviz.Count,
		ErbastEnergy: s.Erbast.Energy,
		CarvizEnergy: s.Carviz.Energy,
		ErbastBirths: s.Erbast.Births,
		CarvizBirths: s.Carviz.Births,
		ErbastDeaths: s.Erbast.Deaths,
		CarvizDeaths: s.Carviz.Deaths,
		Kills:        s.Events.Kills,
		Grazed:       s.Events.Grazed,
		VegetobTotal: s.Vegetob.Total,
		VegetobMean:  s.Vegetob.Mean,
		Herds:        s.Erbast.Groups,
		Prides:       s.Carviz.Groups,
		Starved:      s.Erbast.DeathsBy[components.CauseStarvation] + s.Carviz.DeathsBy[components.CauseStarvation],
		Aged:         s.Erbast.DeathsBy[components.CauseAge] + s.Carviz.DeathsBy[components.CauseAge],
	}
}

// WindowStats holds aggregated statistics for a window of days.
type WindowStats struct {
	WindowStartDay int `csv:"-"`
	WindowEndDay   int `csv:"window_end"`

	// Population at window end
	ErbastCount int `csv:"erbast"`
	CarvizCount int `csv:"carviz"`
	HerdCount   int `csv:"herds"`
	PrideCount  int `csv:"prides"`

	// Events during window
	ErbastBirths int `csv:"erbast_births"`
	CarvizBirths int `csv:"carviz_births"`
	ErbastDeaths int `csv:"erbast_deaths"`
	CarvizDeaths int `csv:"carviz_deaths"`

	// Deaths by cause, both species
	DeathsAge         int `csv:"deaths_age"`
	DeathsStarvation  int `csv:"deaths_starvation"`
	DeathsPredation   int `csv:"deaths_predation"`
	DeathsOverwhelmed int `csv:"deaths_overwhelmed"`
	DeathsOvercrowded int `csv:"deaths_overcrowded"`

	// Hunting and rivalry
	Hunts       int     `csv:"hunts"`
	FailedHunts int     `csv:"failed_hunts"`
	Kills       int     `csv:"kills"`
	HuntRate    float64 `csv:"hunt_rate"` // successful hunts / hunts
	Rivalries   int     `csv:"rivalries"`
	Joins       int     `csv:"joins"`

	// Grazing
	Grazed int `csv:"grazed"`
	Hungry int `csv:"hungry"`

	// Energy distribution (sampled at window end)
	ErbastEnergyMean float64 `csv:"erbast_energy_mean"`
	ErbastEnergyStd  float64 `csv:"erbast_energy_std"`
	ErbastEnergyP10  float64 `csv:"erbast_energy_p10"`
	ErbastEnergyP50  float64 `csv:"erbast_energy_p50"`
	ErbastEnergyP90  float64 `csv:"erbast_energy_p90"`

	CarvizEnergyMean float64 `csv:"carviz_energy_mean"`
	CarvizEnergyStd  float64 `csv:"carviz_energy_std"`
	CarvizEnergyP10  float64 `csv:"carviz_energy_p10"`
	CarvizEnergyP50  float64 `csv:"carviz_energy_p50"`
	CarvizEnergyP90  float64 `csv:"carviz_energy_p90"`

	ErbastAttitude float64 `csv:"erbast_attitude"`
	CarvizAttitude float64 `csv:"carviz_attitude"`

	// Vegetob
	VegetobTotal int     `csv:"vegetob_total"`
	VegetobMean  float64 `csv:"vegetob_mean"`
	FullCells    int     `csv:"full_cells"`
}

// EnergyStats summarizes a set of energy values.
type EnergyStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile returns the empirical p-quantile of a sorted slice: the
// smallest value with at least a fraction p of samples at or below it.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeEnergyStats calculates mean, standard deviation and percentiles.
func ComputeEnergyStats(values []float64) EnergyStats {
	n := len(values)
	if n == 0 {
		return EnergyStats{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var es EnergyStats
	if n == 1 {
		es.Mean = sorted[0]
	} else {
		es.Mean, es.Std = stat.MeanStdDev(sorted, nil)
	}
	es.P10 = Percentile(sorted, 0.10)
	es.P50 = Percentile(sorted, 0.50)
	es.P90 = Percentile(sorted, 0.90)
	return es
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartDay),
		slog.Int("window_end", s.WindowEndDay),
		slog.Int("erbast", s.ErbastCount),
		slog.Int("carviz", s.CarvizCount),
		slog.Int("erbast_births", s.ErbastBirths),
		slog.Int("carviz_births", s.CarvizBirths),
		slog.Int("erbast_deaths", s.ErbastDeaths),
		slog.Int("carviz_deaths", s.CarvizDeaths),
		slog.Int("hunts", s.Hunts),
		slog.Int("kills", s.Kills),
		slog.Float64("hunt_rate", s.HuntRate),
		slog.Int("grazed", s.Grazed),
		slog.Float64("erbast_energy_mean", s.ErbastEnergyMean),
		slog.Float64("carviz_energy_mean", s.CarvizEnergyMean),
		slog.Int("vegetob_total", s.VegetobTotal),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndDay,
		"erbast", s.ErbastCount,
		"carviz", s.CarvizCount,
		"herds", s.HerdCount,
		"prides", s.PrideCount,
		"erbast_births", s.ErbastBirths,
		"carviz_births", s.CarvizBirths,
		"erbast_deaths", s.ErbastDeaths,
		"carviz_deaths", s.CarvizDeaths,
		"deaths_age", s.DeathsAge,
		"deaths_starvation", s.DeathsStarvation,
		"deaths_predation", s.DeathsPredation,
		"deaths_overwhelmed", s.DeathsOverwhelmed,
		"deaths_overcrowded", s.DeathsOvercrowded,
		"hunts", s.Hunts,
		"failed_hunts", s.FailedHunts,
		"kills", s.Kills,
		"hunt_rate", s.HuntRate,
		"rivalries", s.Rivalries,
		"joins", s.Joins,
		"grazed", s.Grazed,
		"hungry", s.Hungry,
		"erbast_energy_mean", s.ErbastEnergyMean,
		"erbast_energy_p50", s.ErbastEnergyP50,
		"carviz_energy_mean", s.CarvizEnergyMean,
		"carviz_energy_p50", s.CarvizEnergyP50,
		"vegetob_total", s.VegetobTotal,
		"vegetob_mean", s.VegetobMean,
	)
}
