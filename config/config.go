// Package config provides configuration loading for the simulation.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Seed       uint64           `yaml:"seed" env:"SEED"`
	World      WorldConfig      `yaml:"world" envPrefix:"WORLD_"`
	Vegetob    VegetobConfig    `yaml:"vegetob" envPrefix:"VEGETOB_"`
	Erbast     SpeciesConfig    `yaml:"erbast"`
	Carviz     SpeciesConfig    `yaml:"carviz"`
	Struggle   StruggleConfig   `yaml:"struggle" envPrefix:"STRUGGLE_"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envPrefix:"TELEMETRY_"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Screen     ScreenConfig     `yaml:"screen" envPrefix:"SCREEN_"`
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Contains reports whether v lies in the range.
func (r IntRange) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// FloatRange is an inclusive float range.
type FloatRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies in the range.
func (r FloatRange) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Clamp limits v to the range.
func (r FloatRange) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// WorldConfig holds grid dimensions and terrain generation.
type WorldConfig struct {
	Rows    int           `yaml:"rows" env:"ROWS"`
	Cols    int           `yaml:"cols" env:"COLS"`
	Terrain TerrainConfig `yaml:"terrain" envPrefix:"TERRAIN_"`
}

// Terrain generators.
const (
	GeneratorRandom  = "random"
	GeneratorSimplex = "simplex"
	GeneratorPerlin  = "perlin"
	GeneratorLayout  = "layout"
)

// TerrainConfig selects and parameterizes the water/ground generator.
type TerrainConfig struct {
	Generator      string   `yaml:"generator" env:"GENERATOR"`
	WaterProb      float64  `yaml:"water_prob" env:"WATER_PROB"`
	WaterBorder    bool     `yaml:"water_border" env:"WATER_BORDER"`
	NoiseScale     float64  `yaml:"noise_scale"`     // cells per noise unit
	NoiseThreshold float64  `yaml:"noise_threshold"` // noise below this is water
	Layout         []string `yaml:"layout"`          // '~' water, '.' or '#' ground
}

// VegetobConfig holds vegetation parameters.
type VegetobConfig struct {
	Initial      IntRange `yaml:"initial"`
	Growth       int      `yaml:"growth" env:"GROWTH"`
	Cap          int      `yaml:"cap" env:"CAP"`
	Overwhelming bool     `yaml:"overwhelming" env:"OVERWHELMING"`
}

// SpeciesConfig holds the parameters shared by Erbast and Carviz.
type SpeciesConfig struct {
	MaxEnergy      int        `yaml:"max_energy"`
	InitialEnergy  IntRange   `yaml:"initial_energy"`
	Lifetime       IntRange   `yaml:"lifetime"`
	SocialAttitude FloatRange `yaml:"social_attitude"`
	AgingInterval  int        `yaml:"aging_interval"` // days between aging energy losses
	AgingCost      int        `yaml:"aging_cost"`
	MaxGroup       int        `yaml:"max_group"`
	GrazeCap       int        `yaml:"graze_cap"` // Erbast only
	Hunger         float64    `yaml:"hunger"`    // social attitude divisor when unfed
	EatBonus       float64    `yaml:"eat_bonus"` // social attitude gained when fed

	Movement MovementConfig `yaml:"movement"`
	Spawn    SpawnConfig    `yaml:"spawn"`
}

// MovementConfig parameterizes target scoring and group movement.
// score(x) = food*density + prey*preyCount - predator*predatorCount - crowd*others (+ stay at origin)
type MovementConfig struct {
	Neighborhood     int     `yaml:"neighborhood"`
	Cost             int     `yaml:"cost"`
	FoodWeight       float64 `yaml:"food_weight"`
	PreyWeight       float64 `yaml:"prey_weight"`
	PredatorAversion float64 `yaml:"predator_aversion"`
	CrowdAversion    float64 `yaml:"crowd_aversion"`
	StayBonus        float64 `yaml:"stay_bonus"`
	GroupMajority    float64 `yaml:"group_majority"` // fraction of a group needed to pull the rest
	SoloAttitude     float64 `yaml:"solo_attitude"`  // below this an individual moves alone
}

// SpawnConfig holds reproduction thresholds.
type SpawnConfig struct {
	MinGroup          int `yaml:"min_group"`
	MinEnergy         int `yaml:"min_energy"`
	GroupPerOffspring int `yaml:"group_per_offspring"`
	OffspringEnergy   int `yaml:"offspring_energy"`
	MaxOffspring      int `yaml:"max_offspring"`
}

// StruggleConfig holds hunt and rivalry parameters.
type StruggleConfig struct {
	DominanceMargin float64 `yaml:"dominance_margin" env:"DOMINANCE_MARGIN"` // pride/herd strength ratio needed to kill
	KillStep        float64 `yaml:"kill_step"`                               // extra ratio per additional kill
	MaxKills        int     `yaml:"max_kills"`
	CountWeight     float64 `yaml:"count_weight"`
	Efficiency      float64 `yaml:"efficiency"` // fraction of prey energy transferred
	AttemptCost     int     `yaml:"attempt_cost"`
	Rivalry         bool    `yaml:"rivalry"`
	JoinAttitude    float64 `yaml:"join_attitude"`
	WinBonus        float64 `yaml:"win_bonus"`
	RivalryCost     int     `yaml:"rivalry_cost"`
}

// PopulationConfig describes the initial population.
type PopulationConfig struct {
	Herds      IntRange    `yaml:"herds"`
	HerdSize   IntRange    `yaml:"herd_size"`
	Prides     IntRange    `yaml:"prides"`
	PrideSize  IntRange    `yaml:"pride_size"`
	Placements []Placement `yaml:"placements"`
}

// Placement is an explicitly positioned initial individual.
type Placement struct {
	Species        string  `yaml:"species"` // "erbast" or "carviz"
	Row            int     `yaml:"row"`
	Col            int     `yaml:"col"`
	Energy         int     `yaml:"energy"`
	Lifetime       int     `yaml:"lifetime"`
	Age            int     `yaml:"age"`
	SocialAttitude float64 `yaml:"social_attitude"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window" env:"STATS_WINDOW"` // days per window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// ScreenConfig holds viewer window parameters.
type ScreenConfig struct {
	Width         int     `yaml:"width" env:"WIDTH"`
	Height        int     `yaml:"height" env:"HEIGHT"`
	TargetFPS     int     `yaml:"target_fps"`
	CellSize      float32 `yaml:"cell_size"`
	DaysPerSecond float64 `yaml:"days_per_second" env:"DAYS_PER_SECOND"` // play speed
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PreyCrashDrop        float64 `yaml:"prey_crash_drop"`
	PreyCrashMinLoss     int     `yaml:"prey_crash_min_loss"`
	PredatorRecoveryLow  int     `yaml:"predator_recovery_low"`
	PredatorRecoveryMult int     `yaml:"predator_recovery_mult"`
	StableMinPrey        int     `yaml:"stable_min_prey"`
	StableMinPred        int     `yaml:"stable_min_pred"`
	StableCV             float64 `yaml:"stable_cv"`
	StableWindows        int     `yaml:"stable_windows"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: parsing embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the embedded defaults and overlays the file at path, if any.
// Only fields present in the file are overwritten; unknown keys are rejected.
// The result is not validated; see Validate.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Overlay(cfg, data); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Overlay decodes YAML data over cfg.
func Overlay(cfg *Config, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.World.Terrain.Layout = append([]string(nil), c.World.Terrain.Layout...)
	out.Population.Placements = append([]Placement(nil), c.Population.Placements...)
	return &out
}

// Species returns the species parameters for name ("erbast" or "carviz").
func (c *Config) Species(name string) (*SpeciesConfig, bool) {
	switch name {
	case "erbast":
		return &c.Erbast, true
	case "carviz":
		return &c.Carviz, true
	}
	return nil, false
}

// WriteYAML saves the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
