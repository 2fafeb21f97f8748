package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.World.Rows != 50 || cfg.World.Cols != 50 {
		t.Errorf("grid = %dx%d, want 50x50", cfg.World.Rows, cfg.World.Cols)
	}
	if cfg.Vegetob.Cap != 100 {
		t.Errorf("vegetob cap = %d, want 100", cfg.Vegetob.Cap)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	data := "seed: 7\nworld:\n  rows: 12\nvegetob:\n  growth: 4\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 7 {
		t.Errorf("seed = %d, want 7", cfg.Seed)
	}
	if cfg.World.Rows != 12 {
		t.Errorf("rows = %d, want 12", cfg.World.Rows)
	}
	if cfg.World.Cols != 50 {
		t.Errorf("cols = %d, want default 50", cfg.World.Cols)
	}
	if cfg.Vegetob.Growth != 4 {
		t.Errorf("growth = %d, want 4", cfg.Vegetob.Growth)
	}
	if cfg.Vegetob.Cap != 100 {
		t.Errorf("cap = %d, want default 100", cfg.Vegetob.Cap)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("wrold:\n  rows: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Seed = 99
	cfg.Struggle.DominanceMargin = 2.5
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Seed != 99 || got.Struggle.DominanceMargin != 2.5 {
		t.Errorf("round trip lost values: seed=%d margin=%g", got.Seed, got.Struggle.DominanceMargin)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative growth", func(c *Config) { c.Vegetob.Growth = -1 }, "vegetob.growth"},
		{"zero rows", func(c *Config) { c.World.Rows = 0 }, "world: dimensions"},
		{"cap above 100", func(c *Config) { c.Vegetob.Cap = 101 }, "vegetob.cap"},
		{"lifetime min > max", func(c *Config) { c.Erbast.Lifetime = IntRange{Min: 50, Max: 10} }, "erbast.lifetime"},
		{"social attitude min > max", func(c *Config) { c.Carviz.SocialAttitude = FloatRange{Min: 1, Max: 0} }, "carviz.social_attitude"},
		{"initial energy above max", func(c *Config) { c.Carviz.InitialEnergy.Max = 500 }, "carviz.initial_energy"},
		{"water prob", func(c *Config) { c.World.Terrain.WaterProb = 1.5 }, "water_prob"},
		{"unknown generator", func(c *Config) { c.World.Terrain.Generator = "fractal" }, "unknown generator"},
		{"layout shape", func(c *Config) {
			c.World.Terrain.Generator = GeneratorLayout
			c.World.Terrain.Layout = []string{"..."}
		}, "layout"},
		{"zero margin", func(c *Config) { c.Struggle.DominanceMargin = 0 }, "dominance_margin"},
		{"solo attitude above range", func(c *Config) { c.Erbast.Movement.SoloAttitude = 1.5 }, "erbast.movement.solo_attitude"},
		{"solo attitude below range", func(c *Config) {
			c.Carviz.SocialAttitude = FloatRange{Min: 0.2, Max: 1}
			c.Carviz.Movement.SoloAttitude = 0.1
		}, "carviz.movement.solo_attitude"},
		{"negative join attitude", func(c *Config) { c.Struggle.JoinAttitude = -0.5 }, "struggle.join_attitude"},
		{"placement species", func(c *Config) {
			c.Population.Placements = []Placement{{Species: "wolf", Energy: 1, Lifetime: 1}}
		}, "unknown species"},
		{"placement bounds", func(c *Config) {
			c.Population.Placements = []Placement{{Species: "erbast", Row: 99, Energy: 10, Lifetime: 5}}
		}, "out of bounds"},
		{"placement age", func(c *Config) {
			c.Population.Placements = []Placement{{Species: "erbast", Energy: 10, Lifetime: 5, Age: 5}}
		}, "age"},
		{"zero cell size", func(c *Config) { c.Screen.CellSize = 0 }, "screen.cell_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not match ErrInvalid", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not *ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Vegetob.Growth = -1
	cfg.World.Cols = -3
	var verr *ValidationError
	if !errors.As(cfg.Validate(), &verr) {
		t.Fatal("expected *ValidationError")
	}
	if len(verr.Problems) < 2 {
		t.Errorf("problems = %v, want at least 2", verr.Problems)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PLANISUSS_SEED", "1234")
	t.Setenv("PLANISUSS_WORLD_ROWS", "20")
	t.Setenv("PLANISUSS_WORLD_TERRAIN_GENERATOR", "perlin")
	t.Setenv("PLANISUSS_VEGETOB_GROWTH", "3")

	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Seed != 1234 {
		t.Errorf("seed = %d, want 1234", cfg.Seed)
	}
	if cfg.World.Rows != 20 {
		t.Errorf("rows = %d, want 20", cfg.World.Rows)
	}
	if cfg.World.Cols != 50 {
		t.Errorf("cols = %d, want untouched 50", cfg.World.Cols)
	}
	if cfg.World.Terrain.Generator != GeneratorPerlin {
		t.Errorf("generator = %q, want perlin", cfg.World.Terrain.Generator)
	}
	if cfg.Vegetob.Growth != 3 {
		t.Errorf("growth = %d, want 3", cfg.Vegetob.Growth)
	}
}

func TestApplyEnvError(t *testing.T) {
	t.Setenv("PLANISUSS_SEED", "not-a-number")
	err := ApplyEnv(Default())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("expected parse env prefix, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Default()
	cfg.Population.Placements = []Placement{{Species: "erbast", Energy: 5, Lifetime: 5}}
	cp := cfg.Clone()
	cp.Population.Placements[0].Energy = 50
	if cfg.Population.Placements[0].Energy != 5 {
		t.Error("Clone shares placements with the original")
	}
}
