package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override, e.g. PLANISUSS_SEED or
// PLANISUSS_WORLD_ROWS.
const EnvPrefix = "PLANISUSS_"

// ApplyEnv overlays environment variables onto cfg. Unset variables leave
// the current values untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
