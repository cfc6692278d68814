package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const ENV_PREFIX = "DRAGONBALL_"

// ApplyEnv overrides config with any DRAGONBALL_* environment variables
// that are set, e.g. DRAGONBALL_REDIS_ADDR.
func ApplyEnv(config *Config) error {
	err := env.ParseWithOptions(&config.Server, env.Options{
		Prefix: ENV_PREFIX,
	})
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
