// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries the environment-tunable settings of the core. The PBKDF2
// iteration count can only be raised above the built-in floor, never
// lowered.
type Config struct {
	DBPath           string        `envconfig:"DB_PATH" default:"walletd.db"`
	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"15m"`
	PBKDF2Iterations int           `envconfig:"PBKDF2_ITERATIONS" default:"600000"`
}

// LoadConfig reads WALLETD_* environment variables into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("walletd", &cfg); err != nil {
		return Config{}, fmt.Errorf("could not process config: %w", err)
	}
	if cfg.PBKDF2Iterations < MinPBKDF2Iterations {
		cfg.PBKDF2Iterations = MinPBKDF2Iterations
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	return cfg, nil
}
