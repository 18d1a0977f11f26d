// Package config reads analyzer defaults from the environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/sirupsen/logrus"
)

// Config holds the defaults of the command-line flags. Flags given on the
// command line take precedence.
type Config struct {
	LogLevel      string `env:"GFXPROF_LOG_LEVEL" env-default:"warn" env-description:"logrus level"`
	Top           int    `env:"GFXPROF_TOP" env-default:"40" env-description:"rows in the flat profile"`
	BaselineDir   string `env:"GFXPROF_BASELINE_DIR" env-description:"baseline snapshot directory"`
	WorkgroupSize int64  `env:"GFXPROF_WORKGROUP_SIZE" env-default:"256" env-description:"threads per compute workgroup"`
}

// Load reads Config from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.Top <= 0 {
		return fmt.Errorf("top must be positive, got %d", c.Top)
	}
	if c.WorkgroupSize <= 0 {
		return fmt.Errorf("workgroup size must be positive, got %d", c.WorkgroupSize)
	}
	return nil
}

// NewLogger builds a logger at the named level. An unknown level falls back
// to warn.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	logger.SetLevel(lvl)
	return logger
}
