package config

import (
	"fmt"
	"slices"
)

type LogConfig struct {
	Level string `koanf:"level"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

func (c *LogConfig) Validate() error {
	if c.Level == "" {
		c.Level = "info"
		return nil
	}
	if !slices.Contains(logLevels, c.Level) {
		return fmt.Errorf("unknown log level: %s", c.Level)
	}
	return nil
}
