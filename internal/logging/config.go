package logging

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level  zapcore.Level `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	// Name is attached to every entry as the logger name. Empty means unnamed.
	Name string `mapstructure:"name"`
}

// NewDefaultConfig returns the CLI defaults: info level, console encoding.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  zapcore.InfoLevel,
		Format: "console",
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if c.Level < TraceLevel || c.Level > zapcore.FatalLevel {
		return fmt.Errorf("level out of range: %d", c.Level)
	}
	return nil
}
