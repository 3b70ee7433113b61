package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/wtlab/wtproj/internal/branding"
	"github.com/wtlab/wtproj/internal/logging"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known keys.
const (
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
	KeyLastProject = "project.last"
)

// Dir returns the path to the config directory (~/.wtproj/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.wtproj/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// WTPROJ_LOG_LEVEL overrides log.level, and so on.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFormat, "console")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Logging builds the logger configuration from log.level and log.format.
func Logging() (*logging.Config, error) {
	cfg := logging.NewDefaultConfig()

	level, err := logging.LevelFromString(Get(KeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", KeyLogLevel, err)
	}
	cfg.Level = level
	cfg.Format = Get(KeyLogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging settings: %w", err)
	}
	return cfg, nil
}
