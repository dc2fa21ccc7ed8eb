// Package config loads gantry settings from .gantry.yaml, GANTRY_* environment
// variables and command-line flags through viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	gantryerrors "github.com/abatilo/gantry/internal/errors"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores: storage.driver is read from GANTRY_STORAGE_DRIVER.
const EnvPrefix = "GANTRY"

// StorageConfig selects the task backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	JSON  bool `mapstructure:"json"`
	Color bool `mapstructure:"color"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// WatchConfig tunes the file watcher.
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

// Config holds all runtime configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Output  OutputConfig  `mapstructure:"output"`
	Log     LogConfig     `mapstructure:"log"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// Init points viper at the config file and environment. An explicit cfgFile
// must exist; otherwise .gantry.yaml is looked up in the working directory
// and then the home directory, and its absence is not an error.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".gantry")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !(cfgFile == "" && errors.As(err, &notFound)) {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, and validates it.
func Load() (Config, error) {
	viper.SetDefault("storage.driver", "markdown")
	viper.SetDefault("storage.path", "")
	viper.SetDefault("output.json", false)
	viper.SetDefault("output.color", true)
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("watch.debounce_ms", 300)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and ranged values.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "markdown", "sqlite":
	default:
		return gantryerrors.UnknownDriverError{Driver: c.Storage.Driver}
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Watch.DebounceMS <= 0 {
		return fmt.Errorf("invalid watch.debounce_ms: %d (must be positive)", c.Watch.DebounceMS)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	return level, nil
}

// Debounce returns the watcher's quiet period.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
