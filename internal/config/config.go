// Package config loads dirsum settings from flags, environment and an optional file.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment variables, e.g. DIRSUM_OUTPUT.
	EnvPrefix = "dirsum"
	// FileName is the config file name searched for without extension.
	FileName = ".dirsum"
)

// Outputs lists the supported output formats.
//
//nolint:gochecknoglobals // Config constant
var Outputs = []string{"table", "json"}

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config stores all settings of a run.
type Config struct {
	// Output is the output format, table or json.
	Output string `mapstructure:"output"`
	// Top is the number of largest files to report.
	Top int `mapstructure:"top"`
	// Apparent reports logical file lengths instead of allocated sizes.
	Apparent bool `mapstructure:"apparent"`
	// Parallel walks the tree concurrently.
	Parallel bool `mapstructure:"parallel"`
	// Workers bounds concurrent bundle sizing (0=NumCPU).
	Workers int `mapstructure:"workers"`
	// Debug enables debug logging.
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", "table")
	v.SetDefault("top", 10)
	v.SetDefault("apparent", false)
	v.SetDefault("parallel", false)
	v.SetDefault("workers", 0)
	v.SetDefault("debug", false)
}

// Load reads the configuration into a Config.
// If path is empty, ".dirsum.yaml" is searched in the working and home directories;
// a missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	c.Output = strings.ToLower(c.Output)

	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("%w: output format %q must be one of %v", ErrInvalid, c.Output, Outputs)
	}

	if c.Top <= 0 {
		return fmt.Errorf("%w: top must be positive, got %d", ErrInvalid, c.Top)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative", ErrInvalid)
	}

	return nil
}
