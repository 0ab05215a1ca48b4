package config

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Config represents the complete toon configuration.
// It can be loaded from .toon/config.yml with environment variable overrides.
type Config struct {
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
}

// PathsConfig defines which files to digest and which to ignore.
type PathsConfig struct {
	Source []string `yaml:"source" mapstructure:"source"` // glob patterns for python sources
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// OutputConfig defines where digests and the store live, relative to the
// project root.
type OutputConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`               // digest output directory
	StorePath string `yaml:"store_path" mapstructure:"store_path"` // sqlite digest store
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before re-digesting
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Source: []string{
				"**/*.py",
			},
			Ignore: []string{
				".git/**",
				".toon/**",
				"__pycache__/**",
				".venv/**",
				"venv/**",
				"node_modules/**",
				"*.pyc",
			},
		},
		Output: OutputConfig{
			Dir:       ".toon/digests",
			StorePath: ".toon/toon.db",
		},
		Watch: WatchConfig{
			DebounceMillis: 500,
		},
	}
}

// Validate checks that the configuration is usable: at least one source
// pattern, and every pattern compiles as a glob.
func Validate(cfg *Config) error {
	if len(cfg.Paths.Source) == 0 {
		return fmt.Errorf("paths.source must contain at least one pattern")
	}
	for _, pattern := range cfg.Paths.Source {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("invalid source pattern %q: %w", pattern, err)
		}
	}
	for _, pattern := range cfg.Paths.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
	}
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if cfg.Output.StorePath == "" {
		return fmt.Errorf("output.store_path must not be empty")
	}
	if cfg.Watch.DebounceMillis <= 0 {
		return fmt.Errorf("watch.debounce_ms must be positive")
	}
	return nil
}
