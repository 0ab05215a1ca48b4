package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Contains(t, cfg.Paths.Source, "**/*.py")
	assert.Contains(t, cfg.Paths.Ignore, ".toon/**")
	assert.Equal(t, ".toon/digests", cfg.Output.Dir)
	assert.Equal(t, ".toon/toon.db", cfg.Output.StorePath)
	assert.Equal(t, 500, cfg.Watch.DebounceMillis)

	require.NoError(t, Validate(cfg))
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFromDir(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, Default().Paths.Source, cfg.Paths.Source)
	assert.Equal(t, Default().Output.Dir, cfg.Output.Dir)
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	configDir := filepath.Join(rootDir, ".toon")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	content := `paths:
  source:
    - "src/**/*.py"
  ignore:
    - "src/generated/**"
output:
  dir: "digests"
watch:
  debounce_ms: 250
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(content), 0644))

	cfg, err := LoadConfigFromDir(rootDir)

	require.NoError(t, err)
	assert.Equal(t, []string{"src/**/*.py"}, cfg.Paths.Source)
	assert.Equal(t, []string{"src/generated/**"}, cfg.Paths.Ignore)
	assert.Equal(t, "digests", cfg.Output.Dir)
	assert.Equal(t, 250, cfg.Watch.DebounceMillis)
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Output.StorePath, cfg.Output.StorePath)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	cfgPath := filepath.Join(rootDir, "custom.yml")
	yaml := "watch:\n" +
		"  debounce_ms: 125\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0644))

	cfg, err := NewLoaderWithFile(rootDir, cfgPath).Load()

	require.NoError(t, err)
	assert.Equal(t, 125, cfg.Watch.DebounceMillis)
	assert.Equal(t, Default().Output.Dir, cfg.Output.Dir)
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()

	_, err := NewLoaderWithFile(rootDir, filepath.Join(rootDir, "absent.yml")).Load()

	require.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	configDir := filepath.Join(rootDir, ".toon")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	content := `paths:
  source: []
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(content), 0644))

	_, err := LoadConfigFromDir(rootDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "paths.source")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"no source patterns", func(c *Config) { c.Paths.Source = nil }, "paths.source"},
		{"bad source glob", func(c *Config) { c.Paths.Source = []string{"[oops"} }, "invalid source pattern"},
		{"bad ignore glob", func(c *Config) { c.Paths.Ignore = []string{"[oops"} }, "invalid ignore pattern"},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }, "output.dir"},
		{"empty store path", func(c *Config) { c.Output.StorePath = "" }, "output.store_path"},
		{"zero debounce", func(c *Config) { c.Watch.DebounceMillis = 0 }, "watch.debounce_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
