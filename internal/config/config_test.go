package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8point", cfg.Estimator.Method)
	assert.InDelta(t, 1e-8, cfg.Estimator.Eps, 0)
	assert.True(t, cfg.Estimator.SelectBest)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 6, cfg.Output.Precision)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0, cfg.Batch.Workers)

	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default is valid",
			mutate: func(c *Config) {},
		},
		{
			name:   "seven point method",
			mutate: func(c *Config) { c.Estimator.Method = "7point" },
		},
		{
			name:   "method is case insensitive",
			mutate: func(c *Config) { c.Estimator.Method = "8POINT" },
		},
		{
			name:    "unknown method",
			mutate:  func(c *Config) { c.Estimator.Method = "ransac" },
			wantErr: "invalid estimator method",
		},
		{
			name:    "non-positive eps",
			mutate:  func(c *Config) { c.Estimator.Eps = 0 },
			wantErr: "eps must be positive",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "invalid log level",
		},
		{
			name:    "bad output format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: "invalid output format",
		},
		{
			name:    "precision out of range",
			mutate:  func(c *Config) { c.Output.Precision = 30 },
			wantErr: "precision must be in",
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "port must be in",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port must be in",
		},
		{
			name:    "zero max body",
			mutate:  func(c *Config) { c.Server.MaxBodyMB = 0 },
			wantErr: "max body size",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.TimeoutSec = 0 },
			wantErr: "timeout",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Batch.Workers = -1 },
			wantErr: "workers must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoaderDefaults(t *testing.T) {
	loader := NewIsolatedLoader()

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoaderWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "epipolar.yaml")
	content := `
log-level: debug
estimator:
  method: 7point
  select-best: false
output:
  format: json
  precision: 9
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loader := NewIsolatedLoader()
	cfg, err := loader.LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "7point", cfg.Estimator.Method)
	assert.False(t, cfg.Estimator.SelectBest)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 9, cfg.Output.Precision)
	assert.Equal(t, 9090, cfg.Server.Port)

	// Untouched values keep their defaults.
	assert.InDelta(t, 1e-8, cfg.Estimator.Eps, 0)
	assert.Equal(t, "localhost", cfg.Server.Host)

	assert.Equal(t, path, loader.GetConfigFileUsed())
}

func TestLoaderWithFileMissing(t *testing.T) {
	loader := NewIsolatedLoader()
	_, err := loader.LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoaderWithFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "epipolar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("estimator:\n  method: bogus\n"), 0o644))

	loader := NewIsolatedLoader()
	_, err := loader.LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	// Without validation the bad value is still readable.
	loader = NewIsolatedLoader()
	cfg, err := loader.LoadWithFileWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, "bogus", cfg.Estimator.Method)
}

func TestLoaderEnvironmentOverride(t *testing.T) {
	t.Setenv("EPIPOLAR_ESTIMATOR_METHOD", "7point")
	t.Setenv("EPIPOLAR_SERVER_PORT", "9191")

	loader := NewIsolatedLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "7point", cfg.Estimator.Method)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoaderSetOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "epipolar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: json\n"), 0o644))

	loader := NewIsolatedLoader()
	loader.Set("output.format", "csv")
	cfg, err := loader.LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Output.Format)
}
