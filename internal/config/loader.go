package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name of the config file (without extension).
	ConfigFileName = "epipolar"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "EPIPOLAR"
)

// Loader wraps viper to load configuration with a fixed precedence:
// defaults, then config file, then environment, then explicit Set calls.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance so cobra flag
// bindings done elsewhere are visible to it.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewIsolatedLoader creates a loader with its own viper instance. Used in
// tests to avoid leaking state through the global instance.
func NewIsolatedLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load reads configuration from all sources and validates the result.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.LoadWithoutValidation()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithoutValidation reads configuration without validating it.
func (l *Loader) LoadWithoutValidation() (*Config, error) {
	l.setDefaults()
	l.setupEnvironmentVariables()

	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Missing config file is fine, defaults apply.
	}

	return l.unmarshal()
}

// LoadWithFile reads configuration from an explicit file path and validates
// the result. The file must exist.
func (l *Loader) LoadWithFile(path string) (*Config, error) {
	cfg, err := l.LoadWithFileWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithFileWithoutValidation reads configuration from an explicit file
// path without validating it.
func (l *Loader) LoadWithFileWithoutValidation(path string) (*Config, error) {
	l.setDefaults()
	l.setupEnvironmentVariables()

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return l.unmarshal()
}

// Set overrides a configuration value. Highest precedence.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// GetString returns a single configuration value as a string.
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// GetConfigFileUsed returns the path of the config file that was read, or
// an empty string when defaults were used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper exposes the underlying viper instance for flag binding.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "epipolar"))
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		l.v.AddConfigPath(filepath.Join(xdg, "epipolar"))
	}

	l.v.AddConfigPath("/etc/epipolar")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	def := DefaultConfig()

	l.v.SetDefault("log-level", def.LogLevel)
	l.v.SetDefault("verbose", def.Verbose)

	l.v.SetDefault("estimator.method", def.Estimator.Method)
	l.v.SetDefault("estimator.eps", def.Estimator.Eps)
	l.v.SetDefault("estimator.select-best", def.Estimator.SelectBest)

	l.v.SetDefault("output.format", def.Output.Format)
	l.v.SetDefault("output.file", def.Output.File)
	l.v.SetDefault("output.precision", def.Output.Precision)

	l.v.SetDefault("server.host", def.Server.Host)
	l.v.SetDefault("server.port", def.Server.Port)
	l.v.SetDefault("server.cors-origin", def.Server.CORSOrigin)
	l.v.SetDefault("server.max-body-mb", def.Server.MaxBodyMB)
	l.v.SetDefault("server.timeout-sec", def.Server.TimeoutSec)

	l.v.SetDefault("batch.workers", def.Batch.Workers)
	l.v.SetDefault("batch.recursive", def.Batch.Recursive)
	l.v.SetDefault("batch.include-patterns", def.Batch.IncludePatterns)
	l.v.SetDefault("batch.exclude-patterns", def.Batch.ExcludePatterns)
	l.v.SetDefault("batch.quiet", def.Batch.Quiet)
	l.v.SetDefault("batch.show-stats", def.Batch.ShowStats)
}
