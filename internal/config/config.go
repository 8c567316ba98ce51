package config

import (
	"fmt"
	"strings"
)

// Config holds the runtime configuration for all commands. Values can come
// from a config file, environment variables or command-line flags, in
// increasing order of precedence.
type Config struct {
	LogLevel string `mapstructure:"log-level" yaml:"log-level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Estimator EstimatorConfig `mapstructure:"estimator" yaml:"estimator" json:"estimator"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output" json:"output"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server" json:"server"`
	Batch     BatchConfig     `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// EstimatorConfig selects and tunes the fundamental matrix estimator.
type EstimatorConfig struct {
	Method     string  `mapstructure:"method" yaml:"method" json:"method"`
	Eps        float64 `mapstructure:"eps" yaml:"eps" json:"eps"`
	SelectBest bool    `mapstructure:"select-best" yaml:"select-best" json:"select_best"`
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	Format    string `mapstructure:"format" yaml:"format" json:"format"`
	File      string `mapstructure:"file" yaml:"file" json:"file"`
	Precision int    `mapstructure:"precision" yaml:"precision" json:"precision"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host       string `mapstructure:"host" yaml:"host" json:"host"`
	Port       int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin string `mapstructure:"cors-origin" yaml:"cors-origin" json:"cors_origin"`
	MaxBodyMB  int    `mapstructure:"max-body-mb" yaml:"max-body-mb" json:"max_body_mb"`
	TimeoutSec int    `mapstructure:"timeout-sec" yaml:"timeout-sec" json:"timeout_sec"`
}

// BatchConfig configures directory batch processing.
type BatchConfig struct {
	Workers         int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	IncludePatterns []string `mapstructure:"include-patterns" yaml:"include-patterns" json:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude-patterns" yaml:"exclude-patterns" json:"exclude_patterns"`
	Quiet           bool     `mapstructure:"quiet" yaml:"quiet" json:"quiet"`
	ShowStats       bool     `mapstructure:"show-stats" yaml:"show-stats" json:"show_stats"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Estimator: EstimatorConfig{
			Method:     "8point",
			Eps:        1e-8,
			SelectBest: true,
		},
		Output: OutputConfig{
			Format:    "text",
			File:      "",
			Precision: 6,
		},
		Server: ServerConfig{
			Host:       "localhost",
			Port:       8080,
			CORSOrigin: "*",
			MaxBodyMB:  10,
			TimeoutSec: 30,
		},
		Batch: BatchConfig{
			Workers:         0,
			Recursive:       false,
			IncludePatterns: []string{"*.yaml", "*.yml", "*.json"},
			ExcludePatterns: nil,
			Quiet:           false,
			ShowStats:       true,
		},
	}
}

var (
	validMethods   = []string{"7point", "8point"}
	validFormats   = []string{"text", "json", "csv"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate checks the configuration for values that would make a command
// fail later in a less obvious way.
func (c *Config) Validate() error {
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level %q (valid: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !contains(validMethods, strings.ToLower(c.Estimator.Method)) {
		return fmt.Errorf("invalid estimator method %q (valid: %s)", c.Estimator.Method, strings.Join(validMethods, ", "))
	}
	if c.Estimator.Eps <= 0 {
		return fmt.Errorf("estimator eps must be positive, got %g", c.Estimator.Eps)
	}
	if !contains(validFormats, strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("invalid output format %q (valid: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}
	if c.Output.Precision < 0 || c.Output.Precision > 17 {
		return fmt.Errorf("output precision must be in [0, 17], got %d", c.Output.Precision)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.MaxBodyMB < 1 {
		return fmt.Errorf("server max body size must be at least 1 MB, got %d", c.Server.MaxBodyMB)
	}
	if c.Server.TimeoutSec < 1 {
		return fmt.Errorf("server timeout must be at least 1 second, got %d", c.Server.TimeoutSec)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch workers must be non-negative, got %d", c.Batch.Workers)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
