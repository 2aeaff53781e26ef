package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/mabhi256/vgdiag/internal/report"
)

const DefaultFileName = "vgdiag.yaml"

var (
	OutputFormats = []string{"cli", "plain", "tui", "json"}
	LogLevels     = []string{"debug", "info", "warn", "error"}
)

// Config holds all vgdiag configuration.
type Config struct {
	Report  ReportConfig  `yaml:"report"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ReportConfig bounds the ranked report sections.
type ReportConfig struct {
	TopFiles              int      `yaml:"top_files"`
	TopFunctions          int      `yaml:"top_functions"`
	TopLeaks              int      `yaml:"top_leaks"`
	TopUninit             int      `yaml:"top_uninit"`
	TopContexts           int      `yaml:"top_contexts"`
	UninitFixThreshold    int      `yaml:"uninit_fix_threshold"`
	LeakBytesThreshold    int64    `yaml:"leak_bytes_threshold"`
	UnsafeStringFunctions []string `yaml:"unsafe_string_functions"`
}

type OutputConfig struct {
	Format string `yaml:"format"` // cli, plain, tui, json
	Save   bool   `yaml:"save"`   // write <input>_summary.txt next to the input
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // optional rotated JSON log, empty disables it
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	opts := report.DefaultOptions()
	return &Config{
		Report: ReportConfig{
			TopFiles:              opts.TopFiles,
			TopFunctions:          opts.TopFunctions,
			TopLeaks:              opts.TopLeaks,
			TopUninit:             opts.TopUninit,
			TopContexts:           opts.TopContexts,
			UninitFixThreshold:    opts.UninitFixThreshold,
			LeakBytesThreshold:    opts.LeakBytesThreshold,
			UnsafeStringFunctions: opts.UnsafeStringFunctions,
		},
		Output: OutputConfig{
			Format: "cli",
			Save:   true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path. An empty path falls back to
// vgdiag.yaml in the working directory, and a missing default file gives
// the defaults. Fields left out of the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file, use defaults
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("VGDIAG_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("VGDIAG_OUTPUT"); format != "" {
		c.Output.Format = format
	}
}

func (c *Config) Validate() error {
	limits := []struct {
		name  string
		value int
	}{
		{"top_files", c.Report.TopFiles},
		{"top_functions", c.Report.TopFunctions},
		{"top_leaks", c.Report.TopLeaks},
		{"top_uninit", c.Report.TopUninit},
		{"top_contexts", c.Report.TopContexts},
		{"uninit_fix_threshold", c.Report.UninitFixThreshold},
	}
	for _, limit := range limits {
		if limit.value < 0 {
			return fmt.Errorf("report.%s must not be negative, got %d", limit.name, limit.value)
		}
	}
	if c.Report.LeakBytesThreshold < 0 {
		return fmt.Errorf("report.leak_bytes_threshold must not be negative, got %d", c.Report.LeakBytesThreshold)
	}

	if !slices.Contains(OutputFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s. Valid options: %v", c.Output.Format, OutputFormats)
	}
	if !slices.Contains(LogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s. Valid options: %v", c.Logging.Level, LogLevels)
	}
	return nil
}

// ReportOptions converts the report section into renderer options.
func (c *Config) ReportOptions() report.Options {
	return report.Options{
		TopFiles:              c.Report.TopFiles,
		TopFunctions:          c.Report.TopFunctions,
		TopLeaks:              c.Report.TopLeaks,
		TopUninit:             c.Report.TopUninit,
		TopContexts:           c.Report.TopContexts,
		UninitFixThreshold:    c.Report.UninitFixThreshold,
		LeakBytesThreshold:    c.Report.LeakBytesThreshold,
		UnsafeStringFunctions: slices.Clone(c.Report.UnsafeStringFunctions),
	}
}
