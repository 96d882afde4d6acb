package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"sensorfuse/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig
	Pipeline PipelineConfig
}

// PathConfig holds file system paths
type PathConfig struct {
	InputDir  string
	OutputDir string
}

// PipelineConfig holds the alignment/aggregation settings
type PipelineConfig struct {
	// TargetChannel anchors the valid-range trim.
	TargetChannel string

	// Intervals are the fixed aggregation widths, one output table each.
	Intervals []time.Duration

	// CoordinateChannels hold degrees-minutes strings instead of plain
	// numbers and are converted to decimal degrees on load.
	CoordinateChannels []string

	// WriteExcel additionally exports all emitted tables into one
	// .xlsx workbook.
	WriteExcel bool

	// GzipOutput compresses the emitted CSV files.
	GzipOutput bool

	// WriteDense additionally exports the aligned table as a dense
	// feature matrix with every incomplete row dropped.
	WriteDense bool

	// ShowStats prints per-column diagnostics for the aligned table
	// and each aggregate.
	ShowStats bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Paths: PathConfig{
			InputDir:  getEnvOrDefault("INPUT_DIR", "raw_data"),
			OutputDir: getEnvOrDefault("OUTPUT_DIR", "data"),
		},
		Pipeline: PipelineConfig{
			TargetChannel:      os.Getenv("TARGET_CHANNEL"),
			CoordinateChannels: getEnvListOrDefault("COORDINATE_CHANNELS", nil),
			WriteExcel:         getEnvBoolOrDefault("WRITE_EXCEL", false),
			GzipOutput:         getEnvBoolOrDefault("GZIP_OUTPUT", false),
			WriteDense:         getEnvBoolOrDefault("WRITE_DENSE", false),
			ShowStats:          getEnvBoolOrDefault("SHOW_STATS", false),
		},
	}

	intervals, err := parseIntervals(getEnvOrDefault("AGGREGATION_INTERVALS", "3m,10m"))
	if err != nil {
		return nil, err
	}
	config.Pipeline.Intervals = intervals

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Paths.InputDir == "" {
		return errors.ConfigInvalid("INPUT_DIR is required")
	}
	if config.Paths.OutputDir == "" {
		return errors.ConfigInvalid("OUTPUT_DIR is required")
	}
	if config.Pipeline.TargetChannel == "" {
		return errors.ConfigInvalid("TARGET_CHANNEL is required")
	}
	for _, iv := range config.Pipeline.Intervals {
		if iv <= 0 {
			return errors.ConfigInvalid("aggregation intervals must be positive")
		}
	}
	return nil
}

// parseIntervals reads a comma-separated duration list like "3m,10m".
func parseIntervals(raw string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := time.ParseDuration(part)
		if err != nil {
			return nil, errors.ConfigInvalid("bad aggregation interval " + strconv.Quote(part))
		}
		out = append(out, d)
	}
	return out, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
