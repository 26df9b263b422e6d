// Package config loads engine settings from defaults, a YAML file and
// TRAJSCOPE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shivanikabu/agentic-governance-suite/internal/scoring"
	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRAJSCOPE_"

// Config holds all engine settings.
type Config struct {
	AggregatorSource  string        `yaml:"aggregator_source"`
	GoalLength        float64       `yaml:"goal_length"`
	MaxLatencyFloor   float64       `yaml:"max_latency_floor"`
	MaxCostFloor      float64       `yaml:"max_cost_floor"`
	Weights           types.Weights `yaml:"weights"`
	HistoryPath       string        `yaml:"history_path"`
	HistoryWindow     int           `yaml:"history_window"`
	HistoryMinRuns    int           `yaml:"history_min_runs"`
	SigmaScale        float64       `yaml:"sigma_scale"`
	LogLevel          string        `yaml:"log_level"`
	MaxConcurrent     int           `yaml:"max_concurrent"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AggregatorSource:  scoring.DefaultConfig.AggregatorSource,
		GoalLength:        scoring.DefaultConfig.GoalLength,
		MaxLatencyFloor:   scoring.DefaultConfig.MaxLatencyFloor,
		MaxCostFloor:      scoring.DefaultConfig.MaxCostFloor,
		Weights:           types.DefaultWeights,
		HistoryWindow:     scoring.DefaultDynamicConfig.WindowSize,
		HistoryMinRuns:    scoring.DefaultDynamicConfig.MinRuns,
		SigmaScale:        scoring.DefaultDynamicConfig.SigmaScale,
		LogLevel:          "info",
		MaxConcurrent:     1,
		RequestsPerSecond: 0,
	}
}

// Load returns the defaults overlaid with the YAML file at path and then
// with environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML from %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from TRAJSCOPE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	float := func(key string, dst *float64) {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}

	str("AGGREGATOR_SOURCE", &c.AggregatorSource)
	float("GOAL_LENGTH", &c.GoalLength)
	float("MAX_LATENCY_FLOOR", &c.MaxLatencyFloor)
	float("MAX_COST_FLOOR", &c.MaxCostFloor)
	float("GOAL_WEIGHT", &c.Weights.Goal)
	float("COST_WEIGHT", &c.Weights.Cost)
	float("LATENCY_WEIGHT", &c.Weights.Latency)
	str("HISTORY_PATH", &c.HistoryPath)
	integer("HISTORY_WINDOW", &c.HistoryWindow)
	integer("HISTORY_MIN_RUNS", &c.HistoryMinRuns)
	float("SIGMA_SCALE", &c.SigmaScale)
	str("LOG_LEVEL", &c.LogLevel)
	integer("MAX_CONCURRENT", &c.MaxConcurrent)
	float("REQUESTS_PER_SECOND", &c.RequestsPerSecond)

	return errors.Join(errs...)
}

// Validate reports every setting that is out of range.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.AggregatorSource) == "" {
		errs = append(errs, errors.New("aggregator_source must not be empty"))
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"goal_length", c.GoalLength},
		{"max_latency_floor", c.MaxLatencyFloor},
		{"max_cost_floor", c.MaxCostFloor},
		{"sigma_scale", c.SigmaScale},
		{"requests_per_second", c.RequestsPerSecond},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			errs = append(errs, fmt.Errorf("%s must be a non-negative number, got %v", f.name, f.value))
		}
	}
	if c.GoalLength == 0 {
		errs = append(errs, errors.New("goal_length must be greater than 0"))
	}
	if _, err := scoring.CheckWeights(c.Weights); err != nil {
		errs = append(errs, err)
	}
	if c.HistoryWindow < 1 {
		errs = append(errs, fmt.Errorf("history_window must be at least 1, got %d", c.HistoryWindow))
	}
	if c.HistoryMinRuns < 0 {
		errs = append(errs, fmt.Errorf("history_min_runs must not be negative, got %d", c.HistoryMinRuns))
	}
	if c.MaxConcurrent < 1 {
		errs = append(errs, fmt.Errorf("max_concurrent must be at least 1, got %d", c.MaxConcurrent))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Scoring returns the scorer settings.
func (c *Config) Scoring() scoring.Config {
	return scoring.Config{
		AggregatorSource: c.AggregatorSource,
		GoalLength:       c.GoalLength,
		MaxLatencyFloor:  c.MaxLatencyFloor,
		MaxCostFloor:     c.MaxCostFloor,
	}
}

// Dynamic returns the history-based rating settings.
func (c *Config) Dynamic() scoring.DynamicConfig {
	return scoring.DynamicConfig{
		WindowSize: c.HistoryWindow,
		SigmaScale: c.SigmaScale,
		MinRuns:    c.HistoryMinRuns,
	}
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
