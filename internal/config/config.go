// Package config loads the YAML configuration of the curvefit command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/born-ml/curvefit/internal/crossval"
	"github.com/born-ml/curvefit/internal/fitting"
	"github.com/born-ml/curvefit/internal/parallel"
	"gopkg.in/yaml.v3"
)

// ErrInvalid indicates a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete configuration.
type Config struct {
	Log      LogConfig           `yaml:"log"`
	Parallel parallel.Config     `yaml:"parallel"`
	Fit      fitting.Settings    `yaml:"fit"`
	Verify   crossval.Tolerances `yaml:"verify"`
	Bench    BenchConfig         `yaml:"bench"`
	Metrics  MetricsConfig       `yaml:"metrics"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// BenchConfig configures the evaluation benchmark.
type BenchConfig struct {
	Points  int           `yaml:"points"`  // Samples per evaluation.
	Repeats int           `yaml:"repeats"` // Evaluations per parameter set.
	Budget  time.Duration `yaml:"budget"`  // Wall-clock limit; zero disables the check.
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // Listen address of /metrics; empty disables it.
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:      LogConfig{Level: "info", Format: "text"},
		Parallel: parallel.DefaultConfig(),
		Fit:      fitting.DefaultSettings(),
		Verify:   crossval.DefaultTolerances(),
		Bench:    BenchConfig{Points: 501, Repeats: 40, Budget: 30 * time.Second},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Write encodes cfg as YAML.
func (c Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	if c.Parallel.NumWorkers < 0 {
		errs = append(errs, fmt.Errorf("parallel.num_workers %d: must not be negative", c.Parallel.NumWorkers))
	}
	if c.Fit.Iterations < 0 {
		errs = append(errs, fmt.Errorf("fit.iterations %d: must not be negative", c.Fit.Iterations))
	}
	if c.Verify.AutoDiff <= 0 || c.Verify.Numeric <= 0 {
		errs = append(errs, errors.New("verify: tolerances must be positive"))
	}
	if c.Bench.Points < 2 || c.Bench.Repeats < 1 {
		errs = append(errs, errors.New("bench: need at least 2 points and 1 repeat"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return lvl, nil
}

// NewLogger builds the configured logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
