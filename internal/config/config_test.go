package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curvefit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_Valid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
  format: json
parallel:
  enabled: true
  num_workers: 3
fit:
  iterations: 50
verify:
  numeric: 1.0e-5
bench:
  budget: 10s
metrics:
  addr: ":9100"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Parallel.Enabled)
	assert.Equal(t, 3, cfg.Parallel.NumWorkers)
	assert.Equal(t, 50, cfg.Fit.Iterations)
	assert.Equal(t, 1e-5, cfg.Verify.Numeric)
	assert.Equal(t, 10*time.Second, cfg.Bench.Budget)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)

	// Untouched fields keep their defaults
	def := Default()
	assert.Equal(t, def.Fit.Tau, cfg.Fit.Tau)
	assert.Equal(t, def.Verify.AutoDiff, cfg.Verify.AutoDiff)
	assert.Equal(t, def.Bench.Points, cfg.Bench.Points)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "log: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "log:\n  level: loud\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"format", func(c *Config) { c.Log.Format = "xml" }},
		{"workers", func(c *Config) { c.Parallel.NumWorkers = -1 }},
		{"iterations", func(c *Config) { c.Fit.Iterations = -5 }},
		{"tolerance", func(c *Config) { c.Verify.AutoDiff = 0 }},
		{"bench", func(c *Config) { c.Bench.Points = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Addr = "localhost:9000"
	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))

	got, err := Load(writeFile(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = LogConfig{Level: "verbose"}.NewLogger(&buf)
	assert.Error(t, err)
}
