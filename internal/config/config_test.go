package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum-backtest/internal/backtest"
	"momentum-backtest/internal/data"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "input:\n  path: /data/SP50_test.csv\n")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/SP50_test.csv", c.Input.Path)
	assert.Equal(t, string(data.OrderNewestFirst), c.Input.Order)
	assert.Equal(t, []string{"#N/A"}, c.Input.MissingTokens)
	assert.Equal(t, 10, c.Selection.Buckets)
	assert.Equal(t, "insertion", c.Selection.TieBreak)
	assert.Equal(t, "error", c.Realization.MissingPolicy)
	assert.Equal(t, "results/spread.csv", c.Output.Path)
	assert.Equal(t, 6, c.OutputPrecision())
	assert.Equal(t, "info", c.LogLevel)

	assert.Equal(t, backtest.DefaultOptions(), c.EngineOptions())
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "panel.xlsx", "")
	path := writeFile(t, dir, "config.yaml", `
input:
  path: panel.xlsx
  format: XLSX
  sheet: Returns
  order: oldest_first
  missing_tokens: ["#N/A", "NA"]
selection:
  buckets: 5
  tie_break: asset_id
realization:
  missing_policy: zero
output:
  path: out/spread.csv
  ledger_path: out/ledger.csv
  precision: 4
log_level: debug
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "panel.xlsx"), c.Input.Path, "resolved relative to the config file")

	src := c.Source()
	assert.Equal(t, data.FormatXLSX, src.Format)
	assert.Equal(t, "Returns", src.Sheet)
	assert.Equal(t, data.OrderOldestFirst, src.Parse.Order)
	assert.Equal(t, []string{"#N/A", "NA"}, src.Parse.MissingTokens)

	opts := c.EngineOptions()
	assert.Equal(t, 5, opts.Buckets)
	assert.Equal(t, backtest.TieBreakAssetID, opts.TieBreak)
	assert.Equal(t, backtest.MissingPolicyZero, opts.MissingPolicy)
	assert.Equal(t, "out/ledger.csv", c.Output.LedgerPath)
	assert.Equal(t, 4, c.OutputPrecision())
}

func TestLoad_RelativePathKeptWhenNotBesideConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "input:\n  path: data/panel.csv\n")
	c, err := LoadUnchecked(path)
	require.NoError(t, err)
	assert.Equal(t, "data/panel.csv", c.Input.Path)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "bad.yaml", "input: [")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "format", mutate: func(c *Config) { c.Input.Format = "parquet" }, errMsg: "input.format"},
		{name: "order", mutate: func(c *Config) { c.Input.Order = "sideways" }, errMsg: "input.order"},
		{name: "buckets", mutate: func(c *Config) { c.Selection.Buckets = 1 }, errMsg: "selection.buckets"},
		{name: "tie break", mutate: func(c *Config) { c.Selection.TieBreak = "coin" }, errMsg: "selection.tie_break"},
		{name: "missing policy", mutate: func(c *Config) { c.Realization.MissingPolicy = "skip" }, errMsg: "realization.missing_policy"},
		{name: "precision", mutate: func(c *Config) { p := 40; c.Output.Precision = &p }, errMsg: "output.precision"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	var nilConfig *Config
	assert.Error(t, nilConfig.Validate())
}

func TestLoad_ExampleConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "examples", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "..", "examples", "returns.csv"), c.Input.Path)

	panel, err := data.Load(c.Source())
	require.NoError(t, err)
	assert.Equal(t, []string{"16-Jan", "16-Feb", "16-Mar"}, panel.Labels())

	rate, err := panel.Periods[2].Return("C")
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)

	res, err := backtest.NewWithOptions(c.EngineOptions()).RunPanel(panel)
	require.NoError(t, err)
	assert.InDelta(t, -0.045, res.GrandAverage, 1e-12)
}

func TestLoad_ZeroPrecisionIsKept(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "input:\n  path: panel.csv\noutput:\n  precision: 0\n")

	c, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, c.Output.Precision)
	assert.Equal(t, 0, c.OutputPrecision())

	assert.Equal(t, backtest.DefaultPrecision, (&Config{}).OutputPrecision())
}
