package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum-backtest/internal/backtest"
	"momentum-backtest/internal/config"
)

func spreadFlags(t *testing.T, args ...string) (*inputFlags, *outputFlags) {
	t.Helper()
	fs := flag.NewFlagSet("spread", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	in := addInputFlags(fs)
	out := addOutputFlags(fs)
	require.NoError(t, fs.Parse(args))
	return in, out
}

func TestOutputFlags_ZeroPrecisionIsKept(t *testing.T) {
	in, out := spreadFlags(t, "--data", "returns.csv", "--precision", "0")
	cfg, err := in.resolve()
	require.NoError(t, err)
	require.NoError(t, out.apply(cfg))

	assert.Equal(t, 0, cfg.OutputPrecision())
}

func TestOutputFlags_UnsetKeepsConfig(t *testing.T) {
	in, out := spreadFlags(t, "--data", "returns.csv")
	cfg, err := in.resolve()
	require.NoError(t, err)
	require.NoError(t, out.apply(cfg))

	assert.Equal(t, backtest.DefaultPrecision, cfg.OutputPrecision())
	assert.Equal(t, config.Default().Output.Path, cfg.Output.Path)
}

func TestOutputFlags_Overrides(t *testing.T) {
	in, out := spreadFlags(t, "--data", "returns.csv", "--out", "x/spread.csv", "--ledger", "x/ledger.csv", "--precision", "3")
	cfg, err := in.resolve()
	require.NoError(t, err)
	require.NoError(t, out.apply(cfg))

	assert.Equal(t, "x/spread.csv", cfg.Output.Path)
	assert.Equal(t, "x/ledger.csv", cfg.Output.LedgerPath)
	assert.Equal(t, 3, cfg.OutputPrecision())
}

func TestOutputFlags_RejectsOutOfRangePrecision(t *testing.T) {
	in, out := spreadFlags(t, "--data", "returns.csv", "--precision", "-1")
	cfg, err := in.resolve()
	require.NoError(t, err)
	assert.Error(t, out.apply(cfg))
}

func TestInputFlags_RequireData(t *testing.T) {
	in, _ := spreadFlags(t)
	_, err := in.resolve()
	assert.Error(t, err)
}
