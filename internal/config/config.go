package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"momentum-backtest/internal/backtest"
	"momentum-backtest/internal/data"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Selection   SelectionConfig   `yaml:"selection"`
	Realization RealizationConfig `yaml:"realization"`
	Output      OutputConfig      `yaml:"output"`
	LogLevel    string            `yaml:"log_level"`
}

type InputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // csv, xlsx, json; empty = infer from path
	Sheet  string `yaml:"sheet"`  // xlsx only; empty = first sheet
	// Order is the column order of periods in the file.
	Order         string   `yaml:"order"`
	MissingTokens []string `yaml:"missing_tokens"`
}

type SelectionConfig struct {
	Buckets  int    `yaml:"buckets"`
	TieBreak string `yaml:"tie_break"`
}

type RealizationConfig struct {
	MissingPolicy string `yaml:"missing_policy"`
}

type OutputConfig struct {
	Path       string `yaml:"path"`
	LedgerPath string `yaml:"ledger_path"`
	// Precision is the number of decimal places in CSV output; nil means
	// the default, 0 is a valid value.
	Precision *int `yaml:"precision"`
}

// Default returns a config with every optional field filled in.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config, but does not apply defaults or validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// Relative input paths are read relative to the config file when that file exists.
	if c.Input.Path != "" && !filepath.IsAbs(c.Input.Path) {
		cand := filepath.Join(filepath.Dir(path), c.Input.Path)
		if _, err := os.Stat(cand); err == nil {
			c.Input.Path = cand
		}
	}
	return &c, nil
}

func (c *Config) ApplyDefaults() {
	if c.Input.Order == "" {
		c.Input.Order = string(data.OrderNewestFirst)
	}
	if c.Input.MissingTokens == nil {
		c.Input.MissingTokens = []string{data.MissingToken}
	}
	if c.Selection.Buckets == 0 {
		c.Selection.Buckets = backtest.DefaultBuckets
	}
	if c.Selection.TieBreak == "" {
		c.Selection.TieBreak = string(backtest.TieBreakInsertion)
	}
	if c.Realization.MissingPolicy == "" {
		c.Realization.MissingPolicy = string(backtest.MissingPolicyError)
	}
	if c.Output.Path == "" {
		c.Output.Path = "results/spread.csv"
	}
	if c.Output.Precision == nil {
		p := backtest.DefaultPrecision
		c.Output.Precision = &p
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Input.Format != "" && !data.Format(strings.ToLower(c.Input.Format)).Valid() {
		return fmt.Errorf("input.format %q must be csv, xlsx or json", c.Input.Format)
	}
	if !data.Order(c.Input.Order).Valid() {
		return fmt.Errorf("input.order %q must be %s or %s", c.Input.Order, data.OrderNewestFirst, data.OrderOldestFirst)
	}
	if c.Selection.Buckets < 2 {
		return errors.New("selection.buckets must be >= 2")
	}
	if !backtest.TieBreak(c.Selection.TieBreak).Valid() {
		return fmt.Errorf("selection.tie_break %q must be %s or %s",
			c.Selection.TieBreak, backtest.TieBreakInsertion, backtest.TieBreakAssetID)
	}
	if !backtest.MissingPolicy(c.Realization.MissingPolicy).Valid() {
		return fmt.Errorf("realization.missing_policy %q must be %s or %s",
			c.Realization.MissingPolicy, backtest.MissingPolicyError, backtest.MissingPolicyZero)
	}
	if p := c.Output.Precision; p != nil && (*p < 0 || *p > 16) {
		return errors.New("output.precision must be in [0, 16]")
	}
	return nil
}

// OutputPrecision returns output.precision, or the default when unset.
func (c *Config) OutputPrecision() int {
	if c.Output.Precision == nil {
		return backtest.DefaultPrecision
	}
	return *c.Output.Precision
}

// Source converts the input section into a data.Source.
func (c *Config) Source() data.Source {
	return data.Source{
		Path:   c.Input.Path,
		Format: data.Format(strings.ToLower(c.Input.Format)),
		Sheet:  c.Input.Sheet,
		Parse: data.ParseOptions{
			Order:         data.Order(c.Input.Order),
			MissingTokens: c.Input.MissingTokens,
		},
	}
}

// EngineOptions converts the selection and realization sections.
func (c *Config) EngineOptions() backtest.Options {
	return backtest.Options{
		Buckets:       c.Selection.Buckets,
		TieBreak:      backtest.TieBreak(c.Selection.TieBreak),
		MissingPolicy: backtest.MissingPolicy(c.Realization.MissingPolicy),
	}
}
