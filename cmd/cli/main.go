package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"momentum-backtest/internal/analysis"
	"momentum-backtest/internal/backtest"
	"momentum-backtest/internal/config"
	"momentum-backtest/internal/data"
	"momentum-backtest/internal/logging"
	"momentum-backtest/internal/model"

	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "spread":
		cmdSpread(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	case "deciles":
		cmdDeciles(os.Args[2:])
	case "convert":
		cmdConvert(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli spread  --data returns.csv [--config examples/config.yaml] [--out results/spread.csv] [--ledger results/ledger.csv]")
	fmt.Println("  cli rank    --data returns.xlsx [--top 10]")
	fmt.Println("  cli deciles --data returns.csv --period 16-Mar")
	fmt.Println("  cli convert --data returns.xlsx --out returns.json")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - input tables hold one asset per row and one period per column, newest period first by default")
	fmt.Println("  - spread = average next-period return of the bottom bucket minus that of the top bucket")
	fmt.Println("  - flags override the matching config file keys")
}

// inputFlags are shared by every subcommand that reads a panel.
type inputFlags struct {
	fs *flag.FlagSet

	cfgPath       string
	dataPath      string
	format        string
	sheet         string
	order         string
	missingTokens string
	buckets       int
	tieBreak      string
	missingPolicy string
	logLevel      string
	logJSON       bool
}

func addInputFlags(fs *flag.FlagSet) *inputFlags {
	f := &inputFlags{fs: fs}
	fs.StringVar(&f.cfgPath, "config", "", "Path to YAML config (optional)")
	fs.StringVar(&f.dataPath, "data", "", "Path to the returns table (csv, xlsx or json)")
	fs.StringVar(&f.format, "format", "", "Input format; inferred from the extension when empty")
	fs.StringVar(&f.sheet, "sheet", "", "Worksheet name for xlsx input (default: first sheet)")
	fs.StringVar(&f.order, "order", "", "Period column order: newest_first or oldest_first")
	fs.StringVar(&f.missingTokens, "missing-tokens", "", "Comma-separated cell values read as a zero return")
	fs.IntVar(&f.buckets, "buckets", 0, "Number of quantile buckets (default 10)")
	fs.StringVar(&f.tieBreak, "tie-break", "", "Boundary tie handling: insertion or asset_id")
	fs.StringVar(&f.missingPolicy, "missing-policy", "", "Missing next-period return: error or zero")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&f.logJSON, "log-json", false, "Emit JSON logs")
	return f
}

// resolve merges the config file (if any) with explicitly set flags.
func (f *inputFlags) resolve() (*config.Config, error) {
	cfg := &config.Config{}
	if f.cfgPath != "" {
		loaded, err := config.LoadUnchecked(f.cfgPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	set := map[string]bool{}
	f.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["data"] {
		cfg.Input.Path = f.dataPath
	}
	if set["format"] {
		cfg.Input.Format = f.format
	}
	if set["sheet"] {
		cfg.Input.Sheet = f.sheet
	}
	if set["order"] {
		cfg.Input.Order = f.order
	}
	if set["missing-tokens"] {
		cfg.Input.MissingTokens = splitList(f.missingTokens)
	}
	if set["buckets"] {
		cfg.Selection.Buckets = f.buckets
	}
	if set["tie-break"] {
		cfg.Selection.TieBreak = f.tieBreak
	}
	if set["missing-policy"] {
		cfg.Realization.MissingPolicy = f.missingPolicy
	}
	if set["log-level"] {
		cfg.LogLevel = f.logLevel
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Input.Path == "" {
		return nil, fmt.Errorf("--data (or input.path in --config) is required")
	}
	return cfg, nil
}

// outputFlags are the spread subcommand's report options.
type outputFlags struct {
	fs *flag.FlagSet

	path       string
	ledgerPath string
	precision  int
}

func addOutputFlags(fs *flag.FlagSet) *outputFlags {
	f := &outputFlags{fs: fs}
	fs.StringVar(&f.path, "out", "", "Output CSV path for the spread table (default: output.path)")
	fs.StringVar(&f.ledgerPath, "ledger", "", "Optional per-pair ledger CSV path (default: output.ledger_path)")
	fs.IntVar(&f.precision, "precision", 0, "Decimal places in CSV output (default: output.precision, else 6)")
	return f
}

// apply overrides the output section with explicitly set flags.
func (f *outputFlags) apply(cfg *config.Config) error {
	set := map[string]bool{}
	f.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["out"] {
		cfg.Output.Path = f.path
	}
	if set["ledger"] {
		cfg.Output.LedgerPath = f.ledgerPath
	}
	if set["precision"] {
		p := f.precision
		cfg.Output.Precision = &p
	}
	return cfg.Validate()
}

// setup parses args, resolves the config and loads the panel.
func setup(fs *flag.FlagSet, f *inputFlags, args []string) (*config.Config, *model.Panel, *logrus.Logger) {
	_ = fs.Parse(args)

	cfg, err := f.resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.New(cfg.LogLevel, f.logJSON)

	panel, err := data.Load(cfg.Source())
	if err != nil {
		log.WithError(err).WithField("path", cfg.Input.Path).Fatal("load returns table")
	}
	log.WithFields(logrus.Fields{
		"path":    cfg.Input.Path,
		"periods": panel.Len(),
		"assets":  panel.Assets(),
	}).Debug("loaded panel")
	return cfg, panel, log
}

func cmdSpread(args []string) {
	fs := flag.NewFlagSet("spread", flag.ExitOnError)
	in := addInputFlags(fs)
	out := addOutputFlags(fs)

	cfg, panel, log := setup(fs, in, args)
	if err := out.apply(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	engine := backtest.NewWithOptions(cfg.EngineOptions())
	res, err := engine.RunPanel(panel)
	if err != nil {
		log.WithError(err).Fatal("spread run failed")
	}

	if err := backtest.WriteSpreadCSV(cfg.Output.Path, res, cfg.OutputPrecision()); err != nil {
		log.WithError(err).Fatal("write spread csv")
	}
	if cfg.Output.LedgerPath != "" {
		if err := backtest.WriteLedgerCSV(cfg.Output.LedgerPath, res.Ledger, cfg.OutputPrecision()); err != nil {
			log.WithError(err).Fatal("write ledger csv")
		}
	}
	log.WithFields(logrus.Fields{
		"out":    cfg.Output.Path,
		"ledger": cfg.Output.LedgerPath,
		"pairs":  len(res.Ledger),
	}).Info("wrote results")

	st := analysis.ComputeStats(res.Spreads())
	fmt.Printf("Pairs=%d Buckets=%d Grand average spread=%s\n",
		len(res.Ledger), res.Buckets, backtest.FormatRate(res.GrandAverage, cfg.OutputPrecision()))
	fmt.Printf("StdDev=%.6f t=%.3f hit=%.1f%% min=%.6f max=%.6f p05=%.6f p95=%.6f cumulative=%.6f\n",
		st.StdDev, st.TStat, st.HitRate*100, st.Min, st.Max, st.P05, st.P95, st.Cumulative)
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	in := addInputFlags(fs)
	top := fs.Int("top", 0, "Optional: show only the first N pairs (0=all)")

	cfg, panel, log := setup(fs, in, args)

	res, err := backtest.NewWithOptions(cfg.EngineOptions()).RunPanel(panel)
	if err != nil {
		log.WithError(err).Fatal("spread run failed")
	}

	ranked := analysis.RankBySpread(res.Ledger)
	if *top > 0 && *top < len(ranked) {
		ranked = ranked[:*top]
	}
	fmt.Printf("%-4s %-10s %-10s %-6s %-4s %-12s %-12s %-12s\n", "rank", "period", "next", "assets", "k", "top", "bottom", "spread")
	for _, r := range ranked {
		fmt.Printf(
			"%-4d %-10s %-10s %-6d %-4d %-12.6f %-12.6f %-12.6f\n",
			r.Rank,
			r.Label,
			r.NextLabel,
			r.Assets,
			r.GroupSize,
			r.TopAverage,
			r.BottomAverage,
			r.Spread,
		)
	}
}

func cmdDeciles(args []string) {
	fs := flag.NewFlagSet("deciles", flag.ExitOnError)
	in := addInputFlags(fs)
	label := fs.String("period", "", "Ranking period label, e.g. 16-Mar (default: second newest)")

	cfg, panel, log := setup(fs, in, args)
	engine := backtest.NewWithOptions(cfg.EngineOptions())

	idx := panel.Len() - 2
	if *label != "" {
		idx, _ = panel.Find(*label)
		if idx < 0 {
			log.WithField("period", *label).Fatal("period not found")
		}
	}
	if idx < 0 {
		log.Fatal("panel needs at least two periods")
	}
	p := panel.Periods[idx]

	if idx == panel.Len()-1 {
		// Newest period has no successor: show the selection only.
		sel, err := engine.Select(p)
		if err != nil {
			log.WithError(err).Fatal("select")
		}
		fmt.Printf("%s: %d assets, k=%d (no following period)\n", p.Label(), p.Len(), sel.GroupSize)
		printMembers("top", sel.Top)
		printMembers("bottom", sel.Bottom)
		return
	}

	row, err := engine.Evaluate(p, panel.Periods[idx+1])
	if err != nil {
		log.WithError(err).Fatal("evaluate")
	}
	fmt.Printf("%s -> %s: %d assets, k=%d\n", row.Label, row.NextLabel, row.Assets, row.GroupSize)
	printMembers("top (next-period returns)", row.Top)
	printMembers("bottom (next-period returns)", row.Bottom)
	if len(row.Defaulted) > 0 {
		fmt.Printf("zero-filled: %s\n", strings.Join(row.Defaulted, ", "))
	}
	fmt.Printf("top=%.6f bottom=%.6f spread=%.6f\n", row.TopAverage, row.BottomAverage, row.Spread)
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	in := addInputFlags(fs)
	outPath := fs.String("out", "results/panel.json", "Output JSON snapshot path")

	_, panel, log := setup(fs, in, args)
	if err := data.SavePanelJSON(panel, *outPath); err != nil {
		log.WithError(err).Fatal("write panel json")
	}
	fmt.Printf("Wrote %d periods x %d assets to %s\n", panel.Len(), panel.Assets(), *outPath)
}

func printMembers(title string, samples []model.Sample) {
	fmt.Printf("  %s:\n", title)
	for _, s := range samples {
		fmt.Printf("    %-16s %12.6f\n", s.AssetID, s.Rate)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
