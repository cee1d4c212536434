package backtest

import "momentum-backtest/internal/model"

// SpreadResult is the outcome of one (period, next period) pairing.
// Spread is BottomAverage - TopAverage: the sign is bottom-minus-top.
type SpreadResult struct {
	TopAverage    float64 `json:"top_average"`
	BottomAverage float64 `json:"bottom_average"`
	Spread        float64 `json:"spread"`
}

// Selection is the derived decile partition of a single period.
// Samples carry the ranking period's rates, strongest first.
type Selection struct {
	GroupSize int
	Top       []model.Sample
	Bottom    []model.Sample
}

func (s Selection) Members(g model.Group) []model.Sample {
	if g == model.GroupBottom {
		return s.Bottom
	}
	return s.Top
}

// LedgerRow is one row of per-pair output.
// This is the primary artifact for "what happened" in a series run.
type LedgerRow struct {
	Index int

	Label     string
	NextLabel string

	Assets    int
	GroupSize int

	// Top and Bottom hold the realized next-period rates of each member.
	Top    []model.Sample
	Bottom []model.Sample

	// Defaulted lists members whose missing next-period return was zero-filled
	// under MissingPolicyZero.
	Defaulted []string

	SpreadResult
}

type Result struct {
	// Ledger is ordered oldest to newest and excludes the newest period.
	Ledger       []LedgerRow
	GrandAverage float64
	Buckets      int
}

func (r *Result) Spreads() []float64 {
	out := make([]float64, 0, len(r.Ledger))
	for _, row := range r.Ledger {
		out = append(out, row.Spread)
	}
	return out
}

func (r *Result) Labels() []string {
	out := make([]string, 0, len(r.Ledger))
	for _, row := range r.Ledger {
		out = append(out, row.Label)
	}
	return out
}
