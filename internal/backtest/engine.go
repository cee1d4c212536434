package backtest

import (
	"errors"
	"fmt"

	"momentum-backtest/internal/model"
)

const DefaultBuckets = 10

// MissingPolicy controls realization when a selected asset is absent from
// the next period.
type MissingPolicy string

const (
	MissingPolicyError MissingPolicy = "error"
	// MissingPolicyZero zero-fills the missing return and records the asset in
	// LedgerRow.Defaulted. It silently biases the group average, so it is
	// opt-in only.
	MissingPolicyZero MissingPolicy = "zero"
)

func (m MissingPolicy) Valid() bool {
	return m == MissingPolicyError || m == MissingPolicyZero
}

type Options struct {
	// Buckets is the number of equal rank buckets; each group holds
	// floor(assets / Buckets) members. 10 gives deciles.
	Buckets       int
	TieBreak      TieBreak
	MissingPolicy MissingPolicy
}

func DefaultOptions() Options {
	return Options{
		Buckets:       DefaultBuckets,
		TieBreak:      TieBreakInsertion,
		MissingPolicy: MissingPolicyError,
	}
}

// Engine computes decile spreads. It holds no state between calls.
type Engine struct {
	opts Options
}

func New() *Engine { return NewWithOptions(DefaultOptions()) }

// NewWithOptions fills zero or unknown option values with defaults.
func NewWithOptions(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Buckets <= 0 {
		opts.Buckets = def.Buckets
	}
	if !opts.TieBreak.Valid() {
		opts.TieBreak = def.TieBreak
	}
	if !opts.MissingPolicy.Valid() {
		opts.MissingPolicy = def.MissingPolicy
	}
	return &Engine{opts: opts}
}

func (e *Engine) Options() Options { return e.opts }

// GroupSize is floor(assets / buckets).
func (e *Engine) GroupSize(assets int) int { return assets / e.opts.Buckets }

// Select partitions p into its top and bottom groups. It only reads p, so
// pairs sharing a period may be evaluated concurrently once the periods are
// frozen (RunSeries and the loaders in internal/data do that).
func (e *Engine) Select(p *model.Period) (Selection, error) {
	if p == nil {
		return Selection{}, ErrNilPeriod
	}

	n := p.Len()
	k := e.GroupSize(n)
	if k == 0 {
		return Selection{}, &InsufficientSampleError{Period: p.Label(), Assets: n, Buckets: e.opts.Buckets}
	}

	top := NewTopSelector(k, e.opts.TieBreak)
	bottom := NewBottomSelector(k, e.opts.TieBreak)
	for _, s := range p.Samples() {
		top.Offer(s.AssetID, s.Rate)
		bottom.Offer(s.AssetID, s.Rate)
	}
	return Selection{GroupSize: k, Top: top.Drain(), Bottom: bottom.Drain()}, nil
}

// Run computes the spread of ranking period p realized in next.
func (e *Engine) Run(p, next *model.Period) (SpreadResult, error) {
	row, err := e.Evaluate(p, next)
	if err != nil {
		return SpreadResult{}, err
	}
	return row.SpreadResult, nil
}

// Evaluate is Run plus the per-member detail needed for the ledger.
func (e *Engine) Evaluate(p, next *model.Period) (LedgerRow, error) {
	if p == nil || next == nil {
		return LedgerRow{}, ErrNilPeriod
	}

	sel, err := e.Select(p)
	if err != nil {
		return LedgerRow{}, err
	}

	row := LedgerRow{
		Label:     p.Label(),
		NextLabel: next.Label(),
		Assets:    p.Len(),
		GroupSize: sel.GroupSize,
	}

	var topAvg, bottomAvg float64
	row.Top, topAvg, err = e.realize(model.GroupTop, sel.Top, p, next, &row.Defaulted)
	if err != nil {
		return LedgerRow{}, err
	}
	row.Bottom, bottomAvg, err = e.realize(model.GroupBottom, sel.Bottom, p, next, &row.Defaulted)
	if err != nil {
		return LedgerRow{}, err
	}

	row.SpreadResult = SpreadResult{
		TopAverage:    topAvg,
		BottomAverage: bottomAvg,
		Spread:        bottomAvg - topAvg,
	}
	return row, nil
}

// realize looks every member up in next and averages over the group size.
func (e *Engine) realize(g model.Group, members []model.Sample, p, next *model.Period, defaulted *[]string) ([]model.Sample, float64, error) {
	out := make([]model.Sample, 0, len(members))
	sum := 0.0
	for _, m := range members {
		rate, err := next.Return(m.AssetID)
		if err != nil {
			if !errors.Is(err, model.ErrAssetNotFound) {
				return nil, 0, fmt.Errorf("realize %s: %w", m.AssetID, err)
			}
			if e.opts.MissingPolicy != MissingPolicyZero {
				return nil, 0, &AssetNotFoundError{AssetID: m.AssetID, Group: g, Period: p.Label(), Next: next.Label()}
			}
			rate = 0
			*defaulted = append(*defaulted, m.AssetID)
		}
		sum += rate
		out = append(out, model.Sample{AssetID: m.AssetID, Rate: rate})
	}
	return out, sum / float64(len(members)), nil
}
