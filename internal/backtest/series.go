package backtest

import (
	"fmt"

	"momentum-backtest/internal/model"
)

// RunSeries evaluates every period that has a successor.
//
// periods must be chronological, oldest first. Period i is realized in
// period i+1; the walk starts at the newest pair and moves backward, and the
// newest period only ever serves as a realization period. The ledger is
// returned oldest first. Every period is frozen before the first pair runs.
func (e *Engine) RunSeries(periods []*model.Period) (*Result, error) {
	if len(periods) < 2 {
		return nil, fmt.Errorf("%d periods: %w", len(periods), ErrNotEnoughPeriods)
	}
	for i, p := range periods {
		if p == nil {
			return nil, fmt.Errorf("period %d: %w", i, ErrNilPeriod)
		}
	}
	for _, p := range periods {
		p.Freeze()
	}

	ledger := make([]LedgerRow, len(periods)-1)
	for i := len(periods) - 2; i >= 0; i-- {
		row, err := e.Evaluate(periods[i], periods[i+1])
		if err != nil {
			return nil, fmt.Errorf("period %d (%s): %w", i, periods[i].Label(), err)
		}
		row.Index = i
		ledger[i] = row
	}

	sum := 0.0
	for _, row := range ledger {
		sum += row.Spread
	}

	return &Result{
		Ledger:       ledger,
		GrandAverage: sum / float64(len(ledger)),
		Buckets:      e.opts.Buckets,
	}, nil
}

// RunPanel is RunSeries over a validated panel.
func (e *Engine) RunPanel(panel *model.Panel) (*Result, error) {
	if err := panel.Validate(); err != nil {
		return nil, err
	}
	return e.RunSeries(panel.Periods)
}
