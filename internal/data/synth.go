package data

import (
	"fmt"
	"math/rand"
	"time"

	"momentum-backtest/internal/model"
)

// SynthParams controls SyntheticPanel.
type SynthParams struct {
	Assets  int
	Periods int
	Seed    int64
	// Reversal is the share of last period's idiosyncratic return given back
	// in the next period. Positive values make the bottom group outperform.
	Reversal   float64
	Volatility float64
	Drift      float64
	// Start is the first period; labels are formatted as "06-Jan".
	Start time.Time
}

func DefaultSynthParams() SynthParams {
	return SynthParams{
		Assets:     50,
		Periods:    24,
		Seed:       42,
		Reversal:   0.3,
		Volatility: 0.08,
		Drift:      0.005,
		Start:      time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// SyntheticPanel generates a deterministic monthly panel, oldest period first.
func SyntheticPanel(p SynthParams) (*model.Panel, error) {
	if p.Assets < 1 || p.Periods < 1 {
		return nil, fmt.Errorf("%w: synthetic panel needs assets and periods, got %d x %d",
			ErrInvalidPanel, p.Assets, p.Periods)
	}
	if p.Start.IsZero() {
		p.Start = DefaultSynthParams().Start
	}
	rng := rand.New(rand.NewSource(p.Seed))

	ids := make([]string, p.Assets)
	for i := range ids {
		ids[i] = fmt.Sprintf("A%03d", i+1)
	}

	prev := make([]float64, p.Assets)
	panel := &model.Panel{Periods: make([]*model.Period, 0, p.Periods)}
	for t := 0; t < p.Periods; t++ {
		at := p.Start.AddDate(0, t, 0)
		period := model.NewPeriod(at.Format("06"), at.Format("Jan"))
		for i, id := range ids {
			shock := rng.NormFloat64() * p.Volatility
			r := p.Drift + shock - p.Reversal*(prev[i]-p.Drift)
			prev[i] = r
			if err := period.SetReturn(id, r); err != nil {
				return nil, err
			}
		}
		panel.Periods = append(panel.Periods, period)
	}
	panel.Freeze()
	return panel, nil
}
