package model

import (
	"errors"
	"fmt"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrPeriodFrozen  = errors.New("period is frozen")
	ErrEmptyAssetID  = errors.New("asset id is empty")
)

// Sample is one asset's return within a period.
// Rate is a fractional return: 0.0123 = 1.23%.
type Sample struct {
	AssetID string  `json:"asset_id"`
	Rate    float64 `json:"rate"`
}

// Period is one reporting month's cross-section of asset returns.
//
// Year and Month are opaque display tokens (e.g. "16" and "Mar").
// Assets are enumerated in first-insertion order so that repeated runs over
// the same period process samples identically.
type Period struct {
	Year  string
	Month string

	returns map[string]float64
	order   []string
	frozen  bool
}

func NewPeriod(year, month string) *Period {
	return &Period{
		Year:    year,
		Month:   month,
		returns: map[string]float64{},
	}
}

// Label returns "<year>-<month>", or just the year token when no month token was given.
func (p *Period) Label() string {
	if p.Month == "" {
		return p.Year
	}
	return p.Year + "-" + p.Month
}

// SetReturn inserts or overwrites the return for assetID (last write wins).
func (p *Period) SetReturn(assetID string, rate float64) error {
	if assetID == "" {
		return ErrEmptyAssetID
	}
	if p.frozen {
		return fmt.Errorf("%s: set %s: %w", p.Label(), assetID, ErrPeriodFrozen)
	}
	if p.returns == nil {
		p.returns = map[string]float64{}
	}
	if _, ok := p.returns[assetID]; !ok {
		p.order = append(p.order, assetID)
	}
	p.returns[assetID] = rate
	return nil
}

// Return looks up the stored rate. Absent ids are an error, never a silent zero.
func (p *Period) Return(assetID string) (float64, error) {
	rate, ok := p.returns[assetID]
	if !ok {
		return 0, fmt.Errorf("%s: %s: %w", p.Label(), assetID, ErrAssetNotFound)
	}
	return rate, nil
}

func (p *Period) Has(assetID string) bool {
	_, ok := p.returns[assetID]
	return ok
}

func (p *Period) Len() int { return len(p.order) }

// Samples returns the period's entries in insertion order.
func (p *Period) Samples() []Sample {
	out := make([]Sample, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, Sample{AssetID: id, Rate: p.returns[id]})
	}
	return out
}

// Freeze forbids further SetReturn calls. It only writes on the first call,
// so freezing an already frozen period is a pure read.
func (p *Period) Freeze() {
	if !p.frozen {
		p.frozen = true
	}
}

func (p *Period) Frozen() bool { return p.frozen }
