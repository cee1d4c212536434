package model

import (
	"errors"
	"fmt"
)

// Panel is the ordered, chronological (oldest first) sequence of periods the
// series driver walks. Ingestion normalizes whatever column order the source
// file uses into this order.
type Panel struct {
	Periods []*Period
}

func (p *Panel) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Periods)
}

func (p *Panel) Labels() []string {
	out := make([]string, 0, p.Len())
	for _, per := range p.Periods {
		out = append(out, per.Label())
	}
	return out
}

// Assets counts distinct asset ids across all periods.
func (p *Panel) Assets() int {
	seen := map[string]struct{}{}
	for _, per := range p.Periods {
		for _, id := range per.order {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

// Find returns the period whose label matches, or nil.
func (p *Panel) Find(label string) (int, *Period) {
	for i, per := range p.Periods {
		if per.Label() == label {
			return i, per
		}
	}
	return -1, nil
}

// Reverse flips the period order in place.
func (p *Panel) Reverse() {
	for i, j := 0, len(p.Periods)-1; i < j; i, j = i+1, j-1 {
		p.Periods[i], p.Periods[j] = p.Periods[j], p.Periods[i]
	}
}

// Freeze freezes every non-nil period.
func (p *Panel) Freeze() {
	if p == nil {
		return
	}
	for _, per := range p.Periods {
		if per != nil {
			per.Freeze()
		}
	}
}

func (p *Panel) Validate() error {
	if p == nil {
		return errors.New("panel is nil")
	}
	if len(p.Periods) == 0 {
		return errors.New("panel has no periods")
	}
	for i, per := range p.Periods {
		if per == nil {
			return fmt.Errorf("period %d is nil", i)
		}
	}
	return nil
}
