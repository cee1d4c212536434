package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"momentum-backtest/internal/model"
)

// PanelSnapshot is the JSON shape of a panel, periods oldest first.
//
// Example:
//
//	{
//	  "periods": [
//	    {"year": "16", "month": "Feb", "returns": {"AAPL": 0.012, "MSFT": -0.004}}
//	  ]
//	}
type PanelSnapshot struct {
	Periods []PeriodSnapshot `json:"periods"`
}

type PeriodSnapshot struct {
	Year    string             `json:"year"`
	Month   string             `json:"month,omitempty"`
	Returns map[string]float64 `json:"returns"`
}

func LoadPanelJSON(path string) (*model.Panel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePanelJSON(f)
}

func ParsePanelJSON(r io.Reader) (*model.Panel, error) {
	var snap PanelSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPanel, err)
	}
	return snap.Panel()
}

// Panel rebuilds periods from the snapshot. JSON objects carry no key order,
// so assets are inserted sorted by id.
func (s PanelSnapshot) Panel() (*model.Panel, error) {
	panel := &model.Panel{Periods: make([]*model.Period, 0, len(s.Periods))}
	for i, ps := range s.Periods {
		if ps.Year == "" && ps.Month == "" {
			return nil, fmt.Errorf("%w: period %d has no label", ErrInvalidPanel, i)
		}
		p := model.NewPeriod(ps.Year, ps.Month)
		for _, id := range sortedKeys(ps.Returns) {
			if err := p.SetReturn(id, ps.Returns[id]); err != nil {
				return nil, fmt.Errorf("%w: period %d: %v", ErrInvalidPanel, i, err)
			}
		}
		panel.Periods = append(panel.Periods, p)
	}
	panel.Freeze()
	return panel, nil
}

func Snapshot(panel *model.Panel) PanelSnapshot {
	snap := PanelSnapshot{Periods: make([]PeriodSnapshot, 0, panel.Len())}
	for _, p := range panel.Periods {
		ps := PeriodSnapshot{Year: p.Year, Month: p.Month, Returns: map[string]float64{}}
		for _, s := range p.Samples() {
			ps.Returns[s.AssetID] = s.Rate
		}
		snap.Periods = append(snap.Periods, ps)
	}
	return snap
}

// SavePanelJSON writes a panel snapshot to a JSON file.
func SavePanelJSON(panel *model.Panel, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(Snapshot(panel), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal panel: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write panel file: %w", err)
	}

	return nil
}
