package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"momentum-backtest/internal/model"
)

// LoadPanelCSV reads a returns table from a CSV file.
func LoadPanelCSV(path string, opts ParseOptions) (*model.Panel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePanelCSV(f, opts)
}

func ParsePanelCSV(r io.Reader, opts ParseOptions) (*model.Panel, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPanel, err)
	}
	return panelFromRows(rows, opts)
}
