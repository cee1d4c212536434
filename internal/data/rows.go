package data

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"momentum-backtest/internal/model"
)

// Order is the column order of periods in a source table.
type Order string

const (
	// OrderNewestFirst is the layout of the usual vendor exports: the most
	// recent month sits in the first data column.
	OrderNewestFirst Order = "newest_first"
	OrderOldestFirst Order = "oldest_first"
)

func (o Order) Valid() bool { return o == OrderNewestFirst || o == OrderOldestFirst }

const MissingToken = "#N/A"

var ErrInvalidPanel = errors.New("invalid panel")

// ParseOptions controls how a returns table becomes a Panel.
type ParseOptions struct {
	Order Order
	// MissingTokens are cell values read as a return of exactly 0.
	MissingTokens []string
}

func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Order:         OrderNewestFirst,
		MissingTokens: []string{MissingToken},
	}
}

func (o ParseOptions) normalized() ParseOptions {
	if !o.Order.Valid() {
		o.Order = OrderNewestFirst
	}
	if o.MissingTokens == nil {
		o.MissingTokens = []string{MissingToken}
	}
	return o
}

// ParseLabel splits a header cell such as "16-Mar" into year and month tokens.
// Cells without a '-' become a year token with an empty month.
func ParseLabel(cell string) (year, month string) {
	cell = strings.TrimSpace(cell)
	year, month, _ = strings.Cut(cell, "-")
	return strings.TrimSpace(year), strings.TrimSpace(month)
}

// panelFromRows builds a chronological panel from a table whose first row
// holds period labels (after one leading asset-id column) and whose other
// rows hold an asset id followed by one return per period.
//
// Blank rows and rows with an empty asset id are skipped. A blank return cell
// leaves the asset absent from that period.
func panelFromRows(rows [][]string, opts ParseOptions) (*model.Panel, error) {
	opts = opts.normalized()
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrInvalidPanel)
	}

	header := trimTrailingBlank(rows[0])
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: header has no period columns", ErrInvalidPanel)
	}
	periods := make([]*model.Period, 0, len(header)-1)
	for col, cell := range header[1:] {
		year, month := ParseLabel(cell)
		if year == "" && month == "" {
			return nil, fmt.Errorf("%w: header column %d is blank", ErrInvalidPanel, col+2)
		}
		periods = append(periods, model.NewPeriod(year, month))
	}

	missing := make(map[string]struct{}, len(opts.MissingTokens))
	for _, tok := range opts.MissingTokens {
		missing[strings.TrimSpace(tok)] = struct{}{}
	}

	for r, row := range rows[1:] {
		line := r + 2
		if len(row) == 0 {
			continue
		}
		assetID := cleanCell(row[0])
		if assetID == "" {
			continue
		}
		values := trimTrailingBlank(row[1:])
		if len(values) > len(periods) {
			return nil, fmt.Errorf("%w: row %d (%s) has %d values for %d periods",
				ErrInvalidPanel, line, assetID, len(values), len(periods))
		}
		for col, raw := range values {
			cell := cleanCell(raw)
			if cell == "" {
				continue
			}
			rate := 0.0
			if _, ok := missing[cell]; !ok {
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("%w: row %d (%s) column %d: %q is not a number",
						ErrInvalidPanel, line, assetID, col+2, cell)
				}
				rate = v
			}
			if err := periods[col].SetReturn(assetID, rate); err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidPanel, line, err)
			}
		}
	}

	panel := &model.Panel{Periods: periods}
	if opts.Order == OrderNewestFirst {
		panel.Reverse()
	}
	panel.Freeze()
	return panel, nil
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(s, "\r"))
}

func trimTrailingBlank(cells []string) []string {
	n := len(cells)
	for n > 0 && cleanCell(cells[n-1]) == "" {
		n--
	}
	return cells[:n]
}
