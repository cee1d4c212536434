package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"momentum-backtest/internal/model"
)

const DefaultPrecision = 6

// WriteSpreadCSV writes the wide spread report: one column per pair (oldest
// first), one row per metric, then a blank row and the grand average.
func WriteSpreadCSV(path string, res *Result, precision int) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteSpreadTable(w, res, precision)
	})
}

func WriteSpreadTable(out io.Writer, res *Result, precision int) error {
	if res == nil {
		return fmt.Errorf("result is nil")
	}
	w := csv.NewWriter(out)
	width := len(res.Ledger) + 1
	pct := bucketPercent(res.Buckets)

	rows := [][]string{
		metricRow("Period", res.Ledger, func(r LedgerRow) string { return r.Label }),
		metricRow(fmt.Sprintf("Average return of first %s%% percentile/each period", pct), res.Ledger,
			func(r LedgerRow) string { return fmtRate(r.TopAverage, precision) }),
		metricRow(fmt.Sprintf("Average return of last %s%% percentile/each period", pct), res.Ledger,
			func(r LedgerRow) string { return fmtRate(r.BottomAverage, precision) }),
		metricRow("Total average return/each period", res.Ledger,
			func(r LedgerRow) string { return fmtRate(r.Spread, precision) }),
		make([]string, width),
		padRow([]string{"Total average return of all period", fmtRate(res.GrandAverage, precision)}, width),
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteLedgerCSV writes one row per pair with group sizes and members.
func WriteLedgerCSV(path string, ledger []LedgerRow, precision int) error {
	return writeFile(path, func(out io.Writer) error {
		return WriteLedgerTable(out, ledger, precision)
	})
}

func WriteLedgerTable(out io.Writer, ledger []LedgerRow, precision int) error {
	w := csv.NewWriter(out)

	header := []string{
		"index",
		"period",
		"next_period",
		"assets",
		"group_size",
		"top_average",
		"bottom_average",
		"spread",
		"top_assets",
		"bottom_assets",
		"defaulted_assets",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			r.Label,
			r.NextLabel,
			strconv.Itoa(r.Assets),
			strconv.Itoa(r.GroupSize),
			fmtRate(r.TopAverage, precision),
			fmtRate(r.BottomAverage, precision),
			fmtRate(r.Spread, precision),
			joinIDs(r.Top),
			joinIDs(r.Bottom),
			strings.Join(r.Defaulted, ";"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeFile(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func metricRow(title string, ledger []LedgerRow, cell func(LedgerRow) string) []string {
	row := make([]string, 0, len(ledger)+1)
	row = append(row, title)
	for _, r := range ledger {
		row = append(row, cell(r))
	}
	return row
}

func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

func joinIDs(samples []model.Sample) string {
	ids := make([]string, 0, len(samples))
	for _, s := range samples {
		ids = append(ids, s.AssetID)
	}
	return strings.Join(ids, ";")
}

func bucketPercent(buckets int) string {
	if buckets <= 0 {
		buckets = DefaultBuckets
	}
	return strconv.FormatFloat(100/float64(buckets), 'f', -1, 64)
}

// FormatRate renders a rate with a fixed number of decimals.
func FormatRate(x float64, precision int) string { return fmtRate(x, precision) }

func fmtRate(x float64, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', precision, 64)
	}
	return decimal.NewFromFloat(x).StringFixed(int32(precision))
}
