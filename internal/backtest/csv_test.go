package backtest

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum-backtest/internal/model"
)

func sampleResult() *Result {
	return &Result{
		Buckets: 10,
		Ledger: []LedgerRow{
			{
				Index: 0, Label: "16-Jan", NextLabel: "16-Feb", Assets: 10, GroupSize: 1,
				Top:          []model.Sample{{AssetID: "A", Rate: 0.2}},
				Bottom:       []model.Sample{{AssetID: "C", Rate: -0.3}},
				SpreadResult: SpreadResult{TopAverage: 0.2, BottomAverage: -0.3, Spread: -0.5},
			},
			{
				Index: 1, Label: "16-Feb", NextLabel: "16-Mar", Assets: 10, GroupSize: 1,
				Top:          []model.Sample{{AssetID: "B", Rate: 0.01}},
				Bottom:       []model.Sample{{AssetID: "D", Rate: 0.02}},
				Defaulted:    []string{"D"},
				SpreadResult: SpreadResult{TopAverage: 0.01, BottomAverage: 0.02, Spread: 0.01},
			},
		},
		GrandAverage: -0.245,
	}
}

func TestWriteSpreadTable_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSpreadTable(&buf, sampleResult(), 4))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)

	assert.Equal(t, []string{"Period", "16-Jan", "16-Feb"}, rows[0])
	assert.Equal(t, []string{"Average return of first 10% percentile/each period", "0.2000", "0.0100"}, rows[1])
	assert.Equal(t, []string{"Average return of last 10% percentile/each period", "-0.3000", "0.0200"}, rows[2])
	assert.Equal(t, []string{"Total average return/each period", "-0.5000", "0.0100"}, rows[3])
	assert.Equal(t, []string{"", "", ""}, rows[4])
	assert.Equal(t, []string{"Total average return of all period", "-0.2450", ""}, rows[5])
}

func TestWriteSpreadTable_BucketPercentInTitles(t *testing.T) {
	res := sampleResult()
	res.Buckets = 5

	var buf bytes.Buffer
	require.NoError(t, WriteSpreadTable(&buf, res, 6))
	assert.Contains(t, buf.String(), "Average return of first 20% percentile/each period")
}

func TestWriteSpreadTable_NilResult(t *testing.T) {
	assert.Error(t, WriteSpreadTable(&bytes.Buffer{}, nil, 6))
}

func TestWriteSpreadCSV_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spread.csv")
	require.NoError(t, WriteSpreadCSV(path, sampleResult(), 6))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "Period,16-Jan,16-Feb\n"))
}

func TestWriteLedgerCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, WriteLedgerCSV(path, sampleResult().Ledger, 6))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "spread", rows[0][7])
	assert.Equal(t, []string{"1", "16-Feb", "16-Mar", "10", "1", "0.010000", "0.020000", "0.010000", "B", "D", "D"}, rows[2])
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "-0.500000", FormatRate(-0.5, 6))
	assert.Equal(t, "0.0123", FormatRate(0.0123, 4))
	assert.Equal(t, "NaN", FormatRate(math.NaN(), 2))
}
