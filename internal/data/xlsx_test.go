package data

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into a new workbook whose only sheet is named sheet.
func buildWorkbook(t *testing.T, sheet string, rows [][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	return f
}

var workbookRows = [][]any{
	{"Symbol", "16-Mar", "16-Feb"},
	{"AAPL", 0.0125, "#N/A"},
	{"MSFT", -0.02, 0.01},
}

func TestLoadPanelXLSX(t *testing.T) {
	f := buildWorkbook(t, "Returns", workbookRows)
	path := filepath.Join(t.TempDir(), "panel.xlsx")
	require.NoError(t, f.SaveAs(path))

	panel, err := LoadPanelXLSX(path, "", DefaultParseOptions())
	require.NoError(t, err)

	require.Equal(t, []string{"16-Feb", "16-Mar"}, panel.Labels())
	assert.Equal(t, 0.0125, rate(t, panel.Periods[1], "AAPL"))
	assert.Equal(t, 0.0, rate(t, panel.Periods[0], "AAPL"))
	assert.Equal(t, -0.02, rate(t, panel.Periods[1], "MSFT"))
}

func TestParsePanelXLSX_NamedSheet(t *testing.T) {
	f := buildWorkbook(t, "Returns", workbookRows)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	panel, err := ParsePanelXLSX(bytes.NewReader(buf.Bytes()), "Returns", DefaultParseOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, panel.Len())

	_, err = ParsePanelXLSX(bytes.NewReader(buf.Bytes()), "Nope", DefaultParseOptions())
	assert.ErrorIs(t, err, ErrInvalidPanel)
}

func TestParsePanelXLSX_NotAWorkbook(t *testing.T) {
	_, err := ParsePanelXLSX(bytes.NewReader([]byte("id,16-Jan\n")), "", DefaultParseOptions())
	assert.ErrorIs(t, err, ErrInvalidPanel)
}
