package data

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"momentum-backtest/internal/model"
)

// LoadPanelXLSX reads a returns table from a workbook. An empty sheet name
// selects the first sheet.
func LoadPanelXLSX(path, sheet string, opts ParseOptions) (*model.Panel, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return panelFromWorkbook(f, sheet, opts)
}

func ParsePanelXLSX(r io.Reader, sheet string, opts ParseOptions) (*model.Panel, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", ErrInvalidPanel, err)
	}
	defer f.Close()
	return panelFromWorkbook(f, sheet, opts)
}

func panelFromWorkbook(f *excelize.File, sheet string, opts ParseOptions) (*model.Panel, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidPanel)
		}
		sheet = sheets[0]
	}
	// raw values keep full precision regardless of the cell number format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrInvalidPanel, sheet, err)
	}
	return panelFromRows(rows, opts)
}
