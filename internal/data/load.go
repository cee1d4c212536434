package data

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"momentum-backtest/internal/model"
)

// Format names a panel file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatXLSX || f == FormatJSON
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("cannot infer panel format from %q", path)
	}
}

// Source describes where a panel comes from.
type Source struct {
	Path   string
	Format Format // empty = infer from Path
	Sheet  string // xlsx only
	Parse  ParseOptions
}

func (s Source) format() (Format, error) {
	if s.Format != "" {
		if !s.Format.Valid() {
			return "", fmt.Errorf("unsupported panel format %q", s.Format)
		}
		return s.Format, nil
	}
	return DetectFormat(s.Path)
}

// Load reads the panel described by src, oldest period first.
func Load(src Source) (*model.Panel, error) {
	format, err := src.format()
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return LoadPanelXLSX(src.Path, src.Sheet, src.Parse)
	case FormatJSON:
		return LoadPanelJSON(src.Path)
	default:
		return LoadPanelCSV(src.Path, src.Parse)
	}
}

// Parse reads a panel from r. src.Path is only used to infer the format.
func Parse(r io.Reader, src Source) (*model.Panel, error) {
	format, err := src.format()
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return ParsePanelXLSX(r, src.Sheet, src.Parse)
	case FormatJSON:
		return ParsePanelJSON(r)
	default:
		return ParsePanelCSV(r, src.Parse)
	}
}

// ParseBytes is Parse over an in-memory upload.
func ParseBytes(raw []byte, src Source) (*model.Panel, error) {
	return Parse(bytes.NewReader(raw), src)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
