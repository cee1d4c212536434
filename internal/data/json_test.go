package data

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelJSON_SaveAndLoad(t *testing.T) {
	panel, err := ParsePanelCSV(strings.NewReader(newestFirstCSV), DefaultParseOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "panel.json")
	require.NoError(t, SavePanelJSON(panel, path))

	loaded, err := LoadPanelJSON(path)
	require.NoError(t, err)
	assert.Equal(t, panel.Labels(), loaded.Labels())
	for i := range panel.Periods {
		assert.ElementsMatch(t, panel.Periods[i].Samples(), loaded.Periods[i].Samples())
	}
}

func TestParsePanelJSON_SortsAssets(t *testing.T) {
	in := `{"periods":[{"year":"16","month":"Jan","returns":{"Z":0.1,"A":0.2,"M":-0.1}}]}`
	panel, err := ParsePanelJSON(strings.NewReader(in))
	require.NoError(t, err)

	samples := panel.Periods[0].Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, "A", samples[0].AssetID)
	assert.Equal(t, "Z", samples[2].AssetID)
}

func TestParsePanelJSON_Errors(t *testing.T) {
	_, err := ParsePanelJSON(strings.NewReader(`{"periods":`))
	assert.ErrorIs(t, err, ErrInvalidPanel)

	_, err = ParsePanelJSON(strings.NewReader(`{"periods":[{"returns":{}}]}`))
	assert.ErrorIs(t, err, ErrInvalidPanel)

	_, err = ParsePanelJSON(strings.NewReader(`{"periods":[{"year":"16","returns":{"":1}}]}`))
	assert.ErrorIs(t, err, ErrInvalidPanel)
}
