package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	s := ComputeStats([]float64{0.02, -0.01, 0.03, 0.00})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 0.01, s.Mean, 1e-12)
	assert.InDelta(t, -0.01, s.Min, 1e-12)
	assert.InDelta(t, 0.03, s.Max, 1e-12)
	assert.InDelta(t, 0.5, s.HitRate, 1e-12)

	// sample variance of {0.01, -0.02, 0.02, -0.01} deviations = 0.001/3
	wantSD := math.Sqrt(0.001 / 3)
	assert.InDelta(t, wantSD, s.StdDev, 1e-12)
	assert.InDelta(t, 0.01/(wantSD/2), s.TStat, 1e-9)
	assert.InDelta(t, 1.02*0.99*1.03*1.0-1, s.Cumulative, 1e-12)

	// sorted {-0.01, 0, 0.02, 0.03}: pos 0.15 and 2.85
	assert.InDelta(t, -0.0085, s.P05, 1e-12)
	assert.InDelta(t, 0.0285, s.P95, 1e-12)
}

func TestComputeStats_Empty(t *testing.T) {
	assert.Equal(t, SeriesStats{}, ComputeStats(nil))
}

func TestComputeStats_SingleValue(t *testing.T) {
	s := ComputeStats([]float64{-0.5})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, -0.5, s.Mean)
	assert.Zero(t, s.StdDev)
	assert.Zero(t, s.TStat)
	assert.Equal(t, -0.5, s.P05)
	assert.Equal(t, -0.5, s.P95)
}

func TestPercentileSorted(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, percentileSorted(vals, 0))
	assert.Equal(t, 5.0, percentileSorted(vals, 1))
	assert.Equal(t, 3.0, percentileSorted(vals, 0.5))
	assert.InDelta(t, 1.2, percentileSorted(vals, 0.05), 1e-12)
	assert.Zero(t, percentileSorted(nil, 0.5))
}
