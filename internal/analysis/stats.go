package analysis

import (
	"math"
	"sort"
)

// SeriesStats summarizes a spread series. Mean equals the series' grand
// average; it is recomputed here from the spreads for standalone use.
type SeriesStats struct {
	Count int `json:"count"`

	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	// TStat is Mean / (StdDev / sqrt(Count)); 0 when undefined.
	TStat float64 `json:"t_stat"`

	Min float64 `json:"min"`
	Max float64 `json:"max"`
	P05 float64 `json:"p05"`
	P95 float64 `json:"p95"`

	// HitRate is the share of strictly positive spreads.
	HitRate float64 `json:"hit_rate"`
	// Cumulative compounds the spreads: prod(1 + s) - 1.
	Cumulative float64 `json:"cumulative"`
}

func ComputeStats(spreads []float64) SeriesStats {
	s := SeriesStats{}
	if len(spreads) == 0 {
		return s
	}
	s.Count = len(spreads)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	growth := 1.0
	positive := 0
	vals := make([]float64, 0, len(spreads))
	for _, v := range spreads {
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
		if v > 0 {
			positive++
		}
		growth *= 1 + v
	}
	sort.Float64s(vals)

	s.Mean = sum / float64(s.Count)
	s.Min = minv
	s.Max = maxv
	s.P05 = percentileSorted(vals, 0.05)
	s.P95 = percentileSorted(vals, 0.95)
	s.HitRate = float64(positive) / float64(s.Count)
	s.Cumulative = growth - 1

	if s.Count > 1 {
		ss := 0.0
		for _, v := range spreads {
			d := v - s.Mean
			ss += d * d
		}
		s.StdDev = math.Sqrt(ss / float64(s.Count-1))
		if s.StdDev > 0 {
			s.TStat = s.Mean / (s.StdDev / math.Sqrt(float64(s.Count)))
		}
	}
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
