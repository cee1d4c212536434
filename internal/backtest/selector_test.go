package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum-backtest/internal/model"
)

func ids(samples []model.Sample) []string {
	out := make([]string, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.AssetID)
	}
	return out
}

func TestSelector_TopKeepsLargest(t *testing.T) {
	s := NewTopSelector(3, TieBreakInsertion)
	for i, r := range []float64{0.05, -0.02, 0.11, 0.07, 0.00, 0.09, -0.10} {
		s.Offer(string(rune('A'+i)), r)
	}

	got := s.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "F", "D"}, ids(got))
	assert.Equal(t, 0, s.Len(), "drain empties the selector")
}

func TestSelector_BottomKeepsSmallest(t *testing.T) {
	s := NewBottomSelector(2, TieBreakInsertion)
	for i, r := range []float64{0.05, -0.02, 0.11, 0.07, 0.00, 0.09, -0.10} {
		s.Offer(string(rune('A'+i)), r)
	}

	assert.Equal(t, []string{"G", "B"}, ids(s.Drain()))
}

func TestSelector_ZeroCapacityKeepsNothing(t *testing.T) {
	s := NewTopSelector(0, TieBreakInsertion)
	s.Offer("A", 1)
	assert.Empty(t, s.Drain())
}

func TestSelector_InsertionTieBreakAdmitsBoundaryTies(t *testing.T) {
	top := NewTopSelector(1, TieBreakInsertion)
	top.Offer("A", 0.10)
	top.Offer("B", 0.10)
	assert.Equal(t, []string{"B"}, ids(top.Drain()), "equal rate replaces the boundary entry")

	bottom := NewBottomSelector(1, TieBreakInsertion)
	bottom.Offer("A", -0.10)
	bottom.Offer("B", -0.10)
	assert.Equal(t, []string{"B"}, ids(bottom.Drain()))
}

func TestSelector_AssetIDTieBreakIsOrderIndependent(t *testing.T) {
	orders := [][]string{
		{"A", "B", "C", "D"},
		{"D", "C", "B", "A"},
		{"B", "D", "A", "C"},
	}
	for _, order := range orders {
		top := NewTopSelector(2, TieBreakAssetID)
		bottom := NewBottomSelector(2, TieBreakAssetID)
		for _, id := range order {
			top.Offer(id, 0.01)
			bottom.Offer(id, 0.01)
		}
		assert.ElementsMatch(t, []string{"C", "D"}, ids(top.Drain()), "order %v", order)
		assert.ElementsMatch(t, []string{"A", "B"}, ids(bottom.Drain()), "order %v", order)
	}
}

func TestSelector_UnknownTieBreakFallsBackToInsertion(t *testing.T) {
	s := NewTopSelector(1, TieBreak("random"))
	assert.Equal(t, TieBreakInsertion, s.tieBreak)
	assert.Equal(t, model.GroupTop, s.Group())
}
