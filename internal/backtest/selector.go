package backtest

import (
	"container/heap"

	"momentum-backtest/internal/model"
)

// TieBreak decides which of several equally-ranked boundary assets is kept.
type TieBreak string

const (
	// TieBreakInsertion admits a candidate whose rate equals the current
	// boundary, evicting the boundary entry. Among tied boundary assets the
	// later-processed ones win, so membership under ties depends on the
	// period's enumeration order. When boundary rates tie on both sides (for
	// example every asset has the same rate) the top and bottom groups can
	// share members even with 2k <= n; use TieBreakAssetID to keep them
	// disjoint.
	TieBreakInsertion TieBreak = "insertion"
	// TieBreakAssetID ranks samples by (rate, asset id). The top group takes
	// the greatest pairs and the bottom group the least, so membership is
	// order-independent and the groups stay disjoint even under ties.
	TieBreakAssetID TieBreak = "asset_id"
)

func (t TieBreak) Valid() bool {
	return t == TieBreakInsertion || t == TieBreakAssetID
}

// Selector keeps the best `capacity` samples offered to it for one group.
// The weakest kept sample sits at the heap root so each offer costs O(log k).
type Selector struct {
	group    model.Group
	capacity int
	tieBreak TieBreak
	h        sampleHeap
}

func NewTopSelector(capacity int, tb TieBreak) *Selector {
	return newSelector(model.GroupTop, capacity, tb)
}

func NewBottomSelector(capacity int, tb TieBreak) *Selector {
	return newSelector(model.GroupBottom, capacity, tb)
}

func newSelector(g model.Group, capacity int, tb TieBreak) *Selector {
	if capacity < 0 {
		capacity = 0
	}
	if !tb.Valid() {
		tb = TieBreakInsertion
	}
	s := &Selector{group: g, capacity: capacity, tieBreak: tb}
	s.h = sampleHeap{
		items: make([]model.Sample, 0, capacity),
		worse: s.worse,
	}
	return s
}

func (s *Selector) Group() model.Group { return s.group }

func (s *Selector) Len() int { return len(s.h.items) }

// Offer considers one sample for membership.
func (s *Selector) Offer(assetID string, rate float64) {
	if s.capacity == 0 {
		return
	}
	c := model.Sample{AssetID: assetID, Rate: rate}
	if len(s.h.items) < s.capacity {
		heap.Push(&s.h, c)
		return
	}
	if !s.admits(c) {
		return
	}
	s.h.items[0] = c
	heap.Fix(&s.h, 0)
}

// Drain empties the selector and returns its members, strongest first.
func (s *Selector) Drain() []model.Sample {
	out := make([]model.Sample, len(s.h.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&s.h).(model.Sample)
	}
	return out
}

func (s *Selector) admits(c model.Sample) bool {
	root := s.h.items[0]
	if s.tieBreak == TieBreakAssetID {
		return s.worse(root, c)
	}
	// boundary ties are admitted
	return !s.group.Better(root.Rate, c.Rate)
}

// worse reports whether a ranks behind b in this selector's group.
func (s *Selector) worse(a, b model.Sample) bool {
	if a.Rate != b.Rate {
		return s.group.Better(b.Rate, a.Rate)
	}
	if s.tieBreak == TieBreakAssetID {
		if s.group == model.GroupBottom {
			return a.AssetID > b.AssetID
		}
		return a.AssetID < b.AssetID
	}
	return false
}

type sampleHeap struct {
	items []model.Sample
	worse func(a, b model.Sample) bool
}

func (h sampleHeap) Len() int           { return len(h.items) }
func (h sampleHeap) Less(i, j int) bool { return h.worse(h.items[i], h.items[j]) }
func (h sampleHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *sampleHeap) Push(x any) { h.items = append(h.items, x.(model.Sample)) }

func (h *sampleHeap) Pop() any {
	n := len(h.items)
	x := h.items[n-1]
	h.items = h.items[:n-1]
	return x
}
