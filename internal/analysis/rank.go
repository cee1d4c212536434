package analysis

import (
	"sort"

	"momentum-backtest/internal/backtest"
)

type RankedPair struct {
	Rank int
	backtest.LedgerRow
}

// RankBySpread orders pairs by spread, largest first. Equal spreads keep
// chronological order.
func RankBySpread(ledger []backtest.LedgerRow) []RankedPair {
	out := make([]RankedPair, 0, len(ledger))
	for _, row := range ledger {
		out = append(out, RankedPair{LedgerRow: row})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Spread > out[j].Spread
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
