package analytics

import (
	"sort"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/shopspring/decimal"
)

// DefaultRecent is the number of trades the recent-activity list shows.
const DefaultRecent = 5

// SymbolPnL is the net result of every trade on one pair.
type SymbolPnL struct {
	Pair   string          `json:"pair"`
	PnL    decimal.Decimal `json:"pnl"`
	Trades int             `json:"trades"`
}

// BySymbol sums P/L per pair, best to worst. Equal totals sort by pair.
func BySymbol(trades []journal.Trade) []SymbolPnL {
	index := make(map[string]int)
	var out []SymbolPnL
	for _, t := range trades {
		i, ok := index[t.Pair]
		if !ok {
			i = len(out)
			index[t.Pair] = i
			out = append(out, SymbolPnL{Pair: t.Pair})
		}
		out[i].PnL = out[i].PnL.Add(t.PnL)
		out[i].Trades++
	}

	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].PnL.Cmp(out[b].PnL); c != 0 {
			return c > 0
		}
		return out[a].Pair < out[b].Pair
	})
	return out
}

// DirectionCount is the long/short split.
type DirectionCount struct {
	Buy  int `json:"buy"`
	Sell int `json:"sell"`
}

func Directions(trades []journal.Trade) DirectionCount {
	var dc DirectionCount
	for _, t := range trades {
		switch t.Type {
		case journal.Buy:
			dc.Buy++
		case journal.Sell:
			dc.Sell++
		}
	}
	return dc
}

// Recent returns the first n trades. n <= 0 means DefaultRecent.
func Recent(trades []journal.Trade, n int) []journal.Trade {
	if n <= 0 {
		n = DefaultRecent
	}
	if n > len(trades) {
		n = len(trades)
	}
	out := make([]journal.Trade, n)
	copy(out, trades[:n])
	return out
}
