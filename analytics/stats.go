// Package analytics derives the dashboard figures from a list of trades:
// win rate, profit factor, expectancy, the equity curve, the monthly P/L
// calendar and the per-symbol and per-direction breakdowns.
//
// All functions are pure. Trade slices are expected newest first, the order
// the store keeps them in.
package analytics

import (
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
	"github.com/shopspring/decimal"
)

// ProfitFactor is gross profit over gross loss. Infinite is set when there
// is no loss to divide by, including the no-trade case.
type ProfitFactor struct {
	Value    decimal.Decimal `json:"value"`
	Infinite bool            `json:"infinite"`
}

func (p ProfitFactor) String() string {
	if p.Infinite {
		return "∞"
	}
	return p.Value.StringFixed(2)
}

// Summary holds the aggregate performance figures of a trade set.
//
// Wins are trades with pnl > 0. Losses count every other trade, so
// break-even trades are on the loss side of the averages and the loss rate.
type Summary struct {
	Trades    int `json:"trades"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	BreakEven int `json:"breakEven"`

	WinRate  decimal.Decimal `json:"winRate"`
	LossRate decimal.Decimal `json:"lossRate"`

	GrossProfit decimal.Decimal `json:"grossProfit"`
	GrossLoss   decimal.Decimal `json:"grossLoss"`
	NetProfit   decimal.Decimal `json:"netProfit"`
	AvgWin      decimal.Decimal `json:"avgWin"`
	AvgLoss     decimal.Decimal `json:"avgLoss"`

	ProfitFactor ProfitFactor    `json:"profitFactor"`
	Expectancy   decimal.Decimal `json:"expectancy"`

	// AvgRR is the mean realized R multiple over the RRTrades trades that
	// carry a stop loss.
	AvgRR    float64 `json:"avgRR"`
	RRTrades int     `json:"rrTrades"`
}

// Summarize computes the Summary of trades.
func Summarize(trades []journal.Trade) Summary {
	var s Summary
	s.Trades = len(trades)

	var rrSum float64
	for _, t := range trades {
		s.NetProfit = s.NetProfit.Add(t.PnL)
		if t.PnL.IsPositive() {
			s.Wins++
			s.GrossProfit = s.GrossProfit.Add(t.PnL)
		} else {
			s.Losses++
			s.GrossLoss = s.GrossLoss.Add(t.PnL.Abs())
			if t.PnL.IsZero() {
				s.BreakEven++
			}
		}

		if r, ok := RMultiple(t); ok {
			rrSum += r
			s.RRTrades++
		}
	}

	if s.Trades > 0 {
		total := decimal.NewFromInt(int64(s.Trades))
		s.WinRate = decimal.NewFromInt(int64(s.Wins)).Div(total)
		s.LossRate = decimal.NewFromInt(int64(s.Losses)).Div(total)
	}
	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit.Div(decimal.NewFromInt(int64(s.Wins)))
	}
	if s.Losses > 0 {
		s.AvgLoss = s.GrossLoss.Div(decimal.NewFromInt(int64(s.Losses)))
	}

	if s.GrossLoss.IsPositive() {
		s.ProfitFactor = ProfitFactor{Value: s.GrossProfit.Div(s.GrossLoss)}
	} else {
		s.ProfitFactor = ProfitFactor{Infinite: true}
	}

	s.Expectancy = s.AvgWin.Mul(s.WinRate).Sub(s.AvgLoss.Mul(s.LossRate))

	if s.RRTrades > 0 {
		s.AvgRR = rrSum / float64(s.RRTrades)
	}
	return s
}

// RMultiple is the realized reward in units of the planned risk: positive for
// winners, negative for losers. ok is false when the trade has no stop loss or
// the stop sits on the entry.
func RMultiple(t journal.Trade) (float64, bool) {
	if t.StopLoss.IsZero() || t.StopLoss.Equal(t.Entry) {
		return 0, false
	}

	r := risk.RR(t.Entry.InexactFloat64(), t.StopLoss.InexactFloat64(), t.Exit.InexactFloat64())
	move := journal.ProfitLoss(t.Type, t.Entry, t.Exit, decimal.Zero, decimal.Zero)
	if move.IsNegative() {
		r = -r
	}
	return r, true
}
