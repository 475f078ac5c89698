package analytics

import (
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/shopspring/decimal"
)

// Point is one sample of the equity curve. N counts trades from 1; the flat
// curve of an account with no trades has a single point with N == 0.
type Point struct {
	N       int             `json:"n"`
	Date    string          `json:"date,omitempty"`
	Balance decimal.Decimal `json:"balance"`
}

// EquityCurve replays trades oldest to newest on top of initial.
func EquityCurve(initial decimal.Decimal, trades []journal.Trade) []Point {
	if len(trades) == 0 {
		return []Point{{Balance: initial}}
	}

	points := make([]Point, 0, len(trades))
	balance := initial
	for i := len(trades) - 1; i >= 0; i-- {
		balance = balance.Add(trades[i].PnL)
		points = append(points, Point{
			N:       len(points) + 1,
			Date:    trades[i].Date,
			Balance: balance,
		})
	}
	return points
}

// Drawdown is the largest peak-to-trough fall of an equity curve.
type Drawdown struct {
	Amount decimal.Decimal `json:"amount"`
	Pct    decimal.Decimal `json:"pct"`
}

// MaxDrawdown scans the curve starting from initial, which counts as the
// first peak.
func MaxDrawdown(initial decimal.Decimal, points []Point) Drawdown {
	var dd Drawdown
	peak := initial
	for _, p := range points {
		if p.Balance.GreaterThan(peak) {
			peak = p.Balance
			continue
		}
		fall := peak.Sub(p.Balance)
		if fall.GreaterThan(dd.Amount) {
			dd.Amount = fall
			if peak.IsPositive() {
				dd.Pct = fall.Div(peak).Mul(decimal.NewFromInt(100))
			}
		}
	}
	return dd
}
