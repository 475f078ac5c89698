package analytics

import (
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/shopspring/decimal"
)

// Day is one calendar cell.
type Day struct {
	Day    int             `json:"day"`
	Date   string          `json:"date"`
	PnL    decimal.Decimal `json:"pnl"`
	Trades int             `json:"trades"`
}

// Outcome classifies the day's net result. Days without trades report "".
func (d Day) Outcome() journal.Outcome {
	if d.Trades == 0 {
		return ""
	}
	return journal.Classify(d.PnL)
}

// Week is a Sunday-first row of the grid. Cells outside the month are nil.
type Week struct {
	Days   [7]*Day         `json:"days"`
	PnL    decimal.Decimal `json:"pnl"`
	Trades int             `json:"trades"`
}

// Calendar is the monthly P/L grid.
type Calendar struct {
	Year   int             `json:"year"`
	Month  time.Month      `json:"month"`
	Weeks  []Week          `json:"weeks"`
	PnL    decimal.Decimal `json:"pnl"`
	Trades int             `json:"trades"`
}

// Month groups trades dated in the given month by day and lays the days out
// on a Sunday-first grid. Trades whose date does not parse are ignored.
func Month(trades []journal.Trade, year int, month time.Month) Calendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()

	days := make([]Day, daysIn)
	for i := range days {
		days[i] = Day{
			Day:  i + 1,
			Date: first.AddDate(0, 0, i).Format(journal.DateLayout),
		}
	}

	cal := Calendar{Year: year, Month: month}
	for _, t := range trades {
		date, err := time.Parse(journal.DateLayout, t.Date)
		if err != nil || date.Year() != year || date.Month() != month {
			continue
		}
		d := &days[date.Day()-1]
		d.PnL = d.PnL.Add(t.PnL)
		d.Trades++
		cal.PnL = cal.PnL.Add(t.PnL)
		cal.Trades++
	}

	var week Week
	col := int(first.Weekday())
	for i := range days {
		week.Days[col] = &days[i]
		week.PnL = week.PnL.Add(days[i].PnL)
		week.Trades += days[i].Trades
		col++
		if col == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = Week{}
			col = 0
		}
	}
	if col > 0 {
		cal.Weeks = append(cal.Weeks, week)
	}
	return cal
}
