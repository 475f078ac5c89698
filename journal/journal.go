// Package journal holds the trade journal data model, the P/L arithmetic used
// when a trade is logged, the mapping between client and persisted records and
// the persistence backends.
package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/psych"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format trades are grouped by.
const DateLayout = "2006-01-02"

var (
	// ErrNotFound is returned by backends when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTrade wraps every TradeInput validation failure.
	ErrInvalidTrade = errors.New("invalid trade")
)

// Direction is the side of a trade.
type Direction string

const (
	Buy  Direction = "Buy"
	Sell Direction = "Sell"
)

// ParseDirection accepts Buy/Sell in any case, plus long/short.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "long":
		return Buy, nil
	case "sell", "short":
		return Sell, nil
	}
	return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidTrade, s)
}

// Outcome is the stored classification of a trade's result.
type Outcome string

const (
	Win       Outcome = "Win"
	Loss      Outcome = "Loss"
	BreakEven Outcome = "BE"
)

// Category is the kind of account being tracked.
type Category string

const (
	Challenge Category = "Challenge"
	Funded    Category = "Funded"
	Personal  Category = "Personal"
)

// ParseCategory matches the category names case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range []Category{Challenge, Funded, Personal} {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown account type %q", s)
}

// Trade is one logged position, in client naming.
type Trade struct {
	ID        int64           `json:"id"`
	AccountID string          `json:"accountId"`
	Pair      string          `json:"pair"`
	Type      Direction       `json:"type"`
	Entry     decimal.Decimal `json:"entry"`
	Exit      decimal.Decimal `json:"exit"`
	StopLoss  decimal.Decimal `json:"stopLoss"`
	LotSize   decimal.Decimal `json:"lotSize"`
	PnL       decimal.Decimal `json:"pnl"`
	Status    Outcome         `json:"status"`
	Date      string          `json:"date"`
	Tags      []string        `json:"tags"`
	Notes     string          `json:"notes"`
}

// Account is a tracked balance context. CurrentBalance is derived from the
// live trade set and is never persisted.
type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           Category        `json:"type"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ProfitLoss returns the signed result of a trade. size and multiplier scale
// the raw price distance only when they are non-zero.
func ProfitLoss(dir Direction, entry, exit, size, multiplier decimal.Decimal) decimal.Decimal {
	var pl decimal.Decimal
	if dir == Buy {
		pl = exit.Sub(entry)
	} else {
		pl = entry.Sub(exit)
	}
	if !size.IsZero() {
		pl = pl.Mul(size)
	}
	if !multiplier.IsZero() {
		pl = pl.Mul(multiplier)
	}
	return pl
}

// Classify maps the sign of pnl to an Outcome.
func Classify(pnl decimal.Decimal) Outcome {
	switch pnl.Sign() {
	case 1:
		return Win
	case -1:
		return Loss
	}
	return BreakEven
}

// TradeInput is the payload of the trade logging form.
type TradeInput struct {
	Pair       string          `json:"pair"`
	Type       Direction       `json:"type"`
	Entry      decimal.Decimal `json:"entry"`
	Exit       decimal.Decimal `json:"exit"`
	StopLoss   decimal.Decimal `json:"stopLoss"`
	LotSize    decimal.Decimal `json:"lotSize"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Date       string          `json:"date"`
	Notes      string          `json:"notes"`
}

// Validate performs the presence checks the form relies on before computing
// derived values.
func (in TradeInput) Validate() error {
	if strings.TrimSpace(in.Pair) == "" {
		return fmt.Errorf("%w: pair is required", ErrInvalidTrade)
	}
	if in.Type != Buy && in.Type != Sell {
		return fmt.Errorf("%w: type must be Buy or Sell", ErrInvalidTrade)
	}
	if !in.Entry.IsPositive() {
		return fmt.Errorf("%w: entry must be positive", ErrInvalidTrade)
	}
	if !in.Exit.IsPositive() {
		return fmt.Errorf("%w: exit must be positive", ErrInvalidTrade)
	}
	if in.StopLoss.IsNegative() {
		return fmt.Errorf("%w: stop loss must not be negative", ErrInvalidTrade)
	}
	if in.LotSize.IsNegative() {
		return fmt.Errorf("%w: lot size must not be negative", ErrInvalidTrade)
	}
	if in.Multiplier.IsNegative() {
		return fmt.Errorf("%w: multiplier must not be negative", ErrInvalidTrade)
	}
	if in.Date != "" {
		if _, err := time.Parse(DateLayout, in.Date); err != nil {
			return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidTrade)
		}
	}
	return nil
}

// Build turns the input into a Trade with P/L, outcome and psychology tags
// filled in. The result has no ID or AccountID yet.
func (in TradeInput) Build(now time.Time) Trade {
	pnl := ProfitLoss(in.Type, in.Entry, in.Exit, in.LotSize, in.Multiplier).Round(2)
	date := in.Date
	if date == "" {
		date = now.Format(DateLayout)
	}
	return Trade{
		Pair:     strings.ToUpper(strings.TrimSpace(in.Pair)),
		Type:     in.Type,
		Entry:    in.Entry,
		Exit:     in.Exit,
		StopLoss: in.StopLoss,
		LotSize:  in.LotSize,
		PnL:      pnl,
		Status:   Classify(pnl),
		Date:     date,
		Tags:     psych.Analyze(in.Notes),
		Notes:    in.Notes,
	}
}
