package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProfitLoss(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		dir        Direction
		entry      string
		exit       string
		size       string
		multiplier string
		want       string
	}{
		{"buy unscaled", Buy, "100", "105.5", "0", "0", "5.5"},
		{"sell unscaled", Sell, "100", "105.5", "0", "0", "-5.5"},
		{"gold sell one lot", Sell, "2030.50", "2025.00", "1", "100", "550"},
		{"forex buy half lot", Buy, "1.1050", "1.1040", "0.5", "100000", "-50"},
		{"crypto buy", Buy, "60000", "61000", "0.1", "1", "100"},
		{"size only", Buy, "10", "12", "3", "0", "6"},
		{"flat", Buy, "10", "10", "1", "100", "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ProfitLoss(tt.dir, d(tt.entry), d(tt.exit), d(tt.size), d(tt.multiplier))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Win, Classify(d("0.01")))
	assert.Equal(t, Loss, Classify(d("-1500")))
	assert.Equal(t, BreakEven, Classify(decimal.Zero))
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	dir, err := ParseDirection("sell")
	require.NoError(t, err)
	assert.Equal(t, Sell, dir)

	dir, err = ParseDirection("Long")
	require.NoError(t, err)
	assert.Equal(t, Buy, dir)

	_, err = ParseDirection("hold")
	assert.True(t, errors.Is(err, ErrInvalidTrade))
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	c, err := ParseCategory("funded")
	require.NoError(t, err)
	assert.Equal(t, Funded, c)

	_, err = ParseCategory("demo")
	assert.Error(t, err)
}

func TestTradeInputValidate(t *testing.T) {
	t.Parallel()

	valid := TradeInput{Pair: "XAUUSD", Type: Buy, Entry: d("2000"), Exit: d("2010")}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*TradeInput)
	}{
		{"no pair", func(in *TradeInput) { in.Pair = " " }},
		{"bad type", func(in *TradeInput) { in.Type = "Hold" }},
		{"zero entry", func(in *TradeInput) { in.Entry = decimal.Zero }},
		{"zero exit", func(in *TradeInput) { in.Exit = decimal.Zero }},
		{"negative stop", func(in *TradeInput) { in.StopLoss = d("-1") }},
		{"negative lots", func(in *TradeInput) { in.LotSize = d("-1") }},
		{"negative multiplier", func(in *TradeInput) { in.Multiplier = d("-100") }},
		{"bad date", func(in *TradeInput) { in.Date = "15/01/2024" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			assert.True(t, errors.Is(err, ErrInvalidTrade), "got %v", err)
		})
	}
}

func TestTradeInputBuild(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)
	in := TradeInput{
		Pair:       " xauusd ",
		Type:       Sell,
		Entry:      d("2030.50"),
		Exit:       d("2025.00"),
		StopLoss:   d("2035"),
		LotSize:    d("1"),
		Multiplier: d("100"),
		Notes:      "Waited for my setup",
	}

	tr := in.Build(now)
	assert.Equal(t, "XAUUSD", tr.Pair)
	assert.True(t, tr.PnL.Equal(d("550.00")))
	assert.Equal(t, Win, tr.Status)
	assert.Equal(t, "2024-05-17", tr.Date)
	assert.Equal(t, []string{"Disciplined"}, tr.Tags)
	assert.Zero(t, tr.ID)
	assert.Empty(t, tr.AccountID)
}

func TestTradeInputBuildRoundsAndKeepsDate(t *testing.T) {
	t.Parallel()

	in := TradeInput{Pair: "EURUSD", Type: Buy, Entry: d("1.10504"), Exit: d("1.10401"), Date: "2024-01-02"}
	tr := in.Build(time.Now())

	assert.True(t, tr.PnL.Equal(decimal.Zero), "raw distance rounds to 0.00, got %s", tr.PnL)
	assert.Equal(t, BreakEven, tr.Status)
	assert.Equal(t, "2024-01-02", tr.Date)
	assert.Nil(t, tr.Tags)
}
