package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	result := FormatTradeOrg(sampleTrade(), "USD")

	assert.Contains(t, result, "** Trade: XAUUSD Sell (#42)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":TRADE_ID: 42")
	assert.Contains(t, result, ":ACCOUNT_ID: acct-1")
	assert.Contains(t, result, ":ENTRY: 2030.5")
	assert.Contains(t, result, ":EXIT: 2025")
	assert.Contains(t, result, ":STOP_LOSS: 2035")
	assert.Contains(t, result, ":PNL: $550.00")
	assert.Contains(t, result, ":STATUS: Win")
	assert.Contains(t, result, ":TAGS: Disciplined")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Review\n- followed the plan")
}

func TestFormatTradeOrgMinimal(t *testing.T) {
	t.Parallel()

	tr := Trade{ID: 1, Pair: "EURUSD", Type: Buy, Entry: d("1.1"), Exit: d("1.1"), Status: BreakEven, Date: "2024-01-01"}
	result := FormatTradeOrg(tr, "")

	assert.NotContains(t, result, ":STOP_LOSS:")
	assert.NotContains(t, result, ":LOT_SIZE:")
	assert.NotContains(t, result, ":TAGS:")
	assert.Contains(t, result, ":PNL: $0.00")
	assert.True(t, strings.HasSuffix(result, "*** Review\n- \n"))
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	a := sampleTrade()
	b := sampleTrade()
	b.ID = 43

	result := FormatTradesOrg([]Trade{a, b}, "USD")
	assert.Equal(t, 2, strings.Count(result, "** Trade:"))
	assert.Empty(t, FormatTradesOrg(nil, "USD"))
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$98,500.00", FormatMoney(d("98500"), "USD"))
	assert.Equal(t, "-$1,500.00", FormatMoney(d("-1500"), "usd"))
	assert.Equal(t, "$1.00", FormatMoney(d("1"), "NOPE"))
	assert.True(t, KnownCurrency("EUR"))
	assert.False(t, KnownCurrency("NOPE"))
}
