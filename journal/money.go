package journal

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = money.USD

// KnownCurrency reports whether code is an ISO currency go-money can format.
func KnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(code)) != nil
}

// FormatMoney renders an amount in the given currency, e.g. "$98,500.00".
// Unknown currencies fall back to DefaultCurrency.
func FormatMoney(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	if !KnownCurrency(code) {
		code = DefaultCurrency
	}
	return money.NewFromFloat(amount.InexactFloat64(), code).Display()
}
