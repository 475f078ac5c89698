package analytics

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/shopspring/decimal"
)

// Report is the account review rendered by WriteOrg.
type Report struct {
	Account   journal.Account
	Currency  string
	Generated time.Time

	Summary    Summary
	Equity     []Point
	Drawdown   Drawdown
	Symbols    []SymbolPnL
	Directions DirectionCount
	Recent     []journal.Trade

	Notes []string
}

// NewReport computes every section of the review for acct from its trades.
func NewReport(acct journal.Account, trades []journal.Trade, currency string, now time.Time) Report {
	equity := EquityCurve(acct.InitialBalance, trades)
	return Report{
		Account:    acct,
		Currency:   currency,
		Generated:  now,
		Summary:    Summarize(trades),
		Equity:     equity,
		Drawdown:   MaxDrawdown(acct.InitialBalance, equity),
		Symbols:    BySymbol(trades),
		Directions: Directions(trades),
		Recent:     Recent(trades, DefaultRecent),
	}
}

// Return is the account's change since its initial balance, in percent.
func (r Report) Return() decimal.Decimal {
	if !r.Account.InitialBalance.IsPositive() {
		return decimal.Zero
	}
	return r.Account.CurrentBalance.Sub(r.Account.InitialBalance).
		Div(r.Account.InitialBalance).
		Mul(decimal.NewFromInt(100))
}

func (r Report) funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string { return journal.FormatMoney(d, r.Currency) },
		"pct":   func(d decimal.Decimal) string { return d.Mul(decimal.NewFromInt(100)).StringFixed(1) },
		"fixed": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"orTime": func(t time.Time) time.Time {
			if t.IsZero() {
				return time.Now()
			}
			return t
		},
	}
}

// WriteOrg renders the report as an Org-mode document.
func (r Report) WriteOrg(w io.Writer) error {
	t, err := template.New("report").Funcs(r.funcs()).Parse(ReportOrgTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}
	if err := t.Execute(w, r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

const ReportOrgTemplate = `* REVIEW: {{.Account.Name}} ({{.Account.Type}})
:PROPERTIES:
:ACCOUNT_ID:  {{.Account.ID}}
:START_BAL:   {{money .Account.InitialBalance}}
:END_BAL:     {{money .Account.CurrentBalance}}
:NET_PL:      {{money .Summary.NetProfit}}
:RETURN_PCT:  {{fixed .Return}}
:MAX_DD_PCT:  {{fixed .Drawdown.Pct}}
:TRADES:      {{.Summary.Trades}}
:WINS:        {{.Summary.Wins}}
:LOSSES:      {{.Summary.Losses}}
:WIN_RATE:    {{pct .Summary.WinRate}}
:PROFIT_FAC:  {{.Summary.ProfitFactor}}
:CREATED:     [{{(orTime .Generated).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{money .Summary.NetProfit}}*
- Win Rate:         *{{pct .Summary.WinRate}}%*
- Profit Factor:    *{{.Summary.ProfitFactor}}*
- Average Win:      *{{money .Summary.AvgWin}}*
- Average Loss:     *{{money .Summary.AvgLoss}}*
- Expectancy:       *{{money .Summary.Expectancy}}*
- Max Drawdown:     *{{money .Drawdown.Amount}}*
{{- if .Summary.RRTrades }}
- Avg R:R:          *1 : {{printf "%.2f" .Summary.AvgRR}}*
{{- end }}

** Trade Distribution
| Outcome    | Count |
|------------+-------|
| Wins       | {{.Summary.Wins}} |
| Losses     | {{.Summary.Losses}} |
| Break-even | {{.Summary.BreakEven}} |
| Buy        | {{.Directions.Buy}} |
| Sell       | {{.Directions.Sell}} |
{{- if .Symbols }}

** Assets
| Pair | Trades | P/L |
|------+--------+-----|
{{- range .Symbols }}
| {{.Pair}} | {{.Trades}} | {{money .PnL}} |
{{- end }}
{{- end }}
{{- if .Recent }}

** Recent Trades
{{- range .Recent }}
- {{.Date}} {{.Pair}} {{.Type}} {{money .PnL}} ({{.Status}})
{{- end }}
{{- end }}
{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
