package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show performance statistics of the active account",
	Long: `Summarize the active account: win rate, profit factor, expectancy,
drawdown and the best and worst symbols.

With --org the full account review is written as an org document.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the monthly P/L calendar of the active account",
	Args:  cobra.NoArgs,
	RunE:  runCalendar,
}

var (
	statsOrg      bool
	calendarMonth string
)

func init() {
	rootCmd.AddCommand(statsCmd, calendarCmd)

	statsCmd.Flags().BoolVar(&statsOrg, "org", false, "write the account review as org")
	calendarCmd.Flags().StringVarP(&calendarMonth, "month", "m", "", "month as YYYY-MM (default current month)")
}

func runStats(cmd *cobra.Command, args []string) error {
	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		rep, ok := st.Report(a.cfg.Currency)
		if !ok {
			return store.ErrNoActiveAccount
		}
		if statsOrg {
			return rep.WriteOrg(cmd.OutOrStdout())
		}
		writeSummary(cmd.OutOrStdout(), rep)
		return nil
	})
}

func writeSummary(out io.Writer, rep analytics.Report) {
	money := func(d decimal.Decimal) string { return journal.FormatMoney(d, rep.Currency) }
	s := rep.Summary

	fmt.Fprintf(out, "%s (%s)\n", rep.Account.Name, rep.Account.Type)
	fmt.Fprintf(out, "  Balance:       %s (%s%%)\n", money(rep.Account.CurrentBalance), rep.Return().StringFixed(2))
	fmt.Fprintf(out, "  Trades:        %d (%d W / %d L, %d BE)\n", s.Trades, s.Wins, s.Losses, s.BreakEven)
	fmt.Fprintf(out, "  Win rate:      %s%%\n", s.WinRate.Mul(decimal.NewFromInt(100)).StringFixed(1))
	fmt.Fprintf(out, "  Net profit:    %s\n", money(s.NetProfit))
	fmt.Fprintf(out, "  Avg win/loss:  %s / %s\n", money(s.AvgWin), money(s.AvgLoss))
	fmt.Fprintf(out, "  Profit factor: %s\n", s.ProfitFactor)
	fmt.Fprintf(out, "  Expectancy:    %s\n", money(s.Expectancy))
	if s.RRTrades > 0 {
		fmt.Fprintf(out, "  Avg R:         %.2f (%d trades)\n", s.AvgRR, s.RRTrades)
	}
	fmt.Fprintf(out, "  Max drawdown:  %s (%s%%)\n", money(rep.Drawdown.Amount), rep.Drawdown.Pct.StringFixed(2))
	fmt.Fprintf(out, "  Long/Short:    %d / %d\n", rep.Directions.Buy, rep.Directions.Sell)
	if n := len(rep.Symbols); n > 0 {
		fmt.Fprintf(out, "  Best symbol:   %s %s\n", rep.Symbols[0].Pair, money(rep.Symbols[0].PnL))
		fmt.Fprintf(out, "  Worst symbol:  %s %s\n", rep.Symbols[n-1].Pair, money(rep.Symbols[n-1].PnL))
	}
}

func parseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, errors.New("--month must be YYYY-MM")
	}
	return t, nil
}

func runCalendar(cmd *cobra.Command, args []string) error {
	month, err := parseMonth(calendarMonth, time.Now())
	if err != nil {
		return err
	}
	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		cal := st.Calendar(month.Year(), month.Month())
		writeCalendar(cmd.OutOrStdout(), cal, a.cfg.Currency)
		return nil
	})
}

// writeCalendar prints one row per week: the day numbers, then the P/L of
// the days that traded.
func writeCalendar(out io.Writer, cal analytics.Calendar, currency string) {
	fmt.Fprintf(out, "%s %d\n", cal.Month, cal.Year)
	fmt.Fprintln(out, " Su  Mo  Tu  We  Th  Fr  Sa")
	for _, w := range cal.Weeks {
		var cells, pnl []string
		for _, d := range w.Days {
			if d == nil {
				cells = append(cells, "   ")
				continue
			}
			mark := " "
			switch d.Outcome() {
			case journal.Win:
				mark = "+"
			case journal.Loss:
				mark = "-"
			case journal.BreakEven:
				mark = "="
			}
			cells = append(cells, fmt.Sprintf("%2d%s", d.Day, mark))
			if d.Trades > 0 {
				pnl = append(pnl, fmt.Sprintf("%d:%s", d.Day, journal.FormatMoney(d.PnL, currency)))
			}
		}
		line := " " + strings.Join(cells, " ")
		if w.Trades > 0 {
			line += fmt.Sprintf("   week %s [%s]", journal.FormatMoney(w.PnL, currency), strings.Join(pnl, " "))
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
	fmt.Fprintf(out, "Month: %s over %d trades\n", journal.FormatMoney(cal.PnL, currency), cal.Trades)
}
