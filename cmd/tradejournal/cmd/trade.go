package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Log and query trades",
	Long: `Log closed trades against the active account and query the journal.

Subcommands:
  list   - List trades of the active account, newest first
  add    - Log a trade; P/L, outcome and psychology tags are computed
  delete - Delete a trade by id
  show   - Show one trade as an org entry
  export - Export trades as CSV or org

Examples:
  tradejournal trade add --pair XAUUSD --type sell --entry 2030.5 --exit 2025 --lots 1 --multiplier 100 --notes "waited for the setup"
  tradejournal trade export --format csv -o trades.csv`,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades of the active account",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a trade against the active account",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeDelete,
}

var tradeShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show the details of a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeShow,
}

var tradeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades as CSV or org",
	Args:  cobra.NoArgs,
	RunE:  runTradeExport,
}

var (
	tradeAll bool

	tradePair       string
	tradeType       string
	tradeEntry      string
	tradeExit       string
	tradeStop       string
	tradeLots       string
	tradeMultiplier string
	tradeDate       string
	tradeNotes      string

	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeListCmd, tradeAddCmd, tradeDeleteCmd, tradeShowCmd, tradeExportCmd)

	tradeListCmd.Flags().BoolVar(&tradeAll, "all", false, "include trades of every account")
	tradeExportCmd.Flags().BoolVar(&tradeAll, "all", false, "include trades of every account")

	f := tradeAddCmd.Flags()
	f.StringVar(&tradePair, "pair", "", "instrument, e.g. XAUUSD (required)")
	f.StringVar(&tradeType, "type", "", "buy or sell (required)")
	f.StringVar(&tradeEntry, "entry", "", "entry price (required)")
	f.StringVar(&tradeExit, "exit", "", "exit price (required)")
	f.StringVar(&tradeStop, "sl", "0", "stop loss price")
	f.StringVar(&tradeLots, "lots", "0", "lot size; 0 leaves the price distance unscaled")
	f.StringVar(&tradeMultiplier, "multiplier", "0", "contract multiplier; 0 leaves the price distance unscaled")
	f.StringVar(&tradeDate, "date", "", "trade date YYYY-MM-DD (default today)")
	f.StringVar(&tradeNotes, "notes", "", "free-form notes, scanned for psychology tags")
	for _, name := range []string{"pair", "type", "entry", "exit"} {
		tradeAddCmd.MarkFlagRequired(name)
	}

	tradeExportCmd.Flags().StringVarP(&exportFormat, "format", "F", "csv", "csv or org")
	tradeExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func parseDecimal(name, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s %q: %w", name, v, err)
	}
	return d, nil
}

func tradeInputFromFlags() (journal.TradeInput, error) {
	dir, err := journal.ParseDirection(tradeType)
	if err != nil {
		return journal.TradeInput{}, err
	}
	in := journal.TradeInput{
		Pair:  tradePair,
		Type:  dir,
		Date:  tradeDate,
		Notes: tradeNotes,
	}
	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"entry", tradeEntry, &in.Entry},
		{"exit", tradeExit, &in.Exit},
		{"sl", tradeStop, &in.StopLoss},
		{"lots", tradeLots, &in.LotSize},
		{"multiplier", tradeMultiplier, &in.Multiplier},
	} {
		d, err := parseDecimal(f.name, f.raw)
		if err != nil {
			return journal.TradeInput{}, err
		}
		*f.dst = d
	}
	return in, nil
}

func parseTradeID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("trade id %q must be an integer", s)
	}
	return id, nil
}

func selectTrades(st *store.Store) []journal.Trade {
	if tradeAll {
		return st.AllTrades()
	}
	return st.Trades()
}

func runTradeList(cmd *cobra.Command, args []string) error {
	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tPAIR\tTYPE\tENTRY\tEXIT\tLOTS\tP/L\tSTATUS\tTAGS")
		for _, t := range selectTrades(st) {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Date, t.Pair, t.Type,
				t.Entry.String(), t.Exit.String(), t.LotSize.String(),
				journal.FormatMoney(t.PnL, a.cfg.Currency),
				t.Status,
				strings.Join(t.Tags, ","),
			)
		}
		return w.Flush()
	})
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	in, err := tradeInputFromFlags()
	if err != nil {
		return err
	}
	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		t, err := st.AddTrade(cmd.Context(), in)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Logged trade %d: %s %s %s (%s)\n",
			t.ID, t.Type, t.Pair, journal.FormatMoney(t.PnL, a.cfg.Currency), t.Status)
		if len(t.Tags) > 0 {
			fmt.Fprintf(out, "  Tags: %s\n", strings.Join(t.Tags, ", "))
		}
		fmt.Fprintf(out, "  Balance: %s\n", journal.FormatMoney(st.TotalBalance(), a.cfg.Currency))
		return nil
	})
}

func runTradeDelete(cmd *cobra.Command, args []string) error {
	id, err := parseTradeID(args[0])
	if err != nil {
		return err
	}
	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		if err := st.DeleteTrade(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted trade %d\n", id)
		return nil
	})
}

func runTradeShow(cmd *cobra.Command, args []string) error {
	id, err := parseTradeID(args[0])
	if err != nil {
		return err
	}
	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		t, ok := st.Trade(id)
		if !ok {
			return fmt.Errorf("trade %d: %w", id, journal.ErrNotFound)
		}
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(t, a.cfg.Currency))
		return nil
	})
}

func runTradeExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "org" {
		return fmt.Errorf("--format must be csv or org, got %q", exportFormat)
	}
	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOutput, err)
			}
			defer f.Close()
			w = f
		}

		trades := selectTrades(st)
		if exportFormat == "org" {
			_, err := io.WriteString(w, journal.FormatTradesOrg(trades, a.cfg.Currency))
			return err
		}
		return journal.WriteTradesCSV(w, trades)
	})
}
