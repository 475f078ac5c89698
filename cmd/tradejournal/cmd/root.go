package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A trading journal with psychology tags and performance analytics",
	Long: `Tradejournal records closed trades against one or more accounts and
derives balances, statistics and calendars from them.

It provides tools for:
  - Logging trades with P/L and psychology tags computed for you
  - Managing challenge, funded and personal accounts
  - Win rate, profit factor, expectancy and equity curves
  - Monthly P/L calendars
  - Risk-based lot sizing for gold, forex and crypto
  - Serving the journal over an authenticated HTTP API`,
	SilenceUsage: true,
}

var (
	cfgFile     string
	backendType string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults and TRADEJOURNAL_* env vars apply when unset")
	rootCmd.PersistentFlags().StringVar(&backendType, "backend", "", "override backend.type: sqlite, postgres, rest or memory")
}
