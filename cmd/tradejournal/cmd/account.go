package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage trading accounts",
	Long: `List, create, delete and select the accounts trades are logged against.

Examples:
  tradejournal account list
  tradejournal account add "FTMO 100k" --balance 100000 --type challenge
  tradejournal account switch <account-id>`,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts; the active one is starred",
	Args:  cobra.NoArgs,
	RunE:  runAccountList,
}

var accountAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an account and make it active",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAccountAdd,
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete <account-id>",
	Short: "Delete an account; its trades are kept",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountDelete,
}

var accountSwitchCmd = &cobra.Command{
	Use:   "switch <account-id>",
	Short: "Select the active account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountSwitch,
}

var (
	accountBalance string
	accountType    string
)

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountListCmd, accountAddCmd, accountDeleteCmd, accountSwitchCmd)

	accountAddCmd.Flags().StringVarP(&accountBalance, "balance", "b", "100000", "initial balance")
	accountAddCmd.Flags().StringVarP(&accountType, "type", "t", string(journal.Personal), "Challenge, Funded or Personal")
}

func runAccountList(cmd *cobra.Command, args []string) error {
	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "\tID\tNAME\tTYPE\tINITIAL\tBALANCE")
		active := st.ActiveAccountID()
		for _, acct := range st.Accounts() {
			mark := ""
			if acct.ID == active {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				mark,
				acct.ID,
				acct.Name,
				acct.Type,
				journal.FormatMoney(acct.InitialBalance, a.cfg.Currency),
				journal.FormatMoney(acct.CurrentBalance, a.cfg.Currency),
			)
		}
		return w.Flush()
	})
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	balance, err := decimal.NewFromString(accountBalance)
	if err != nil {
		return fmt.Errorf("balance %q: %w", accountBalance, err)
	}
	cat, err := journal.ParseCategory(accountType)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(strings.Join(args, " "))

	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		acct, err := st.AddAccount(cmd.Context(), name, balance, cat)
		if acct.ID == "" {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s account %q (%s) with %s\n",
			acct.Type, acct.Name, acct.ID, journal.FormatMoney(acct.InitialBalance, a.cfg.Currency))
		return err
	})
}

func runAccountDelete(cmd *cobra.Command, args []string) error {
	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		if err := st.DeleteAccount(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted account %s\n", args[0])
		if id := st.ActiveAccountID(); id != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  Active account: %s\n", id)
		}
		return nil
	})
}

func runAccountSwitch(cmd *cobra.Command, args []string) error {
	return withStore(cmd.Context(), func(a *app, st *store.Store) error {
		known := false
		for _, acct := range st.Accounts() {
			if acct.ID == args[0] {
				known = true
				break
			}
		}
		if !known {
			a.log.Warn("switching to an account that is not loaded", zap.String("account_id", args[0]))
		}
		if err := st.SwitchAccount(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Active account: %s\n", args[0])
		return nil
	})
}
