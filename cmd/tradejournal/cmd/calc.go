package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/risk"
	"github.com/rustyeddy/tradejournal/store"
	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Size a position from balance, risk and stop distance",
	Long: `Compute the lot size that loses the given percent of balance when the
stop is hit, and check it against the configured risk policy.

Without --balance the active account's current balance is used.

Examples:
  tradejournal calc --entry 2030 --stop 2020
  tradejournal calc --mode forex --balance 10000 --risk 1 --entry 1.1000 --stop 1.0950 --target 1.1100`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

var (
	calcMode    string
	calcBalance float64
	calcRisk    float64
	calcEntry   float64
	calcStop    float64
	calcTarget  float64
)

func init() {
	rootCmd.AddCommand(calcCmd)

	f := calcCmd.Flags()
	f.StringVar(&calcMode, "mode", "", "gold, forex or crypto (default from config)")
	f.Float64Var(&calcBalance, "balance", 0, "account balance (default active account)")
	f.Float64Var(&calcRisk, "risk", 0, "risk percent of balance (default from config)")
	f.Float64Var(&calcEntry, "entry", 0, "entry price")
	f.Float64Var(&calcStop, "stop", 0, "stop loss price")
	f.Float64Var(&calcTarget, "target", 0, "take profit price, enables the reward:risk check")
}

func runCalc(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	policy := a.cfg.Risk
	modeName := calcMode
	if modeName == "" {
		modeName = string(policy.Mode)
	}
	mode, err := risk.ParseMode(modeName)
	if err != nil {
		return err
	}

	in := risk.LotInputs{
		Mode:    mode,
		Balance: calcBalance,
		RiskPct: calcRisk,
		Entry:   calcEntry,
		Stop:    calcStop,
		Target:  calcTarget,
	}
	if in.RiskPct == 0 {
		in.RiskPct = policy.DefaultRiskPct
	}
	if in.Balance == 0 {
		var st *store.Store
		if st, err = a.openStore(cmd.Context()); err != nil {
			return err
		}
		in.Balance = st.TotalBalance().InexactFloat64()
	}

	res := risk.LotSize(in)
	printSizing(cmd, in, res, risk.Check(policy, in, res))
	return nil
}

func printSizing(cmd *cobra.Command, in risk.LotInputs, res risk.LotResult, violations []risk.Violation) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Mode:        %s (contract %.0f)\n", in.Mode, risk.ContractSize(in.Mode))
	fmt.Fprintf(out, "Balance:     %.2f\n", in.Balance)
	fmt.Fprintf(out, "Risk:        %.2f%% = %.2f\n", in.RiskPct, res.RiskAmount)
	fmt.Fprintf(out, "Stop dist:   %.5f\n", res.Distance)
	fmt.Fprintf(out, "Lots:        %s\n", risk.FormatLots(res.Lots))
	fmt.Fprintf(out, "Rounded:     %.2f (risk %.2f)\n", res.RoundedLots(), res.ActualRisk())
	if in.Target != 0 {
		fmt.Fprintf(out, "RR:          %.2f\n", risk.RR(in.Entry, in.Stop, in.Target))
	}
	for _, v := range violations {
		fmt.Fprintf(out, "! %s: %s\n", v.Code, v.Msg)
	}
}
