package cmd

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradejournal/psych"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag <notes...>",
	Short: "Show the psychology tags notes would get",
	Long: `Scan notes for the keywords behind each psychology tag.

Labels: ` + strings.Join(psych.Labels(), ", "),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags := psych.Analyze(strings.Join(args, " "))
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no tags")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tags, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
}
