package journal

import (
	"fmt"
	"strings"
)

// FormatTradeOrg renders a Trade as an Org-mode block suitable for pasting
// into a journal. Structured facts go into the PROPERTIES drawer; the notes
// become the Review section.
func FormatTradeOrg(t Trade, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (#%d)\n", t.Pair, t.Type, t.ID)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %d\n", t.ID)
	fmt.Fprintf(&b, ":ACCOUNT_ID: %s\n", t.AccountID)
	fmt.Fprintf(&b, ":DATE: %s\n", t.Date)
	fmt.Fprintf(&b, ":PAIR: %s\n", t.Pair)
	fmt.Fprintf(&b, ":TYPE: %s\n", t.Type)
	fmt.Fprintf(&b, ":ENTRY: %s\n", t.Entry.String())
	fmt.Fprintf(&b, ":EXIT: %s\n", t.Exit.String())
	if !t.StopLoss.IsZero() {
		fmt.Fprintf(&b, ":STOP_LOSS: %s\n", t.StopLoss.String())
	}
	if !t.LotSize.IsZero() {
		fmt.Fprintf(&b, ":LOT_SIZE: %s\n", t.LotSize.String())
	}
	fmt.Fprintf(&b, ":PNL: %s\n", FormatMoney(t.PnL, currency))
	fmt.Fprintf(&b, ":STATUS: %s\n", t.Status)
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, ":TAGS: %s\n", strings.Join(t.Tags, " "))
	}
	b.WriteString(":END:\n\n")

	b.WriteString("*** Review\n")
	if notes := strings.TrimSpace(t.Notes); notes != "" {
		for _, line := range strings.Split(notes, "\n") {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(line))
		}
	} else {
		b.WriteString("- \n")
	}

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade, currency string) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t, currency))
	}
	return b.String()
}
