package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// TradeCSVHeader is the column order written by WriteTradesCSV.
var TradeCSVHeader = []string{"id", "account_id", "date", "pair", "type", "entry", "exit_price", "stop_loss", "lot_size", "pnl", "status", "tags", "notes"}

// WriteTradesCSV writes trades to w in the persisted column naming.
func WriteTradesCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TradeCSVHeader); err != nil {
		return err
	}

	for _, t := range trades {
		err := cw.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.AccountID,
			t.Date,
			t.Pair,
			string(t.Type),
			t.Entry.String(),
			t.Exit.String(),
			t.StopLoss.String(),
			t.LotSize.String(),
			t.PnL.StringFixed(2),
			string(t.Status),
			strings.Join(t.Tags, ";"),
			t.Notes,
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
