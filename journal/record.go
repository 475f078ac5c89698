package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is a trade as the remote persistence service stores it. Field
// names follow the service's snake_case convention.
type TradeRecord struct {
	ID        int64           `json:"id,omitempty"`
	UserID    string          `json:"user_id"`
	AccountID string          `json:"account_id"`
	Pair      string          `json:"pair"`
	Type      string          `json:"type"`
	Entry     decimal.Decimal `json:"entry"`
	ExitPrice decimal.Decimal `json:"exit_price"`
	StopLoss  decimal.Decimal `json:"stop_loss"`
	LotSize   decimal.Decimal `json:"lot_size"`
	PnL       decimal.Decimal `json:"pnl"`
	Status    string          `json:"status"`
	Date      string          `json:"date"`
	Tags      []string        `json:"tags"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// AccountRecord is an account as the remote persistence service stores it.
type AccountRecord struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CreatedAt      time.Time       `json:"created_at,omitempty"`
}

// Record translates t into the persisted naming, owned by userID.
func (t Trade) Record(userID string) TradeRecord {
	return TradeRecord{
		ID:        t.ID,
		UserID:    userID,
		AccountID: t.AccountID,
		Pair:      t.Pair,
		Type:      string(t.Type),
		Entry:     t.Entry,
		ExitPrice: t.Exit,
		StopLoss:  t.StopLoss,
		LotSize:   t.LotSize,
		PnL:       t.PnL,
		Status:    string(t.Status),
		Date:      t.Date,
		Tags:      cloneTags(t.Tags),
		Notes:     t.Notes,
	}
}

// TradeFromRecord translates a persisted record into the client model.
func TradeFromRecord(r TradeRecord) Trade {
	return Trade{
		ID:        r.ID,
		AccountID: r.AccountID,
		Pair:      r.Pair,
		Type:      Direction(r.Type),
		Entry:     r.Entry,
		Exit:      r.ExitPrice,
		StopLoss:  r.StopLoss,
		LotSize:   r.LotSize,
		PnL:       r.PnL,
		Status:    Outcome(r.Status),
		Date:      r.Date,
		Tags:      cloneTags(r.Tags),
		Notes:     r.Notes,
	}
}

// Record translates a into the persisted naming, owned by userID. The derived
// current balance is dropped.
func (a Account) Record(userID string) AccountRecord {
	return AccountRecord{
		ID:             a.ID,
		UserID:         userID,
		Name:           a.Name,
		Type:           string(a.Type),
		InitialBalance: a.InitialBalance,
		CreatedAt:      a.CreatedAt,
	}
}

// AccountFromRecord translates a persisted account. CurrentBalance starts at
// the initial balance until trades are applied.
func AccountFromRecord(r AccountRecord) Account {
	return Account{
		ID:             r.ID,
		Name:           r.Name,
		Type:           Category(r.Type),
		InitialBalance: r.InitialBalance,
		CurrentBalance: r.InitialBalance,
		CreatedAt:      r.CreatedAt,
	}
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
