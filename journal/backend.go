package journal

import "context"

// Backend is the remote persistence service: two tables, accounts and trades,
// both scoped to a user. Implementations speak the persisted record naming.
//
// List calls return accounts in creation order and trades newest first.
type Backend interface {
	ListAccounts(ctx context.Context, userID string) ([]AccountRecord, error)
	CreateAccount(ctx context.Context, rec AccountRecord) (AccountRecord, error)
	DeleteAccount(ctx context.Context, userID, accountID string) error

	ListTrades(ctx context.Context, userID string) ([]TradeRecord, error)
	CreateTrade(ctx context.Context, rec TradeRecord) (TradeRecord, error)
	DeleteTrade(ctx context.Context, userID string, tradeID int64) error
}
