package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a Backend stored in a local SQLite file.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ Backend = (*SQLite)(nil)

// NewSQLite opens (or creates) the database at path and applies Schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db, now: time.Now}, nil
}

func (j *SQLite) CreateAccount(ctx context.Context, rec AccountRecord) (AccountRecord, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = j.now().UTC()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO accounts
		(id, user_id, name, type, initial_balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Name, rec.Type, rec.InitialBalance.String(), rec.CreatedAt,
	)
	if err != nil {
		return AccountRecord{}, fmt.Errorf("insert account: %w", err)
	}
	return rec, nil
}

func (j *SQLite) DeleteAccount(ctx context.Context, userID, accountID string) error {
	res, err := j.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return affected(res, fmt.Sprintf("account %q", accountID))
}

func (j *SQLite) CreateTrade(ctx context.Context, rec TradeRecord) (TradeRecord, error) {
	tags, err := json.Marshal(nonNilTags(rec.Tags))
	if err != nil {
		return TradeRecord{}, err
	}
	rec.CreatedAt = j.now().UTC()

	res, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(user_id, account_id, pair, type, entry, exit_price, stop_loss, lot_size, pnl, status, date, tags, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.AccountID, rec.Pair, rec.Type,
		rec.Entry.String(), rec.ExitPrice.String(), rec.StopLoss.String(), rec.LotSize.String(),
		rec.PnL.String(), rec.Status, rec.Date, string(tags), rec.Notes, rec.CreatedAt,
	)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("insert trade: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return TradeRecord{}, err
	}
	return rec, nil
}

func (j *SQLite) DeleteTrade(ctx context.Context, userID string, tradeID int64) error {
	res, err := j.db.ExecContext(ctx,
		`DELETE FROM trades WHERE id = ? AND user_id = ?`, tradeID, userID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	return affected(res, fmt.Sprintf("trade %d", tradeID))
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
