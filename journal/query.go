package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const tradeColumns = `id, user_id, account_id, pair, type, entry, exit_price, stop_loss, lot_size, pnl, status, date, tags, notes, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (TradeRecord, error) {
	var (
		rec  TradeRecord
		tags string
	)
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.AccountID,
		&rec.Pair,
		&rec.Type,
		&rec.Entry,
		&rec.ExitPrice,
		&rec.StopLoss,
		&rec.LotSize,
		&rec.PnL,
		&rec.Status,
		&rec.Date,
		&tags,
		&rec.Notes,
		&rec.CreatedAt,
	)
	if err != nil {
		return TradeRecord{}, err
	}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
			return TradeRecord{}, fmt.Errorf("decode tags of trade %d: %w", rec.ID, err)
		}
	}
	if len(rec.Tags) == 0 {
		rec.Tags = nil
	}
	return rec, nil
}

// ListAccounts returns the user's accounts in creation order.
func (j *SQLite) ListAccounts(ctx context.Context, userID string) ([]AccountRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, initial_balance, created_at
		FROM accounts
		WHERE user_id = ?
		ORDER BY created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccountRecord
	for rows.Next() {
		var rec AccountRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Name,
			&rec.Type,
			&rec.InitialBalance,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTrades returns the user's trades, newest first.
func (j *SQLite) ListTrades(ctx context.Context, userID string) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE user_id = ?
		ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrade returns a single trade owned by userID.
func (j *SQLite) GetTrade(ctx context.Context, userID string, tradeID int64) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE id = ? AND user_id = ?`, tradeID, userID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %d: %w", tradeID, ErrNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}
