package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is the subset of *pgxpool.Pool the Postgres backend uses. It is
// also satisfied by pgxmock pools.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is a Backend on a hosted Postgres database.
type Postgres struct {
	pool PgxPool
}

var _ Backend = (*Postgres)(nil)

// NewPostgres wraps an existing pool.
func NewPostgres(pool PgxPool) *Postgres {
	return &Postgres{pool: pool}
}

// ConnectPostgres opens a pool for url, pings it and applies PostgresSchema
// when migrate is set.
func ConnectPostgres(ctx context.Context, url string, migrate bool) (*Postgres, *pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	pg := NewPostgres(pool)
	if migrate {
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return pg, pool, nil
}

// Migrate creates the tables when missing.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (p *Postgres) ListAccounts(ctx context.Context, userID string) ([]AccountRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, name, type, initial_balance, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
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
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Postgres) CreateAccount(ctx context.Context, rec AccountRecord) (AccountRecord, error) {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, user_id, name, type, initial_balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		rec.ID, rec.UserID, rec.Name, rec.Type, rec.InitialBalance,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return AccountRecord{}, fmt.Errorf("insert account: %w", err)
	}
	return rec, nil
}

func (p *Postgres) DeleteAccount(ctx context.Context, userID, accountID string) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %q: %w", accountID, ErrNotFound)
	}
	return nil
}

func (p *Postgres) ListTrades(ctx context.Context, userID string) ([]TradeRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, account_id, pair, type, entry, exit_price, stop_loss, lot_size, pnl, status, date, tags, notes, created_at
		FROM trades
		WHERE user_id = $1
		ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var (
			rec  TradeRecord
			date time.Time
		)
		if err := rows.Scan(
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
			&date,
			&rec.Tags,
			&rec.Notes,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		rec.Date = date.Format(DateLayout)
		if len(rec.Tags) == 0 {
			rec.Tags = nil
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Postgres) CreateTrade(ctx context.Context, rec TradeRecord) (TradeRecord, error) {
	date, err := time.Parse(DateLayout, rec.Date)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("trade date %q: %w", rec.Date, err)
	}

	err = p.pool.QueryRow(ctx, `
		INSERT INTO trades
		(user_id, account_id, pair, type, entry, exit_price, stop_loss, lot_size, pnl, status, date, tags, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`,
		rec.UserID, rec.AccountID, rec.Pair, rec.Type,
		rec.Entry, rec.ExitPrice, rec.StopLoss, rec.LotSize, rec.PnL,
		rec.Status, date, nonNilTags(rec.Tags), rec.Notes,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("insert trade: %w", err)
	}
	return rec, nil
}

func (p *Postgres) DeleteTrade(ctx context.Context, userID string, tradeID int64) error {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM trades WHERE id = $1 AND user_id = $2`, tradeID, userID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade %d: %w", tradeID, ErrNotFound)
	}
	return nil
}
