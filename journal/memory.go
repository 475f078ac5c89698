package journal

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-process Backend. Trade ids are assigned from a counter the
// way a serial column would.
type Memory struct {
	mu       sync.Mutex
	accounts []AccountRecord
	trades   []TradeRecord
	nextID   int64
	now      func() time.Time
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{nextID: 1, now: time.Now}
}

func (m *Memory) ListAccounts(ctx context.Context, userID string) ([]AccountRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []AccountRecord
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) CreateAccount(ctx context.Context, rec AccountRecord) (AccountRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.ID == rec.ID {
			return AccountRecord{}, fmt.Errorf("account %q already exists", rec.ID)
		}
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = m.now().UTC()
	}
	m.accounts = append(m.accounts, rec)
	return rec, nil
}

func (m *Memory) DeleteAccount(ctx context.Context, userID, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, a := range m.accounts {
		if a.ID == accountID && a.UserID == userID {
			m.accounts = append(m.accounts[:i], m.accounts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("account %q: %w", accountID, ErrNotFound)
}

func (m *Memory) ListTrades(ctx context.Context, userID string) ([]TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []TradeRecord
	for i := len(m.trades) - 1; i >= 0; i-- {
		if m.trades[i].UserID == userID {
			out = append(out, m.trades[i])
		}
	}
	return out, nil
}

func (m *Memory) CreateTrade(ctx context.Context, rec TradeRecord) (TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = m.nextID
	m.nextID++
	rec.CreatedAt = m.now().UTC()
	rec.Tags = cloneTags(rec.Tags)
	m.trades = append(m.trades, rec)
	return rec, nil
}

func (m *Memory) DeleteTrade(ctx context.Context, userID string, tradeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.trades {
		if t.ID == tradeID && t.UserID == userID {
			m.trades = append(m.trades[:i], m.trades[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("trade %d: %w", tradeID, ErrNotFound)
}
