package store

import (
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/shopspring/decimal"
)

// Loading reports whether Initialize has not finished yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) ActiveAccountID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// activeTrades must be called with s.mu held.
func (s *Store) activeTrades() []journal.Trade {
	var out []journal.Trade
	for _, t := range s.trades {
		if t.AccountID == s.activeID {
			out = append(out, t)
		}
	}
	return out
}

// balance must be called with s.mu held.
func (s *Store) balance(a journal.Account) journal.Account {
	bal := a.InitialBalance
	for _, t := range s.trades {
		if t.AccountID == a.ID {
			bal = bal.Add(t.PnL)
		}
	}
	a.CurrentBalance = bal
	return a
}

// Trades returns the active account's trades, newest first.
func (s *Store) Trades() []journal.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeTrades()
}

// AllTrades returns the trades of every account, including trades whose
// account was deleted.
func (s *Store) AllTrades() []journal.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]journal.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

// Trade looks a trade up by id across all accounts.
func (s *Store) Trade(tradeID int64) (journal.Trade, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.trades {
		if t.ID == tradeID {
			return t, true
		}
	}
	return journal.Trade{}, false
}

// Accounts returns the accounts in creation order with current balances.
func (s *Store) Accounts() []journal.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]journal.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, s.balance(a))
	}
	return out
}

// ActiveAccount returns the selected account. ok is false when nothing is
// selected or the selected id is unknown.
func (s *Store) ActiveAccount() (journal.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexAccount(s.accounts, s.activeID)
	if i < 0 {
		return journal.Account{}, false
	}
	return s.balance(s.accounts[i]), true
}

// TotalBalance is the active account's current balance, zero when no known
// account is selected.
func (s *Store) TotalBalance() decimal.Decimal {
	a, ok := s.ActiveAccount()
	if !ok {
		return decimal.Zero
	}
	return a.CurrentBalance
}

func (s *Store) Stats() analytics.Summary {
	return analytics.Summarize(s.Trades())
}

// Equity replays the active trades on the active account's initial balance.
func (s *Store) Equity() []analytics.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	initial := decimal.Zero
	if i := indexAccount(s.accounts, s.activeID); i >= 0 {
		initial = s.accounts[i].InitialBalance
	}
	return analytics.EquityCurve(initial, s.activeTrades())
}

func (s *Store) Calendar(year int, month time.Month) analytics.Calendar {
	return analytics.Month(s.Trades(), year, month)
}

func (s *Store) BySymbol() []analytics.SymbolPnL {
	return analytics.BySymbol(s.Trades())
}

func (s *Store) Directions() analytics.DirectionCount {
	return analytics.Directions(s.Trades())
}

func (s *Store) Recent(n int) []journal.Trade {
	return analytics.Recent(s.Trades(), n)
}

// Report builds the review of the active account. ok is false when no known
// account is selected.
func (s *Store) Report(currency string) (analytics.Report, bool) {
	s.mu.RLock()
	i := indexAccount(s.accounts, s.activeID)
	if i < 0 {
		s.mu.RUnlock()
		return analytics.Report{}, false
	}
	acct := s.balance(s.accounts[i])
	trades := s.activeTrades()
	s.mu.RUnlock()

	return analytics.NewReport(acct, trades, currency, s.now()), true
}
