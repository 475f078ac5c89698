// Package store is the single source of truth for the signed-in user's
// accounts, trades and active account selection. Every mutation goes to the
// journal backend first and is applied locally once the backend confirms it;
// balances and statistics are derived from the live trade set on each read.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/pkg/id"
	"github.com/rustyeddy/tradejournal/prefs"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUnauthenticated = errors.New("not signed in")
	ErrNoActiveAccount = errors.New("no active account")
	ErrInvalidAccount  = errors.New("invalid account")
)

// DefaultAccount describes the account created for a user who has none.
type DefaultAccount struct {
	Name           string
	Type           journal.Category
	InitialBalance decimal.Decimal
}

func defaultAccount() DefaultAccount {
	return DefaultAccount{
		Name:           "Main Account",
		Type:           journal.Personal,
		InitialBalance: decimal.NewFromInt(100000),
	}
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithDefaultAccount(d DefaultAccount) Option {
	return func(s *Store) { s.def = d }
}

// WithClock sets the time source used to date trades logged without a date.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDs replaces the account id generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Store is safe for concurrent use. Backend calls are made without holding
// the lock; concurrent mutations apply in completion order.
type Store struct {
	backend journal.Backend
	session auth.Session
	prefs   prefs.Store

	log   *zap.Logger
	def   DefaultAccount
	now   func() time.Time
	newID func() string

	mu       sync.RWMutex
	accounts []journal.Account
	trades   []journal.Trade // all accounts, newest first
	activeID string
	loading  bool
}

// New returns a Store in the loading state. Call Initialize to populate it.
func New(backend journal.Backend, session auth.Session, p prefs.Store, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		session: session,
		prefs:   p,
		log:     zap.NewNop(),
		def:     defaultAccount(),
		now:     time.Now,
		newID:   id.New,
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) user(ctx context.Context) (auth.User, error) {
	u, err := s.session.CurrentUser(ctx)
	if err != nil {
		return auth.User{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return u, nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Initialize loads the user's accounts and trades. A user without accounts
// gets the default account created remotely first. The active account is
// restored from preferences when it still exists, otherwise the first
// account is selected.
func (s *Store) Initialize(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	u, err := s.user(ctx)
	if err != nil {
		return err
	}

	accRecs, err := s.backend.ListAccounts(ctx, u.ID)
	if err != nil {
		s.log.Error("load accounts", zap.String("user_id", u.ID), zap.Error(err))
		return fmt.Errorf("load accounts: %w", err)
	}
	tradeRecs, err := s.backend.ListTrades(ctx, u.ID)
	if err != nil {
		s.log.Error("load trades", zap.String("user_id", u.ID), zap.Error(err))
		return fmt.Errorf("load trades: %w", err)
	}

	accounts := make([]journal.Account, 0, len(accRecs)+1)
	for _, r := range accRecs {
		accounts = append(accounts, journal.AccountFromRecord(r))
	}
	if len(accounts) == 0 {
		acct := journal.Account{
			ID:             s.newID(),
			Name:           s.def.Name,
			Type:           s.def.Type,
			InitialBalance: s.def.InitialBalance,
		}
		rec, err := s.backend.CreateAccount(ctx, acct.Record(u.ID))
		if err != nil {
			s.log.Error("create default account", zap.String("user_id", u.ID), zap.Error(err))
			return fmt.Errorf("create default account: %w", err)
		}
		s.log.Info("created default account", zap.String("user_id", u.ID), zap.String("account_id", rec.ID))
		accounts = append(accounts, journal.AccountFromRecord(rec))
	}

	trades := make([]journal.Trade, 0, len(tradeRecs))
	for _, r := range tradeRecs {
		trades = append(trades, journal.TradeFromRecord(r))
	}

	active := accounts[0].ID
	saved, ok, err := s.prefs.Get(ctx, prefs.ActiveAccountKey)
	if err != nil {
		s.log.Warn("read active account preference", zap.Error(err))
	} else if ok && indexAccount(accounts, saved) >= 0 {
		active = saved
	}

	s.mu.Lock()
	s.accounts = accounts
	s.trades = trades
	s.activeID = active
	s.mu.Unlock()

	s.log.Debug("store initialized",
		zap.String("user_id", u.ID),
		zap.Int("accounts", len(accounts)),
		zap.Int("trades", len(trades)),
		zap.String("active_account_id", active),
	)
	return nil
}

// SwitchAccount selects accountID and remembers it in preferences. The id is
// not checked against the known accounts.
func (s *Store) SwitchAccount(ctx context.Context, accountID string) error {
	s.mu.Lock()
	s.activeID = accountID
	s.mu.Unlock()

	return s.rememberActive(ctx, accountID)
}

func (s *Store) rememberActive(ctx context.Context, accountID string) error {
	var err error
	if accountID == "" {
		err = s.prefs.Delete(ctx, prefs.ActiveAccountKey)
	} else {
		err = s.prefs.Set(ctx, prefs.ActiveAccountKey, accountID)
	}
	if err != nil {
		s.log.Warn("save active account preference", zap.String("account_id", accountID), zap.Error(err))
		return fmt.Errorf("save active account: %w", err)
	}
	return nil
}

// AddAccount creates an account and makes it active.
func (s *Store) AddAccount(ctx context.Context, name string, initialBalance decimal.Decimal, category journal.Category) (journal.Account, error) {
	u, err := s.user(ctx)
	if err != nil {
		return journal.Account{}, err
	}
	if name == "" {
		return journal.Account{}, fmt.Errorf("%w: name is required", ErrInvalidAccount)
	}
	if initialBalance.IsNegative() {
		return journal.Account{}, fmt.Errorf("%w: initial balance must not be negative", ErrInvalidAccount)
	}

	acct := journal.Account{
		ID:             s.newID(),
		Name:           name,
		Type:           category,
		InitialBalance: initialBalance,
	}
	rec, err := s.backend.CreateAccount(ctx, acct.Record(u.ID))
	if err != nil {
		s.log.Error("create account", zap.String("name", name), zap.Error(err))
		return journal.Account{}, fmt.Errorf("create account: %w", err)
	}
	acct = journal.AccountFromRecord(rec)

	s.mu.Lock()
	s.accounts = append(s.accounts, acct)
	s.activeID = acct.ID
	s.mu.Unlock()

	return acct, s.rememberActive(ctx, acct.ID)
}

// DeleteAccount removes an account. Its trades are left in place. Deleting
// the active account selects the first remaining one, or nothing.
func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	u, err := s.user(ctx)
	if err != nil {
		return err
	}

	if err := s.backend.DeleteAccount(ctx, u.ID, accountID); err != nil {
		s.log.Error("delete account", zap.String("account_id", accountID), zap.Error(err))
		return fmt.Errorf("delete account %s: %w", accountID, err)
	}

	s.mu.Lock()
	if i := indexAccount(s.accounts, accountID); i >= 0 {
		s.accounts = append(s.accounts[:i:i], s.accounts[i+1:]...)
	}
	switched := false
	if s.activeID == accountID {
		s.activeID = ""
		if len(s.accounts) > 0 {
			s.activeID = s.accounts[0].ID
		}
		switched = true
	}
	active := s.activeID
	s.mu.Unlock()

	if switched {
		return s.rememberActive(ctx, active)
	}
	return nil
}

// AddTrade validates and builds a trade from in, stamps it with the active
// account and persists it. The stored trade carries the id assigned by the
// backend.
func (s *Store) AddTrade(ctx context.Context, in journal.TradeInput) (journal.Trade, error) {
	u, err := s.user(ctx)
	if err != nil {
		return journal.Trade{}, err
	}

	s.mu.RLock()
	accountID := s.activeID
	s.mu.RUnlock()
	if accountID == "" {
		return journal.Trade{}, ErrNoActiveAccount
	}

	if err := in.Validate(); err != nil {
		return journal.Trade{}, err
	}
	t := in.Build(s.now())
	t.AccountID = accountID

	rec, err := s.backend.CreateTrade(ctx, t.Record(u.ID))
	if err != nil {
		s.log.Error("create trade",
			zap.String("account_id", accountID),
			zap.String("pair", t.Pair),
			zap.Error(err),
		)
		return journal.Trade{}, fmt.Errorf("create trade: %w", err)
	}
	saved := journal.TradeFromRecord(rec)

	s.mu.Lock()
	s.trades = append([]journal.Trade{saved}, s.trades...)
	s.mu.Unlock()

	return saved, nil
}

// DeleteTrade removes a trade remotely and locally. The local copy is
// dropped even when the backend fails; that error is returned.
func (s *Store) DeleteTrade(ctx context.Context, tradeID int64) error {
	u, err := s.user(ctx)
	if err != nil {
		return err
	}

	remoteErr := s.backend.DeleteTrade(ctx, u.ID, tradeID)
	if remoteErr != nil {
		s.log.Error("delete trade", zap.Int64("trade_id", tradeID), zap.Error(remoteErr))
	}

	s.mu.Lock()
	for i, t := range s.trades {
		if t.ID == tradeID {
			s.trades = append(s.trades[:i:i], s.trades[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if remoteErr != nil {
		return fmt.Errorf("delete trade %d: %w", tradeID, remoteErr)
	}
	return nil
}

// SignOut ends the session and clears the loaded state.
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.session.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.mu.Lock()
	s.accounts = nil
	s.trades = nil
	s.activeID = ""
	s.mu.Unlock()
	return nil
}

func indexAccount(accounts []journal.Account, accountID string) int {
	for i, a := range accounts {
		if a.ID == accountID {
			return i
		}
	}
	return -1
}
