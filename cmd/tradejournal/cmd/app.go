package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/logging"
	"github.com/rustyeddy/tradejournal/prefs"
	"github.com/rustyeddy/tradejournal/restdb"
	"github.com/rustyeddy/tradejournal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// app is the wiring shared by every command that touches the journal.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	backend journal.Backend
	prefs   prefs.Store
	rdb     *redis.Client

	closers []func() error
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if backendType != "" {
		cfg.Backend.Type = backendType
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--backend: %w", err)
		}
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}
	if cfg.Prefs.Type == "redis" || cfg.Server.Denylist == "redis" {
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, a.rdb.Close)
	}

	if err := a.openBackend(ctx); err != nil {
		a.Close()
		return nil, err
	}
	a.openPrefs()

	log.Debug("app opened",
		zap.String("backend", cfg.Backend.Type),
		zap.String("prefs", cfg.Prefs.Type),
		zap.String("user_id", cfg.User.ID),
	)
	return a, nil
}

func (a *app) openBackend(ctx context.Context) error {
	b := a.cfg.Backend
	switch b.Type {
	case "sqlite":
		j, err := journal.NewSQLite(b.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite journal: %w", err)
		}
		a.backend = j
		a.closers = append(a.closers, j.Close)
	case "postgres":
		pg, pool, err := journal.ConnectPostgres(ctx, b.PostgresURL, b.Migrate)
		if err != nil {
			return fmt.Errorf("open postgres journal: %w", err)
		}
		a.backend = pg
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
	case "rest":
		c := restdb.NewClient(b.RestURL, b.RestAPIKey)
		if b.RestToken != "" {
			c = c.WithToken(b.RestToken)
		}
		a.backend = c
	case "memory":
		a.backend = journal.NewMemory()
	default:
		return fmt.Errorf("unknown backend type %q", b.Type)
	}
	return nil
}

func (a *app) openPrefs() {
	switch a.cfg.Prefs.Type {
	case "redis":
		a.prefs = prefs.NewRedis(a.rdb)
	case "memory":
		a.prefs = prefs.NewMemory()
	default:
		a.prefs = prefs.NewFile(a.cfg.Prefs.Path)
	}
}

func (a *app) user() auth.User {
	return auth.User{ID: a.cfg.User.ID, Email: a.cfg.User.Email}
}

func (a *app) defaultAccount() (store.DefaultAccount, error) {
	d := a.cfg.DefaultAccount
	cat, err := journal.ParseCategory(d.Type)
	if err != nil {
		return store.DefaultAccount{}, fmt.Errorf("default_account.type: %w", err)
	}
	return store.DefaultAccount{
		Name:           d.Name,
		Type:           cat,
		InitialBalance: decimal.NewFromFloat(d.InitialBalance),
	}, nil
}

// newStore builds an uninitialized store for u backed by p.
func (a *app) newStore(u auth.User, p prefs.Store) (*store.Store, error) {
	def, err := a.defaultAccount()
	if err != nil {
		return nil, err
	}
	return store.New(a.backend, auth.NewStatic(u), p,
		store.WithLogger(a.log.With(zap.String("user_id", u.ID))),
		store.WithDefaultAccount(def),
	), nil
}

// openStore returns the configured user's store, loaded.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	st, err := a.newStore(a.user(), a.prefs)
	if err != nil {
		return nil, err
	}
	if err := st.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	return st, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	_ = a.log.Sync()
	return errors.Join(errs...)
}

// withStore opens the app and the user's store for the duration of fn.
func withStore(ctx context.Context, fn func(a *app, st *store.Store) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	return fn(a, st)
}
