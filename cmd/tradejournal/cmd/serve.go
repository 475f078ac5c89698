package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/api"
	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/prefs"
	"github.com/rustyeddy/tradejournal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal over HTTP",
	Long: `Start the HTTP API. Requests authenticate with bearer tokens signed
with server.jwt_secret (see "tradejournal token"); each user gets their own
store and active account preference.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	j, err := jwtFromConfig(a.cfg)
	if err != nil {
		return err
	}
	if _, err := a.defaultAccount(); err != nil {
		return err
	}

	var deny auth.Denylist = auth.NewMemoryDenylist()
	if a.cfg.Server.Denylist == "redis" {
		deny = auth.NewRedisDenylist(a.rdb)
	}

	reg := api.NewRegistry(func(u auth.User) *store.Store {
		st, _ := a.newStore(u, prefs.NewScoped(a.prefs, u.ID))
		return st
	})

	if !a.cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := api.New(api.Options{
		Registry: reg,
		JWT:      j,
		Denylist: deny,
		Policy:   a.cfg.Risk,
		Logger:   a.log,
		Version:  version,
	})

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("listening", zap.String("addr", addr), zap.String("backend", a.cfg.Backend.Type))
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
