package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token",
	Long: `Sign a bearer token for the HTTP API with server.jwt_secret.

The configured user is used unless --user is given.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

var (
	tokenUser  string
	tokenEmail string
	tokenTTL   time.Duration
)

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id (default user.id)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "user email")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default server.token_ttl)")
}

func jwtFromConfig(cfg *config.Config) (auth.JWT, error) {
	if cfg.Server.JWTSecret == "" {
		return auth.JWT{}, errors.New("server.jwt_secret is not set")
	}
	return auth.JWT{Secret: []byte(cfg.Server.JWTSecret), TokenTTL: cfg.Server.TokenTTL}, nil
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	j, err := jwtFromConfig(cfg)
	if err != nil {
		return err
	}
	if tokenTTL > 0 {
		j.TokenTTL = tokenTTL
	}

	u := auth.User{ID: cfg.User.ID, Email: cfg.User.Email}
	if tokenUser != "" {
		u = auth.User{ID: tokenUser, Email: tokenEmail}
	}
	tok, claims, err := j.Sign(u)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), tok)
	fmt.Fprintf(cmd.ErrOrStderr(), "user %s, expires %s\n", u.ID, claims.ExpiresAt.Time.Format(time.RFC3339))
	return nil
}
