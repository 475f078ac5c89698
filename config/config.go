package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. TRADEJOURNAL_BACKEND_TYPE.
const EnvPrefix = "TRADEJOURNAL"

// Config is the complete application configuration
type Config struct {
	User           UserConfig           `json:"user" yaml:"user" mapstructure:"user"`
	Currency       string               `json:"currency" yaml:"currency" mapstructure:"currency"`
	Backend        BackendConfig        `json:"backend" yaml:"backend" mapstructure:"backend"`
	Prefs          PrefsConfig          `json:"prefs" yaml:"prefs" mapstructure:"prefs"`
	Redis          RedisConfig          `json:"redis" yaml:"redis" mapstructure:"redis"`
	Server         ServerConfig         `json:"server" yaml:"server" mapstructure:"server"`
	Log            LogConfig            `json:"log" yaml:"log" mapstructure:"log"`
	DefaultAccount DefaultAccountConfig `json:"default_account" yaml:"default_account" mapstructure:"default_account"`
	Risk           risk.Policy          `json:"risk" yaml:"risk" mapstructure:"risk"`
}

// UserConfig is the identity the CLI acts as.
type UserConfig struct {
	ID    string `json:"id" yaml:"id" mapstructure:"id"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
}

// BackendConfig selects where accounts and trades are persisted.
type BackendConfig struct {
	Type        string `json:"type" yaml:"type" mapstructure:"type"` // "sqlite", "postgres", "rest" or "memory"
	SQLitePath  string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty" mapstructure:"sqlite_path"`
	PostgresURL string `json:"postgres_url,omitempty" yaml:"postgres_url,omitempty" mapstructure:"postgres_url"`
	Migrate     bool   `json:"migrate" yaml:"migrate" mapstructure:"migrate"`
	RestURL     string `json:"rest_url,omitempty" yaml:"rest_url,omitempty" mapstructure:"rest_url"`
	RestAPIKey  string `json:"rest_api_key,omitempty" yaml:"rest_api_key,omitempty" mapstructure:"rest_api_key"`
	RestToken   string `json:"rest_token,omitempty" yaml:"rest_token,omitempty" mapstructure:"rest_token"`
}

// PrefsConfig selects the device-local preference store.
type PrefsConfig struct {
	Type string `json:"type" yaml:"type" mapstructure:"type"` // "file", "redis" or "memory"
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" mapstructure:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `json:"db" yaml:"db" mapstructure:"db"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr      string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	JWTSecret string        `json:"jwt_secret,omitempty" yaml:"jwt_secret,omitempty" mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `json:"token_ttl" yaml:"token_ttl" mapstructure:"token_ttl"`
	Denylist  string        `json:"denylist" yaml:"denylist" mapstructure:"denylist"` // "memory" or "redis"
}

type LogConfig struct {
	Level         string `json:"level" yaml:"level" mapstructure:"level"`
	Encoding      string `json:"encoding" yaml:"encoding" mapstructure:"encoding"` // "json" or "console"
	Development   bool   `json:"development" yaml:"development" mapstructure:"development"`
	DisableCaller bool   `json:"disable_caller" yaml:"disable_caller" mapstructure:"disable_caller"`
}

// DefaultAccountConfig is the account created for a user who has none.
type DefaultAccountConfig struct {
	Name           string  `json:"name" yaml:"name" mapstructure:"name"`
	Type           string  `json:"type" yaml:"type" mapstructure:"type"`
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance" mapstructure:"initial_balance"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		User:     UserConfig{ID: "local"},
		Currency: journal.DefaultCurrency,
		Backend: BackendConfig{
			Type:       "sqlite",
			SQLitePath: "./tradejournal.db",
			Migrate:    true,
		},
		Prefs: PrefsConfig{
			Type: "file",
			Path: "./prefs.yaml",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:     ":8080",
			TokenTTL: 24 * time.Hour,
			Denylist: "memory",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		DefaultAccount: DefaultAccountConfig{
			Name:           "Main Account",
			Type:           string(journal.Personal),
			InitialBalance: 100000,
		},
		Risk: risk.DefaultPolicy(),
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("user.id", d.User.ID)
	v.SetDefault("user.email", d.User.Email)
	v.SetDefault("currency", d.Currency)
	v.SetDefault("backend.type", d.Backend.Type)
	v.SetDefault("backend.sqlite_path", d.Backend.SQLitePath)
	v.SetDefault("backend.postgres_url", "")
	v.SetDefault("backend.migrate", d.Backend.Migrate)
	v.SetDefault("backend.rest_url", "")
	v.SetDefault("backend.rest_api_key", "")
	v.SetDefault("backend.rest_token", "")
	v.SetDefault("prefs.type", d.Prefs.Type)
	v.SetDefault("prefs.path", d.Prefs.Path)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.token_ttl", d.Server.TokenTTL.String())
	v.SetDefault("server.denylist", d.Server.Denylist)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.disable_caller", d.Log.DisableCaller)
	v.SetDefault("default_account.name", d.DefaultAccount.Name)
	v.SetDefault("default_account.type", d.DefaultAccount.Type)
	v.SetDefault("default_account.initial_balance", d.DefaultAccount.InitialBalance)
	v.SetDefault("risk.default_risk_pct", d.Risk.DefaultRiskPct)
	v.SetDefault("risk.max_risk_pct", d.Risk.MaxRiskPct)
	v.SetDefault("risk.min_rr", d.Risk.MinRR)
	v.SetDefault("risk.mode", string(d.Risk.Mode))
}

// LoadFromFile loads configuration from a YAML or JSON file. Environment
// variables prefixed with EnvPrefix override file values, and missing keys
// take their Default values.
func LoadFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return load(path)
}

// Load is LoadFromFile, except that an empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	if path == "" {
		return load("")
	}
	return LoadFromFile(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if isJSON(path) {
			v.SetConfigType("json")
		} else {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !journal.KnownCurrency(c.Currency) {
		return fmt.Errorf("unknown currency: %s", c.Currency)
	}

	switch c.Backend.Type {
	case "sqlite":
		if c.Backend.SQLitePath == "" {
			return fmt.Errorf("backend.sqlite_path required for sqlite backend")
		}
	case "postgres":
		if c.Backend.PostgresURL == "" {
			return fmt.Errorf("backend.postgres_url required for postgres backend")
		}
	case "rest":
		if c.Backend.RestURL == "" || c.Backend.RestAPIKey == "" {
			return fmt.Errorf("backend.rest_url and backend.rest_api_key required for rest backend")
		}
	case "memory":
	default:
		return fmt.Errorf("backend.type must be 'sqlite', 'postgres', 'rest' or 'memory'")
	}

	switch c.Prefs.Type {
	case "file":
		if c.Prefs.Path == "" {
			return fmt.Errorf("prefs.path required for file prefs")
		}
	case "redis", "memory":
	default:
		return fmt.Errorf("prefs.type must be 'file', 'redis' or 'memory'")
	}

	if c.Server.Denylist != "memory" && c.Server.Denylist != "redis" {
		return fmt.Errorf("server.denylist must be 'memory' or 'redis'")
	}
	if (c.Prefs.Type == "redis" || c.Server.Denylist == "redis") && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Server.TokenTTL <= 0 {
		return fmt.Errorf("server.token_ttl must be positive")
	}

	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		return fmt.Errorf("log.encoding must be 'json' or 'console'")
	}

	if strings.TrimSpace(c.DefaultAccount.Name) == "" {
		return fmt.Errorf("default_account.name is required")
	}
	if _, err := journal.ParseCategory(c.DefaultAccount.Type); err != nil {
		return fmt.Errorf("default_account.type: %w", err)
	}
	if c.DefaultAccount.InitialBalance <= 0 {
		return fmt.Errorf("default_account.initial_balance must be positive")
	}

	if _, err := risk.ParseMode(string(c.Risk.Mode)); err != nil {
		return fmt.Errorf("risk.mode: %w", err)
	}
	if c.Risk.DefaultRiskPct < 0 || c.Risk.MaxRiskPct < 0 || c.Risk.MinRR < 0 {
		return fmt.Errorf("risk limits must not be negative")
	}
	if c.Risk.MaxRiskPct > 0 && c.Risk.DefaultRiskPct > c.Risk.MaxRiskPct {
		return fmt.Errorf("risk.default_risk_pct must not exceed risk.max_risk_pct")
	}
	return nil
}
