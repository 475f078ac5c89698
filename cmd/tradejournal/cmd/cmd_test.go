package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Commands share package-level flag state, so these tests do not run in
// parallel and always pass the flags they depend on.

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tradejournal.yaml")
	cfg := fmt.Sprintf(`user:
  id: tester
currency: USD
backend:
  type: sqlite
  sqlite_path: %s
prefs:
  type: file
  path: %s
server:
  jwt_secret: cli-test-secret
  token_ttl: 1h
log:
  level: error
`, filepath.Join(dir, "journal.db"), filepath.Join(dir, "prefs.yaml"))
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tradejournal version "+version)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	out, err := run(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")
	assert.FileExists(t, path)

	out, err = run(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Backend: sqlite")
}

func TestConfigValidateRejectsMissingFile(t *testing.T) {
	_, err := run(t, "config", "validate", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestJournalWorkflow(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Main Account")
	assert.Contains(t, out, "*")
	assert.Contains(t, out, "$100,000.00")

	out, err = run(t, "--config", cfg, "trade", "add",
		"--pair", "xauusd", "--type", "sell",
		"--entry", "2030.50", "--exit", "2025", "--sl", "2035",
		"--lots", "1", "--multiplier", "100",
		"--date", "2024-05-17", "--notes", "waited for the setup")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged trade 1")
	assert.Contains(t, out, "$550.00")
	assert.Contains(t, out, "Disciplined")
	assert.Contains(t, out, "$100,550.00")

	out, err = run(t, "--config", cfg, "trade", "list", "--all=false")
	require.NoError(t, err)
	assert.Contains(t, out, "XAUUSD")
	assert.Contains(t, out, "Win")

	out, err = run(t, "--config", cfg, "trade", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "** Trade: XAUUSD Sell (#1)")
	assert.Contains(t, out, "- waited for the setup")

	out, err = run(t, "--config", cfg, "stats", "--org=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Profit factor: ∞")
	assert.Contains(t, out, "1 W / 0 L")

	out, err = run(t, "--config", cfg, "stats", "--org")
	require.NoError(t, err)
	assert.Contains(t, out, "Main Account")

	out, err = run(t, "--config", cfg, "calendar", "--month", "2024-05")
	require.NoError(t, err)
	assert.Contains(t, out, "May 2024")
	assert.Contains(t, out, "17+")
	assert.Contains(t, out, "Month: $550.00 over 1 trades")

	out, err = run(t, "--config", cfg, "trade", "export", "--format", "csv", "--all=false", "-o", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "id,account_id,date,pair"), out)

	out, err = run(t, "--config", cfg, "trade", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted trade 1")

	_, err = run(t, "--config", cfg, "trade", "show", "1")
	assert.Error(t, err)
}

func TestAccountAddAndSwitch(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "account", "add", "Phase", "1", "--balance", "50000", "--type", "challenge")
	require.NoError(t, err)
	assert.Contains(t, out, `Created Challenge account "Phase 1"`)
	assert.Contains(t, out, "$50,000.00")

	out, err = run(t, "--config", cfg, "account", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "*"), out)

	fields := strings.Fields(lines[1])
	require.NotEmpty(t, fields)
	mainID := fields[0]

	out, err = run(t, "--config", cfg, "account", "switch", mainID)
	require.NoError(t, err)
	assert.Contains(t, out, "Active account: "+mainID)

	out, err = run(t, "--config", cfg, "account", "list")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[1], "*"), out)

	_, err = run(t, "--config", cfg, "account", "add", "Bad", "--balance", "abc", "--type", "personal")
	assert.Error(t, err)
}

func TestCalc(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "calc",
		"--mode", "gold", "--balance", "10000", "--risk", "1",
		"--entry", "2000", "--stop", "1990", "--target", "2010")
	require.NoError(t, err)
	assert.Contains(t, out, "Lots:        0.10")
	assert.Contains(t, out, "Risk:        1.00% = 100.00")
	assert.Contains(t, out, "RR_TOO_LOW")

	_, err = run(t, "--config", cfg, "calc", "--mode", "stocks", "--balance", "1", "--risk", "1", "--entry", "1", "--stop", "2", "--target", "0")
	assert.Error(t, err)
}

func TestTag(t *testing.T) {
	out, err := run(t, "tag", "chased", "it", "late")
	require.NoError(t, err)
	assert.Equal(t, "FOMO\n", out)

	out, err = run(t, "tag", "quiet", "day")
	require.NoError(t, err)
	assert.Equal(t, "no tags\n", out)
}

func TestToken(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "--config", cfg, "token", "--user", "alice", "--ttl", "0")
	require.NoError(t, err)

	claims, err := auth.JWT{Secret: []byte("cli-test-secret")}.Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestBackendOverride(t *testing.T) {
	cfg := writeConfig(t)
	t.Cleanup(func() { backendType = "" })

	out, err := run(t, "--config", cfg, "--backend", "memory", "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Main Account")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(cfg), "journal.db"))

	_, err = run(t, "--config", cfg, "--backend", "mongo", "account", "list")
	assert.Error(t, err)
}
