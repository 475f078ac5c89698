package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/prefs"
	"github.com/rustyeddy/tradejournal/risk"
	"github.com/rustyeddy/tradejournal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

type fixture struct {
	h       http.Handler
	jwt     auth.JWT
	reg     *Registry
	backend *journal.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := journal.NewMemory()
	p := prefs.NewMemory()
	seq := 0
	reg := NewRegistry(func(u auth.User) *store.Store {
		return store.New(backend, auth.NewStatic(u), prefs.NewScoped(p, u.ID),
			store.WithClock(func() time.Time { return testNow }),
			store.WithIDs(func() string {
				seq++
				return fmt.Sprintf("acct-%d", seq)
			}),
		)
	})

	j := auth.JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	srv := New(Options{
		Registry: reg,
		JWT:      j,
		Policy:   risk.DefaultPolicy(),
		Version:  "test",
		now:      func() time.Time { return testNow },
	})
	return &fixture{h: srv.Handler(), jwt: j, reg: reg, backend: backend}
}

func (f *fixture) token(t *testing.T, userID string) string {
	t.Helper()
	tok, _, err := f.jwt.Sign(auth.User{ID: userID, Email: userID + "@example.com"})
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func sellGold() gin.H {
	return gin.H{
		"pair":       "xauusd",
		"type":       "sell",
		"entry":      "2030.50",
		"exit":       "2025.00",
		"stopLoss":   "2035",
		"lotSize":    "1",
		"multiplier": "100",
		"date":       "2024-05-17",
		"notes":      "waited for my setup",
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[HealthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.True(t, resp.Timestamp.Equal(testNow))
}

func TestAPIRequiresToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/accounts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/accounts", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, f.reg.Len())
}

func TestFirstRequestCreatesDefaultAccount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/accounts", f.token(t, "u1"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Accounts        []journal.Account `json:"accounts"`
		ActiveAccountID string            `json:"activeAccountId"`
	}](t, w)
	require.Len(t, resp.Accounts, 1)
	assert.Equal(t, "Main Account", resp.Accounts[0].Name)
	assert.Equal(t, journal.Personal, resp.Accounts[0].Type)
	assert.Equal(t, "acct-1", resp.ActiveAccountID)
	assert.True(t, decimal.NewFromInt(100000).Equal(resp.Accounts[0].CurrentBalance))
}

func TestUsersAreIsolated(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/trades", f.token(t, "u1"), sellGold())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/trades", f.token(t, "u2"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]journal.Trade](t, w))
	assert.Equal(t, 2, f.reg.Len())
}

func TestCreateTrade(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	tok := f.token(t, "u1")

	w := f.do(t, http.MethodPost, "/api/v1/trades", tok, sellGold())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tr := decode[journal.Trade](t, w)
	assert.Equal(t, int64(1), tr.ID)
	assert.Equal(t, "acct-1", tr.AccountID)
	assert.Equal(t, "XAUUSD", tr.Pair)
	assert.Equal(t, journal.Sell, tr.Type)
	assert.True(t, decimal.RequireFromString("550").Equal(tr.PnL), tr.PnL.String())
	assert.Equal(t, journal.Win, tr.Status)
	assert.Equal(t, []string{"Disciplined"}, tr.Tags)

	w = f.do(t, http.MethodGet, "/api/v1/trades", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]journal.Trade](t, w), 1)
}

func TestCreateTradeRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		edit func(gin.H)
	}{
		{"missing pair", func(b gin.H) { delete(b, "pair") }},
		{"unknown direction", func(b gin.H) { b["type"] = "sideways" }},
		{"zero entry", func(b gin.H) { b["entry"] = "0" }},
		{"bad date", func(b gin.H) { b["date"] = "17/05/2024" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			body := sellGold()
			tt.edit(body)

			w := f.do(t, http.MethodPost, "/api/v1/trades", f.token(t, "u1"), body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestDeleteTrade(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	tok := f.token(t, "u1")

	w := f.do(t, http.MethodPost, "/api/v1/trades", tok, sellGold())
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/trades/1", tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/trades/1", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/trades/abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccounts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	tok := f.token(t, "u1")

	w := f.do(t, http.MethodPost, "/api/v1/accounts", tok, gin.H{
		"name":           "Phase 1",
		"initialBalance": "50000",
		"type":           "challenge",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	acct := decode[journal.Account](t, w)
	assert.Equal(t, "acct-2", acct.ID)
	assert.Equal(t, journal.Challenge, acct.Type)

	w = f.do(t, http.MethodGet, "/api/v1/accounts", tok, nil)
	resp := decode[struct {
		Accounts        []journal.Account `json:"accounts"`
		ActiveAccountID string            `json:"activeAccountId"`
	}](t, w)
	assert.Len(t, resp.Accounts, 2)
	assert.Equal(t, "acct-2", resp.ActiveAccountID)

	w = f.do(t, http.MethodPut, "/api/v1/accounts/active", tok, gin.H{"accountId": "acct-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"activeAccountId":"acct-1"}`, w.Body.String())

	w = f.do(t, http.MethodDelete, "/api/v1/accounts/acct-2", tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/accounts/acct-2", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body gin.H
	}{
		{"unknown type", gin.H{"name": "x", "initialBalance": "10", "type": "demo"}},
		{"empty name", gin.H{"name": "  ", "initialBalance": "10"}},
		{"negative balance", gin.H{"name": "x", "initialBalance": "-1"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			w := f.do(t, http.MethodPost, "/api/v1/accounts", f.token(t, "u1"), tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestSwitchAccountRequiresID(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/api/v1/accounts/active", f.token(t, "u1"), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsRoutes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	tok := f.token(t, "u1")

	w := f.do(t, http.MethodPost, "/api/v1/trades", tok, sellGold())
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/stats", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[struct {
		Summary      analytics.Summary `json:"summary"`
		ProfitFactor string            `json:"profitFactor"`
		TotalBalance decimal.Decimal   `json:"totalBalance"`
	}](t, w)
	assert.Equal(t, 1, stats.Summary.Trades)
	assert.Equal(t, 1, stats.Summary.Wins)
	assert.Equal(t, "∞", stats.ProfitFactor)
	assert.True(t, decimal.NewFromInt(100550).Equal(stats.TotalBalance))

	w = f.do(t, http.MethodGet, "/api/v1/equity", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	points := decode[[]analytics.Point](t, w)
	require.Len(t, points, 1)
	assert.Equal(t, 1, points[0].N)
	assert.True(t, decimal.NewFromInt(100550).Equal(points[0].Balance))

	w = f.do(t, http.MethodGet, "/api/v1/calendar?month=2024-05", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cal := decode[analytics.Calendar](t, w)
	assert.Equal(t, 2024, cal.Year)
	assert.Equal(t, time.May, cal.Month)
	assert.Equal(t, 1, cal.Trades)

	w = f.do(t, http.MethodGet, "/api/v1/calendar", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.May, decode[analytics.Calendar](t, w).Month)

	w = f.do(t, http.MethodGet, "/api/v1/calendar?month=May", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/symbols", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	syms := decode[[]analytics.SymbolPnL](t, w)
	require.Len(t, syms, 1)
	assert.Equal(t, "XAUUSD", syms[0].Pair)

	w = f.do(t, http.MethodGet, "/api/v1/directions", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, analytics.DirectionCount{Sell: 1}, decode[analytics.DirectionCount](t, w))

	w = f.do(t, http.MethodGet, "/api/v1/recent?n=3", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]journal.Trade](t, w), 1)

	w = f.do(t, http.MethodGet, "/api/v1/recent?n=three", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLots(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	tok := f.token(t, "u1")

	w := f.do(t, http.MethodPost, "/api/v1/risk/lots", tok, gin.H{
		"mode": "gold", "balance": 10000, "riskPct": 1, "entry": 2000, "stop": 1990,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[struct {
		Ready       bool             `json:"ready"`
		RiskAmount  float64          `json:"riskAmount"`
		Lots        string           `json:"lots"`
		RoundedLots float64          `json:"roundedLots"`
		ActualRisk  float64          `json:"actualRisk"`
		Violations  []risk.Violation `json:"violations"`
	}](t, w)
	assert.True(t, resp.Ready)
	assert.InDelta(t, 100, resp.RiskAmount, 1e-9)
	assert.Equal(t, "0.10", resp.Lots)
	assert.InDelta(t, 0.10, resp.RoundedLots, 1e-9)
	assert.InDelta(t, 100, resp.ActualRisk, 1e-6)
	assert.Empty(t, resp.Violations)
}

func TestLotsDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/risk/lots", f.token(t, "u1"), gin.H{
		"entry": 1.1000, "stop": 1.0950, "riskPct": 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[struct {
		Inputs     risk.LotInputs   `json:"inputs"`
		Violations []risk.Violation `json:"violations"`
	}](t, w)
	assert.Equal(t, risk.Gold, resp.Inputs.Mode)
	assert.InDelta(t, 100000, resp.Inputs.Balance, 1e-9)
	require.NotEmpty(t, resp.Violations)
	assert.Equal(t, "RISK_TOO_HIGH", resp.Violations[0].Code)

	w = f.do(t, http.MethodPost, "/api/v1/risk/lots", f.token(t, "u1"), gin.H{"mode": "stocks"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	tok := f.token(t, "u1")

	w := f.do(t, http.MethodPost, "/api/v1/psych/analyze", tok, gin.H{"notes": "Chased it, entered late"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tags":["FOMO"]}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/psych/analyze", tok, gin.H{"notes": ""})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tags":[]}`, w.Body.String())
}

func TestSignOut(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	tok := f.token(t, "u1")

	w := f.do(t, http.MethodGet, "/api/v1/accounts", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, f.reg.Len())

	w = f.do(t, http.MethodPost, "/auth/signout", tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, f.reg.Len())

	w = f.do(t, http.MethodGet, "/api/v1/accounts", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"token revoked"}`, w.Body.String())

	// a fresh token reloads the persisted account
	w = f.do(t, http.MethodGet, "/api/v1/accounts", f.token(t, "u1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"activeAccountId":"acct-1"`)
}
