// Package restdb is a journal.Backend for a hosted PostgREST-style database
// service. Tables are exposed under /rest/v1 and filtered with column=eq.value
// query parameters.
package restdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/shopspring/decimal"
)

const restPrefix = "/rest/v1/"

// APIError is a non-2xx response from the service.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Body)
}

// Client talks to the service with the project api key. When a user token is
// set it is sent as the bearer so row level security applies.
type Client struct {
	baseURL    string
	apiKey     string
	token      string
	httpClient *http.Client
}

var _ journal.Backend = (*Client)(nil)

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithToken returns a copy of c that authenticates as the token's user.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body, out any) error {
	apiURL := c.baseURL + restPrefix + table
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	bearer := c.apiKey
	if c.token != "" {
		bearer = c.token
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode, Body: string(data)}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", journal.ErrNotFound, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func eq(v string) string { return "eq." + v }

// accountInsert and tradeInsert leave out the columns the service assigns.
type accountInsert struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type tradeInsert struct {
	UserID    string          `json:"user_id"`
	AccountID string          `json:"account_id"`
	Pair      string          `json:"pair"`
	Type      string          `json:"type"`
	Entry     decimal.Decimal `json:"entry"`
	ExitPrice decimal.Decimal `json:"exit_price"`
	StopLoss  decimal.Decimal `json:"stop_loss"`
	LotSize   decimal.Decimal `json:"lot_size"`
	PnL       decimal.Decimal `json:"pnl"`
	Status    string          `json:"status"`
	Date      string          `json:"date"`
	Tags      []string        `json:"tags"`
	Notes     string          `json:"notes"`
}

func (c *Client) ListAccounts(ctx context.Context, userID string) ([]journal.AccountRecord, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", eq(userID))
	q.Set("order", "created_at.asc")

	var out []journal.AccountRecord
	if err := c.do(ctx, http.MethodGet, "accounts", q, nil, &out); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

func (c *Client) CreateAccount(ctx context.Context, rec journal.AccountRecord) (journal.AccountRecord, error) {
	body := accountInsert{
		ID:             rec.ID,
		UserID:         rec.UserID,
		Name:           rec.Name,
		Type:           rec.Type,
		InitialBalance: rec.InitialBalance,
	}

	var out []journal.AccountRecord
	if err := c.do(ctx, http.MethodPost, "accounts", nil, body, &out); err != nil {
		return journal.AccountRecord{}, fmt.Errorf("create account: %w", err)
	}
	if len(out) == 0 {
		return journal.AccountRecord{}, fmt.Errorf("create account: empty response")
	}
	return out[0], nil
}

func (c *Client) DeleteAccount(ctx context.Context, userID, accountID string) error {
	q := url.Values{}
	q.Set("id", eq(accountID))
	q.Set("user_id", eq(userID))

	var out []journal.AccountRecord
	if err := c.do(ctx, http.MethodDelete, "accounts", q, nil, &out); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if len(out) == 0 {
		return fmt.Errorf("account %q: %w", accountID, journal.ErrNotFound)
	}
	return nil
}

func (c *Client) ListTrades(ctx context.Context, userID string) ([]journal.TradeRecord, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", eq(userID))
	q.Set("order", "id.desc")

	var out []journal.TradeRecord
	if err := c.do(ctx, http.MethodGet, "trades", q, nil, &out); err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return out, nil
}

func (c *Client) CreateTrade(ctx context.Context, rec journal.TradeRecord) (journal.TradeRecord, error) {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	body := tradeInsert{
		UserID:    rec.UserID,
		AccountID: rec.AccountID,
		Pair:      rec.Pair,
		Type:      rec.Type,
		Entry:     rec.Entry,
		ExitPrice: rec.ExitPrice,
		StopLoss:  rec.StopLoss,
		LotSize:   rec.LotSize,
		PnL:       rec.PnL,
		Status:    rec.Status,
		Date:      rec.Date,
		Tags:      tags,
		Notes:     rec.Notes,
	}

	var out []journal.TradeRecord
	if err := c.do(ctx, http.MethodPost, "trades", nil, body, &out); err != nil {
		return journal.TradeRecord{}, fmt.Errorf("create trade: %w", err)
	}
	if len(out) == 0 {
		return journal.TradeRecord{}, fmt.Errorf("create trade: empty response")
	}
	return out[0], nil
}

func (c *Client) DeleteTrade(ctx context.Context, userID string, tradeID int64) error {
	q := url.Values{}
	q.Set("id", eq(strconv.FormatInt(tradeID, 10)))
	q.Set("user_id", eq(userID))

	var out []journal.TradeRecord
	if err := c.do(ctx, http.MethodDelete, "trades", q, nil, &out); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if len(out) == 0 {
		return fmt.Errorf("trade %d: %w", tradeID, journal.ErrNotFound)
	}
	return nil
}
