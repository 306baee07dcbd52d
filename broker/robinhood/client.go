package robinhood

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/rob/broker"
)

// DefaultBaseURL is the production Robinhood API endpoint.
const DefaultBaseURL = "https://api.robinhood.com"

// Config holds client construction parameters.
type Config struct {
	BaseURL string        // defaults to DefaultBaseURL
	Timeout time.Duration // defaults to 30s
	// CachePath is where the session token is cached between runs.
	// Empty disables caching.
	CachePath string
}

// Client is a Robinhood API client implementing broker.Session once
// Login has succeeded.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cachePath  string
	token      string
}

// New creates an unauthenticated client. Call Login before using it as
// a broker.Session.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		cachePath:  cfg.CachePath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiAccount struct {
	AccountNumber string `json:"account_number"`
	BuyingPower   string `json:"buying_power"`
}

type accountsResponse struct {
	Results []apiAccount `json:"results"`
}

type apiPosition struct {
	Symbol          string `json:"symbol"`
	Quantity        string `json:"quantity"`
	AverageBuyPrice string `json:"average_buy_price"`
}

type positionsResponse struct {
	Results []apiPosition `json:"results"`
}

type apiQuote struct {
	Symbol         string `json:"symbol"`
	LastTradePrice string `json:"last_trade_price"`
	UpdatedAt      string `json:"updated_at"`
}

type apiOrder struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Price string `json:"price"`
}

// GetPositions returns all nonzero holdings.
func (c *Client) GetPositions(ctx context.Context) ([]broker.Holding, error) {
	var resp positionsResponse
	if err := c.do(ctx, http.MethodGet, "/positions/?nonzero=true", nil, &resp); err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}

	holdings := make([]broker.Holding, 0, len(resp.Results))
	for _, p := range resp.Results {
		qty, err := decimal.NewFromString(p.Quantity)
		if err != nil {
			return nil, fmt.Errorf("parse quantity for %s: %w", p.Symbol, err)
		}
		avg, err := decimal.NewFromString(p.AverageBuyPrice)
		if err != nil {
			return nil, fmt.Errorf("parse average cost for %s: %w", p.Symbol, err)
		}
		holdings = append(holdings, broker.Holding{
			Symbol:   p.Symbol,
			Quantity: qty,
			AvgCost:  avg,
		})
	}
	return holdings, nil
}

// GetQuote returns the last trade price for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (broker.Quote, error) {
	var resp apiQuote
	if err := c.do(ctx, http.MethodGet, "/quotes/"+symbol+"/", nil, &resp); err != nil {
		return broker.Quote{}, fmt.Errorf("get quote %s: %w", symbol, err)
	}

	price, err := decimal.NewFromString(resp.LastTradePrice)
	if err != nil {
		return broker.Quote{}, fmt.Errorf("parse price for %s: %w", symbol, err)
	}

	q := broker.Quote{Symbol: symbol, Price: price}
	if t, err := time.Parse(time.RFC3339, resp.UpdatedAt); err == nil {
		q.Time = t
	}
	return q, nil
}

// GetCashBalance returns the account's buying power.
func (c *Client) GetCashBalance(ctx context.Context) (decimal.Decimal, error) {
	var resp accountsResponse
	if err := c.do(ctx, http.MethodGet, "/accounts/", nil, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("get account: %w", err)
	}
	if len(resp.Results) == 0 {
		return decimal.Zero, fmt.Errorf("get account: no accounts returned")
	}

	cash, err := decimal.NewFromString(resp.Results[0].BuyingPower)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse buying power: %w", err)
	}
	return cash, nil
}

// PlaceMarketOrder submits a good-for-day market order. Rejections come
// back as *broker.OrderError.
func (c *Client) PlaceMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (broker.Fill, error) {
	body := map[string]string{
		"symbol":        req.Symbol,
		"side":          string(req.Side),
		"quantity":      req.Quantity.String(),
		"type":          "market",
		"time_in_force": "gfd",
	}

	var resp apiOrder
	if err := c.do(ctx, http.MethodPost, "/orders/", body, &resp); err != nil {
		return broker.Fill{}, &broker.OrderError{Symbol: req.Symbol, Side: req.Side, Err: err}
	}

	fill := broker.Fill{
		OrderID:  resp.ID,
		Symbol:   req.Symbol,
		Side:     req.Side,
		Quantity: req.Quantity,
		State:    resp.State,
	}
	if resp.Price != "" {
		if price, err := decimal.NewFromString(resp.Price); err == nil {
			fill.Price = price
		}
	}
	return fill, nil
}

// do executes one authenticated API call and decodes the JSON response
// into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
