// Package market fetches live crypto market data from CoinGecko.
//
// Transport failures are degraded, not raised: list queries return an empty
// slice, single-value queries return zero/nil. Callers must treat those as
// "unknown", never as real values.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Coin is one entry of the ranked markets listing.
type Coin struct {
	ID                           string    `json:"id"`
	Symbol                       string    `json:"symbol"`
	Name                         string    `json:"name"`
	Image                        string    `json:"image"`
	CurrentPrice                 float64   `json:"current_price"`
	MarketCap                    float64   `json:"market_cap"`
	MarketCapRank                int       `json:"market_cap_rank"`
	FullyDilutedValuation        float64   `json:"fully_diluted_valuation"`
	TotalVolume                  float64   `json:"total_volume"`
	High24h                      float64   `json:"high_24h"`
	Low24h                       float64   `json:"low_24h"`
	PriceChange24h               float64   `json:"price_change_24h"`
	PriceChangePercentage24h     float64   `json:"price_change_percentage_24h"`
	MarketCapChange24h           float64   `json:"market_cap_change_24h"`
	MarketCapChangePercentage24h float64   `json:"market_cap_change_percentage_24h"`
	CirculatingSupply            float64   `json:"circulating_supply"`
	TotalSupply                  float64   `json:"total_supply"`
	MaxSupply                    float64   `json:"max_supply"`
	ATH                          float64   `json:"ath"`
	ATHChangePercentage          float64   `json:"ath_change_percentage"`
	ATHDate                      string    `json:"ath_date"`
	ATL                          float64   `json:"atl"`
	ATLChangePercentage          float64   `json:"atl_change_percentage"`
	ATLDate                      string    `json:"atl_date"`
	LastUpdated                  time.Time `json:"last_updated"`
	Sparkline7d                  Sparkline `json:"sparkline_in_7d"`
}

type Sparkline struct {
	Price []float64 `json:"price"`
}

type Config struct {
	BaseURL    string
	Currency   string // vs_currency for all quotes, e.g. "inr" or "usd"
	HTTPClient *http.Client
}

// Client talks to CoinGecko and keeps the last good markets listing cached
// for the price feed.
type Client struct {
	baseURL    string
	currency   string
	httpClient *http.Client

	mu       sync.RWMutex
	snapshot []Coin
	prices   map[string]float64 // by upper-cased symbol
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Currency == "" {
		cfg.Currency = "inr"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		currency:   cfg.Currency,
		httpClient: cfg.HTTPClient,
		prices:     make(map[string]float64),
	}
}

// Currency returns the fiat currency all quotes are priced in.
func (c *Client) Currency() string {
	return c.currency
}

// TopCoins returns the top limit coins by market cap, with 24h change and a
// 7-day sparkline. Returns an empty slice on any failure.
func (c *Client) TopCoins(ctx context.Context, limit int) []Coin {
	if limit <= 0 {
		limit = 10
	}

	values := url.Values{}
	values.Set("vs_currency", c.currency)
	values.Set("order", "market_cap_desc")
	values.Set("per_page", strconv.Itoa(limit))
	values.Set("page", "1")
	values.Set("sparkline", "true")
	values.Set("price_change_percentage", "24h")

	var coins []Coin
	if err := c.getJSON(ctx, "/coins/markets?"+values.Encode(), &coins); err != nil {
		log.Printf("market: fetching top coins: %v", err)
		return []Coin{}
	}
	return coins
}

// SimplePrice returns the current price for one coin id, or 0 when unknown.
func (c *Client) SimplePrice(ctx context.Context, coinID string) float64 {
	values := url.Values{}
	values.Set("ids", coinID)
	values.Set("vs_currencies", c.currency)

	var payload map[string]map[string]float64
	if err := c.getJSON(ctx, "/simple/price?"+values.Encode(), &payload); err != nil {
		log.Printf("market: fetching price for %s: %v", coinID, err)
		return 0
	}
	return payload[coinID][c.currency]
}

// CoinDetails returns the raw detail document for one coin, or nil when
// unavailable.
func (c *Client) CoinDetails(ctx context.Context, coinID string) map[string]any {
	var payload map[string]any
	if err := c.getJSON(ctx, "/coins/"+url.PathEscape(coinID), &payload); err != nil {
		log.Printf("market: fetching details for %s: %v", coinID, err)
		return nil
	}
	return payload
}

// Refresh re-fetches the top coins listing into the cache. A failed fetch
// keeps the previous snapshot.
func (c *Client) Refresh(ctx context.Context, limit int) {
	coins := c.TopCoins(ctx, limit)
	if len(coins) == 0 {
		return
	}

	prices := make(map[string]float64, len(coins))
	for _, coin := range coins {
		prices[strings.ToUpper(coin.Symbol)] = coin.CurrentPrice
	}

	c.mu.Lock()
	c.snapshot = coins
	c.prices = prices
	c.mu.Unlock()
}

// Snapshot returns the cached markets listing, possibly empty.
func (c *Client) Snapshot() []Coin {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Coin, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

// Price looks up the cached price for a symbol like "BTC".
func (c *Client) Price(symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	price, ok := c.prices[strings.ToUpper(symbol)]
	return price, ok
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
