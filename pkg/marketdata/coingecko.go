package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// geckoIDs maps ticker symbols to CoinGecko coin ids for the assets the
// platform analyzes. Unknown symbols fall through to the lowercased symbol,
// which works for coins whose id matches their ticker.
var geckoIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"BNB":   "binancecoin",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"DOT":   "polkadot",
	"MATIC": "matic-network",
	"AVAX":  "avalanche-2",
	"LINK":  "chainlink",
	"LTC":   "litecoin",
}

// CoinGeckoClient is the primary market data provider.
type CoinGeckoClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewCoinGeckoClient creates a CoinGecko client. apiKey may be empty; the
// free tier works without one at lower rate limits.
func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type geckoMarketRow struct {
	Symbol       string  `json:"symbol"`
	CurrentPrice float64 `json:"current_price"`
	Change24h    float64 `json:"price_change_percentage_24h"`
	Volume24h    float64 `json:"total_volume"`
	MarketCap    float64 `json:"market_cap"`
}

func (c *CoinGeckoClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	id, ok := geckoIDs[strings.ToUpper(symbol)]
	if !ok {
		id = strings.ToLower(symbol)
	}

	endpoint := fmt.Sprintf("%s/coins/markets?vs_currency=usd&ids=%s", c.baseURL, url.QueryEscape(id))

	var rows []geckoMarketRow
	if err := c.get(ctx, endpoint, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("coingecko: no market data for %s", symbol)
	}

	row := rows[0]
	return &Quote{
		Symbol:    strings.ToUpper(symbol),
		PriceUSD:  decimal.NewFromFloat(row.CurrentPrice),
		Change24h: decimal.NewFromFloat(row.Change24h),
		Volume24h: decimal.NewFromFloat(row.Volume24h),
		MarketCap: decimal.NewFromFloat(row.MarketCap),
	}, nil
}

type geckoGlobalResponse struct {
	Data struct {
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	} `json:"data"`
}

func (c *CoinGeckoClient) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	var resp geckoGlobalResponse
	if err := c.get(ctx, c.baseURL+"/global", &resp); err != nil {
		return nil, err
	}

	return &GlobalStats{
		TotalMarketCapUSD: decimal.NewFromFloat(resp.Data.TotalMarketCap["usd"]),
		BTCDominance:      decimal.NewFromFloat(resp.Data.MarketCapPercentage["btc"]),
	}, nil
}

func (c *CoinGeckoClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("coingecko: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("coingecko: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("coingecko: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coingecko: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("coingecko: failed to decode response: %w", err)
	}
	return nil
}
