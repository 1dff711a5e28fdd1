package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// paprikaIDs maps ticker symbols to CoinPaprika coin ids.
var paprikaIDs = map[string]string{
	"BTC":   "btc-bitcoin",
	"ETH":   "eth-ethereum",
	"SOL":   "sol-solana",
	"BNB":   "bnb-binance-coin",
	"XRP":   "xrp-xrp",
	"ADA":   "ada-cardano",
	"DOGE":  "doge-dogecoin",
	"DOT":   "dot-polkadot",
	"MATIC": "matic-polygon",
	"AVAX":  "avax-avalanche",
	"LINK":  "link-chainlink",
	"LTC":   "ltc-litecoin",
}

// CoinPaprikaClient is the fallback market data provider.
type CoinPaprikaClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinPaprikaClient creates a CoinPaprika client.
func NewCoinPaprikaClient(baseURL string, timeout time.Duration) *CoinPaprikaClient {
	return &CoinPaprikaClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type paprikaTickerResponse struct {
	Symbol string `json:"symbol"`
	Quotes struct {
		USD struct {
			Price            float64 `json:"price"`
			Volume24h        float64 `json:"volume_24h"`
			MarketCap        float64 `json:"market_cap"`
			PercentChange24h float64 `json:"percent_change_24h"`
		} `json:"USD"`
	} `json:"quotes"`
}

func (c *CoinPaprikaClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	id, ok := paprikaIDs[strings.ToUpper(symbol)]
	if !ok {
		return nil, fmt.Errorf("coinpaprika: unsupported symbol %s", symbol)
	}

	var resp paprikaTickerResponse
	if err := c.get(ctx, fmt.Sprintf("%s/tickers/%s", c.baseURL, id), &resp); err != nil {
		return nil, err
	}

	return &Quote{
		Symbol:    strings.ToUpper(symbol),
		PriceUSD:  decimal.NewFromFloat(resp.Quotes.USD.Price),
		Change24h: decimal.NewFromFloat(resp.Quotes.USD.PercentChange24h),
		Volume24h: decimal.NewFromFloat(resp.Quotes.USD.Volume24h),
		MarketCap: decimal.NewFromFloat(resp.Quotes.USD.MarketCap),
	}, nil
}

type paprikaGlobalResponse struct {
	MarketCapUSD        float64 `json:"market_cap_usd"`
	BitcoinDominancePct float64 `json:"bitcoin_dominance_percentage"`
}

func (c *CoinPaprikaClient) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	var resp paprikaGlobalResponse
	if err := c.get(ctx, c.baseURL+"/global", &resp); err != nil {
		return nil, err
	}

	return &GlobalStats{
		TotalMarketCapUSD: decimal.NewFromFloat(resp.MarketCapUSD),
		BTCDominance:      decimal.NewFromFloat(resp.BitcoinDominancePct),
	}, nil
}

func (c *CoinPaprikaClient) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("coinpaprika: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("coinpaprika: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("coinpaprika: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coinpaprika: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("coinpaprika: failed to decode response: %w", err)
	}
	return nil
}
