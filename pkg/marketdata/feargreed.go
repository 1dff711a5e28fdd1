package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// FearGreedClient reads the alternative.me fear & greed index.
type FearGreedClient struct {
	baseURL string
	client  *http.Client
}

// NewFearGreedClient creates a fear/greed index client.
func NewFearGreedClient(baseURL string, timeout time.Duration) *FearGreedClient {
	return &FearGreedClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type fearGreedResponse struct {
	Data []struct {
		Value               string `json:"value"`
		ValueClassification string `json:"value_classification"`
	} `json:"data"`
}

func (c *FearGreedClient) Sentiment(ctx context.Context) (*Sentiment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fng/", nil)
	if err != nil {
		return nil, fmt.Errorf("feargreed: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feargreed: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feargreed: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feargreed: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var parsed fearGreedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("feargreed: failed to decode response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("feargreed: empty index response")
	}

	score, err := strconv.Atoi(parsed.Data[0].Value)
	if err != nil {
		return nil, fmt.Errorf("feargreed: invalid index value %q: %w", parsed.Data[0].Value, err)
	}

	return &Sentiment{
		Score:          score,
		Classification: parsed.Data[0].ValueClassification,
	}, nil
}
