package custodian

import (
	"bytes"
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

// Client is the HTTP implementation of Custodian.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a custodial wallet API client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type createWalletRequest struct {
	Label string `json:"label"`
}

type walletResponse struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

func (c *Client) CreateWallet(ctx context.Context, label string) (*Wallet, error) {
	var resp walletResponse
	err := c.do(ctx, http.MethodPost, "/wallets", createWalletRequest{Label: label}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("custodian returned no wallet id")
	}

	return &Wallet{ID: resp.ID, Address: resp.Address}, nil
}

type balanceRow struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

func (c *Client) GetBalances(ctx context.Context, walletID string) ([]Balance, error) {
	var rows []balanceRow
	path := fmt.Sprintf("/wallets/%s/balances", url.PathEscape(walletID))
	if err := c.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}

	balances := make([]Balance, len(rows))
	for i, row := range rows {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("custodian returned bad amount %q: %w", row.Amount, err)
		}
		balances[i] = Balance{Asset: row.Asset, Amount: amount}
	}
	return balances, nil
}

type transferRequest struct {
	FromWalletID   string `json:"from_wallet_id"`
	ToWalletID     string `json:"to_wallet_id"`
	Asset          string `json:"asset"`
	Amount         string `json:"amount"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type transferResponse struct {
	Ref    string `json:"ref"`
	Status string `json:"status"`
}

func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	body := transferRequest{
		FromWalletID:   req.FromWalletID,
		ToWalletID:     req.ToWalletID,
		Asset:          req.Asset,
		Amount:         req.Amount.String(),
		IdempotencyKey: req.IdempotencyKey,
	}

	var resp transferResponse
	if err := c.do(ctx, http.MethodPost, "/transfers", body, &resp); err != nil {
		return nil, err
	}
	if resp.Ref == "" {
		return nil, fmt.Errorf("custodian returned no transfer ref")
	}

	return &TransferResult{Ref: resp.Ref, Status: resp.Status}, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("custodian request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read custodian response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("custodian error (%d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode custodian response: %w", err)
		}
	}
	return nil
}
