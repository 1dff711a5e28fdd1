package paygate

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NOWPaymentsGateway talks to the NOWPayments invoice API and verifies its
// IPN webhooks.
type NOWPaymentsGateway struct {
	baseURL    string
	apiKey     string
	ipnSecret  string
	successURL string
	cancelURL  string
	client     *http.Client
}

// NewNOWPaymentsGateway creates a NOWPayments adapter.
func NewNOWPaymentsGateway(baseURL, apiKey, ipnSecret, successURL, cancelURL string, timeout time.Duration) *NOWPaymentsGateway {
	return &NOWPaymentsGateway{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		ipnSecret:  ipnSecret,
		successURL: successURL,
		cancelURL:  cancelURL,
		client:     &http.Client{Timeout: timeout},
	}
}

type invoiceRequest struct {
	PriceAmount      string `json:"price_amount"`
	PriceCurrency    string `json:"price_currency"`
	OrderID          string `json:"order_id"`
	OrderDescription string `json:"order_description,omitempty"`
	SuccessURL       string `json:"success_url,omitempty"`
	CancelURL        string `json:"cancel_url,omitempty"`
}

type invoiceResponse struct {
	ID         json.Number `json:"id"`
	InvoiceURL string      `json:"invoice_url"`
}

func (g *NOWPaymentsGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	body, err := json.Marshal(invoiceRequest{
		PriceAmount:      req.Amount.String(),
		PriceCurrency:    strings.ToLower(req.Currency),
		OrderID:          req.PaymentID,
		OrderDescription: req.Description,
		SuccessURL:       g.successURL,
		CancelURL:        g.cancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/invoice", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway error (%d): %s", resp.StatusCode, string(respBody))
	}

	var parsed invoiceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if parsed.ID.String() == "" {
		return nil, fmt.Errorf("gateway returned no invoice id")
	}

	return &Intent{
		GatewayRef:  parsed.ID.String(),
		CheckoutURL: parsed.InvoiceURL,
	}, nil
}

type ipnPayload struct {
	PaymentID     json.Number `json:"payment_id"`
	PaymentStatus string      `json:"payment_status"`
	OrderID       string      `json:"order_id"`
	PayinHash     string      `json:"payin_hash"`
	PayAmount     json.Number `json:"pay_amount"`
}

// ParseWebhook verifies the x-nowpayments-sig HMAC and normalizes the IPN
// into an Event. Verification happens before any field is trusted.
func (g *NOWPaymentsGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if !g.verifySignature(payload, signature) {
		return nil, ErrInvalidSignature
	}

	var ipn ipnPayload
	if err := json.Unmarshal(payload, &ipn); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	if ipn.OrderID == "" {
		return nil, fmt.Errorf("%w: missing order_id", ErrMalformedWebhook)
	}

	event := &Event{
		PaymentID:  ipn.OrderID,
		GatewayRef: ipn.PaymentID.String(),
		Status:     mapIPNStatus(ipn.PaymentStatus),
		TxHash:     ipn.PayinHash,
	}

	if ipn.PayAmount.String() != "" {
		amount, err := decimal.NewFromString(ipn.PayAmount.String())
		if err != nil {
			return nil, fmt.Errorf("%w: bad pay_amount: %v", ErrMalformedWebhook, err)
		}
		event.PaidAmount = amount
	}

	return event, nil
}

// verifySignature checks the IPN HMAC-SHA512. NOWPayments signs the JSON
// re-serialized with sorted keys, which json.Marshal on a map reproduces.
// Numbers are decoded with UseNumber so integer literals above 2^53 keep
// their exact digits through the round trip.
func (g *NOWPaymentsGateway) verifySignature(payload []byte, signature string) bool {
	if g.ipnSecret == "" || signature == "" {
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return false
	}
	sorted, err := json.Marshal(fields)
	if err != nil {
		return false
	}

	mac := hmac.New(sha512.New, []byte(g.ipnSecret))
	mac.Write(sorted)
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(signature))) == 1
}

// mapIPNStatus collapses the gateway's status vocabulary onto the three
// outcomes the platform acts on. Unknown statuses read as pending so a new
// gateway status never falsely settles a payment.
func mapIPNStatus(status string) EventStatus {
	switch strings.ToLower(status) {
	case "finished", "confirmed":
		return EventCompleted
	case "failed", "expired", "refunded":
		return EventFailed
	default:
		return EventPending
	}
}
