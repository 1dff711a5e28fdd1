package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
)

const (
	openaiMaxRetries   = 3
	openaiInitialDelay = 1 * time.Second
)

// OpenAIGenerator generates reports through an OpenAI-compatible chat
// completions endpoint.
type OpenAIGenerator struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

// NewOpenAIGenerator creates a chat completions report generator.
func NewOpenAIGenerator(baseURL, apiKey, model string, maxTokens int, timeout time.Duration) *OpenAIGenerator {
	return &OpenAIGenerator{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (g *OpenAIGenerator) GenerateReport(ctx context.Context, req Request) (*analysis.Result, error) {
	content, err := g.complete(ctx, systemPrompt, buildUserPrompt(req))
	if err != nil {
		return nil, err
	}

	// The extracted leading paragraph is a provisional summary; callers
	// replace it with the Summarize output when that call succeeds.
	return &analysis.Result{
		FullAnalysis:     content,
		ExecutiveSummary: extractSummary(content),
		MarketSnapshot:   marketSnapshotText(req),
		GeneratedAt:      time.Now(),
	}, nil
}

// Summarize condenses a finished report into its executive summary with a
// second completion call.
func (g *OpenAIGenerator) Summarize(ctx context.Context, text string) (string, error) {
	content, err := g.complete(ctx, summarySystemPrompt, "Summarize the following report:\n\n"+text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, system, user string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("generator API key not set")
	}

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Retry with exponential backoff on rate limits and server errors.
	var lastErr error
	for attempt := 0; attempt < openaiMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * openaiInitialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := g.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr chatError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("generator API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("generator API error (%d): %s", resp.StatusCode, string(respBody))
			}

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var parsed chatResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
			return "", fmt.Errorf("generator returned empty completion")
		}

		return parsed.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("max retries (%d) exceeded: %w", openaiMaxRetries, lastErr)
}
