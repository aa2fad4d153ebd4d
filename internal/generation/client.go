// Package generation implements the text-generation service client. Failures
// are classified into structured codes so the enrichment retry policy never
// inspects message text.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dossier/internal/profile/ports"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for the completion endpoint at baseURL. The
// request timeout doubles as the per-call deadline the workflow treats as
// retryable.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type completionResponse struct {
	Text string `json:"text"`
}

func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(completionRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", &ports.GenerationError{Code: ports.GenerationFailed, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/completions", bytes.NewReader(body))
	if err != nil {
		return "", &ports.GenerationError{Code: ports.GenerationFailed, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", &ports.GenerationError{Code: ports.GenerationTimeout, Message: "completion request timed out"}
		}
		return "", &ports.GenerationError{Code: ports.GenerationFailed, Message: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &ports.GenerationError{Code: ports.GenerationRateLimited, Message: "completion quota exceeded"}
	case resp.StatusCode == http.StatusGatewayTimeout:
		return "", &ports.GenerationError{Code: ports.GenerationTimeout, Message: "completion request timed out upstream"}
	case resp.StatusCode != http.StatusOK:
		return "", &ports.GenerationError{
			Code:    ports.GenerationFailed,
			Message: fmt.Sprintf("completion returned status %d", resp.StatusCode),
		}
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", &ports.GenerationError{Code: ports.GenerationFailed, Message: "malformed completion response"}
	}
	return completion.Text, nil
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

// Disabled is wired when no generation service is configured; every call
// fails non-retryably so enrichment falls straight through to the templated
// fallbacks.
type Disabled struct{}

func (Disabled) Complete(context.Context, string, int, float64) (string, error) {
	return "", &ports.GenerationError{Code: ports.GenerationFailed, Message: "generation service is not configured"}
}
