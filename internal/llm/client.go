// Package llm wraps a single request/response cycle against an
// OpenAI-compatible chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Capabilities describes how a model family shapes its request payload.
// It is resolved once at client construction instead of sniffing the model
// name on every request.
type Capabilities struct {
	// TokenParam is the payload field carrying the completion token limit:
	// "max_tokens" for older models, "max_completion_tokens" for the
	// gpt-4o/gpt-5 generation.
	TokenParam string
	// SupportsTemperature is false for models that only accept the default
	// temperature (gpt-5-mini) and must not receive an override.
	SupportsTemperature bool
}

// ResolveCapabilities maps a model identifier to its payload shape.
func ResolveCapabilities(model string) Capabilities {
	caps := Capabilities{TokenParam: "max_tokens", SupportsTemperature: true}
	if strings.Contains(model, "gpt-4o") || strings.Contains(model, "gpt-5") {
		caps.TokenParam = "max_completion_tokens"
	}
	if strings.Contains(model, "gpt-5-mini") {
		caps.SupportsTemperature = false
	}
	return caps
}

// UpstreamError is a non-200 reply from the chat-completions endpoint.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API request failed: %d - %s", e.StatusCode, e.Body)
}

// Requester is the single-call surface the drivers depend on. The concrete
// Client implements it; tests substitute stubs.
type Requester interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
	Close()
}

// Client issues chat-completion requests for one model. A client owns its
// HTTP connections; Close releases them and must run on every exit path of
// the batch that acquired the client.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	caps       Capabilities
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint (tests, proxies).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the given model, resolving its payload
// capabilities up front.
func New(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		caps:       ResolveCapabilities(model),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model identifier the client was built for.
func (c *Client) Model() string { return c.model }

// Complete sends one user-role message and returns the first completion's
// text. Non-200 responses surface as *UpstreamError; the caller decides
// whether that is fatal.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		c.caps.TokenParam: maxTokens,
	}
	if c.caps.SupportsTemperature {
		payload["temperature"] = temperature
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/chat/completions", c.baseURL), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(errBody))}
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	return completion.Choices[0].Message.Content, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
