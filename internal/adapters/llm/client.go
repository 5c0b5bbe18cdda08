// Package llm is the outbound adapter for the text-completion service. A
// single Client speaks the chat-completions contract over an injected
// Transport, so business code never branches between live and stub behavior.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// Default request parameters.
const (
	defaultTimeout     = 30 * time.Second
	defaultTemperature = 0.1
	defaultMaxTokens   = 1024
	defaultModel       = "gpt-4o-mini"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat asks the endpoint for constrained output.
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest mirrors the chat-completions request schema.
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Transport performs one completion round-trip and returns the raw message
// content. Implementations must honor ctx cancellation.
type Transport interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Client builds chat requests with configured model parameters and hands
// them to its transport.
type Client struct {
	transport   Transport
	model       string
	temperature float64
	maxTokens   int
}

// NewClient creates a Client over the given transport.
func NewClient(transport Transport, opts ...ClientOption) *Client {
	c := &Client{
		transport:   transport,
		model:       defaultModel,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends the messages and returns the model's raw text reply.
func (c *Client) Complete(ctx context.Context, msgs []Message) (string, error) {
	return c.complete(ctx, msgs, nil)
}

// CompleteJSON sends the messages requesting a single JSON object reply.
// The model may still wrap JSON in prose; callers sanitize.
func (c *Client) CompleteJSON(ctx context.Context, msgs []Message) (string, error) {
	return c.complete(ctx, msgs, &ResponseFormat{Type: "json_object"})
}

func (c *Client) complete(ctx context.Context, msgs []Message, format *ResponseFormat) (string, error) {
	req := ChatRequest{
		Model:          c.model,
		Messages:       msgs,
		Temperature:    c.temperature,
		MaxTokens:      c.maxTokens,
		ResponseFormat: format,
	}
	out, err := c.transport.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm completion: %w", err)
	}
	return out, nil
}

// HTTPTransport talks to a real chat-completions endpoint with an explicit
// timeout and caller cancellation.
type HTTPTransport struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPTransport creates an HTTPTransport for the given endpoint.
func NewHTTPTransport(endpoint string, opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Complete performs the HTTP round-trip. Timeouts and cancellations surface
// as ErrTransport so callers treat them like any unreachable endpoint.
func (t *HTTPTransport) Complete(ctx context.Context, req ChatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %w", ErrTransport, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: endpoint returned %d", ErrTransport, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrTransport, err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}
