package llm

import (
	"net/http"
	"time"
)

// ClientOption applies a configuration option to the Client.
type ClientOption func(*Client)

// WithModel sets the model name sent with each request.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) {
		if t >= 0 {
			c.temperature = t
		}
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// TransportOption applies a configuration option to the HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithAPIKey sets the bearer token sent with each request.
func WithAPIKey(key string) TransportOption {
	return func(t *HTTPTransport) {
		t.apiKey = key
	}
}

// WithTimeout bounds each round-trip; cancellation through the request
// context still applies.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *HTTPTransport) {
		if d > 0 {
			t.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client, mainly for tests.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		if c != nil {
			t.client = c
		}
	}
}
