package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// feedResponse carries the status code alongside the body because feed
// health tracking needs the code even when the request succeeds.
type feedResponse struct {
	StatusCode int
	Body       []byte
}

// Client is the shared HTTP transport for all feed adapters. Utility
// feeds are slow and flaky, so every request rides the configured
// timeout and failures surface as errors rather than hangs.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a feed HTTP client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get fetches a feed URI.
func (c *Client) Get(ctx context.Context, uri string) (feedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return feedResponse{}, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

// Post sends a request body to a feed URI. SOAP endpoints key dispatch
// off the SOAPAction header, so extra headers are passed through.
func (c *Client) Post(ctx context.Context, uri, contentType, body string, headers map[string]string) (feedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, strings.NewReader(body))
	if err != nil {
		return feedResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (feedResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return feedResponse{}, fmt.Errorf("feed request %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return feedResponse{StatusCode: resp.StatusCode}, fmt.Errorf("read feed body: %w", err)
	}
	return feedResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// expandURI fills {placeholder} tokens in templated feed URIs.
func expandURI(template string, values map[string]string) string {
	out := template
	for k, v := range values {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
