package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient issues the smoke test requests. Every request carries the run
// id as X-Request-Id so server logs can be matched to a run.
type HTTPClient struct {
	client *http.Client
	runID  string
}

// newHTTPClient creates a client with its own transport so idle connections
// can be released when the run ends.
func newHTTPClient(timeout time.Duration, runID string) *HTTPClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &HTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		runID: runID,
	}
}

// Get performs a GET request and returns the response body.
func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// Post performs a POST request with a JSON body and returns the response body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, data)
}

// Delete performs a DELETE request and returns the response body.
func (c *HTTPClient) Delete(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, url, nil)
}

// CloseIdleConnections releases pooled connections.
func (c *HTTPClient) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}

func (c *HTTPClient) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequest, method, url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", c.runID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequest, method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: read body: %w", ErrRequest, method, url, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return data, fmt.Errorf("%w: %s %s: %d %s", ErrUnexpectedStatus, method, url, resp.StatusCode, bytes.TrimSpace(data))
	}
	return data, nil
}
