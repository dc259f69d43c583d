package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UserIDHeader is the header the server reads the user id from.
const UserIDHeader = "X-User-ID"

// Client talks JSON to the fitcycle API on behalf of a single user.
type Client struct {
	client *http.Client
	url    string
	userID string
}

// NewClient creates a client for the server at url. An empty userID sends anonymous requests.
func NewClient(url, userID string) *Client {
	return &Client{
		client: &http.Client{Timeout: 10 * time.Second}, //nolint:mnd // generous for stress tests.
		url:    url,
		userID: userID,
	}
}

// WithUser returns a client sharing the connection pool that acts as another user.
func (c *Client) WithUser(userID string) *Client {
	return &Client{
		client: c.client,
		url:    c.url,
		userID: userID,
	}
}

// UserID returns the user the client acts as.
func (c *Client) UserID() string {
	return c.userID
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	for {
		resp, err := c.Do(ctx, http.MethodGet, urlPath, nil)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Do sends a request with body encoded as JSON. A nil body sends no body at all.
func (c *Client) Do(ctx context.Context, method, urlPath string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(UserIDHeader, c.userID)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, urlPath, nil)
}

// GetJSON fetches urlPath and decodes a successful response into dst.
func (c *Client) GetJSON(ctx context.Context, urlPath string, dst any) error {
	return c.roundTrip(ctx, http.MethodGet, urlPath, nil, dst)
}

// PostJSON posts body to urlPath and decodes a successful response into dst. Both body and dst may be nil.
func (c *Client) PostJSON(ctx context.Context, urlPath string, body, dst any) error {
	return c.roundTrip(ctx, http.MethodPost, urlPath, body, dst)
}

// Delete sends a DELETE request and expects a successful response.
func (c *Client) Delete(ctx context.Context, urlPath string) error {
	return c.roundTrip(ctx, http.MethodDelete, urlPath, nil, nil)
}

func (c *Client) roundTrip(ctx context.Context, method, urlPath string, body, dst any) error {
	resp, err := c.Do(ctx, method, urlPath, body)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return DecodeJSON(resp, dst)
}
