package http

import (
	"context"
	"net/http"
	"time"
)

// Client is a thin wrapper around net/http with a hard timeout. The
// packaging pipeline uses it to pull attachment bytes from preview URLs,
// so every request must be cancellable through the caller's context.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
