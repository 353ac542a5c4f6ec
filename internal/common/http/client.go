// internal/common/http/client.go
//
// Package http wraps the standard client with the hard per-call timeout
// every outbound fetch carries. The scraping adapters, the web-search
// client and the GenAI client all go through it.
package http

import (
	"context"
	"net/http"
	"time"
)

// Client is an http.Client with a fixed timeout applied to every call.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a client with the given timeout. A non-positive timeout
// disables the client-level deadline; the request context then bounds the
// call on its own.
func NewClient(timeout time.Duration) *Client {
	if timeout < 0 {
		timeout = 0
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DoWithContext executes the request bound to ctx in addition to the client
// timeout; whichever deadline fires first cancels the call.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
