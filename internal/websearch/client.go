// internal/websearch/client.go
//
// Package websearch wraps the external web-search collaborator (Custom
// Search style API). The pipeline uses it for listing discovery and for
// best-effort review lookup; both degrade when credentials are absent.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopscout/internal/common/config"
	commonhttp "shopscout/internal/common/http"
	"shopscout/internal/common/logger"
)

var (
	ErrMissingCredentials = errors.New("web search credentials not configured")
	ErrSearchTimeout      = errors.New("WEB_SEARCH_TIMEOUT")
)

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher is the abstract search collaborator contract.
type Searcher interface {
	Enabled() bool
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Client calls the configured search API with key + engine id + query
// parameters.
type Client struct {
	baseURL  string
	apiKey   string
	engineID string
	timeout  time.Duration
	client   *commonhttp.Client
	logger   logger.Logger
}

func NewClient(cfg config.APIsConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:  cfg.WebSearch.BaseURL,
		apiKey:   cfg.WebSearch.APIKey,
		engineID: cfg.WebSearch.EngineID,
		timeout:  time.Duration(cfg.WebSearch.Timeout) * time.Millisecond,
		client:   commonhttp.NewClient(time.Duration(cfg.WebSearch.Timeout) * time.Millisecond),
		logger:   log.With(map[string]interface{}{"component": "websearch"}),
	}
}

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.apiKey != "" && c.engineID != ""
}

// Search issues one query and maps the API items to Results. Non-HTML hits
// are skipped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if !c.Enabled() {
		return nil, ErrMissingCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildSearchURL(query, limit), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded ||
			strings.Contains(err.Error(), "timeout") ||
			strings.Contains(err.Error(), "deadline") ||
			strings.Contains(err.Error(), "Client.Timeout") {
			return nil, ErrSearchTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	var apiResponse struct {
		Items []struct {
			Link    string `json:"link"`
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Mime    string `json:"mime"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(apiResponse.Items))
	for _, item := range apiResponse.Items {
		if item.Mime != "" && !strings.Contains(item.Mime, "html") {
			continue
		}
		if item.Link == "" {
			continue
		}
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
		if limit > 0 && len(results) >= limit {
			break
		}
	}

	c.logger.Debug("web search completed", map[string]interface{}{
		"query":       query,
		"resultCount": len(results),
	})

	return results, nil
}

func (c *Client) buildSearchURL(query string, limit int) string {
	baseURL, _ := url.Parse(c.baseURL)
	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("cx", c.engineID)
	params.Add("q", query)
	if limit > 0 {
		params.Add("num", fmt.Sprintf("%d", limit))
	}
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}
