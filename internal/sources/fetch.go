// internal/sources/fetch.go
package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	commonhttp "shopscout/internal/common/http"
)

const userAgent = "shopscout/1.0"

// httpStatusError marks a non-OK response so the caller can map it to the
// right wire code.
type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.status)
}

// fetchDocument GETs a page and parses it into a goquery document.
func fetchDocument(ctx context.Context, client *commonhttp.Client, pageURL string) (*goquery.Document, error) {
	body, err := fetchBody(ctx, client, pageURL)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// fetchBody GETs a page and returns its bounded body bytes.
func fetchBody(ctx context.Context, client *commonhttp.Client, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.DoWithContext(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{status: resp.StatusCode}
	}

	// 2 MB is plenty for a listing page; bounds memory on hostile input.
	return io.ReadAll(io.LimitReader(resp.Body, 2<<20))
}
