// internal/sources/adapter.go
//
// Package sources holds the four listing adapters. Each adapter fetches from
// one external surface and returns a tagged Ok/Err result; nothing escapes
// an adapter boundary as a panic or error value, so the merge stage can
// pattern-match without exception handling.
package sources

import (
	"context"
	"errors"
	"strings"
	"time"

	stderrors "shopscout/internal/common/errors"
	"shopscout/internal/models"
)

// Wire-level adapter error codes, surfaced in sources[*].error.
const (
	ErrCodeTimeout    = "timeout"
	ErrCodeHTTPStatus = "http_status"
	ErrCodeNetwork    = "network"
	ErrCodeParse      = "parse"
	ErrCodeDisabled   = "disabled"
)

// FetchResult is the outcome of one adapter call within one request.
type FetchResult struct {
	Source    models.Source
	Items     []models.ListingFragment
	ErrorCode string
	QueryURL  string
	Duration  time.Duration
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.ErrorCode == ""
}

// Adapter is the uniform contract every source implements.
type Adapter interface {
	Source() models.Source
	Fetch(ctx context.Context, intent models.Intent, req models.SearchRequest) FetchResult
}

// errResult builds the error-tagged empty result every failure path returns.
func errResult(source models.Source, code, queryURL string, started time.Time) FetchResult {
	return FetchResult{
		Source:    source,
		Items:     []models.ListingFragment{},
		ErrorCode: code,
		QueryURL:  queryURL,
		Duration:  time.Since(started),
	}
}

// adapterError builds the standard error for a failed fetch.
func adapterError(ctx context.Context, source models.Source, err error) *stderrors.StandardError {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return stderrors.NewAdapterHTTPStatusError(string(source), statusErr.status)
	}
	if ctx.Err() == context.DeadlineExceeded ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "Client.Timeout") ||
		strings.Contains(err.Error(), "deadline") {
		return stderrors.NewAdapterTimeoutError(string(source))
	}
	return stderrors.NewAdapterNetworkError(string(source), err)
}

// wireCode maps a standard error code to the lowercase code surfaced in
// sources[*].error.
func wireCode(code stderrors.ErrorCode) string {
	switch code {
	case stderrors.ErrCodeAdapterTimeout:
		return ErrCodeTimeout
	case stderrors.ErrCodeAdapterHTTPStatus:
		return ErrCodeHTTPStatus
	case stderrors.ErrCodeAdapterParseFailed:
		return ErrCodeParse
	default:
		return ErrCodeNetwork
	}
}

// classifyFetchError maps a transport error to a wire code.
func classifyFetchError(ctx context.Context, err error) string {
	return wireCode(adapterError(ctx, "", err).Code)
}

// dedupeByLink collapses duplicate links within one adapter's output,
// keeping the cheaper priced fragment. Order of first occurrence is kept.
func dedupeByLink(items []models.ListingFragment) []models.ListingFragment {
	index := make(map[string]int, len(items))
	out := make([]models.ListingFragment, 0, len(items))

	for _, item := range items {
		pos, seen := index[item.Link]
		if !seen {
			index[item.Link] = len(out)
			out = append(out, item)
			continue
		}

		kept := out[pos]
		if item.PriceRON > 0 && (kept.PriceRON <= 0 || item.PriceRON < kept.PriceRON) {
			out[pos] = item
		}
	}

	return out
}

// dropUnusable removes fragments that carry neither a price nor any
// descriptive text; they cannot be scored or shown.
func dropUnusable(items []models.ListingFragment) []models.ListingFragment {
	out := items[:0]
	for _, item := range items {
		if item.PriceRON <= 0 && !item.HasText() {
			continue
		}
		out = append(out, item)
	}
	return out
}

// capItems bounds the per-call item count to limit downstream cost.
func capItems(items []models.ListingFragment, max int) []models.ListingFragment {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}

// finalize applies the shared post-processing every adapter runs on its raw
// extraction: drop unusable, dedupe by link keeping the cheaper offer, cap.
func finalize(items []models.ListingFragment, max int) []models.ListingFragment {
	return capItems(dedupeByLink(dropUnusable(items)), max)
}
