// internal/sources/discovery.go
package sources

import (
	"context"
	"errors"
	"time"

	"shopscout/internal/common/config"
	"shopscout/internal/common/logger"
	"shopscout/internal/models"
	"shopscout/internal/websearch"
)

// DiscoveryAdapter finds listings through the web-search collaborator
// instead of scraping a fixed marketplace. Prices are opportunistically
// parsed from snippets; snippet-only fragments are still useful to the
// enrichment stage.
type DiscoveryAdapter struct {
	config   config.SourceConfig
	searcher websearch.Searcher
	logger   logger.Logger
}

func NewDiscoveryAdapter(cfg config.SourceConfig, searcher websearch.Searcher, log logger.Logger) *DiscoveryAdapter {
	return &DiscoveryAdapter{
		config:   cfg,
		searcher: searcher,
		logger:   log.With(map[string]interface{}{"source": models.SourceDiscovery}),
	}
}

func (a *DiscoveryAdapter) Source() models.Source {
	return models.SourceDiscovery
}

func (a *DiscoveryAdapter) Fetch(ctx context.Context, intent models.Intent, _ models.SearchRequest) FetchResult {
	started := time.Now()

	if !a.searcher.Enabled() {
		return errResult(models.SourceDiscovery, ErrCodeDisabled, "", started)
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.GetTimeout())
	defer cancel()

	query := intent.SearchQuery + " pret lei"
	results, err := a.searcher.Search(ctx, query, a.config.MaxItems)
	if err != nil {
		code := ErrCodeNetwork
		if errors.Is(err, websearch.ErrSearchTimeout) {
			code = ErrCodeTimeout
		}
		a.logger.Warn("discovery search failed", map[string]interface{}{
			"query": query,
			"code":  code,
			"error": err.Error(),
		})
		return errResult(models.SourceDiscovery, code, query, started)
	}

	items := make([]models.ListingFragment, 0, len(results))
	for _, r := range results {
		items = append(items, models.ListingFragment{
			Title:    r.Title,
			Link:     r.Link,
			PriceRON: ParsePriceRON(r.Snippet),
			Snippet:  r.Snippet,
			Source:   models.SourceDiscovery,
		})
	}

	items = finalize(items, a.config.MaxItems)

	a.logger.Info("fetch completed", map[string]interface{}{
		"query": query,
		"count": len(items),
	})

	return FetchResult{
		Source:   models.SourceDiscovery,
		Items:    items,
		QueryURL: query,
		Duration: time.Since(started),
	}
}
