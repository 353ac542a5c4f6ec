// internal/sources/resalesite.go
package sources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"shopscout/internal/common/config"
	commonhttp "shopscout/internal/common/http"
	"shopscout/internal/common/logger"
	"shopscout/internal/models"
)

// ResaleSiteAdapter scrapes the second-hand marketplace. Listings here are
// individual seller ads, so the raw card text matters for the condition and
// defect filters downstream.
type ResaleSiteAdapter struct {
	config config.SourceConfig
	client *commonhttp.Client
	logger logger.Logger
}

func NewResaleSiteAdapter(cfg config.SourceConfig, log logger.Logger) *ResaleSiteAdapter {
	return &ResaleSiteAdapter{
		config: cfg,
		client: commonhttp.NewClient(cfg.GetTimeout()),
		logger: log.With(map[string]interface{}{"source": models.SourceResaleSite}),
	}
}

func (a *ResaleSiteAdapter) Source() models.Source {
	return models.SourceResaleSite
}

func (a *ResaleSiteAdapter) Fetch(ctx context.Context, intent models.Intent, _ models.SearchRequest) FetchResult {
	started := time.Now()
	queryURL := a.buildQueryURL(intent)

	ctx, cancel := context.WithTimeout(ctx, a.config.GetTimeout())
	defer cancel()

	doc, err := fetchDocument(ctx, a.client, queryURL)
	if err != nil {
		code := a.classify(ctx, err)
		a.logger.Warn("fetch failed", map[string]interface{}{
			"queryUrl": queryURL,
			"code":     code,
			"error":    err.Error(),
		})
		return errResult(models.SourceResaleSite, code, queryURL, started)
	}

	base, _ := url.Parse(a.config.BaseURL)
	items := make([]models.ListingFragment, 0)
	for _, card := range extractListingCards(doc, base) {
		items = append(items, models.ListingFragment{
			Title:    card.Title,
			Link:     card.Link,
			PriceRON: card.Price,
			Snippet:  card.Text,
			Source:   models.SourceResaleSite,
		})
	}

	items = finalize(items, a.config.MaxItems)

	a.logger.Info("fetch completed", map[string]interface{}{
		"queryUrl": queryURL,
		"count":    len(items),
	})

	return FetchResult{
		Source:   models.SourceResaleSite,
		Items:    items,
		QueryURL: queryURL,
		Duration: time.Since(started),
	}
}

func (a *ResaleSiteAdapter) buildQueryURL(intent models.Intent) string {
	params := url.Values{}
	params.Set("q", intent.SearchQuery)
	if intent.BudgetLei > 0 {
		params.Set("filter_float_price:to", fmt.Sprintf("%.0f", intent.BudgetLei))
	}
	return a.config.BaseURL + "/oferte/?" + params.Encode()
}

func (a *ResaleSiteAdapter) classify(ctx context.Context, err error) string {
	return wireCode(adapterError(ctx, models.SourceResaleSite, err).Code)
}
