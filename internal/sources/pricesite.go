// internal/sources/pricesite.go
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

// PriceSiteAdapter scrapes the price-comparison surface. Its results lead
// the merge order and carry aggregated offer prices.
type PriceSiteAdapter struct {
	config config.SourceConfig
	client *commonhttp.Client
	logger logger.Logger
}

func NewPriceSiteAdapter(cfg config.SourceConfig, log logger.Logger) *PriceSiteAdapter {
	return &PriceSiteAdapter{
		config: cfg,
		client: commonhttp.NewClient(cfg.GetTimeout()),
		logger: log.With(map[string]interface{}{"source": models.SourcePriceSite}),
	}
}

func (a *PriceSiteAdapter) Source() models.Source {
	return models.SourcePriceSite
}

func (a *PriceSiteAdapter) Fetch(ctx context.Context, intent models.Intent, _ models.SearchRequest) FetchResult {
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
		return errResult(models.SourcePriceSite, code, queryURL, started)
	}

	base, _ := url.Parse(a.config.BaseURL)
	items := make([]models.ListingFragment, 0)
	for _, card := range extractListingCards(doc, base) {
		items = append(items, models.ListingFragment{
			Title:    card.Title,
			Link:     card.Link,
			PriceRON: card.Price,
			RawText:  card.Text,
			Source:   models.SourcePriceSite,
		})
	}

	items = finalize(items, a.config.MaxItems)

	a.logger.Info("fetch completed", map[string]interface{}{
		"queryUrl": queryURL,
		"count":    len(items),
	})

	return FetchResult{
		Source:   models.SourcePriceSite,
		Items:    items,
		QueryURL: queryURL,
		Duration: time.Since(started),
	}
}

func (a *PriceSiteAdapter) buildQueryURL(intent models.Intent) string {
	params := url.Values{}
	params.Set("q", intent.SearchQuery)
	if intent.BudgetLei > 0 {
		params.Set("price_max", fmt.Sprintf("%.0f", intent.BudgetLei))
	}
	return a.config.BaseURL + "/search?" + params.Encode()
}

func (a *PriceSiteAdapter) classify(ctx context.Context, err error) string {
	return wireCode(adapterError(ctx, models.SourcePriceSite, err).Code)
}
