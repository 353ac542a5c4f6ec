// internal/sources/usertarget.go
package sources

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"shopscout/internal/common/config"
	stderrors "shopscout/internal/common/errors"
	commonhttp "shopscout/internal/common/http"
	"shopscout/internal/common/logger"
	"shopscout/internal/models"
)

// UserTargetAdapter fetches the caller-supplied listing URLs. This is
// explicit opt-in scraping of named pages, never autonomous crawling. When
// a plain fetch yields implausibly short content and a renderer is
// configured, the page is re-fetched through the rendering service.
type UserTargetAdapter struct {
	config config.UserTargetConfig
	client *commonhttp.Client
	logger logger.Logger
}

func NewUserTargetAdapter(cfg config.UserTargetConfig, log logger.Logger) *UserTargetAdapter {
	return &UserTargetAdapter{
		config: cfg,
		client: commonhttp.NewClient(cfg.GetTimeout()),
		logger: log.With(map[string]interface{}{"source": models.SourceUserTarget}),
	}
}

func (a *UserTargetAdapter) Source() models.Source {
	return models.SourceUserTarget
}

func (a *UserTargetAdapter) Fetch(ctx context.Context, _ models.Intent, req models.SearchRequest) FetchResult {
	started := time.Now()

	targets := req.Targets
	if len(targets) == 0 {
		return FetchResult{
			Source:   models.SourceUserTarget,
			Items:    []models.ListingFragment{},
			Duration: time.Since(started),
		}
	}
	if max := a.config.MaxTargets; max > 0 && len(targets) > max {
		targets = targets[:max]
	}

	items := make([]models.ListingFragment, 0, len(targets))
	var lastCode string

	for _, target := range targets {
		if _, err := url.ParseRequestURI(target); err != nil {
			continue
		}

		fragment, code := a.fetchTarget(ctx, target)
		if code != "" {
			lastCode = code
			continue
		}
		items = append(items, fragment)
	}

	items = finalize(items, a.config.MaxItems)

	// Only report an error when every target failed; partial extraction is
	// a success with fewer items.
	errorCode := ""
	if len(items) == 0 && lastCode != "" {
		errorCode = lastCode
	}

	a.logger.Info("fetch completed", map[string]interface{}{
		"targets": len(targets),
		"count":   len(items),
	})

	return FetchResult{
		Source:    models.SourceUserTarget,
		Items:     items,
		ErrorCode: errorCode,
		Duration:  time.Since(started),
	}
}

// fetchTarget fetches one page, falling back to the renderer for thin
// responses, and turns it into a single fragment.
func (a *UserTargetAdapter) fetchTarget(parent context.Context, target string) (models.ListingFragment, string) {
	ctx, cancel := context.WithTimeout(parent, a.config.GetTimeout())
	defer cancel()

	body, err := fetchBody(ctx, a.client, target)
	if err != nil {
		code := a.classify(ctx, err)
		a.logger.Warn("target fetch failed", map[string]interface{}{
			"target": target,
			"code":   code,
			"error":  err.Error(),
		})
		return models.ListingFragment{}, code
	}

	if len(body) < a.config.MinContentBytes && a.config.RendererBaseURL != "" {
		if rendered, err := a.fetchRendered(ctx, target); err == nil {
			body = rendered
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		parseErr := stderrors.NewAdapterParseError(string(models.SourceUserTarget), err)
		a.logger.Warn("target parse failed", map[string]interface{}{
			"target": target,
			"error":  parseErr.Error(),
		})
		return models.ListingFragment{}, wireCode(parseErr.Code)
	}

	title, text := extractPageText(doc)
	return models.ListingFragment{
		Title:    title,
		Link:     target,
		PriceRON: ParsePriceRON(text),
		RawText:  text,
		Source:   models.SourceUserTarget,
	}, ""
}

func (a *UserTargetAdapter) fetchRendered(ctx context.Context, target string) ([]byte, error) {
	renderURL := a.config.RendererBaseURL + "?url=" + url.QueryEscape(target)
	return fetchBody(ctx, a.client, renderURL)
}

func (a *UserTargetAdapter) classify(ctx context.Context, err error) string {
	return wireCode(adapterError(ctx, models.SourceUserTarget, err).Code)
}
