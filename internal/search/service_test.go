// internal/search/service_test.go
package search

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopscout/internal/cache"
	"shopscout/internal/common/config"
	"shopscout/internal/common/database"
	stderrors "shopscout/internal/common/errors"
	"shopscout/internal/common/logger"
	"shopscout/internal/common/observability"
	"shopscout/internal/models"
	"shopscout/internal/oracle"
	"shopscout/internal/sources"
	"shopscout/internal/websearch"
)

// ==========================
// Test Helper Functions
// ==========================

type stubAdapter struct {
	source models.Source
	result sources.FetchResult
	calls  int
}

func (a *stubAdapter) Source() models.Source { return a.source }

func (a *stubAdapter) Fetch(context.Context, models.Intent, models.SearchRequest) sources.FetchResult {
	a.calls++
	return a.result
}

type disabledSearcher struct{}

func (disabledSearcher) Enabled() bool { return false }

func (disabledSearcher) Search(context.Context, string, int) ([]websearch.Result, error) {
	return nil, websearch.ErrMissingCredentials
}

func okAdapter(source models.Source, items ...models.ListingFragment) *stubAdapter {
	return &stubAdapter{
		source: source,
		result: sources.FetchResult{Source: source, Items: items},
	}
}

func failedAdapter(source models.Source, code string) *stubAdapter {
	return &stubAdapter{
		source: source,
		result: sources.FetchResult{Source: source, Items: []models.ListingFragment{}, ErrorCode: code},
	}
}

func listing(source models.Source, title, link string, price float64) models.ListingFragment {
	return models.ListingFragment{
		Title:    title,
		Link:     link,
		PriceRON: price,
		Source:   source,
	}
}

func testService(t *testing.T, adapters ...sources.Adapter) *Service {
	mr := miniredis.RunT(t)
	client, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	log := logger.NewTestLogger(t)
	return NewService(Deps{
		Adapters:      adapters,
		Oracles:       oracle.New(config.APIsConfig{}, log),
		Searcher:      disabledSearcher{},
		Cache:         cache.New(cache.NewRedisStore(client), 20*time.Minute, log),
		Observability: new(observability.Observability),
		Logger:        log,
	})
}

// ==========================
// Request Validation Tests
// ==========================

func TestSearch_EmptyQueryIsFatal(t *testing.T) {
	svc := testService(t)

	_, err := svc.Search(context.Background(), models.SearchRequest{Query: "   "})

	require.Error(t, err)
	assert.True(t, stderrors.IsFatal(err))
}

// ==========================
// Pipeline Tests
// ==========================

func TestSearch_FullPipelineWithoutOracles(t *testing.T) {
	svc := testService(t,
		okAdapter(models.SourcePriceSite,
			listing(models.SourcePriceSite, "Televizor LG OLED55C3", "https://a.ro/1", 2100),
			listing(models.SourcePriceSite, "Husa telecomanda LG", "https://a.ro/2", 30),
		),
		okAdapter(models.SourceResaleSite,
			listing(models.SourceResaleSite, "Televizor Samsung QE55", "https://b.ro/1", 4500),
		),
	)

	result, err := svc.Search(context.Background(), models.SearchRequest{
		Query:     "tv oled 55",
		BudgetLei: 2000,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.RequestID)
	assert.False(t, result.CacheHit)
	assert.Equal(t, models.CategoryTV, result.Intent.Category)

	// Accessory filtered out, two device listings survive. The fallback
	// value score favors the listing near the budget.
	require.Len(t, result.Top, 2)
	assert.Equal(t, "https://a.ro/1", result.Top[0].Link)
	assert.Equal(t, 50.0, result.Top[0].OverallScore)
	assert.Greater(t, result.Top[0].ValueScore, result.Top[1].ValueScore)
	assert.NotZero(t, result.Top[0].HardFit)

	require.Len(t, result.Sources, 2)
	assert.True(t, result.Sources[0].OK)
	assert.Empty(t, result.Recommendation)
	assert.Empty(t, result.Reviews)
}

func TestSearch_SecondCallHitsCache(t *testing.T) {
	adapter := okAdapter(models.SourcePriceSite,
		listing(models.SourcePriceSite, "Televizor LG OLED55C3", "https://a.ro/1", 2100),
	)
	svc := testService(t, adapter)

	first, err := svc.Search(context.Background(), models.SearchRequest{Query: "tv oled 55"})
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Equal(t, 1, adapter.calls)

	second, err := svc.Search(context.Background(), models.SearchRequest{Query: "tv oled 55"})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 1, adapter.calls, "cached request must not hit adapters")
	assert.Equal(t, first.Top, second.Top)
}

func TestSearch_DifferentIntentMissesCache(t *testing.T) {
	adapter := okAdapter(models.SourcePriceSite,
		listing(models.SourcePriceSite, "Televizor LG OLED55C3", "https://a.ro/1", 2100),
	)
	svc := testService(t, adapter)

	_, err := svc.Search(context.Background(), models.SearchRequest{Query: "tv oled 55"})
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), models.SearchRequest{Query: "tv oled 55", BudgetLei: 2000})
	require.NoError(t, err)

	assert.Equal(t, 2, adapter.calls)
}

func TestSearch_AllSourcesFailedStillSucceedsAndCaches(t *testing.T) {
	svc := testService(t,
		failedAdapter(models.SourcePriceSite, sources.ErrCodeTimeout),
		failedAdapter(models.SourceResaleSite, sources.ErrCodeHTTPStatus),
	)

	result, err := svc.Search(context.Background(), models.SearchRequest{Query: "tv oled 55"})

	require.NoError(t, err)
	assert.Empty(t, result.Top)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, sources.ErrCodeTimeout, result.Sources[0].Error)
	assert.False(t, result.Sources[0].OK)

	// The empty answer is cached like any other result.
	cached, err := svc.Search(context.Background(), models.SearchRequest{Query: "tv oled 55"})
	require.NoError(t, err)
	assert.True(t, cached.CacheHit)
	assert.Empty(t, cached.Top)
}

func TestSearch_AdapterOrderPreservedInStatuses(t *testing.T) {
	svc := testService(t,
		okAdapter(models.SourcePriceSite),
		okAdapter(models.SourceResaleSite),
		failedAdapter(models.SourceDiscovery, sources.ErrCodeDisabled),
		okAdapter(models.SourceUserTarget),
	)

	result, err := svc.Search(context.Background(), models.SearchRequest{Query: "tv oled 55"})
	require.NoError(t, err)

	require.Len(t, result.Sources, 4)
	assert.Equal(t, models.SourcePriceSite, result.Sources[0].Source)
	assert.Equal(t, models.SourceResaleSite, result.Sources[1].Source)
	assert.Equal(t, models.SourceDiscovery, result.Sources[2].Source)
	assert.Equal(t, models.SourceUserTarget, result.Sources[3].Source)
}
