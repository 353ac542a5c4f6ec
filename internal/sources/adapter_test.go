// internal/sources/adapter_test.go
package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopscout/internal/models"
)

// ==========================
// Post-Processing Tests
// ==========================

func item(link string, price float64) models.ListingFragment {
	return models.ListingFragment{
		Title:    "Televizor " + link,
		Link:     link,
		PriceRON: price,
	}
}

func TestDedupeByLink_KeepsCheaperOffer(t *testing.T) {
	deduped := dedupeByLink([]models.ListingFragment{
		item("https://a.ro/1", 2000),
		item("https://a.ro/2", 1500),
		item("https://a.ro/1", 1800),
	})

	require.Len(t, deduped, 2)
	assert.Equal(t, "https://a.ro/1", deduped[0].Link)
	assert.Equal(t, 1800.0, deduped[0].PriceRON)
	assert.Equal(t, "https://a.ro/2", deduped[1].Link)
}

func TestDedupeByLink_PricedBeatsUnpriced(t *testing.T) {
	deduped := dedupeByLink([]models.ListingFragment{
		item("https://a.ro/1", 0),
		item("https://a.ro/1", 2000),
	})

	require.Len(t, deduped, 1)
	assert.Equal(t, 2000.0, deduped[0].PriceRON)
}

func TestDedupeByLink_UnpricedNeverReplacesPriced(t *testing.T) {
	deduped := dedupeByLink([]models.ListingFragment{
		item("https://a.ro/1", 2000),
		item("https://a.ro/1", 0),
	})

	require.Len(t, deduped, 1)
	assert.Equal(t, 2000.0, deduped[0].PriceRON)
}

func TestDropUnusable(t *testing.T) {
	usableText := models.ListingFragment{Link: "https://a.ro/1", Title: "Televizor LG"}
	usablePrice := models.ListingFragment{Link: "https://a.ro/2", PriceRON: 1500}
	unusable := models.ListingFragment{Link: "https://a.ro/3"}

	kept := dropUnusable([]models.ListingFragment{usableText, unusable, usablePrice})

	require.Len(t, kept, 2)
	assert.Equal(t, "https://a.ro/1", kept[0].Link)
	assert.Equal(t, "https://a.ro/2", kept[1].Link)
}

func TestFinalize_CapsItemCount(t *testing.T) {
	items := make([]models.ListingFragment, 0, 30)
	for i := 0; i < 30; i++ {
		items = append(items, item(string(rune('a'+i)), float64(1000+i)))
	}

	assert.Len(t, finalize(items, 12), 12)
	assert.Len(t, finalize(items[:5], 12), 5)
}

// ==========================
// Error Classification Tests
// ==========================

func TestClassifyFetchError(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, ErrCodeTimeout, classifyFetchError(ctx, context.DeadlineExceeded))
	assert.Equal(t, ErrCodeTimeout, classifyFetchError(ctx, errors.New("Get \"x\": context deadline exceeded (Client.Timeout exceeded)")))
	assert.Equal(t, ErrCodeNetwork, classifyFetchError(ctx, errors.New("dial tcp: connection refused")))
}

func TestFetchResultOK(t *testing.T) {
	ok := FetchResult{Source: models.SourcePriceSite}
	failed := FetchResult{Source: models.SourcePriceSite, ErrorCode: ErrCodeTimeout}

	assert.True(t, ok.OK())
	assert.False(t, failed.OK())
}
