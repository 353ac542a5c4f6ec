// internal/pipeline/mergefilter/handler_test.go
package mergefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopscout/internal/common/logger"
	"shopscout/internal/models"
	"shopscout/internal/sources"
)

// ==========================
// Test Helper Functions
// ==========================

func fragment(source models.Source, title, link string) models.ListingFragment {
	return models.ListingFragment{
		Title:    title,
		Link:     link,
		PriceRON: 1500,
		Source:   source,
	}
}

func tvIntent() models.Intent {
	return models.Intent{
		Category:    models.CategoryTV,
		ConditionOk: []models.Condition{models.ConditionNew},
		SearchQuery: "tv oled 55",
	}
}

func apply(t *testing.T, results []sources.FetchResult, intent models.Intent) []models.Candidate {
	f := New(logger.NewTestLogger(t))
	return f.Apply(results, intent)
}

// ==========================
// Filter Rule Tests
// ==========================

func TestApply_RejectsAccessoriesForDeviceQueries(t *testing.T) {
	results := []sources.FetchResult{{
		Source: models.SourcePriceSite,
		Items: []models.ListingFragment{
			fragment(models.SourcePriceSite, "LG OLED55C3 Televizor", "https://a.ro/1"),
			fragment(models.SourcePriceSite, "Husa telecomanda LG", "https://a.ro/2"),
			fragment(models.SourcePriceSite, "Suport perete TV 55", "https://a.ro/3"),
		},
	}}

	kept := apply(t, results, tvIntent())

	require.Len(t, kept, 1)
	assert.Equal(t, "https://a.ro/1", kept[0].Link)
}

func TestApply_KeepsAccessoriesForAccessoryQueries(t *testing.T) {
	intent := tvIntent()
	intent.Category = models.CategoryAccessory

	results := []sources.FetchResult{{
		Source: models.SourcePriceSite,
		Items: []models.ListingFragment{
			fragment(models.SourcePriceSite, "Husa telefon Samsung", "https://a.ro/1"),
		},
	}}

	kept := apply(t, results, intent)
	assert.Len(t, kept, 1)
}

func TestApply_RejectsBadConditionListings(t *testing.T) {
	broken := fragment(models.SourceResaleSite, "TV LG 55", "https://b.ro/1")
	broken.RawText = "vand tv cu ecran spart, pentru piese"

	fine := fragment(models.SourceResaleSite, "TV LG 55 impecabil", "https://b.ro/2")

	results := []sources.FetchResult{{
		Source: models.SourceResaleSite,
		Items:  []models.ListingFragment{broken, fine},
	}}

	kept := apply(t, results, tvIntent())

	require.Len(t, kept, 1)
	assert.Equal(t, "https://b.ro/2", kept[0].Link)
}

func TestApply_RejectsMustExcludeMatches(t *testing.T) {
	intent := tvIntent()
	intent.MustExclude = []string{"plasma"}

	results := []sources.FetchResult{{
		Source: models.SourcePriceSite,
		Items: []models.ListingFragment{
			fragment(models.SourcePriceSite, "TV Plasma Panasonic", "https://a.ro/1"),
			fragment(models.SourcePriceSite, "TV OLED LG", "https://a.ro/2"),
		},
	}}

	kept := apply(t, results, tvIntent())
	assert.Len(t, kept, 2)

	kept = apply(t, results, intent)
	require.Len(t, kept, 1)
	assert.Equal(t, "https://a.ro/2", kept[0].Link)
}

func TestApply_RejectsEmptyFragments(t *testing.T) {
	results := []sources.FetchResult{{
		Source: models.SourceDiscovery,
		Items:  []models.ListingFragment{{Source: models.SourceDiscovery}},
	}}

	assert.Empty(t, apply(t, results, tvIntent()))
}

// ==========================
// Merge Semantics Tests
// ==========================

func TestApply_PreservesAdapterOrder(t *testing.T) {
	results := []sources.FetchResult{
		{
			Source: models.SourcePriceSite,
			Items:  []models.ListingFragment{fragment(models.SourcePriceSite, "TV LG primul", "https://a.ro/1")},
		},
		{
			Source: models.SourceResaleSite,
			Items:  []models.ListingFragment{fragment(models.SourceResaleSite, "TV LG al doilea", "https://b.ro/1")},
		},
	}

	kept := apply(t, results, tvIntent())

	require.Len(t, kept, 2)
	assert.Equal(t, models.SourcePriceSite, kept[0].Source)
	assert.Equal(t, models.SourceResaleSite, kept[1].Source)
}

func TestApply_NoCrossSourceDedup(t *testing.T) {
	// The same physical item listed on two sources stays as two candidates.
	results := []sources.FetchResult{
		{
			Source: models.SourcePriceSite,
			Items:  []models.ListingFragment{fragment(models.SourcePriceSite, "LG OLED55C3", "https://a.ro/lg-c3")},
		},
		{
			Source: models.SourceResaleSite,
			Items:  []models.ListingFragment{fragment(models.SourceResaleSite, "LG OLED55C3", "https://b.ro/lg-c3")},
		},
	}

	assert.Len(t, apply(t, results, tvIntent()), 2)
}

func TestApply_InitializesUnknownEnrichmentFields(t *testing.T) {
	results := []sources.FetchResult{{
		Source: models.SourcePriceSite,
		Items:  []models.ListingFragment{fragment(models.SourcePriceSite, "TV LG 55", "https://a.ro/1")},
	}}

	kept := apply(t, results, tvIntent())

	require.Len(t, kept, 1)
	assert.Equal(t, models.ConditionUnknown, kept[0].Condition)
	assert.Equal(t, models.PanelUnknown, kept[0].PanelType)
}
