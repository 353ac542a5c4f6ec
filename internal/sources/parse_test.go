// internal/sources/parse_test.go
package sources

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Price Parsing Tests
// ==========================

func TestParsePriceRON(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"plain integer", "Pret: 3499 lei", 3499},
		{"thousand dot", "3.499 lei", 3499},
		{"thousand dot with decimals", "3.499,99 lei", 3499.99},
		{"decimal comma only", "499,50 lei", 499.5},
		{"ron suffix", "2500 RON", 2500},
		{"ron prefix", "RON 1.200 lei oferta", 1200},
		{"embedded in text", "Vand TV LG, pretul este 1850 lei negociabil", 1850},
		{"no price", "Vand TV LG stare buna", 0},
		{"number without currency", "Model 55C3 din 2023", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ParsePriceRON(tt.text), 0.001)
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "TV LG 55 inch", CleanText("  TV   LG\n\t55  inch  "))
}

// ==========================
// Card Extraction Tests
// ==========================

const listingPage = `
<html><body>
<ul>
  <li>
    <a href="/produs/lg-oled55c3">Televizor LG OLED55C3</a>
    <span class="price">3.499 lei</span>
  </li>
  <li>
    <a href="/produs/samsung-qe55">Televizor Samsung QE55Q80</a>
    <span class="price">2.999 lei</span>
  </li>
  <li>
    <a href="/p/short">x</a>
  </li>
  <li>
    <a href="#top">Televizor duplicat anchor</a>
  </li>
</ul>
</body></html>`

func TestExtractListingCards(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingPage))
	require.NoError(t, err)

	base, _ := url.Parse("https://pricesite.example.ro/search")
	cards := extractListingCards(doc, base)

	require.Len(t, cards, 2)
	assert.Equal(t, "Televizor LG OLED55C3", cards[0].Title)
	assert.Equal(t, "https://pricesite.example.ro/produs/lg-oled55c3", cards[0].Link)
	assert.InDelta(t, 3499, cards[0].Price, 0.001)
	assert.InDelta(t, 2999, cards[1].Price, 0.001)
}

func TestExtractPageText(t *testing.T) {
	page := `<html><head><title>LG OLED55C3 - Anunt</title>
<script>var x = "noise";</script></head>
<body><h1>LG OLED55C3</h1><p>Vand televizor, 2.100 lei, stare impecabila.</p></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	title, text := extractPageText(doc)
	assert.Equal(t, "LG OLED55C3 - Anunt", title)
	assert.Contains(t, text, "2.100 lei")
	assert.NotContains(t, text, "noise")
}

func TestResolveLink(t *testing.T) {
	base, _ := url.Parse("https://site.ro/search")

	assert.Equal(t, "https://site.ro/produs/1", resolveLink(base, "/produs/1"))
	assert.Equal(t, "https://alt.ro/x", resolveLink(base, "https://alt.ro/x"))
	assert.Empty(t, resolveLink(base, "#section"))
	assert.Empty(t, resolveLink(base, "javascript:void(0)"))
	assert.Empty(t, resolveLink(base, "mailto:x@y.ro"))
}
