// internal/sources/parse.go
package sources

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// Matches "3.499,99 lei", "3499 lei", "RON 3.499".
	priceExpr      = regexp.MustCompile(`(?i)(?:ron\s*)?(\d{1,3}(?:[.\s]\d{3})*(?:,\d{1,2})?|\d+(?:,\d{1,2})?)\s*(?:lei|ron)`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

// ParsePriceRON extracts the first RON price from free text. Returns 0 when
// no price is present. Handles the local thousand-dot / decimal-comma
// convention.
func ParsePriceRON(text string) float64 {
	m := priceExpr.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	raw := m[1]
	raw = strings.ReplaceAll(raw, ".", "")
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, ",", ".")

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

// CleanText collapses whitespace runs and trims.
func CleanText(s string) string {
	return whitespaceExpr.ReplaceAllString(strings.TrimSpace(s), " ")
}

// listingCard is one extracted offer before normalization into a fragment.
type listingCard struct {
	Title string
	Link  string
	Price float64
	Text  string
}

// extractListingCards walks anchor elements and pulls title/link/price
// triples out of their card context. The selectors are deliberately generic;
// per-site precision is not a goal here.
func extractListingCards(doc *goquery.Document, base *url.URL) []listingCard {
	seen := make(map[string]bool)
	var cards []listingCard

	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		link := resolveLink(base, href)
		if link == "" || seen[link] {
			return
		}

		title := CleanText(anchor.Text())
		if title == "" {
			title = CleanText(anchor.AttrOr("title", ""))
		}
		if len(title) < 8 {
			return
		}

		// Look for a price in the anchor itself, then in the enclosing card.
		context := anchor.Text()
		if parent := anchor.ParentsFiltered("li, article, div").First(); parent.Length() > 0 {
			context = parent.Text()
		}
		price := ParsePriceRON(context)

		seen[link] = true
		cards = append(cards, listingCard{
			Title: truncate(title, 200),
			Link:  link,
			Price: price,
			Text:  truncate(CleanText(context), 400),
		})
	})

	return cards
}

// extractPageText returns the page title and a bounded slice of body text,
// used by the user-target adapter where there is no card structure.
func extractPageText(doc *goquery.Document) (string, string) {
	title := CleanText(doc.Find("title").First().Text())
	if title == "" {
		title = CleanText(doc.Find("h1").First().Text())
	}

	doc.Find("script, style, noscript").Remove()
	body := CleanText(doc.Find("body").Text())

	return truncate(title, 200), truncate(body, 2000)
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
