// internal/models/listing.go
package models

import "strings"

// Source identifies which adapter produced a listing fragment.
type Source string

const (
	SourcePriceSite  Source = "priceSite"
	SourceResaleSite Source = "resaleSite"
	SourceDiscovery  Source = "discovery"
	SourceUserTarget Source = "userTarget"
)

// ListingFragment is one observed offer from one source, pre-enrichment.
type ListingFragment struct {
	Title    string  `json:"title,omitempty"`
	Link     string  `json:"link"`
	PriceRON float64 `json:"priceRON,omitempty"`
	Snippet  string  `json:"snippet,omitempty"`
	RawText  string  `json:"rawText,omitempty"`
	Source   Source  `json:"source"`
}

// HasText reports whether the fragment carries any descriptive text.
func (f ListingFragment) HasText() bool {
	return f.Title != "" || f.Snippet != "" || f.RawText != ""
}

// Text returns the concatenated textual fields, used by keyword filters.
func (f ListingFragment) Text() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{f.Title, f.RawText, f.Snippet} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Condition is the normalized physical condition of a listed item.
type Condition string

const (
	ConditionNew      Condition = "new"
	ConditionUsed     Condition = "used"
	ConditionResealed Condition = "resealed"
	ConditionUnknown  Condition = "unknown"
)

// conditionAliases maps raw marketplace / oracle condition strings to the
// normalized enum. Romanian variants included.
var conditionAliases = map[string]Condition{
	"new":         ConditionNew,
	"nou":         ConditionNew,
	"sigilat":     ConditionNew,
	"brand new":   ConditionNew,
	"used":        ConditionUsed,
	"utilizat":    ConditionUsed,
	"folosit":     ConditionUsed,
	"second":      ConditionUsed,
	"pre-owned":   ConditionUsed,
	"resealed":    ConditionResealed,
	"resigilat":   ConditionResealed,
	"open box":    ConditionResealed,
	"refurbished": ConditionResealed,
}

// ParseCondition normalizes a raw condition string; unrecognized input maps
// to ConditionUnknown.
func ParseCondition(raw string) Condition {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return ConditionUnknown
	}
	if c, ok := conditionAliases[normalized]; ok {
		return c
	}
	return ConditionUnknown
}

// PanelType is the display technology extracted during enrichment.
type PanelType string

const (
	PanelOLED    PanelType = "oled"
	PanelQLED    PanelType = "qled"
	PanelLCD     PanelType = "lcd"
	PanelUnknown PanelType = "unknown"
)

// Candidate is a ListingFragment merged with enrichment facts and scores.
// Link is the merge key across enrichment and scoring.
type Candidate struct {
	ListingFragment

	Condition  Condition `json:"condition,omitempty"`
	Negotiable *bool     `json:"negotiable,omitempty"`
	Defects    []string  `json:"defects,omitempty"`
	SizeInch   float64   `json:"sizeInch,omitempty"`
	PanelType  PanelType `json:"panelType,omitempty"`
	ModelCode  string    `json:"modelCode,omitempty"`
	ProductKey string    `json:"productKey,omitempty"`
	Canonical  string    `json:"canonical,omitempty"`

	OverallScore float64 `json:"overallScore"`
	ValueScore   float64 `json:"valueScore"`
	HardFit      float64 `json:"hardFit"`
}

// BestIdentifier returns the most specific identifying string available,
// preferring modelCode over productKey over canonical over title.
func (c Candidate) BestIdentifier() string {
	for _, s := range []string{c.ModelCode, c.ProductKey, c.Canonical, c.Title} {
		if s != "" {
			return s
		}
	}
	return ""
}
