// internal/oracle/fallback.go
package oracle

import (
	"regexp"
	"strconv"
	"strings"

	"shopscout/internal/models"
)

var (
	whitespaceExpr = regexp.MustCompile(`\s+`)
	budgetExpr     = regexp.MustCompile(`(?i)(?:under|sub|max(?:im)?)\s*(\d{3,6})\s*(?:lei|ron)?`)
	sizeRangeExpr  = regexp.MustCompile(`(\d{2,3})\s*[-–]\s*(\d{2,3})\s*(?:in(?:ch)?|")`)
	sizeExpr       = regexp.MustCompile(`(\d{2,3})\s*(?:in(?:ch)?|")`)
)

// categoryKeywords maps query substrings to categories, most specific first.
// Accessory terms win over device terms so "husa telefon" stays an accessory
// query.
var categoryKeywords = []struct {
	category models.Category
	words    []string
}{
	{models.CategoryAccessory, []string{"husa", "carcasa", "folie", "case", "cover", "charger", "incarcator", "cablu", "cable", "suport", "stand", "telecomanda", "remote"}},
	{models.CategoryTV, []string{"tv", "televizor", "television"}},
	{models.CategoryLaptop, []string{"laptop", "notebook", "ultrabook"}},
	{models.CategoryPhone, []string{"telefon", "phone", "smartphone", "iphone"}},
	{models.CategoryAudio, []string{"boxa", "speaker", "soundbar", "casti", "headphone", "earbuds"}},
}

// featureTokens are the must-have features the fallback can recognize in
// free text.
var featureTokens = []string{"oled", "qled"}

// FallbackIntent builds a deterministic intent from the raw request when the
// intent oracle is unavailable. Pure function of the request.
func FallbackIntent(req models.SearchRequest) models.Intent {
	query := normalizeQuery(req.Query)

	intent := models.Intent{
		Category:    inferCategory(query),
		BudgetLei:   req.BudgetLei,
		SizeMin:     req.SizeMin,
		SizeMax:     req.SizeMax,
		ConditionOk: conditionsFromParam(req.Condition),
		SearchQuery: query,
	}

	if intent.BudgetLei == 0 {
		if m := budgetExpr.FindStringSubmatch(query); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				intent.BudgetLei = v
			}
		}
	}

	if intent.SizeMin == 0 && intent.SizeMax == 0 {
		if m := sizeRangeExpr.FindStringSubmatch(query); m != nil {
			lo, _ := strconv.ParseFloat(m[1], 64)
			hi, _ := strconv.ParseFloat(m[2], 64)
			intent.SizeMin, intent.SizeMax = lo, hi
		} else if m := sizeExpr.FindStringSubmatch(query); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				intent.SizeMin = v
			}
		}
	}

	for _, tok := range featureTokens {
		if strings.Contains(query, tok) {
			intent.MustHave = append(intent.MustHave, tok)
		}
	}

	return intent
}

// MergeIntent overlays oracle output on the deterministic base. Oracle
// values take precedence; zero fields fall back to the raw request values.
func MergeIntent(fromOracle *models.Intent, base models.Intent) models.Intent {
	if fromOracle == nil {
		return base
	}

	merged := *fromOracle
	if merged.Category == "" {
		merged.Category = base.Category
	}
	if merged.BudgetLei == 0 {
		merged.BudgetLei = base.BudgetLei
	}
	if merged.SizeMin == 0 {
		merged.SizeMin = base.SizeMin
	}
	if merged.SizeMax == 0 {
		merged.SizeMax = base.SizeMax
	}
	if len(merged.ConditionOk) == 0 {
		merged.ConditionOk = base.ConditionOk
	}
	if merged.SearchQuery == "" {
		merged.SearchQuery = base.SearchQuery
	}
	return merged
}

func normalizeQuery(q string) string {
	return whitespaceExpr.ReplaceAllString(strings.ToLower(strings.TrimSpace(q)), " ")
}

func inferCategory(query string) models.Category {
	for _, group := range categoryKeywords {
		for _, w := range group.words {
			if strings.Contains(query, w) {
				return group.category
			}
		}
	}
	return models.CategoryOther
}

func conditionsFromParam(condition string) []models.Condition {
	switch strings.ToLower(strings.TrimSpace(condition)) {
	case "new":
		return []models.Condition{models.ConditionNew}
	case "used":
		return []models.Condition{models.ConditionUsed}
	case "resealed":
		return []models.Condition{models.ConditionResealed}
	default:
		return []models.Condition{models.ConditionNew, models.ConditionUsed, models.ConditionResealed}
	}
}
