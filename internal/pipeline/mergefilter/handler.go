// internal/pipeline/mergefilter/handler.go
//
// Package mergefilter concatenates adapter outputs in their stable order and
// applies the intent-derived rejection rules. The steps are order-sensitive;
// adapter order is the tie-break basis before scoring.
package mergefilter

import (
	"strings"

	"shopscout/internal/common/logger"
	"shopscout/internal/models"
	"shopscout/internal/sources"
)

type Filter struct {
	logger logger.Logger
}

func New(log logger.Logger) *Filter {
	return &Filter{
		logger: log.WithFields(map[string]interface{}{"stage": "mergeFilter"}),
	}
}

// Apply merges the ordered fetch results into one candidate list. Fragments
// from the same adapter were already deduplicated by link on ingestion;
// cross-adapter dedup is deliberately not applied, since the same physical
// item may legitimately appear at different links across sources.
func (f *Filter) Apply(ordered []sources.FetchResult, intent models.Intent) []models.Candidate {
	merged := 0
	for _, r := range ordered {
		merged += len(r.Items)
	}

	candidates := make([]models.Candidate, 0, merged)
	dropped := map[string]int{}

	for _, result := range ordered {
		for _, fragment := range result.Items {
			if reason := rejectReason(fragment, intent); reason != "" {
				dropped[reason]++
				continue
			}
			candidates = append(candidates, models.Candidate{
				ListingFragment: fragment,
				Condition:       models.ConditionUnknown,
				PanelType:       models.PanelUnknown,
			})
		}
	}

	f.logger.Info("merge completed", map[string]interface{}{
		"merged":   merged,
		"kept":     len(candidates),
		"dropped":  dropped,
		"category": intent.Category,
	})

	return candidates
}

// rejectReason applies the filter steps in their fixed order and names the
// first rule that rejects the fragment, or "" to keep it.
func rejectReason(fragment models.ListingFragment, intent models.Intent) string {
	if fragment.Link == "" && !fragment.HasText() {
		return "empty"
	}

	if intent.IsDeviceCategory() && matchesAny(fragment.Title, accessoryKeywords) {
		return "accessory"
	}

	text := fragment.Text()
	if matchesAny(text, badConditionKeywords) {
		return "badCondition"
	}

	if len(intent.MustExclude) > 0 && matchesAny(text, intent.MustExclude) {
		return "excluded"
	}

	return ""
}

func matchesAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
