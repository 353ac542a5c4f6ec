// internal/pipeline/hardfit/scorer.go
//
// Package hardfit computes the deterministic, oracle-independent fit score.
// Score is a pure function: no I/O, no clock, no randomness. Any term whose
// required input is missing on either side is skipped; absence of data is
// neutral, not negative.
package hardfit

import (
	"strings"

	"shopscout/internal/models"
)

const (
	budgetBonus      = 20.0
	overBudgetUnit   = 50.0 // lei per penalty point
	overBudgetCap    = 35.0
	sizeBonus        = 5.0
	sizePenalty      = 10.0
	featureBonus     = 10.0
	featurePenalty   = 15.0
	conditionBonus   = 5.0
	defectUnitScore  = 5.0
	defectPenaltyCap = 20.0
)

// Score computes the hard-fit value for one candidate. Term order is fixed:
// budget, size floor, size ceiling, feature requirement, condition
// preference, defects.
func Score(c models.Candidate, intent models.Intent) float64 {
	score := 0.0

	if c.PriceRON > 0 && intent.BudgetLei > 0 {
		if c.PriceRON <= intent.BudgetLei {
			score += budgetBonus
		} else {
			score -= clamp((c.PriceRON-intent.BudgetLei)/overBudgetUnit, 0, overBudgetCap)
		}
	}

	if c.SizeInch > 0 && intent.SizeMin > 0 {
		if c.SizeInch >= intent.SizeMin {
			score += sizeBonus
		} else {
			score -= sizePenalty
		}
	}

	if c.SizeInch > 0 && intent.SizeMax > 0 {
		if c.SizeInch <= intent.SizeMax {
			score += sizeBonus
		} else {
			score -= sizePenalty
		}
	}

	if wantsOLED(intent) {
		if strings.Contains(canonicalText(c), "oled") {
			score += featureBonus
		} else {
			score -= featurePenalty
		}
	}

	if c.Condition != "" && c.Condition != models.ConditionUnknown && intent.AllowsCondition(c.Condition) {
		score += conditionBonus
	}

	if n := len(c.Defects); n > 0 {
		score -= clamp(float64(n)*defectUnitScore, 0, defectPenaltyCap)
	}

	return score
}

func wantsOLED(intent models.Intent) bool {
	for _, want := range intent.MustHave {
		if strings.Contains(strings.ToLower(want), "oled") {
			return true
		}
	}
	return false
}

func canonicalText(c models.Candidate) string {
	if c.Canonical != "" {
		return strings.ToLower(c.Title + " " + c.Canonical)
	}
	return strings.ToLower(c.Title)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
