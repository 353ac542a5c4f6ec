// internal/pipeline/rank/ranker.go
//
// Package rank applies candidate scores and produces the final ordered top
// list. Scores come from the scoring oracle when available and from the
// deterministic price-distance formula otherwise; the ordering rule is the
// same either way. The hard-fit value rides along for display and is never
// part of the sort key.
package rank

import (
	"context"
	"math"
	"sort"

	"shopscout/internal/common/logger"
	"shopscout/internal/common/metrics"
	"shopscout/internal/models"
	"shopscout/internal/oracle"
)

// DefaultTopN is how many candidates survive ranking.
const DefaultTopN = 10

const (
	fallbackOverall = 50.0
	fallbackValue   = 50.0
	valueUnit       = 50.0 // lei of price distance per value point
)

type Ranker struct {
	oracle oracle.ScoringOracle
	topN   int
	logger logger.Logger
}

func New(scoringOracle oracle.ScoringOracle, log logger.Logger) *Ranker {
	return &Ranker{
		oracle: scoringOracle,
		topN:   DefaultTopN,
		logger: log.WithFields(map[string]interface{}{"stage": "rank"}),
	}
}

// Apply scores, orders, and truncates the candidate list. Candidates the
// oracle did not cover get the fallback scores, so a partial oracle answer
// still yields a fully ordered list.
func (r *Ranker) Apply(ctx context.Context, candidates []models.Candidate, intent models.Intent) []models.Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	scores, err := r.oracle.ScoreCandidates(ctx, candidates, intent)
	if err != nil {
		metrics.OracleFallbacks.WithLabelValues("scoring").Inc()
		r.logger.Warn("scoring oracle unavailable, using deterministic scores", map[string]interface{}{
			"error": err.Error(),
		})
		scores = nil
	}

	for i := range candidates {
		if s, ok := scores[candidates[i].Link]; ok {
			candidates[i].OverallScore = s.OverallScore
			candidates[i].ValueScore = s.ValueScore
			continue
		}
		candidates[i].OverallScore = fallbackOverall
		candidates[i].ValueScore = fallbackValueScore(candidates[i], intent)
	}

	Order(candidates)

	if len(candidates) > r.topN {
		candidates = candidates[:r.topN]
	}

	r.logger.Info("ranking completed", map[string]interface{}{
		"top":        len(candidates),
		"oracleUsed": scores != nil,
	})

	return candidates
}

// Order sorts in place: overallScore descending, valueScore descending,
// price ascending with missing prices last. The sort is stable so equal
// candidates keep their merge order.
func Order(candidates []models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		if a.ValueScore != b.ValueScore {
			return a.ValueScore > b.ValueScore
		}
		return sortPrice(a) < sortPrice(b)
	})
}

// fallbackValueScore rewards proximity to the budget. Without a budget or a
// price there is nothing to measure, so the score is neutral.
func fallbackValueScore(c models.Candidate, intent models.Intent) float64 {
	if c.PriceRON <= 0 || intent.BudgetLei <= 0 {
		return fallbackValue
	}
	v := 100 - math.Abs(c.PriceRON-intent.BudgetLei)/valueUnit
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func sortPrice(c models.Candidate) float64 {
	if c.PriceRON <= 0 {
		return math.Inf(1)
	}
	return c.PriceRON
}
