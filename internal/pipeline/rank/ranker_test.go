// internal/pipeline/rank/ranker_test.go
package rank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopscout/internal/common/logger"
	"shopscout/internal/models"
	"shopscout/internal/oracle"
)

// ==========================
// Test Helper Functions
// ==========================

type stubScoring struct {
	scores map[string]oracle.Scores
	err    error
}

func (s stubScoring) ScoreCandidates(context.Context, []models.Candidate, models.Intent) (map[string]oracle.Scores, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

func scored(link string, overall, value, price float64) models.Candidate {
	return models.Candidate{
		ListingFragment: models.ListingFragment{
			Link:     link,
			Title:    link,
			PriceRON: price,
		},
		OverallScore: overall,
		ValueScore:   value,
	}
}

// ==========================
// Ordering Tests
// ==========================

func TestOrder_TieBreaks(t *testing.T) {
	candidates := []models.Candidate{
		scored("a", 70, 50, 1800),
		scored("b", 90, 50, 2200),
		scored("c", 90, 80, 2500),
		scored("d", 90, 50, 1500),
		scored("e", 90, 50, 0), // missing price sorts last among equals
	}

	Order(candidates)

	links := make([]string, 0, len(candidates))
	for _, c := range candidates {
		links = append(links, c.Link)
	}
	assert.Equal(t, []string{"c", "d", "b", "e", "a"}, links)
}

func TestOrder_StableForEqualCandidates(t *testing.T) {
	candidates := []models.Candidate{
		scored("first", 50, 50, 1000),
		scored("second", 50, 50, 1000),
		scored("third", 50, 50, 1000),
	}

	Order(candidates)

	assert.Equal(t, "first", candidates[0].Link)
	assert.Equal(t, "second", candidates[1].Link)
	assert.Equal(t, "third", candidates[2].Link)
}

func TestOrder_IgnoresHardFit(t *testing.T) {
	low := scored("low-fit", 80, 50, 1000)
	low.HardFit = -30
	high := scored("high-fit", 60, 50, 1000)
	high.HardFit = 45

	candidates := []models.Candidate{high, low}
	Order(candidates)

	assert.Equal(t, "low-fit", candidates[0].Link)
}

// ==========================
// Ranker Tests
// ==========================

func TestRanker_OracleScoresApplied(t *testing.T) {
	ranker := New(stubScoring{scores: map[string]oracle.Scores{
		"a": {Link: "a", OverallScore: 40, ValueScore: 60},
		"b": {Link: "b", OverallScore: 85, ValueScore: 70},
	}}, logger.NewTestLogger(t))

	top := ranker.Apply(context.Background(), []models.Candidate{
		scored("a", 0, 0, 1800),
		scored("b", 0, 0, 2100),
	}, models.Intent{BudgetLei: 2000})

	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Link)
	assert.Equal(t, 85.0, top[0].OverallScore)
	assert.Equal(t, 70.0, top[0].ValueScore)
}

func TestRanker_FallbackScoresWhenOracleUnavailable(t *testing.T) {
	ranker := New(stubScoring{err: oracle.ErrUnavailable}, logger.NewTestLogger(t))

	top := ranker.Apply(context.Background(), []models.Candidate{
		scored("far", 0, 0, 4000),  // |4000-2000|/50 = 40 -> value 60
		scored("near", 0, 0, 2100), // |2100-2000|/50 = 2 -> value 98
	}, models.Intent{BudgetLei: 2000})

	require.Len(t, top, 2)
	assert.Equal(t, "near", top[0].Link)
	assert.Equal(t, 50.0, top[0].OverallScore)
	assert.InDelta(t, 98.0, top[0].ValueScore, 0.001)
	assert.InDelta(t, 60.0, top[1].ValueScore, 0.001)
}

func TestRanker_FallbackValueNeutralWithoutBudgetOrPrice(t *testing.T) {
	ranker := New(stubScoring{err: oracle.ErrUnavailable}, logger.NewTestLogger(t))

	top := ranker.Apply(context.Background(), []models.Candidate{
		scored("no-price", 0, 0, 0),
	}, models.Intent{})

	require.Len(t, top, 1)
	assert.Equal(t, 50.0, top[0].ValueScore)
}

func TestRanker_PartialOracleCoverage(t *testing.T) {
	ranker := New(stubScoring{scores: map[string]oracle.Scores{
		"covered": {Link: "covered", OverallScore: 90, ValueScore: 90},
	}}, logger.NewTestLogger(t))

	top := ranker.Apply(context.Background(), []models.Candidate{
		scored("uncovered", 0, 0, 2000),
		scored("covered", 0, 0, 2500),
	}, models.Intent{BudgetLei: 2000})

	require.Len(t, top, 2)
	assert.Equal(t, "covered", top[0].Link)
	assert.Equal(t, 50.0, top[1].OverallScore)
}

func TestRanker_TruncatesToTopN(t *testing.T) {
	ranker := New(stubScoring{err: oracle.ErrUnavailable}, logger.NewTestLogger(t))

	candidates := make([]models.Candidate, 0, 25)
	for i := 0; i < 25; i++ {
		candidates = append(candidates, scored(string(rune('a'+i)), 0, 0, float64(1000+i*100)))
	}

	top := ranker.Apply(context.Background(), candidates, models.Intent{BudgetLei: 2000})
	assert.Len(t, top, DefaultTopN)
}

func TestRanker_EmptyInput(t *testing.T) {
	ranker := New(stubScoring{err: oracle.ErrUnavailable}, logger.NewTestLogger(t))
	assert.Empty(t, ranker.Apply(context.Background(), nil, models.Intent{}))
}
