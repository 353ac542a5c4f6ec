// internal/pipeline/reviews/lookup.go
//
// Package reviews finds external opinions for the top-ranked candidates.
// The lookup is best effort: a disabled or failing searcher yields empty
// review sets, never a request failure.
package reviews

import (
	"context"

	"shopscout/internal/common/logger"
	"shopscout/internal/models"
	"shopscout/internal/websearch"
)

const (
	// DefaultCandidates is how many top candidates get a review lookup.
	DefaultCandidates = 3
	// maxIdentifierLen bounds the identifier portion of each query.
	maxIdentifierLen = 120
	// maxUniqueLinks caps the distinct review links collected per candidate.
	maxUniqueLinks = 12
	// resultsPerQuery is how many hits are requested per search call.
	resultsPerQuery = 3
)

// querySuffixes are the fixed lookup variants, English and Romanian.
var querySuffixes = []string{"review", "pareri", "test", "forum"}

type Lookup struct {
	searcher   websearch.Searcher
	candidates int
	logger     logger.Logger
}

func New(searcher websearch.Searcher, log logger.Logger) *Lookup {
	return &Lookup{
		searcher:   searcher,
		candidates: DefaultCandidates,
		logger:     log.WithFields(map[string]interface{}{"stage": "reviews"}),
	}
}

// Apply runs the review queries for the head of the ranked list. Each
// candidate collects its own set of review links, deduplicated and capped
// within that candidate; one abundant candidate cannot starve the others.
func (l *Lookup) Apply(ctx context.Context, top []models.Candidate) []models.CandidateReviews {
	if len(top) == 0 || !l.searcher.Enabled() {
		return nil
	}

	head := top
	if len(head) > l.candidates {
		head = head[:l.candidates]
	}

	out := make([]models.CandidateReviews, 0, len(head))
	totalLinks := 0

	for _, candidate := range head {
		identifier := truncate(candidate.BestIdentifier(), maxIdentifierLen)
		if identifier == "" {
			continue
		}

		seen := make(map[string]bool, maxUniqueLinks)
		set := models.CandidateReviews{Link: candidate.Link, Reviews: []models.Review{}}

		for _, suffix := range querySuffixes {
			if len(seen) >= maxUniqueLinks {
				break
			}

			results, err := l.searcher.Search(ctx, identifier+" "+suffix, resultsPerQuery)
			if err != nil {
				l.logger.Debug("review query failed", map[string]interface{}{
					"query": identifier + " " + suffix,
					"error": err.Error(),
				})
				continue
			}

			for _, r := range results {
				if seen[r.Link] || len(seen) >= maxUniqueLinks {
					continue
				}
				seen[r.Link] = true
				set.Reviews = append(set.Reviews, models.Review{
					Title:   r.Title,
					Link:    r.Link,
					Snippet: r.Snippet,
				})
			}
		}

		totalLinks += len(seen)
		if len(set.Reviews) > 0 {
			out = append(out, set)
		}
	}

	l.logger.Info("review lookup completed", map[string]interface{}{
		"candidates": len(head),
		"links":      totalLinks,
	})

	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
