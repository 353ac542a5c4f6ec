// internal/pipeline/enrich/handler.go
//
// Package enrich merges fact-oracle records back into candidates by exact
// link match. When the oracle is unavailable the stage is a no-op. Oracle
// output is advisory text classification: it never overwrites price or link.
package enrich

import (
	"context"

	"shopscout/internal/common/logger"
	"shopscout/internal/models"
	"shopscout/internal/oracle"
)

// DefaultLimit bounds how many candidates are sent to the oracle.
const DefaultLimit = 12

type Enricher struct {
	oracle oracle.FactOracle
	limit  int
	logger logger.Logger
}

func New(factOracle oracle.FactOracle, log logger.Logger) *Enricher {
	return &Enricher{
		oracle: factOracle,
		limit:  DefaultLimit,
		logger: log.WithFields(map[string]interface{}{"stage": "enrich"}),
	}
}

// Apply enriches the head of the candidate list in place and returns it.
// Candidates beyond the limit, and candidates the oracle did not match,
// keep their default unknown fields.
func (e *Enricher) Apply(ctx context.Context, candidates []models.Candidate, intent models.Intent) []models.Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	head := candidates
	if len(head) > e.limit {
		head = head[:e.limit]
	}

	facts, err := e.oracle.ExtractFacts(ctx, head, intent)
	if err != nil {
		e.logger.Warn("fact oracle unavailable, skipping enrichment", map[string]interface{}{
			"error": err.Error(),
		})
		return candidates
	}
	if len(facts) == 0 {
		return candidates
	}

	matched := 0
	for i := range head {
		f, ok := facts[head[i].Link]
		if !ok {
			continue
		}
		applyFacts(&candidates[i], f)
		matched++
	}

	e.logger.Info("enrichment merged", map[string]interface{}{
		"sent":    len(head),
		"matched": matched,
	})

	return candidates
}

func applyFacts(c *models.Candidate, f oracle.Facts) {
	if f.Condition != "" {
		c.Condition = models.ParseCondition(f.Condition)
	}
	if f.Negotiable != nil {
		c.Negotiable = f.Negotiable
	}
	if len(f.Defects) > 0 {
		c.Defects = f.Defects
	}
	if f.SizeInch > 0 {
		c.SizeInch = f.SizeInch
	}
	if f.PanelType != "" {
		c.PanelType = parsePanelType(f.PanelType)
	}
	if f.ModelCode != "" {
		c.ModelCode = f.ModelCode
	}
	if f.ProductKey != "" {
		c.ProductKey = f.ProductKey
	}
	if f.Canonical != "" {
		c.Canonical = f.Canonical
	}
}

func parsePanelType(raw string) models.PanelType {
	switch models.PanelType(raw) {
	case models.PanelOLED, models.PanelQLED, models.PanelLCD:
		return models.PanelType(raw)
	default:
		return models.PanelUnknown
	}
}
