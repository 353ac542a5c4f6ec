// internal/oracle/oracle.go
//
// Package oracle abstracts the optional generative collaborators the search
// pipeline can run with or without. Each collaborator is a named interface
// with a single method and a documented fallback; the choice between the
// real client and a no-op stub is made once at construction, not per call.
package oracle

import (
	"context"
	"errors"

	"shopscout/internal/common/config"
	"shopscout/internal/common/logger"
	"shopscout/internal/models"
)

// ErrUnavailable signals that an oracle could not produce a usable answer
// (missing credential, non-OK response, or unparsable JSON). Callers switch
// to the deterministic fallback and never fail the request.
var ErrUnavailable = errors.New("ORACLE_UNAVAILABLE")

// Facts is the advisory per-link record returned by the fact oracle. It is
// text classification only and never authoritative over price or link.
type Facts struct {
	Link       string   `json:"link"`
	Condition  string   `json:"condition,omitempty"`
	Negotiable *bool    `json:"negotiable,omitempty"`
	Defects    []string `json:"defects,omitempty"`
	SizeInch   float64  `json:"sizeInch,omitempty"`
	PanelType  string   `json:"panelType,omitempty"`
	ModelCode  string   `json:"modelCode,omitempty"`
	ProductKey string   `json:"productKey,omitempty"`
	Canonical  string   `json:"canonical,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Scores is the per-link scoring record returned by the scoring oracle.
type Scores struct {
	Link         string  `json:"link"`
	OverallScore float64 `json:"overallScore"`
	ValueScore   float64 `json:"valueScore"`
}

// IntentOracle turns a free-text query into a structured intent.
// Fallback: FallbackIntent built deterministically from raw request params.
type IntentOracle interface {
	ParseIntent(ctx context.Context, query string) (*models.Intent, error)
}

// FactOracle attaches condition/defect/size facts to candidates by link.
// Fallback: empty map, enrichment becomes a no-op.
type FactOracle interface {
	ExtractFacts(ctx context.Context, candidates []models.Candidate, intent models.Intent) (map[string]Facts, error)
}

// ScoringOracle judges candidates against the intent.
// Fallback: flat overallScore plus the price-distance valueScore formula.
type ScoringOracle interface {
	ScoreCandidates(ctx context.Context, candidates []models.Candidate, intent models.Intent) (map[string]Scores, error)
}

// TextOracle produces the free-text recommendation.
// Fallback: no recommendation field in the result.
type TextOracle interface {
	Recommend(ctx context.Context, result models.SearchResult) (string, error)
}

// Set bundles the four collaborators the pipeline consumes.
type Set struct {
	Intent  IntentOracle
	Fact    FactOracle
	Scoring ScoringOracle
	Text    TextOracle
}

// New selects real GenAI-backed oracles when credentials are configured and
// no-op stubs otherwise. This is the single strategy-selection point.
func New(cfg config.APIsConfig, log logger.Logger) Set {
	if cfg.GenAI.BaseURL == "" || cfg.GenAI.APIKey == "" {
		log.Info("genai credentials absent, oracles disabled", map[string]interface{}{
			"fallback": "deterministic",
		})
		return Set{
			Intent:  noopIntent{},
			Fact:    noopFact{},
			Scoring: noopScoring{},
			Text:    noopText{},
		}
	}

	client := NewGenAIClient(cfg, log)
	return Set{
		Intent:  client,
		Fact:    client,
		Scoring: client,
		Text:    client,
	}
}

type noopIntent struct{}

func (noopIntent) ParseIntent(context.Context, string) (*models.Intent, error) {
	return nil, ErrUnavailable
}

type noopFact struct{}

func (noopFact) ExtractFacts(context.Context, []models.Candidate, models.Intent) (map[string]Facts, error) {
	return map[string]Facts{}, nil
}

type noopScoring struct{}

func (noopScoring) ScoreCandidates(context.Context, []models.Candidate, models.Intent) (map[string]Scores, error) {
	return nil, ErrUnavailable
}

type noopText struct{}

func (noopText) Recommend(context.Context, models.SearchResult) (string, error) {
	return "", ErrUnavailable
}
