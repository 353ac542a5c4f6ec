// internal/oracle/genai.go
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"shopscout/internal/common/config"
	stderrors "shopscout/internal/common/errors"
	commonhttp "shopscout/internal/common/http"
	"shopscout/internal/common/logger"
	"shopscout/internal/models"
)

// GenAIClient implements all four oracle interfaces against the GenAI
// service endpoints.
type GenAIClient struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	client     *commonhttp.Client
	logger     logger.Logger
}

func NewGenAIClient(cfg config.APIsConfig, log logger.Logger) *GenAIClient {
	return &GenAIClient{
		baseURL: cfg.GenAI.BaseURL,
		apiKey:  cfg.GenAI.APIKey,
		timeout: time.Duration(cfg.GenAI.Timeout) * time.Millisecond,
		// The overall deadline still bounds the attempts.
		maxRetries: stderrors.GetRetryCount(stderrors.ErrCodeIntentAPITimeout),
		client:     commonhttp.NewClient(0),
		logger:     log.With(map[string]interface{}{"component": "genai"}),
	}
}

// postJSON sends a request body to a GenAI endpoint with bounded retries and
// exponential backoff, returning the raw response body.
func (c *GenAIClient) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal genai payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, context.DeadlineExceeded
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.DoWithContext(ctx, req)
		if ctx.Err() != nil ||
			errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(err, context.Canceled) {
			return nil, context.DeadlineExceeded
		}
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return data, nil
	}

	return nil, lastErr
}

// ParseIntent implements IntentOracle. The oracle response is validated
// against the intent schema before it is trusted; anything invalid selects
// the deterministic fallback via ErrUnavailable.
func (c *GenAIClient) ParseIntent(ctx context.Context, query string) (*models.Intent, error) {
	data, err := c.postJSON(ctx, "/api/ai/parse-intent", map[string]interface{}{
		"query": query,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("intent oracle timeout", map[string]interface{}{"query": query})
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, stderrors.NewIntentAPITimeoutError())
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, stderrors.NewIntentParsingFailedError(err))
	}

	if err := ValidateIntentJSON(data); err != nil {
		c.logger.Warn("intent oracle returned invalid document", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, stderrors.NewOracleUnavailableError("intent", err.Error()))
	}

	var intent models.Intent
	if err := json.Unmarshal(data, &intent); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrUnavailable, err)
	}

	c.logger.Info("intent parsed", map[string]interface{}{
		"category":    intent.Category,
		"budgetLei":   intent.BudgetLei,
		"searchQuery": intent.SearchQuery,
	})

	return &intent, nil
}

// ExtractFacts implements FactOracle. Only the normalized fragment fields are
// sent; records come back keyed by exact link.
func (c *GenAIClient) ExtractFacts(ctx context.Context, candidates []models.Candidate, intent models.Intent) (map[string]Facts, error) {
	items := make([]models.ListingFragment, 0, len(candidates))
	for _, cand := range candidates {
		items = append(items, cand.ListingFragment)
	}

	data, err := c.postJSON(ctx, "/api/ai/extract-facts", map[string]interface{}{
		"candidates": items,
		"intent":     intent,
	})
	if err != nil {
		return map[string]Facts{}, fmt.Errorf("%w: %v", ErrUnavailable, stderrors.NewOracleUnavailableError("facts", err.Error()))
	}

	var resp struct {
		Facts []Facts `json:"facts"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return map[string]Facts{}, fmt.Errorf("%w: decode error: %v", ErrUnavailable, err)
	}

	out := make(map[string]Facts, len(resp.Facts))
	for _, f := range resp.Facts {
		if f.Link != "" {
			out[f.Link] = f
		}
	}
	return out, nil
}

// ScoreCandidates implements ScoringOracle.
func (c *GenAIClient) ScoreCandidates(ctx context.Context, candidates []models.Candidate, intent models.Intent) (map[string]Scores, error) {
	data, err := c.postJSON(ctx, "/api/ai/score-candidates", map[string]interface{}{
		"candidates": candidates,
		"intent":     intent,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, stderrors.NewOracleUnavailableError("scoring", err.Error()))
	}

	var resp struct {
		Scored []Scores `json:"scored"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrUnavailable, err)
	}

	out := make(map[string]Scores, len(resp.Scored))
	for _, s := range resp.Scored {
		if s.Link != "" {
			out[s.Link] = s
		}
	}
	return out, nil
}

// Recommend implements TextOracle.
func (c *GenAIClient) Recommend(ctx context.Context, result models.SearchResult) (string, error) {
	data, err := c.postJSON(ctx, "/api/ai/generate", map[string]interface{}{
		"intent": result.Intent,
		"top":    result.Top,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, stderrors.NewLLMTimeoutError())
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, stderrors.NewLLMSynthesisFailedError(err))
	}

	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrUnavailable, err)
	}
	return resp.Text, nil
}
