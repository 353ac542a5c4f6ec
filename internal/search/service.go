// internal/search/service.go
//
// Package search orchestrates the full request pipeline: intent, cache
// probe, source fan-out, merge and filter, enrichment, scoring, ranking,
// review lookup, recommendation, cache write. Every stage degrades rather
// than fails; the only fatal path is request validation.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopscout/internal/cache"
	stderrors "shopscout/internal/common/errors"
	"shopscout/internal/common/logger"
	"shopscout/internal/common/metrics"
	"shopscout/internal/common/observability"
	"shopscout/internal/models"
	"shopscout/internal/oracle"
	"shopscout/internal/pipeline/enrich"
	"shopscout/internal/pipeline/hardfit"
	"shopscout/internal/pipeline/mergefilter"
	"shopscout/internal/pipeline/rank"
	"shopscout/internal/pipeline/reviews"
	"shopscout/internal/sources"
	"shopscout/internal/websearch"
)

type Service struct {
	adapters []sources.Adapter
	oracles  oracle.Set
	filter   *mergefilter.Filter
	enricher *enrich.Enricher
	ranker   *rank.Ranker
	reviews  *reviews.Lookup
	cache    *cache.Cache
	obs      *observability.Observability
	logger   logger.Logger
}

// Deps groups the collaborators the service is assembled from. Adapter order
// is significant: merge preserves it and ranking ties break on it.
type Deps struct {
	Adapters      []sources.Adapter
	Oracles       oracle.Set
	Searcher      websearch.Searcher
	Cache         *cache.Cache
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewService(deps Deps) *Service {
	log := deps.Logger.WithFields(map[string]interface{}{"component": "search"})
	return &Service{
		adapters: deps.Adapters,
		oracles:  deps.Oracles,
		filter:   mergefilter.New(deps.Logger),
		enricher: enrich.New(deps.Oracles.Fact, deps.Logger),
		ranker:   rank.New(deps.Oracles.Scoring, deps.Logger),
		reviews:  reviews.New(deps.Searcher, deps.Logger),
		cache:    deps.Cache,
		obs:      deps.Observability,
		logger:   log,
	}
}

// Search runs one request through the pipeline. The returned error is
// non-nil only for invalid requests; every downstream failure degrades into
// the result payload instead.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return nil, stderrors.NewInvalidRequestError("query parameter 'q' is required")
	}

	requestID := uuid.New().String()
	log := s.logger.WithFields(map[string]interface{}{"requestId": requestID})

	intent := s.resolveIntent(ctx, req, log)

	key := cache.Key(intent)
	if entry, ok := s.cache.Get(ctx, key); ok {
		metrics.SearchesTotal.WithLabelValues("cache_hit").Inc()
		s.obs.RecordSearch(ctx, "cache_hit")
		log.Info("cache hit", map[string]interface{}{
			"key": key,
			"age": entry.Result.AgeSeconds,
		})
		result := entry.Result
		result.CacheHit = true
		return &result, nil
	}

	fetched := s.fetchAll(ctx, intent, req, log)

	candidates := s.timedCandidates(ctx, "mergeFilter", func() []models.Candidate {
		return s.filter.Apply(fetched, intent)
	})

	candidates = s.timedCandidates(ctx, "enrich", func() []models.Candidate {
		return s.enricher.Apply(ctx, candidates, intent)
	})

	s.timed(ctx, "hardFit", func() {
		for i := range candidates {
			candidates[i].HardFit = hardfit.Score(candidates[i], intent)
		}
	})

	top := s.timedCandidates(ctx, "rank", func() []models.Candidate {
		return s.ranker.Apply(ctx, candidates, intent)
	})

	var reviewSets []models.CandidateReviews
	s.timed(ctx, "reviews", func() {
		reviewSets = s.reviews.Apply(ctx, top)
	})

	result := models.SearchResult{
		RequestID: requestID,
		Intent:    intent,
		Top:       top,
		Reviews:   reviewSets,
		Sources:   sourceStatuses(fetched),
		TS:        time.Now().UnixMilli(),
		Debug: []string{
			fmt.Sprintf("cacheKey=%s", key),
			fmt.Sprintf("candidates=%d", len(candidates)),
		},
	}

	s.timed(ctx, "recommend", func() {
		if text, err := s.oracles.Text.Recommend(ctx, result); err == nil {
			result.Recommendation = text
		} else {
			metrics.OracleFallbacks.WithLabelValues("text").Inc()
		}
	})

	// An all-sources-failed result is cached like any other; the empty
	// answer is the answer for this intent until the TTL passes.
	s.cache.Put(ctx, key, result)

	metrics.SearchesTotal.WithLabelValues("computed").Inc()
	s.obs.RecordSearch(ctx, "computed")
	log.Info("search completed", map[string]interface{}{
		"top":      len(result.Top),
		"cacheKey": key,
	})

	return &result, nil
}

// resolveIntent builds the deterministic base intent and overlays the intent
// oracle's answer when it is available.
func (s *Service) resolveIntent(ctx context.Context, req models.SearchRequest, log logger.Logger) models.Intent {
	base := oracle.FallbackIntent(req)

	parsed, err := s.oracles.Intent.ParseIntent(ctx, req.Query)
	if err != nil {
		metrics.OracleFallbacks.WithLabelValues("intent").Inc()
		log.Debug("intent oracle unavailable, using deterministic intent", map[string]interface{}{
			"error": err.Error(),
		})
		return base
	}

	return oracle.MergeIntent(parsed, base)
}

// fetchAll fans out to every adapter concurrently and collects the results
// in the adapters' declared order regardless of completion order.
func (s *Service) fetchAll(ctx context.Context, intent models.Intent, req models.SearchRequest, log logger.Logger) []sources.FetchResult {
	started := time.Now()
	results := make([]sources.FetchResult, len(s.adapters))

	var wg sync.WaitGroup
	for i, adapter := range s.adapters {
		wg.Add(1)
		go func(i int, adapter sources.Adapter) {
			defer wg.Done()
			results[i] = adapter.Fetch(ctx, intent, req)
		}(i, adapter)
	}
	wg.Wait()

	for _, r := range results {
		source := string(r.Source)
		if r.OK() {
			metrics.AdapterFetches.WithLabelValues(source, "ok").Inc()
		} else {
			metrics.AdapterFetches.WithLabelValues(source, "error").Inc()
			metrics.AdapterFailures.WithLabelValues(source, r.ErrorCode).Inc()
		}
	}

	elapsed := time.Since(started)
	metrics.StageDuration.WithLabelValues("fetch").Observe(elapsed.Seconds())
	s.obs.RecordStageDuration(ctx, "fetch", elapsed)

	log.Info("source fan-out completed", map[string]interface{}{
		"adapters":   len(results),
		"durationMs": elapsed.Milliseconds(),
	})

	return results
}

func (s *Service) timed(ctx context.Context, stage string, fn func()) {
	started := time.Now()
	fn()
	elapsed := time.Since(started)
	metrics.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	s.obs.RecordStageDuration(ctx, stage, elapsed)
}

func (s *Service) timedCandidates(ctx context.Context, stage string, fn func() []models.Candidate) []models.Candidate {
	var out []models.Candidate
	s.timed(ctx, stage, func() { out = fn() })
	return out
}

func sourceStatuses(fetched []sources.FetchResult) []models.SourceStatus {
	statuses := make([]models.SourceStatus, 0, len(fetched))
	for _, r := range fetched {
		statuses = append(statuses, models.SourceStatus{
			Source:     r.Source,
			OK:         r.OK(),
			Count:      len(r.Items),
			Error:      r.ErrorCode,
			QueryURL:   r.QueryURL,
			DurationMs: r.Duration.Milliseconds(),
		})
	}
	return statuses
}
