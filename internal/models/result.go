// internal/models/result.go
package models

// Review is one external reference found for a top candidate.
type Review struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// CandidateReviews groups reviews under the candidate link they belong to.
type CandidateReviews struct {
	Link    string   `json:"link"`
	Reviews []Review `json:"reviews"`
}

// SourceStatus reports the outcome of one adapter within a request.
// A failed adapter is surfaced here, never as a request failure.
type SourceStatus struct {
	Source     Source `json:"source"`
	OK         bool   `json:"ok"`
	Count      int    `json:"count"`
	Error      string `json:"error,omitempty"`
	QueryURL   string `json:"queryUrl,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// SearchResult is the externally visible payload of one search request.
type SearchResult struct {
	RequestID      string             `json:"requestId,omitempty"`
	Intent         Intent             `json:"intent"`
	Top            []Candidate        `json:"top"`
	Reviews        []CandidateReviews `json:"reviews,omitempty"`
	Recommendation string             `json:"recommendation,omitempty"`
	Sources        []SourceStatus     `json:"sources"`
	TS             int64              `json:"ts"` // epoch milliseconds
	CacheHit       bool               `json:"cacheHit"`
	AgeSeconds     int64              `json:"ageSeconds,omitempty"`
	Debug          []string           `json:"debug,omitempty"`
}

// CacheEntry wraps a stored result with its write timestamp. An entry is
// reusable only while now - StoredAtEpochMs is below the cache TTL; expired
// entries stay stored until overwritten.
type CacheEntry struct {
	Key             string       `json:"key"`
	StoredAtEpochMs int64        `json:"storedAtEpochMs"`
	Result          SearchResult `json:"result"`
}
