// internal/models/request.go
package models

// SearchRequest carries the raw, validated query parameters of one request.
// The oracle-normalized Intent takes precedence over these when present.
type SearchRequest struct {
	Query     string   `json:"q"`
	BudgetLei float64  `json:"budget,omitempty"`
	SizeMin   float64  `json:"sizeMin,omitempty"`
	SizeMax   float64  `json:"sizeMax,omitempty"`
	Condition string   `json:"condition,omitempty"` // any|new|used|resealed
	Targets   []string `json:"targets,omitempty"`   // explicit opt-in URLs, capped
}
