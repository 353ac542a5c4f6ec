// internal/models/intent.go
package models

// Category is the inferred product category of a query.
type Category string

const (
	CategoryTV        Category = "tv"
	CategoryLaptop    Category = "laptop"
	CategoryPhone     Category = "phone"
	CategoryAudio     Category = "audio"
	CategoryAccessory Category = "accessory"
	CategoryOther     Category = "other"
)

// Intent is the normalized interpretation of the user query. It is derived
// once per request and immutable afterward; both the cache key and the
// scoring inputs are built from it.
type Intent struct {
	Category    Category    `json:"category"`
	BudgetLei   float64     `json:"budgetLei,omitempty"`
	SizeMin     float64     `json:"sizeMin,omitempty"`
	SizeMax     float64     `json:"sizeMax,omitempty"`
	ConditionOk []Condition `json:"conditionOk"`
	MustHave    []string    `json:"mustHave,omitempty"`
	MustExclude []string    `json:"mustExclude,omitempty"`
	SearchQuery string      `json:"searchQuery"`
}

// AllowsCondition reports whether the given condition is acceptable.
func (i Intent) AllowsCondition(c Condition) bool {
	for _, ok := range i.ConditionOk {
		if ok == c {
			return true
		}
	}
	return false
}

// IsDeviceCategory reports whether the query targets a device rather than
// an accessory. Accessory-keyword filtering only applies to device queries.
func (i Intent) IsDeviceCategory() bool {
	return i.Category != CategoryAccessory
}
