// internal/pipeline/mergefilter/keywords.go
package mergefilter

// accessoryKeywords reject accessory listings when the query targets a
// device. Matched case-insensitively against the title only. Romanian
// equivalents included.
var accessoryKeywords = []string{
	"case", "cover", "protector", "stand", "strap", "charger", "cable", "remote",
	"husa", "carcasa", "folie", "suport", "curea", "incarcator", "cablu", "telecomanda",
}

// badConditionKeywords hard-reject listings sold broken or for parts.
// Matched case-insensitively against the concatenated fragment text.
var badConditionKeywords = []string{
	"not working", "broken screen", "for parts", "defective",
	"defect", "nefunctional", "nu functioneaza", "pentru piese",
	"ecran spart", "display spart", "stricat",
}
