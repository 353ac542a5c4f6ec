// internal/oracle/schema.go
package oracle

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// intentSchema constrains the intent oracle's structured output before the
// pipeline trusts it. A document that fails here is treated the same as an
// unavailable oracle.
const intentSchema = `{
	"type": "object",
	"required": ["category", "searchQuery"],
	"properties": {
		"category": {
			"type": "string",
			"enum": ["tv", "laptop", "phone", "audio", "accessory", "other"]
		},
		"budgetLei": {"type": "number", "minimum": 0},
		"sizeMin": {"type": "number", "minimum": 0},
		"sizeMax": {"type": "number", "minimum": 0},
		"conditionOk": {
			"type": "array",
			"items": {"type": "string", "enum": ["new", "used", "resealed"]}
		},
		"mustHave": {"type": "array", "items": {"type": "string"}},
		"mustExclude": {"type": "array", "items": {"type": "string"}},
		"searchQuery": {"type": "string", "minLength": 1}
	}
}`

var intentSchemaLoader = gojsonschema.NewStringLoader(intentSchema)

// ValidateIntentJSON checks an intent oracle response against the schema.
func ValidateIntentJSON(data []byte) error {
	result, err := gojsonschema.Validate(intentSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("intent document invalid: %s", strings.Join(msgs, "; "))
	}
	return nil
}
