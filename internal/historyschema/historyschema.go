// Package historyschema validates a serialized Version's change list
// against a JSON Schema before it is trusted, so a future incompatible
// change shape fails loudly at load time instead of corrupting history.
package historyschema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// changeListSchema requires every element to carry the {type, change}
// envelope shape the change package's codec produces.
const changeListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["type", "change"],
    "properties": {
      "type": {"type": "string"},
      "change": {"type": "object"}
    }
  }
}`

// ValidateChangeList checks a decoded (JSON-compatible) change list
// envelope against the schema above.
func ValidateChangeList(decoded interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(changeListSchema)
	docLoader := gojsonschema.NewGoLoader(decoded)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("historyschema: %w", err)
	}
	if !result.Valid() {
		msgs := ""
		for i, e := range result.Errors() {
			if i > 0 {
				msgs += "; "
			}
			msgs += e.String()
		}
		return fmt.Errorf("version change list failed schema validation: %s", msgs)
	}
	return nil
}
