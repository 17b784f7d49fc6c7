package extract

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// responseSchema is the JSON Schema the model response must satisfy before
// normalization runs. Field values are free text; normalization handles
// quality, the schema only guards shape.
const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "date": {"type": "string"},
    "company": {"type": "string"},
    "role": {"type": "string"},
    "status": {"type": "string"},
    "nextSteps": {"type": "string"},
    "next_steps": {"type": "string"}
  },
  "required": ["company", "role", "status"],
  "additionalProperties": true
}`

var schemaLoader = gojsonschema.NewStringLoader(responseSchema)

// validateResponse checks the raw model output against the response schema.
func validateResponse(raw string) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return &ParseError{Message: "response is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return &ParseError{Message: "response does not match extraction schema: " + strings.Join(msgs, "; ")}
	}
	return nil
}
