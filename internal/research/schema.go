package research

import (
	"github.com/xeipuuv/gojsonschema"
)

// companyProfileSchema constrains what the model may return for a company
// profile. Extra fields are rejected so prompt drift surfaces as a
// validation error instead of silently shipping junk downstream.
const companyProfileSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"description": {"type": "string"},
		"industry": {"type": "string"},
		"products": {"type": "array", "items": {"type": "string"}},
		"values": {"type": "array", "items": {"type": "string"}},
		"tech_stack": {"type": "array", "items": {"type": "string"}},
		"trends": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["description", "industry"],
	"additionalProperties": false
}`

// validateProfileJSON checks a model response against the company profile
// schema before it is unmarshaled.
func validateProfileJSON(jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(companyProfileSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ParseError{Message: "profile is not valid JSON", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	msg := "profile failed schema validation"
	if len(result.Errors()) > 0 {
		desc := result.Errors()[0]
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		msg = "profile field " + field + ": " + desc.Description()
	}
	return &ParseError{Message: msg}
}
