package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// PlotCatalogSchema describes a catalog document: a JSON array of plots.
// Uniqueness of ids is checked when the catalog is built.
const PlotCatalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "description", "location", "size", "price"],
    "properties": {
      "id":          {"type": "string", "minLength": 1},
      "title":       {"type": "string"},
      "description": {"type": "string"},
      "location":    {"type": "string"},
      "size":        {"type": "number", "exclusiveMinimum": 0},
      "price":       {"type": "number", "minimum": 0}
    }
  }
}`

var plotCatalogLoader = gojsonschema.NewStringLoader(PlotCatalogSchema)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateCatalogJSON validates a raw catalog document against PlotCatalogSchema.
func ValidateCatalogJSON(document []byte) (*ValidationResult, error) {
	return validate(plotCatalogLoader, gojsonschema.NewBytesLoader(document))
}

// ValidateDocument validates an already decoded value against a schema string.
func ValidateDocument(document interface{}, schema string) (*ValidationResult, error) {
	return validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewGoLoader(document))
}

func validate(schema, document gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(schema, document)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	return out, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
