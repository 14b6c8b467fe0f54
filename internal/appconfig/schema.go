package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema describes every key a configuration file may contain.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "definitions": {
    "table": { "type": "string", "enum": ["episodes", "intervals", "rewards"] },
    "fileSet": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "episodes": { "type": "string", "minLength": 1 },
        "intervals": { "type": "string", "minLength": 1 },
        "rewards": { "type": "string", "minLength": 1 }
      }
    }
  },
  "properties": {
    "inputDir": { "type": "string" },
    "outputDir": { "type": "string" },
    "files": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "primary": { "$ref": "#/definitions/fileSet" },
        "baseline": { "$ref": "#/definitions/fileSet" }
      }
    },
    "comparisons": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["table", "metric"],
        "properties": {
          "table": { "$ref": "#/definitions/table" },
          "metric": { "type": "string", "minLength": 1 }
        }
      }
    },
    "derived": {
      "type": "object",
      "additionalProperties": false,
      "required": ["name", "table", "numerator", "denominator"],
      "properties": {
        "name": { "type": "string", "minLength": 1 },
        "table": { "$ref": "#/definitions/table" },
        "numerator": { "type": "string", "minLength": 1 },
        "denominator": { "type": "string", "minLength": 1 }
      }
    },
    "charts": { "type": "boolean" },
    "dashboard": { "type": "boolean" },
    "analysisJSON": { "type": "string" },
    "logFile": { "type": "string" },
    "debug": { "type": "boolean" },
    "jsonMode": { "type": "boolean" }
  }
}`

// ValidateDocument checks a decoded configuration document against the
// configuration schema and joins every violation into one error.
func ValidateDocument(doc map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	docLoader := gojsonschema.NewGoLoader(doc)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
