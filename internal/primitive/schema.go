package primitive

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// sectionSchemaJSON is the ingestion schema for one section document.
// Validation happens once at the boundary; after this, primitives are
// closed typed variants with no fallback field lookups.
const sectionSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["book_id", "section_id"],
  "properties": {
    "book_id": {"type": "string", "minLength": 1},
    "section_id": {"type": "string", "minLength": 1},
    "terms": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["term", "definition"],
        "properties": {
          "term": {"type": "string", "minLength": 1},
          "definition": {"type": "string", "minLength": 1},
          "distractor_pool_id": {"type": "string"},
          "equation": {"type": "string"}
        }
      }
    },
    "processes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["steps"],
        "properties": {
          "title": {"type": "string"},
          "steps": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 1}
          }
        }
      }
    },
    "tables": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["columns", "rows"],
        "properties": {
          "title": {"type": "string"},
          "columns": {
            "type": "array",
            "minItems": 2,
            "items": {"type": "string"}
          },
          "rows": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "array", "items": {"type": "string"}}
          }
        }
      }
    },
    "figures": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["image_ref", "labels"],
        "properties": {
          "image_ref": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "labels": {
            "type": "object",
            "minProperties": 1,
            "additionalProperties": {"type": "string"}
          }
        }
      }
    }
  }
}`

var (
	sectionSchemaOnce sync.Once
	sectionSchema     *jsonschema.Schema
	sectionSchemaErr  error
)

func compiledSectionSchema() (*jsonschema.Schema, error) {
	sectionSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(sectionSchemaJSON), &def); err != nil {
			sectionSchemaErr = fmt.Errorf("parse section schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://section.json"
		if err := c.AddResource(url, def); err != nil {
			sectionSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		sectionSchema, sectionSchemaErr = c.Compile(url)
	})
	return sectionSchema, sectionSchemaErr
}

// ValidateSectionJSON checks raw section JSON against the ingestion
// schema. Returns a descriptive error on the first violation.
func ValidateSectionJSON(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiledSectionSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("section schema validation failed: %w", err)
	}
	return nil
}
