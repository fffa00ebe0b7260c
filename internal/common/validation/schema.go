// Package validation checks eligibility service payloads against JSON Schema
// before they are decoded into typed models.
package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaName identifies one of the compiled response schemas.
type SchemaName string

const (
	SchemaSubjects     SchemaName = "subjects"
	SchemaInstitutions SchemaName = "institutions"
	SchemaPrograms     SchemaName = "programs"
	SchemaResults      SchemaName = "results"
	SchemaProfile      SchemaName = "profile"
)

const subjectDefinitionSchema = `{
	"type": "object",
	"required": ["name", "allowed_units"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"display_name": {"type": ["string", "null"]},
		"allowed_units": {"type": "array", "items": {"type": "integer"}}
	}
}`

var schemaSources = map[SchemaName]string{
	SchemaSubjects: `{
		"type": "object",
		"required": ["mandatory"],
		"properties": {
			"mandatory": {"type": "array", "items": ` + subjectDefinitionSchema + `},
			"electives": {"type": ["array", "null"], "items": ` + subjectDefinitionSchema + `}
		}
	}`,
	SchemaInstitutions: `{
		"type": "array",
		"items": {"type": "string", "minLength": 1}
	}`,
	SchemaPrograms: `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["id"],
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"name": {"type": ["string", "null"]},
				"institution": {"type": ["string", "null"]},
				"faculty": {"type": ["string", "null"]}
			}
		}
	}`,
	SchemaResults: `{
		"type": "array",
		"items": {"type": "object"}
	}`,
	SchemaProfile: `{
		"type": "object",
		"required": ["institutions"],
		"properties": {
			"institutions": {"type": "array", "items": {"type": "string"}},
			"psychometric": {"type": ["string", "integer"]},
			"subjects": {
				"type": "object",
				"additionalProperties": {
					"type": "object",
					"properties": {
						"units": {"type": ["string", "integer"]},
						"score": {"type": ["string", "number"]}
					}
				}
			},
			"electives": {"type": "array", "items": {"type": "string"}},
			"faculties": {
				"type": "object",
				"additionalProperties": {"type": "array", "items": {"type": "string"}}
			},
			"programs": {"type": "array", "items": {"type": "string"}}
		}
	}`,
}

var (
	compileOnce sync.Once
	compiled    map[SchemaName]*gojsonschema.Schema
	compileErr  error
)

func compileAll() {
	compiled = make(map[SchemaName]*gojsonschema.Schema, len(schemaSources))
	for name, src := range schemaSources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			compileErr = fmt.Errorf("compile %s schema: %w", name, err)
			return
		}
		compiled[name] = schema
	}
}

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Schema     SchemaName
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s payload: %s", e.Schema, strings.Join(e.Violations, "; "))
}

// Validate checks a raw JSON document against the named schema. Malformed
// JSON is reported as a single violation.
func Validate(name SchemaName, document []byte) error {
	compileOnce.Do(compileAll)
	if compileErr != nil {
		return compileErr
	}
	schema, ok := compiled[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationError{Schema: name, Violations: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &ValidationError{Schema: name, Violations: violations}
}

// ValidateDocument is Validate for already-decoded values (maps, slices).
func ValidateDocument(name SchemaName, document interface{}) error {
	compileOnce.Do(compileAll)
	if compileErr != nil {
		return compileErr
	}
	schema, ok := compiled[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return &ValidationError{Schema: name, Violations: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &ValidationError{Schema: name, Violations: violations}
}
