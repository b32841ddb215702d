// Package validation compiles product attribute schemas and checks attribute
// maps against them.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// Issue is one failed constraint. Location is a JSON pointer into the
// attributes, e.g. "/seats".
type Issue struct {
	Location string
	Message  string
}

func (i Issue) String() string {
	loc := "#" + strings.TrimPrefix(strings.TrimSpace(i.Location), "#")
	if i.Message == "" {
		return loc
	}
	return loc + ": " + i.Message
}

// AttributeError lists every issue found in one attribute map.
type AttributeError struct {
	Issues []Issue
}

func (e *AttributeError) Error() string {
	if len(e.Issues) == 0 {
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

func (e *AttributeError) Unwrap() error { return ErrSchemaValidation }

// Issues returns the issues carried by err, or a single message-only issue
// for other errors.
func Issues(err error) []Issue {
	var attrErr *AttributeError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &attrErr):
		return attrErr.Issues
	default:
		return []Issue{{Message: err.Error()}}
	}
}

// Schema is a compiled attribute schema. A nil *Schema accepts everything.
type Schema struct {
	definition map[string]any
	compiled   *jsonschema.Schema
}

// Compile accepts either a JSON schema or the shorthand
//
//	fields:
//	  - name: wood
//	    type: string
//	    required: true
//	    enum: [oak, walnut]
//	  - seats
//	additional: true
//
// Shorthand schemas reject unknown attributes unless additional is true.
// An empty definition compiles to a nil Schema.
func Compile(definition map[string]any) (*Schema, error) {
	if len(definition) == 0 {
		return nil, nil
	}
	doc := definition
	if !looksLikeJSONSchema(definition) {
		var err error
		if doc, err = expandShorthand(definition); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
		}
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("attributes.json", bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile("attributes.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	// keep our own copy; the caller may reuse definition
	var stored map[string]any
	_ = json.Unmarshal(encoded, &stored)
	return &Schema{definition: stored, compiled: compiled}, nil
}

// LoadFile compiles the YAML or JSON schema stored at path.
func LoadFile(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var definition map[string]any
	if err := yaml.Unmarshal(raw, &definition); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, path, err)
	}
	schema, err := Compile(definition)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}

// Definition returns the JSON schema the Schema was compiled from.
func (s *Schema) Definition() map[string]any {
	if s == nil {
		return nil
	}
	var out map[string]any
	encoded, _ := json.Marshal(s.definition)
	_ = json.Unmarshal(encoded, &out)
	return out
}

// Validate checks attributes; a nil map is validated as an empty object.
func (s *Schema) Validate(attributes map[string]any) error {
	if s == nil {
		return nil
	}
	if attributes == nil {
		attributes = map[string]any{}
	}
	// the validator wants JSON types (float64 numbers, []any arrays)
	encoded, err := json.Marshal(attributes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	err = s.compiled.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return &AttributeError{Issues: leafIssues(verr, nil)}
}

func looksLikeJSONSchema(definition map[string]any) bool {
	for _, key := range []string{"$schema", "type", "properties", "allOf", "anyOf", "oneOf"} {
		if _, ok := definition[key]; ok {
			return true
		}
	}
	return false
}

var jsonTypes = []string{"string", "number", "integer", "boolean", "object", "array", "null"}

func expandShorthand(definition map[string]any) (map[string]any, error) {
	entries, ok := definition["fields"].([]any)
	if !ok {
		return nil, errors.New(`expected a JSON schema or a "fields" list`)
	}
	properties := map[string]any{}
	required := []any{}
	for i, entry := range entries {
		field, ok := entry.(map[string]any)
		if name, isName := entry.(string); isName {
			field, ok = map[string]any{"name": name}, true
		}
		if !ok {
			return nil, fmt.Errorf("fields[%d]: expected a name or a mapping", i)
		}
		name, _ := field["name"].(string)
		if name = strings.TrimSpace(name); name == "" {
			return nil, fmt.Errorf("fields[%d]: name is required", i)
		}
		property := map[string]any{}
		if typ, _ := field["type"].(string); typ != "" {
			typ = strings.ToLower(strings.TrimSpace(typ))
			if !slices.Contains(jsonTypes, typ) {
				return nil, fmt.Errorf("fields[%d]: unknown type %q", i, typ)
			}
			property["type"] = typ
		}
		if enum, ok := field["enum"].([]any); ok && len(enum) > 0 {
			property["enum"] = enum
		}
		properties[name] = property
		if req, _ := field["required"].(bool); req {
			required = append(required, name)
		}
	}
	additional, _ := definition["additional"].(bool)
	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": additional,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc, nil
}

func leafIssues(node *jsonschema.ValidationError, out []Issue) []Issue {
	if len(node.Causes) == 0 {
		return append(out, Issue{
			Location: node.InstanceLocation,
			Message:  strings.TrimSpace(node.Message),
		})
	}
	for _, cause := range node.Causes {
		out = leafIssues(cause, out)
	}
	return out
}
