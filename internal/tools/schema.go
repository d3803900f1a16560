package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is the JSON-Schema subset used to describe tool arguments.
// Schemas are open: properties not listed are accepted.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single argument.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// ObjectSchema builds an object schema from its properties and required names.
func ObjectSchema(props map[string]Property, required ...string) *Schema {
	return &Schema{Type: "object", Properties: props, Required: required}
}

// ApplyDefaults returns a copy of args with every declared default filled in
// for absent keys. args itself is never modified.
func (s *Schema) ApplyDefaults(args map[string]any) map[string]any {
	out := make(map[string]any, len(args)+len(s.Properties))
	for k, v := range args {
		out[k] = v
	}
	for name, prop := range s.Properties {
		if prop.Default == nil {
			continue
		}
		if _, ok := out[name]; !ok {
			out[name] = prop.Default
		}
	}
	return out
}

// FieldError is one problem found while validating arguments.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every argument problem for a single call.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Message
	}
	return "invalid arguments: " + strings.Join(parts, "; ")
}

// Fields returns the offending field names in order, without duplicates.
func (e *ValidationError) Fields() []string {
	seen := make(map[string]bool, len(e.Problems))
	var fields []string
	for _, p := range e.Problems {
		if seen[p.Field] {
			continue
		}
		seen[p.Field] = true
		fields = append(fields, p.Field)
	}
	return fields
}

// Validator checks arguments against a compiled schema.
type Validator struct {
	compiled *gojsonschema.Schema
}

// NewValidator compiles s. A schema that does not compile is a programming
// error in the tool table and is reported at startup.
func NewValidator(s *Schema) (*Validator, error) {
	if s == nil {
		return nil, fmt.Errorf("schema is nil")
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s))
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate returns nil when args satisfy the schema and a *ValidationError
// otherwise. Any other error means the document could not be checked at all.
func (v *Validator) Validate(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	result, err := v.compiled.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]FieldError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, FieldError{
			Field:   fieldOf(re),
			Message: re.Description(),
		})
	}
	sort.SliceStable(problems, func(i, j int) bool {
		if problems[i].Field != problems[j].Field {
			return problems[i].Field < problems[j].Field
		}
		return problems[i].Message < problems[j].Message
	})
	return &ValidationError{Problems: problems}
}

// Validate compiles s and checks args in one step.
func Validate(s *Schema, args map[string]any) error {
	v, err := NewValidator(s)
	if err != nil {
		return err
	}
	return v.Validate(args)
}

// fieldOf names the argument a result error is about. Missing required
// properties are reported against the root object, so the property name is
// taken from the error details instead.
func fieldOf(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok && p != "" {
			return p
		}
	}
	field := re.Field()
	if field == "(root)" {
		return "arguments"
	}
	return field
}
