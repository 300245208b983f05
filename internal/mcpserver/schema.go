// Package mcpserver wires the MCP tool catalogue to the mediation
// engine: schema validation, dispatch, and per-tool handlers.
package mcpserver

import (
	"fmt"
	"sort"
	"strings"
)

// Schema is a small subset of JSON-Schema sufficient for validating
// tool arguments: type, required, properties, items, enum, minimum,
// maximum. Extra fields on the input are always permitted.
type Schema struct {
	Type       string
	Required   []string
	Properties map[string]Schema
	Items      *Schema
	Enum       []string
	Minimum    *float64
	Maximum    *float64
}

// ValidationError is one field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Validate checks args against schema and returns every violation
// found; a nil/empty return means args are acceptable. It never
// panics on malformed input — an unexpected shape is itself reported
// as a field error.
func Validate(schema Schema, args map[string]interface{}) []ValidationError {
	var errs []ValidationError
	validateObject("", schema, args, &errs)
	return errs
}

func validateObject(prefix string, schema Schema, obj map[string]interface{}, errs *[]ValidationError) {
	for _, name := range schema.Required {
		if _, ok := obj[name]; !ok {
			*errs = append(*errs, ValidationError{Field: joinField(prefix, name), Message: "is required"})
		}
	}
	for name, propSchema := range schema.Properties {
		v, ok := obj[name]
		if !ok {
			continue
		}
		validateValue(joinField(prefix, name), propSchema, v, errs)
	}
}

func validateValue(field string, schema Schema, v interface{}, errs *[]ValidationError) {
	if schema.Type != "" && !typeMatches(schema.Type, v) {
		*errs = append(*errs, ValidationError{Field: field, Message: fmt.Sprintf("must be of type %s", schema.Type)})
		return
	}
	if len(schema.Enum) > 0 {
		if s, ok := v.(string); ok && !stringInSlice(s, schema.Enum) {
			*errs = append(*errs, ValidationError{Field: field, Message: "must be one of: " + strings.Join(schema.Enum, ", ")})
		}
	}
	if n, ok := asFloat(v); ok {
		if schema.Minimum != nil && n < *schema.Minimum {
			*errs = append(*errs, ValidationError{Field: field, Message: fmt.Sprintf("must be >= %v", *schema.Minimum)})
		}
		if schema.Maximum != nil && n > *schema.Maximum {
			*errs = append(*errs, ValidationError{Field: field, Message: fmt.Sprintf("must be <= %v", *schema.Maximum)})
		}
	}
	if schema.Type == "object" && (len(schema.Properties) > 0 || len(schema.Required) > 0) {
		if m, ok := v.(map[string]interface{}); ok {
			validateObject(field, schema, m, errs)
		}
	}
	if schema.Type == "array" && schema.Items != nil {
		if list, ok := v.([]interface{}); ok {
			for i, item := range list {
				validateValue(fmt.Sprintf("%s[%d]", field, i), *schema.Items, item, errs)
			}
		}
	}
}

func typeMatches(want string, v interface{}) bool {
	switch want {
	case "string":
		_, ok := v.(string)
		return ok
	case "number":
		_, ok := asFloat(v)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "object":
		_, ok := v.(map[string]interface{})
		return ok
	case "array":
		_, ok := v.([]interface{})
		return ok
	default:
		return true
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringInSlice(s string, list []string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func joinField(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// FormatValidationError renders the per-tool "Validation failed"
// message per the error taxonomy: one line naming the tool, then one
// line per field violation, fields sorted for determinism.
func FormatValidationError(tool string, errs []ValidationError) string {
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	var b strings.Builder
	fmt.Fprintf(&b, "Validation failed for %q:", tool)
	for _, e := range errs {
		fmt.Fprintf(&b, "\n  %s %s", e.Field, e.Message)
	}
	return b.String()
}
