package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassesOnWellFormedArgs(t *testing.T) {
	schema := Schema{
		Type:     "object",
		Required: []string{"workflowId"},
		Properties: map[string]Schema{
			"workflowId": {Type: "string"},
			"limit":      {Type: "number", Minimum: floatPtr(1), Maximum: floatPtr(100)},
		},
	}
	errs := Validate(schema, map[string]interface{}{"workflowId": "wf1", "limit": float64(10)})
	assert.Empty(t, errs)
}

func TestValidateFlagsMissingRequiredField(t *testing.T) {
	schema := Schema{Type: "object", Required: []string{"workflowId"}}
	errs := Validate(schema, map[string]interface{}{})
	assert.Len(t, errs, 1)
	assert.Equal(t, "workflowId", errs[0].Field)
}

func TestValidateFlagsWrongType(t *testing.T) {
	schema := Schema{Properties: map[string]Schema{"count": {Type: "number"}}}
	errs := Validate(schema, map[string]interface{}{"count": "not-a-number"})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "number")
}

func TestValidateFlagsValueOutsideEnum(t *testing.T) {
	schema := Schema{Properties: map[string]Schema{"trigger": {Type: "string", Enum: []string{"manual", "pre-mutation"}}}}
	errs := Validate(schema, map[string]interface{}{"trigger": "bogus"})
	assert.Len(t, errs, 1)
}

func TestValidateFlagsOutOfRangeNumber(t *testing.T) {
	schema := Schema{Properties: map[string]Schema{"limit": {Type: "number", Minimum: floatPtr(1), Maximum: floatPtr(20)}}}
	errs := Validate(schema, map[string]interface{}{"limit": float64(21)})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "<= 20")
}

func TestValidateIgnoresExtraFields(t *testing.T) {
	schema := Schema{Properties: map[string]Schema{"a": {Type: "string"}}}
	errs := Validate(schema, map[string]interface{}{"a": "x", "unexpected": 42})
	assert.Empty(t, errs)
}

func TestValidateRecursesIntoNestedObject(t *testing.T) {
	schema := Schema{
		Properties: map[string]Schema{
			"node": {Type: "object", Required: []string{"name"}},
		},
	}
	errs := Validate(schema, map[string]interface{}{"node": map[string]interface{}{}})
	assert.Len(t, errs, 1)
	assert.Equal(t, "node.name", errs[0].Field)
}

func TestValidateRecursesIntoArrayItems(t *testing.T) {
	schema := Schema{
		Properties: map[string]Schema{
			"names": {Type: "array", Items: &Schema{Type: "string"}},
		},
	}
	errs := Validate(schema, map[string]interface{}{"names": []interface{}{"a", 5}})
	assert.Len(t, errs, 1)
	assert.Equal(t, "names[1]", errs[0].Field)
}

func TestValidateNeverPanicsOnMalformedShape(t *testing.T) {
	schema := Schema{
		Properties: map[string]Schema{
			"node": {Type: "object", Required: []string{"name"}},
		},
	}
	assert.NotPanics(t, func() {
		Validate(schema, map[string]interface{}{"node": "not an object"})
	})
}

func TestFormatValidationErrorSortsFieldsDeterministically(t *testing.T) {
	errs := []ValidationError{
		{Field: "zeta", Message: "is required"},
		{Field: "alpha", Message: "is required"},
	}
	msg := FormatValidationError("delete_workflow", errs)
	alphaIdx := indexOf(msg, "alpha")
	zetaIdx := indexOf(msg, "zeta")
	assert.True(t, alphaIdx < zetaIdx, "fields must be sorted before rendering")
	assert.Contains(t, msg, `"delete_workflow"`)
}

func floatPtr(f float64) *float64 { return &f }

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
