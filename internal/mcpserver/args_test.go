package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgStringReturnsEmptyForMissingKey(t *testing.T) {
	assert.Equal(t, "", argString(map[string]interface{}{}, "name"))
}

func TestArgStringReturnsValue(t *testing.T) {
	assert.Equal(t, "wf1", argString(map[string]interface{}{"workflowId": "wf1"}, "workflowId"))
}

func TestArgStringDefaultFallsBackOnEmptyString(t *testing.T) {
	assert.Equal(t, "fallback", argStringDefault(map[string]interface{}{"trigger": ""}, "trigger", "fallback"))
}

func TestArgStringDefaultFallsBackOnMissingKey(t *testing.T) {
	assert.Equal(t, "fallback", argStringDefault(map[string]interface{}{}, "trigger", "fallback"))
}

func TestArgStringDefaultKeepsNonEmptyValue(t *testing.T) {
	assert.Equal(t, "manual", argStringDefault(map[string]interface{}{"trigger": "manual"}, "trigger", "fallback"))
}

func TestArgBoolDefaultsFalse(t *testing.T) {
	assert.False(t, argBool(map[string]interface{}{}, "force"))
}

func TestArgBoolReadsTrue(t *testing.T) {
	assert.True(t, argBool(map[string]interface{}{"force": true}, "force"))
}

func TestArgIntReadsJSONFloat64(t *testing.T) {
	assert.Equal(t, 20, argInt(map[string]interface{}{"limit": float64(20)}, "limit", 10))
}

func TestArgIntFallsBackOnMissingKey(t *testing.T) {
	assert.Equal(t, 10, argInt(map[string]interface{}{}, "limit", 10))
}

func TestArgIntFallsBackOnWrongType(t *testing.T) {
	assert.Equal(t, 10, argInt(map[string]interface{}{"limit": "twenty"}, "limit", 10))
}

func TestArgStringSliceFiltersNonStringEntries(t *testing.T) {
	out := argStringSlice(map[string]interface{}{"names": []interface{}{"A", 5, "B"}}, "names")
	assert.Equal(t, []string{"A", "B"}, out)
}

func TestArgStringSliceReturnsNilForMissingKey(t *testing.T) {
	assert.Nil(t, argStringSlice(map[string]interface{}{}, "names"))
}

func TestArgObjectReturnsNilForWrongType(t *testing.T) {
	assert.Nil(t, argObject(map[string]interface{}{"node": "not an object"}, "node"))
}

func TestArgObjectReturnsMap(t *testing.T) {
	obj := map[string]interface{}{"name": "Webhook"}
	assert.Equal(t, obj, argObject(map[string]interface{}{"node": obj}, "node"))
}
