package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanParameters(t *testing.T) {
	in := map[string]interface{}{
		"url":              "https://example.com",
		"emptyString":      "",
		"nullValue":        nil,
		"emptyArray":       []interface{}{},
		"populatedArray":   []interface{}{"a"},
		"none":             "none", // not a key being tested, value sentinel handled separately below
		"sentinelOff":      "off",
		"options":          map[string]interface{}{},
		"additionalFields": map[string]interface{}{"x": "y"},
		"nested": map[string]interface{}{
			"keep":  "value",
			"empty": "",
		},
		"allEmptyNested": map[string]interface{}{
			"a": "",
			"b": nil,
		},
	}
	out := CleanParameters(in)

	assert.Equal(t, "https://example.com", out["url"])
	assert.NotContains(t, out, "emptyString")
	assert.NotContains(t, out, "nullValue")
	assert.NotContains(t, out, "emptyArray")
	assert.Equal(t, []interface{}{"a"}, out["populatedArray"])
	assert.NotContains(t, out, "sentinelOff")
	assert.NotContains(t, out, "options", "empty options wrapper must be dropped")
	assert.Equal(t, map[string]interface{}{"x": "y"}, out["additionalFields"])
	assert.Equal(t, map[string]interface{}{"keep": "value"}, out["nested"])
	assert.NotContains(t, out, "allEmptyNested", "nested object that cleans to empty is dropped entirely")
}

func TestCleanParametersNilInput(t *testing.T) {
	assert.Nil(t, CleanParameters(nil))
}

func TestCleanParametersCyclicMapDoesNotHang(t *testing.T) {
	inner := map[string]interface{}{"k": "v"}
	outer := map[string]interface{}{"inner": inner, "again": inner}
	out := CleanParameters(outer)
	assert.Equal(t, map[string]interface{}{"k": "v"}, out["inner"])
	assert.Equal(t, map[string]interface{}{"k": "v"}, out["again"])
}

func TestRestoreParametersPassesThroughUnmodified(t *testing.T) {
	in := map[string]interface{}{"a": 1, "b": map[string]interface{}{"c": true}}
	out := RestoreParameters(in)
	assert.Equal(t, in, out)
}
