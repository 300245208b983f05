package codec

import "reflect"

var emptyWrapperKeys = map[string]bool{
	"options":          true,
	"additionalFields": true,
}

var sentinelStrings = map[string]bool{
	"none": true,
	"off":  true,
}

// CleanParameters recursively drops keys whose value is null, an empty
// string, empty array, or empty object; drops the conventional empty
// wrapper keys when their contents are empty; drops sentinel strings
// "none"/"off"; recursively cleans nested objects, omitting them if
// they become empty. Arrays are preserved as-is. A seen-set guards
// against reference cycles (maps built from JSON decoding cannot
// normally cycle, but defensive code here protects callers that build
// parameter trees programmatically before round-tripping).
func CleanParameters(params map[string]interface{}) map[string]interface{} {
	return cleanMap(params, map[uintptr]bool{})
}

func cleanMap(m map[string]interface{}, seen map[uintptr]bool) map[string]interface{} {
	if m == nil {
		return nil
	}
	ptr := reflect.ValueOf(m).Pointer()
	if seen[ptr] {
		return nil
	}
	seen[ptr] = true
	defer delete(seen, ptr)

	out := map[string]interface{}{}
	for k, v := range m {
		cv, keep := cleanValue(k, v, seen)
		if !keep {
			continue
		}
		out[k] = cv
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cleanValue(key string, v interface{}, seen map[uintptr]bool) (interface{}, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		if val == "" || sentinelStrings[val] {
			return nil, false
		}
		return val, true
	case map[string]interface{}:
		cleaned := cleanMap(val, seen)
		if cleaned == nil {
			return nil, false
		}
		if emptyWrapperKeys[key] && len(cleaned) == 0 {
			return nil, false
		}
		return cleaned, true
	case []interface{}:
		if len(val) == 0 {
			return nil, false
		}
		return val, true
	default:
		return val, true
	}
}

// RestoreParameters returns params unmodified: parameters round-trip
// as received, the engine's own shape is authoritative on write.
func RestoreParameters(params map[string]interface{}) map[string]interface{} {
	return params
}
