package preflight

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
)

const maxExpressionDepth = 50

// checkExpressions recursively validates every string value on every
// node's parameters.
func checkExpressions(nodes []codec.LiteNode, errs, warns *[]Issue) {
	for _, n := range nodes {
		walkStrings(n.Parameters, fmt.Sprintf("nodes[name=%s].parameters", n.Name), 0, map[uintptr]bool{}, func(path, s string) {
			validateExpressionString(path, s, errs, warns)
		})
	}
}

// walkStrings visits every string value reachable from v, calling fn
// with its JSON path. Depth is capped at maxExpressionDepth with a
// seen-set to guard against reference cycles.
func walkStrings(v interface{}, path string, depth int, seen map[uintptr]bool, fn func(path, s string)) {
	if depth > maxExpressionDepth {
		return
	}
	switch val := v.(type) {
	case string:
		fn(path, val)
	case map[string]interface{}:
		ptr := reflect.ValueOf(val).Pointer()
		if seen[ptr] {
			return
		}
		seen[ptr] = true
		for k, sub := range val {
			walkStrings(sub, path+"."+k, depth+1, seen, fn)
		}
	case []interface{}:
		for i, sub := range val {
			walkStrings(sub, fmt.Sprintf("%s[%d]", path, i), depth+1, seen, fn)
		}
	}
}

func validateExpressionString(path, s string, errs, warns *[]Issue) {
	hasOpen := strings.Contains(s, "{{")
	hasClose := strings.Contains(s, "}}")

	if hasOpen && hasClose && !strings.HasPrefix(s, "=") {
		*errs = append(*errs, Issue{
			Code:    "invalid_expression",
			Path:    path,
			Message: "expression braces found without a leading '=' — the engine will treat this as literal text",
			Hint:    "prefix the value with '=' to make it an expression",
		})
		return
	}

	openCount := strings.Count(s, "{{")
	closeCount := strings.Count(s, "}}")
	if openCount != closeCount {
		*errs = append(*errs, Issue{
			Code:    "invalid_expression",
			Path:    path,
			Message: "unmatched expression braces",
			Hint:    "every '{{' must have a matching '}}'",
		})
		return
	}

	if strings.Contains(s, "{{}}") || strings.Contains(s, "{{ }}") {
		*errs = append(*errs, Issue{
			Code:    "invalid_expression",
			Path:    path,
			Message: "empty expression block",
			Hint:    "remove the empty {{ }} block or fill in an expression",
		})
	}

	if strings.Contains(s, "${") && !strings.HasPrefix(s, "=") {
		*warns = append(*warns, Issue{
			Code:    "template_literal_hint",
			Path:    path,
			Message: "shell-style ${...} found outside an expression block",
			Hint:    "use {{ }} expression syntax instead of template-literal syntax",
		})
	}

	checkBracedSegments(path, s, errs, warns)
}

// checkBracedSegments inspects the content between {{ and }} for the
// optional-chaining hint and nested-brace error.
func checkBracedSegments(path, s string, errs, warns *[]Issue) {
	rest := s
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			return
		}
		rest = rest[start+2:]
		end := strings.Index(rest, "}}")
		if end < 0 {
			return
		}
		segment := rest[:end]
		if strings.Contains(segment, "{{") {
			*errs = append(*errs, Issue{
				Code:    "invalid_expression",
				Path:    path,
				Message: "nested expression braces inside an expression block",
				Hint:    "flatten the expression; nested {{ }} is not supported",
			})
		}
		if strings.Contains(segment, "?.") {
			*warns = append(*warns, Issue{
				Code:    "optional_chaining_hint",
				Path:    path,
				Message: "optional-chaining operator ?. used in expression",
				Hint:    "confirm the engine's expression evaluator version supports ?.",
			})
		}
		rest = rest[end+2:]
	}
}
