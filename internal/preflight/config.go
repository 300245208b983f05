package preflight

import (
	"fmt"
	"strings"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/knowledge"
)

// checkNodeConfigs runs phase 1 (per-node config validation) over every
// node, appending to errs/warns in place.
func checkNodeConfigs(nodes []codec.LiteNode, idx *knowledge.Index, errs, warns *[]Issue) {
	for _, n := range nodes {
		schema := idx.GetNode(n.Type)
		if schema == nil {
			*warns = append(*warns, Issue{
				Code:    "unknown_node_type",
				Path:    fmt.Sprintf("nodes[name=%s].type", n.Name),
				Message: fmt.Sprintf("node type %q is not in the knowledge base", n.Type),
				Hint:    "use search_nodes to confirm the correct type string",
			})
			continue
		}

		checkRequiredProperties(n, schema, errs)
		checkEnumeratedOptions(n, schema, warns)
		checkResourceOperation(n, schema, errs)
		checkNodeSpecificRules(n, warns)
	}
}

func checkRequiredProperties(n codec.LiteNode, schema *knowledge.NodeSchema, errs *[]Issue) {
	for _, prop := range schema.Properties {
		if !prop.Required {
			continue
		}
		if !showConditionSatisfied(prop.Show, n.Parameters) {
			continue
		}
		v, present := n.Parameters[prop.Name]
		if !present || isEmptyValue(v) {
			*errs = append(*errs, Issue{
				Code:    "missing_required_property",
				Path:    fmt.Sprintf("nodes[name=%s].parameters.%s", n.Name, prop.Name),
				Message: fmt.Sprintf("%q requires property %q", schema.DisplayName, prop.DisplayName),
				Hint:    fmt.Sprintf("set parameters.%s on node %q", prop.Name, n.Name),
			})
		}
	}
}

// showConditionSatisfied evaluates the `show` predicate: a map of
// other-property to permitted values. A condition is satisfied when
// every other-property is currently one of its permitted values.
func showConditionSatisfied(show map[string][]string, params map[string]interface{}) bool {
	for otherProp, permitted := range show {
		val, ok := params[otherProp]
		if !ok {
			return false
		}
		s, ok := val.(string)
		if !ok {
			return false
		}
		matched := false
		for _, p := range permitted {
			if p == s {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func checkEnumeratedOptions(n codec.LiteNode, schema *knowledge.NodeSchema, warns *[]Issue) {
	for _, prop := range schema.Properties {
		if len(prop.Options) == 0 {
			continue
		}
		v, present := n.Parameters[prop.Name]
		if !present {
			continue
		}
		s, ok := v.(string)
		if !ok || isExpressionValue(s) {
			continue
		}
		if !stringInSlice(s, prop.Options) {
			*warns = append(*warns, Issue{
				Code:    "type_mismatch",
				Path:    fmt.Sprintf("nodes[name=%s].parameters.%s", n.Name, prop.Name),
				Message: fmt.Sprintf("value %q is not one of the declared options for %q", s, prop.DisplayName),
				Hint:    fmt.Sprintf("use one of: %s", strings.Join(prop.Options, ", ")),
			})
		}
	}
}

func checkResourceOperation(n codec.LiteNode, schema *knowledge.NodeSchema, errs *[]Issue) {
	if len(schema.Resources) == 0 {
		return
	}
	resourceVal, hasResource := n.Parameters["resource"]
	operationVal, hasOperation := n.Parameters["operation"]
	resourceStr, resourceIsStr := resourceVal.(string)
	if hasResource && resourceIsStr && isExpressionValue(resourceStr) {
		return
	}
	if !hasResource || !resourceIsStr {
		return
	}

	var matched *knowledge.ResourceOperations
	for i := range schema.Resources {
		if schema.Resources[i].Resource == resourceStr {
			matched = &schema.Resources[i]
			break
		}
	}
	if matched == nil {
		*errs = append(*errs, Issue{
			Code:    "invalid_resource",
			Path:    fmt.Sprintf("nodes[name=%s].parameters.resource", n.Name),
			Message: fmt.Sprintf("%q is not a declared resource for %q", resourceStr, schema.DisplayName),
			Hint:    "use get_node to list valid resources",
		})
		return
	}

	if !hasOperation {
		return
	}
	operationStr, opIsStr := operationVal.(string)
	if !opIsStr || isExpressionValue(operationStr) {
		return
	}
	if !stringInSlice(operationStr, matched.Operations) {
		*errs = append(*errs, Issue{
			Code:    "invalid_operation",
			Path:    fmt.Sprintf("nodes[name=%s].parameters.operation", n.Name),
			Message: fmt.Sprintf("%q is not a declared operation for resource %q", operationStr, resourceStr),
			Hint:    "use get_node to list valid operations for this resource",
		})
	}
}

func checkNodeSpecificRules(n codec.LiteNode, warns *[]Issue) {
	switch {
	case strings.Contains(n.Type, "httpRequest"):
		checkHTTPRequest(n, warns)
	case strings.Contains(n.Type, "postgres") || strings.Contains(n.Type, "mysql") || strings.Contains(n.Type, "sql"):
		checkSQLNode(n, warns)
	case strings.Contains(n.Type, "code"):
		checkCodeNode(n, warns)
	}
}

func checkHTTPRequest(n codec.LiteNode, warns *[]Issue) {
	if urlVal, ok := n.Parameters["url"].(string); ok {
		if !strings.Contains(urlVal, "://") && !isExpressionValue(urlVal) {
			*warns = append(*warns, Issue{
				Code:    "best_practice",
				Path:    fmt.Sprintf("nodes[name=%s].parameters.url", n.Name),
				Message: "URL has no protocol (http:// or https://)",
				Hint:    "prefix the URL with a scheme",
			})
		}
	}
	method, _ := n.Parameters["method"].(string)
	method = strings.ToUpper(method)
	if method == "POST" || method == "PUT" || method == "PATCH" {
		if _, hasBody := n.Parameters["sendBody"]; !hasBody {
			*warns = append(*warns, Issue{
				Code:    "best_practice",
				Path:    fmt.Sprintf("nodes[name=%s].parameters", n.Name),
				Message: fmt.Sprintf("%s request has no body configuration", method),
				Hint:    "set parameters.sendBody if a request body is intended",
			})
		}
	}
}

func checkSQLNode(n codec.LiteNode, warns *[]Issue) {
	query, _ := n.Parameters["query"].(string)
	if query == "" {
		return
	}
	upper := strings.ToUpper(query)
	if strings.Contains(query, "{{") {
		*warns = append(*warns, Issue{
			Code:    "security",
			Path:    fmt.Sprintf("nodes[name=%s].parameters.query", n.Name),
			Message: "query contains a template expression; prefer parameterized queries",
			Hint:    "use the node's query-parameters field instead of string interpolation",
		})
	}
	if strings.Contains(upper, "DELETE") && !strings.Contains(upper, "WHERE") {
		*warns = append(*warns, Issue{
			Code:    "security",
			Path:    fmt.Sprintf("nodes[name=%s].parameters.query", n.Name),
			Message: "DELETE statement has no WHERE clause",
			Hint:    "add a WHERE clause or confirm a full-table delete is intended",
		})
	}
	if strings.Contains(upper, "DROP ") {
		*warns = append(*warns, Issue{
			Code:    "security",
			Path:    fmt.Sprintf("nodes[name=%s].parameters.query", n.Name),
			Message: "query contains a DROP statement",
			Hint:    "confirm this destructive statement is intended",
		})
	}
}

func checkCodeNode(n codec.LiteNode, warns *[]Issue) {
	code, _ := n.Parameters["jsCode"].(string)
	if strings.Contains(code, "eval(") || strings.Contains(code, "exec(") {
		*warns = append(*warns, Issue{
			Code:    "security",
			Path:    fmt.Sprintf("nodes[name=%s].parameters.jsCode", n.Name),
			Message: "code contains eval( or exec(",
			Hint:    "avoid dynamic code execution in workflow code nodes",
		})
	}
}

func isExpressionValue(s string) bool {
	return strings.HasPrefix(s, "=")
}

func stringInSlice(s string, opts []string) bool {
	for _, o := range opts {
		if o == s {
			return true
		}
	}
	return false
}

func isEmptyValue(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	default:
		return false
	}
}
