package preflight

import (
	"fmt"
	"strings"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/knowledge"
)

// checkStructure runs phase 4: every connection endpoint must name a
// known node, and nodes with no incoming and no outgoing connections
// in a multi-node workflow are flagged unless they are triggers.
func checkStructure(nodes []codec.LiteNode, conns []codec.LiteConnection, idx *knowledge.Index, errs, warns *[]Issue) {
	known := map[string]bool{}
	for _, n := range nodes {
		known[n.Name] = true
	}

	hasEdge := map[string]bool{}
	for _, c := range conns {
		if !known[c.Source] {
			*errs = append(*errs, Issue{
				Code:    "unknown_connection_endpoint",
				Path:    fmt.Sprintf("connections[source=%s]", c.Source),
				Message: fmt.Sprintf("connection source %q is not a node in this workflow", c.Source),
				Hint:    "remove the connection or add the missing node",
			})
		} else {
			hasEdge[c.Source] = true
		}
		if !known[c.Target] {
			*errs = append(*errs, Issue{
				Code:    "unknown_connection_endpoint",
				Path:    fmt.Sprintf("connections[target=%s]", c.Target),
				Message: fmt.Sprintf("connection target %q is not a node in this workflow", c.Target),
				Hint:    "remove the connection or add the missing node",
			})
		} else {
			hasEdge[c.Target] = true
		}
	}

	if len(nodes) <= 1 {
		return
	}
	for _, n := range nodes {
		if hasEdge[n.Name] {
			continue
		}
		if isTriggerType(n.Type, idx) {
			continue
		}
		*warns = append(*warns, Issue{
			Code:    "disconnected_node",
			Path:    fmt.Sprintf("nodes[name=%s]", n.Name),
			Message: fmt.Sprintf("node %q has no incoming or outgoing connections", n.Name),
			Hint:    "connect this node or remove it",
		})
	}
}

func isTriggerType(shortType string, idx *knowledge.Index) bool {
	schema := idx.GetNode(shortType)
	if schema != nil {
		return schema.IsTrigger
	}
	return strings.Contains(strings.ToLower(shortType), "trigger") || strings.Contains(strings.ToLower(shortType), "webhook")
}

// checkDuplicateNames runs phase 5: workflow-level duplicate name check.
func checkDuplicateNames(nodes []codec.LiteNode, errs *[]Issue) {
	seen := map[string]bool{}
	for _, n := range nodes {
		if seen[n.Name] {
			*errs = append(*errs, Issue{
				Code:    "duplicate_node_name",
				Path:    fmt.Sprintf("nodes[name=%s]", n.Name),
				Message: fmt.Sprintf("node name %q is used more than once", n.Name),
				Hint:    "rename one of the duplicate nodes",
			})
			continue
		}
		seen[n.Name] = true
	}
}
