package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/snapshot"
)

// operation is one typed edit step in a surgical update. Kind selects
// which other fields are meaningful.
type operation struct {
	Kind string `json:"kind"`

	// add_node / update_node
	Node *codec.LiteNode `json:"node,omitempty"`

	// remove_node / set_disabled
	Name string `json:"name,omitempty"`

	// set_disabled
	Disabled bool `json:"disabled,omitempty"`

	// rename_node
	NewName string `json:"newName,omitempty"`

	// add_connection / remove_connection
	Connection *codec.LiteConnection `json:"connection,omitempty"`
}

// applyOperations mutates a LiteWorkflow in place, in order, failing
// fast with a named error on the first operation that cannot apply
// (unknown node, name already in use, unknown connection endpoint).
func applyOperations(lite *codec.LiteWorkflow, ops []operation) error {
	for i, op := range ops {
		if err := applyOne(lite, op); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i, op.Kind, err)
		}
	}
	return nil
}

func applyOne(lite *codec.LiteWorkflow, op operation) error {
	switch op.Kind {
	case "add_node":
		if op.Node == nil {
			return fmt.Errorf("missing node payload")
		}
		if findNodeIndex(lite.Nodes, op.Node.Name) >= 0 {
			return fmt.Errorf("node %q already exists", op.Node.Name)
		}
		lite.Nodes = append(lite.Nodes, *op.Node)

	case "remove_node":
		idx := findNodeIndex(lite.Nodes, op.Name)
		if idx < 0 {
			return fmt.Errorf("node %q not found", op.Name)
		}
		lite.Nodes = append(lite.Nodes[:idx], lite.Nodes[idx+1:]...)
		lite.Connections = removeConnectionsTouching(lite.Connections, op.Name)

	case "update_node":
		if op.Node == nil {
			return fmt.Errorf("missing node payload")
		}
		idx := findNodeIndex(lite.Nodes, op.Node.Name)
		if idx < 0 {
			return fmt.Errorf("node %q not found", op.Node.Name)
		}
		lite.Nodes[idx] = *op.Node

	case "set_disabled":
		idx := findNodeIndex(lite.Nodes, op.Name)
		if idx < 0 {
			return fmt.Errorf("node %q not found", op.Name)
		}
		lite.Nodes[idx].Disabled = op.Disabled

	case "rename_node":
		idx := findNodeIndex(lite.Nodes, op.Name)
		if idx < 0 {
			return fmt.Errorf("node %q not found", op.Name)
		}
		if findNodeIndex(lite.Nodes, op.NewName) >= 0 {
			return fmt.Errorf("node %q already exists", op.NewName)
		}
		lite.Nodes[idx].Name = op.NewName
		for i := range lite.Connections {
			if lite.Connections[i].Source == op.Name {
				lite.Connections[i].Source = op.NewName
			}
			if lite.Connections[i].Target == op.Name {
				lite.Connections[i].Target = op.NewName
			}
		}

	case "add_connection":
		if op.Connection == nil {
			return fmt.Errorf("missing connection payload")
		}
		if findNodeIndex(lite.Nodes, op.Connection.Source) < 0 {
			return fmt.Errorf("connection source %q not found", op.Connection.Source)
		}
		if findNodeIndex(lite.Nodes, op.Connection.Target) < 0 {
			return fmt.Errorf("connection target %q not found", op.Connection.Target)
		}
		lite.Connections = append(lite.Connections, *op.Connection)

	case "remove_connection":
		if op.Connection == nil {
			return fmt.Errorf("missing connection payload")
		}
		idx := findConnectionIndex(lite.Connections, *op.Connection)
		if idx < 0 {
			return fmt.Errorf("connection %s -> %s not found", op.Connection.Source, op.Connection.Target)
		}
		lite.Connections = append(lite.Connections[:idx], lite.Connections[idx+1:]...)

	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
	return nil
}

func findNodeIndex(nodes []codec.LiteNode, name string) int {
	for i, n := range nodes {
		if n.Name == name {
			return i
		}
	}
	return -1
}

func findConnectionIndex(conns []codec.LiteConnection, want codec.LiteConnection) int {
	for i, c := range conns {
		if c.Source == want.Source && c.Target == want.Target &&
			c.OutputIndex == want.OutputIndex && c.InputIndex == want.InputIndex &&
			normalizedKind(c.Type) == normalizedKind(want.Type) {
			return i
		}
	}
	return -1
}

func normalizedKind(kind string) string {
	if kind == "" {
		return "main"
	}
	return kind
}

func removeConnectionsTouching(conns []codec.LiteConnection, name string) []codec.LiteConnection {
	out := make([]codec.LiteConnection, 0, len(conns))
	for _, c := range conns {
		if c.Source == name || c.Target == name {
			continue
		}
		out = append(out, c)
	}
	return out
}

func decodeOperations(args map[string]interface{}) ([]operation, error) {
	raw, _ := args["operations"].([]interface{})
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var ops []operation
	if err := json.Unmarshal(b, &ops); err != nil {
		return nil, fmt.Errorf("decoding operations: %w", err)
	}
	return ops, nil
}

func (s *Server) handleUpdateWorkflowSurgical(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	workflowID := argString(args, "workflow_id")
	ops, err := decodeOperations(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	original, _, err := s.fetchRaw(ctx, workflowID)
	if err != nil {
		return engineErrorResult(err)
	}
	lite, err := codec.Compress(original)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := applyOperations(lite, ops); err != nil {
		return conflictResult(err.Error())
	}

	verdict := s.preflight.Run(lite.Nodes, lite.Connections)
	summary := fmt.Sprintf("apply %d surgical operation(s) to workflow %q", len(ops), workflowID)

	return s.guardMutation(ctx, "update_workflow_surgical", args, strPtr(workflowID), summary, func(ctx context.Context) (*mcp.CallToolResult, error) {
		meta, snapErr := s.snapshots.Save(workflowID, original.Name, snapshot.TriggerPreUpdateNodes, summary, mustMarshal(original))
		if snapErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("snapshot failed, aborting mutation: %v", snapErr)), nil
		}
		if !verdict.Pass {
			return blockedResult(verdict, meta.ID)
		}

		raw, err := codec.Reconstruct(lite, original)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body, err := json.Marshal(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		updated, err := s.engine.UpdateWorkflow(ctx, workflowID, body)
		if err != nil {
			return engineErrorResult(err)
		}
		return mcp.NewToolResultText(string(updated)), nil
	})
}
