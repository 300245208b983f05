package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/engineapi"
	"github.com/LunkiBR/n8n-mcp-lite/internal/layout"
	"github.com/LunkiBR/n8n-mcp-lite/internal/snapshot"
)

func (s *Server) fetchRaw(ctx context.Context, workflowID string) (*codec.RawWorkflow, json.RawMessage, error) {
	body, err := s.engine.GetWorkflow(ctx, workflowID)
	if err != nil {
		return nil, nil, err
	}
	var raw codec.RawWorkflow
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, &codec.CodecError{Field: "workflow", Err: err}
	}
	return &raw, body, nil
}

func (s *Server) handleListWorkflows(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	page, err := s.engine.ListWorkflows(ctx, engineapi.WorkflowListOptions{
		Cursor:     argString(args, "cursor"),
		Limit:      argInt(args, "limit", 0),
		NameSearch: argString(args, "name"),
	})
	if err != nil {
		return engineErrorResult(err)
	}
	return jsonResult(page)
}

func (s *Server) handleGetWorkflow(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	raw, _, err := s.fetchRaw(ctx, argString(args, "workflow_id"))
	if err != nil {
		return engineErrorResult(err)
	}
	lite, err := codec.Compress(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(lite)
}

func (s *Server) handleGetWorkflowRaw(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	_, body, err := s.fetchRaw(ctx, argString(args, "workflow_id"))
	if err != nil {
		return engineErrorResult(err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

// decodeLiteInput builds a LiteWorkflow from the loosely-typed tool
// arguments by round-tripping through JSON, since the MCP transport
// hands handlers generic map/slice shapes rather than typed structs.
func decodeLiteInput(args map[string]interface{}, name string) (*codec.LiteWorkflow, error) {
	lite := &codec.LiteWorkflow{Name: argStringDefault(args, "name", name)}

	nodesRaw, _ := args["nodes"].([]interface{})
	b, err := json.Marshal(nodesRaw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &lite.Nodes); err != nil {
		return nil, fmt.Errorf("decoding nodes: %w", err)
	}

	connsRaw, _ := args["connections"].([]interface{})
	b, err = json.Marshal(connsRaw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &lite.Connections); err != nil {
		return nil, fmt.Errorf("decoding connections: %w", err)
	}
	return lite, nil
}

func (s *Server) handleCreateWorkflow(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	name := argString(args, "name")
	lite, err := decodeLiteInput(args, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lite.Name = name

	verdict := s.preflight.Run(lite.Nodes, lite.Connections)

	summary := fmt.Sprintf("create workflow %q (%d nodes)", name, len(lite.Nodes))
	return s.guardMutation(ctx, "create_workflow", args, nil, summary, func(ctx context.Context) (*mcp.CallToolResult, error) {
		if !verdict.Pass {
			return blockedResult(verdict, "")
		}

		raw, err := codec.Reconstruct(lite, nil)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		positions := layout.Assign(nodeNamesOf(lite.Nodes), lite.Connections)
		for i := range raw.Nodes {
			if p, ok := positions[raw.Nodes[i].Name]; ok {
				raw.Nodes[i].Position = [2]float64{p.X, p.Y}
			}
		}

		body, err := json.Marshal(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		created, err := s.engine.CreateWorkflow(ctx, body)
		if err != nil {
			return engineErrorResult(err)
		}
		return mcp.NewToolResultText(string(created)), nil
	})
}

func nodeNamesOf(nodes []codec.LiteNode) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}

func (s *Server) handleUpdateWorkflowFull(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	workflowID := argString(args, "workflow_id")
	original, _, err := s.fetchRaw(ctx, workflowID)
	if err != nil {
		return engineErrorResult(err)
	}

	lite, err := decodeLiteInput(args, original.Name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lite.ID = workflowID

	verdict := s.preflight.Run(lite.Nodes, lite.Connections)
	summary := fmt.Sprintf("replace workflow %q (%d nodes)", workflowID, len(lite.Nodes))

	return s.guardMutation(ctx, "update_workflow_full", args, strPtr(workflowID), summary, func(ctx context.Context) (*mcp.CallToolResult, error) {
		meta, snapErr := s.snapshots.Save(workflowID, original.Name, snapshot.TriggerPreUpdateWorkflow, summary, mustMarshal(original))
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

func (s *Server) handleDeleteWorkflow(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	workflowID := argString(args, "workflow_id")
	if !argBool(args, "confirm") {
		return mcp.NewToolResultError(`delete_workflow requires "confirm": true`), nil
	}

	original, _, err := s.fetchRaw(ctx, workflowID)
	if err != nil {
		return engineErrorResult(err)
	}

	summary := fmt.Sprintf("delete workflow %q", workflowID)
	return s.guardMutation(ctx, "delete_workflow", args, strPtr(workflowID), summary, func(ctx context.Context) (*mcp.CallToolResult, error) {
		if _, err := s.snapshots.Save(workflowID, original.Name, snapshot.TriggerPreDelete, summary, mustMarshal(original)); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("snapshot failed, aborting mutation: %v", err)), nil
		}
		if err := s.engine.DeleteWorkflow(ctx, workflowID); err != nil {
			return engineErrorResult(err)
		}
		return jsonResult(map[string]interface{}{"deleted": true, "workflowId": workflowID})
	})
}

func (s *Server) handleActivateWorkflow(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	workflowID := argString(args, "workflow_id")
	summary := fmt.Sprintf("activate workflow %q", workflowID)
	return s.guardMutation(ctx, "activate_workflow", args, strPtr(workflowID), summary, func(ctx context.Context) (*mcp.CallToolResult, error) {
		body, err := s.engine.ActivateWorkflow(ctx, workflowID)
		if err != nil {
			return engineErrorResult(err)
		}
		return mcp.NewToolResultText(string(body)), nil
	})
}

func (s *Server) handleDeactivateWorkflow(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	workflowID := argString(args, "workflow_id")
	summary := fmt.Sprintf("deactivate workflow %q", workflowID)
	return s.guardMutation(ctx, "deactivate_workflow", args, strPtr(workflowID), summary, func(ctx context.Context) (*mcp.CallToolResult, error) {
		body, err := s.engine.DeactivateWorkflow(ctx, workflowID)
		if err != nil {
			return engineErrorResult(err)
		}
		return mcp.NewToolResultText(string(body)), nil
	})
}

func mustMarshal(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
