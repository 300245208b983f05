package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/snapshot"
)

func (s *Server) handleListSnapshots(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	workflowID := argString(args, "workflow_id")
	list, err := s.snapshots.List(workflowID, argInt(args, "limit", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing snapshots: %v", err)), nil
	}
	return jsonResult(list)
}

// handleRollbackWorkflow restores a workflow to a previously captured
// snapshot, first safety-snapshotting the current state (trigger:
// manual) so the rollback itself is recoverable.
func (s *Server) handleRollbackWorkflow(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	workflowID := argString(args, "workflow_id")
	snapshotID := argString(args, "snapshot_id")

	target, err := s.snapshots.Get(workflowID, snapshotID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading snapshot: %v", err)), nil
	}
	if target == nil {
		return missingEntityResult("snapshot", snapshotID)
	}

	original, _, err := s.fetchRaw(ctx, workflowID)
	if err != nil {
		return engineErrorResult(err)
	}

	summary := fmt.Sprintf("rollback workflow %q to snapshot %q", workflowID, snapshotID)
	return s.guardMutation(ctx, "rollback_workflow", args, strPtr(workflowID), summary, func(ctx context.Context) (*mcp.CallToolResult, error) {
		if _, err := s.snapshots.Save(workflowID, original.Name, snapshot.TriggerManual, summary, mustMarshal(original)); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("safety snapshot failed, aborting rollback: %v", err)), nil
		}

		var restoreTarget codec.RawWorkflow
		if err := json.Unmarshal(target.Content, &restoreTarget); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("decoding snapshot content: %v", err)), nil
		}
		restoreTarget.ID = workflowID

		body, err := json.Marshal(restoreTarget)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if _, err := s.engine.UpdateWorkflow(ctx, workflowID, body); err != nil {
			return engineErrorResult(err)
		}
		return jsonResult(map[string]interface{}{
			"restored":      true,
			"workflowId":    workflowID,
			"snapshotId":    snapshotID,
			"restoredNodes": len(restoreTarget.Nodes),
		})
	})
}
