package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/focus"
	"github.com/LunkiBR/n8n-mcp-lite/internal/graph"
)

func (s *Server) handleScanWorkflow(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	raw, _, err := s.fetchRaw(ctx, argString(args, "workflow_id"))
	if err != nil {
		return engineErrorResult(err)
	}
	result, err := focus.BuildScan(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

// selectionFromArgs reads the three focus-selection shapes from the
// loosely-typed tool arguments: explicit names, {router, output_index},
// or {from, to}.
func selectionFromArgs(args map[string]interface{}) focus.Selection {
	return focus.Selection{
		Names:          argStringSlice(args, "names"),
		Router:         argString(args, "router"),
		OutputIndex:    argInt(args, "output_index", 0),
		MaxDepth:       argInt(args, "max_depth", 0),
		UpstreamLevels: argInt(args, "upstream_levels", 0),
		From:           argString(args, "from"),
		To:             argString(args, "to"),
	}
}

func (s *Server) handleFocusWorkflow(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	workflowID := argString(args, "workflow_id")
	raw, _, err := s.fetchRaw(ctx, workflowID)
	if err != nil {
		return engineErrorResult(err)
	}
	lite, err := codec.Compress(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	names := make([]string, len(lite.Nodes))
	for i, n := range lite.Nodes {
		names[i] = n.Name
	}
	g := graph.Build(lite.Connections)

	sel := selectionFromArgs(args)
	focused, err := focus.ResolveSelection(sel, names, g)
	if err != nil {
		return conflictResult(err.Error())
	}

	var run *focus.RunData
	if execID := argString(args, "execution_id"); execID != "" {
		body, err := s.engine.GetExecution(ctx, execID, true)
		if err != nil {
			return engineErrorResult(err)
		}
		run = &focus.RunData{}
		if err := json.Unmarshal(body, run); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("decoding execution %q: %v", execID, err)), nil
		}
	}

	view, err := focus.BuildFocus(raw, focused, run)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(view)
}
