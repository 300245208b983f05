package mcpserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/LunkiBR/n8n-mcp-lite/internal/approval"
	"github.com/LunkiBR/n8n-mcp-lite/internal/codec"
	"github.com/LunkiBR/n8n-mcp-lite/internal/engineapi"
)

func (s *Server) handleListExecutions(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	body, err := s.engine.ListExecutions(ctx, engineapi.ExecutionListOptions{
		WorkflowID: argString(args, "workflow_id"),
		Status:     argString(args, "status"),
		Cursor:     argString(args, "cursor"),
		Limit:      argInt(args, "limit", 0),
	})
	if err != nil {
		return engineErrorResult(err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleGetExecution(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	body, err := s.engine.GetExecution(ctx, argString(args, "execution_id"), argBool(args, "include_data"))
	if err != nil {
		return engineErrorResult(err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

// handleTriggerWebhook posts to the production or test webhook path.
// Only the production path is a guarded mutation — per spec §6.5, the
// test path exercises nothing durable and runs unconditionally.
func (s *Server) handleTriggerWebhook(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	path := argString(args, "path")
	test := argBool(args, "test")
	payload := mustMarshal(argObject(args, "payload"))

	do := func(ctx context.Context) (*mcp.CallToolResult, error) {
		body, err := s.engine.TriggerWebhook(ctx, path, test, payload)
		if err != nil {
			return engineErrorResult(err)
		}
		return mcp.NewToolResultText(string(body)), nil
	}

	if test {
		result, err := do(ctx)
		s.audit.Append(approval.AuditEntry{
			Timestamp: time.Now(),
			Tool:      "trigger_webhook",
			Summary:   fmt.Sprintf("trigger test webhook %q", path),
			Approved:  true,
		})
		return result, err
	}

	summary := fmt.Sprintf("trigger production webhook %q", path)
	return s.guardMutation(ctx, "trigger_webhook", args, nil, summary, do)
}

// handleTestNode is the dry-run tool: a thin composition of
// create/activate/trigger/delete around a single node under test.
// Scratch workflows built here are never snapshotted — they are
// deleted within the same call and never touch the durable store
// (spec §5.11).
func (s *Server) handleTestNode(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	nodeType := argString(args, "node_type")
	params, _ := args["parameters"].(map[string]interface{})

	webhookPath := "test-node-" + randomHex(8)
	triggerName := "Manual Trigger"
	targetName := "Node Under Test"

	lite := &codec.LiteWorkflow{
		Name: "scratch: test_node " + nodeType,
		Nodes: []codec.LiteNode{
			{
				Name: triggerName,
				Type: "webhook",
				Parameters: map[string]interface{}{
					"path":       webhookPath,
					"httpMethod": "POST",
				},
			},
			{
				Name:       targetName,
				Type:       nodeType,
				Parameters: params,
			},
		},
		Connections: []codec.LiteConnection{
			{Source: triggerName, Target: targetName},
		},
	}

	raw, err := codec.Reconstruct(lite, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := s.engine.CreateWorkflow(ctx, body)
	if err != nil {
		return engineErrorResult(err)
	}
	var createdRaw codec.RawWorkflow
	if err := json.Unmarshal(created, &createdRaw); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decoding created scratch workflow: %v", err)), nil
	}

	cleanup := func() {
		_ = s.engine.DeleteWorkflow(ctx, createdRaw.ID)
	}

	if _, err := s.engine.ActivateWorkflow(ctx, createdRaw.ID); err != nil {
		cleanup()
		return engineErrorResult(err)
	}

	input, _ := args["input"].(map[string]interface{})
	triggerResult, err := s.engine.TriggerWebhook(ctx, webhookPath, true, mustMarshal(input))
	if err != nil {
		cleanup()
		return engineErrorResult(err)
	}

	execList, err := s.engine.ListExecutions(ctx, engineapi.ExecutionListOptions{WorkflowID: createdRaw.ID, Limit: 1})
	cleanup()
	if err != nil {
		return engineErrorResult(err)
	}

	return jsonResult(map[string]interface{}{
		"nodeType":       nodeType,
		"triggerResult":  json.RawMessage(triggerResult),
		"recentExecutions": json.RawMessage(execList),
	})
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
