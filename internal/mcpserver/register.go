package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

func strSchema() Schema  { return Schema{Type: "string"} }
func numSchema() Schema  { return Schema{Type: "number"} }
func boolSchema() Schema { return Schema{Type: "boolean"} }
func arrSchema(items Schema) Schema {
	return Schema{Type: "array", Items: &items}
}

func (s *Server) registerReadTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_workflows",
		mcp.WithDescription("List workflows known to the engine, paginated"),
		mcp.WithString("cursor", mcp.Description("Opaque pagination cursor from a previous call")),
		mcp.WithNumber("limit", mcp.Description("Maximum workflows to return")),
		mcp.WithString("name", mcp.Description("Filter by name substring")),
	), s.validated("list_workflows", Schema{Properties: map[string]Schema{
		"cursor": strSchema(), "limit": numSchema(), "name": strSchema(),
	}}, s.handleListWorkflows))

	s.mcpServer.AddTool(mcp.NewTool("scan_workflow",
		mcp.WithDescription("One-line summary per node, connections, branch segments, and a token estimate for a workflow"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
	), s.validated("scan_workflow", Schema{Required: []string{"workflow_id"}, Properties: map[string]Schema{
		"workflow_id": strSchema(),
	}}, s.handleScanWorkflow))

	s.mcpServer.AddTool(mcp.NewTool("get_workflow",
		mcp.WithDescription("Full lite-form workflow: every node and connection in compact form"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
	), s.validated("get_workflow", Schema{Required: []string{"workflow_id"}, Properties: map[string]Schema{
		"workflow_id": strSchema(),
	}}, s.handleGetWorkflow))

	s.mcpServer.AddTool(mcp.NewTool("get_workflow_raw",
		mcp.WithDescription("The engine's verbose raw JSON for a workflow, unmodified"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
	), s.validated("get_workflow_raw", Schema{Required: []string{"workflow_id"}, Properties: map[string]Schema{
		"workflow_id": strSchema(),
	}}, s.handleGetWorkflowRaw))

	s.mcpServer.AddTool(mcp.NewTool("focus_workflow",
		mcp.WithDescription("Full detail for a focused subset of nodes, one-line summaries for the rest, zoned and boundary-annotated"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
		mcp.WithArray("names", mcp.Description("Explicit focused node names"), mcp.WithStringItems()),
		mcp.WithString("router", mcp.Description("Router node name for branch-following selection")),
		mcp.WithNumber("output_index", mcp.Description("Output index to follow from router")),
		mcp.WithNumber("max_depth", mcp.Description("Maximum forward depth from the branch")),
		mcp.WithNumber("upstream_levels", mcp.Description("Levels of upstream context to include with a branch selection")),
		mcp.WithString("from", mcp.Description("Range selection start node")),
		mcp.WithString("to", mcp.Description("Range selection end node")),
		mcp.WithString("execution_id", mcp.Description("Optional prior execution to derive ghost-payload hints from")),
	), s.validated("focus_workflow", Schema{Required: []string{"workflow_id"}, Properties: map[string]Schema{
		"workflow_id": strSchema(), "names": arrSchema(strSchema()), "router": strSchema(),
		"output_index": numSchema(), "max_depth": numSchema(), "upstream_levels": numSchema(),
		"from": strSchema(), "to": strSchema(), "execution_id": strSchema(),
	}}, s.handleFocusWorkflow))

	s.mcpServer.AddTool(mcp.NewTool("expand_focus",
		mcp.WithDescription("Re-run focus_workflow's selection logic with a wider or different focused set"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
		mcp.WithArray("names", mcp.Description("Explicit focused node names"), mcp.WithStringItems()),
		mcp.WithString("router", mcp.Description("Router node name for branch-following selection")),
		mcp.WithNumber("output_index", mcp.Description("Output index to follow from router")),
		mcp.WithNumber("max_depth", mcp.Description("Maximum forward depth from the branch")),
		mcp.WithNumber("upstream_levels", mcp.Description("Levels of upstream context to include with a branch selection")),
		mcp.WithString("from", mcp.Description("Range selection start node")),
		mcp.WithString("to", mcp.Description("Range selection end node")),
	), s.validated("expand_focus", Schema{Required: []string{"workflow_id"}, Properties: map[string]Schema{
		"workflow_id": strSchema(), "names": arrSchema(strSchema()), "router": strSchema(),
		"output_index": numSchema(), "max_depth": numSchema(), "upstream_levels": numSchema(),
		"from": strSchema(), "to": strSchema(),
	}}, s.handleFocusWorkflow))
}

func (s *Server) registerWriteTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_workflow",
		mcp.WithDescription("Create a new workflow from its lite-form nodes and connections, auto-laid-out"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Workflow display name")),
		mcp.WithArray("nodes", mcp.Required(), mcp.Description("Lite-form nodes")),
		mcp.WithArray("connections", mcp.Description("Lite-form connections")),
		mcp.WithString("approve", mcp.Description("Approval token from a prior pending call")),
	), s.validated("create_workflow", Schema{Required: []string{"name", "nodes"}, Properties: map[string]Schema{
		"name": strSchema(), "nodes": Schema{Type: "array"}, "connections": Schema{Type: "array"}, "approve": strSchema(),
	}}, s.handleCreateWorkflow))

	s.mcpServer.AddTool(mcp.NewTool("update_workflow_full",
		mcp.WithDescription("Replace a workflow's nodes and connections wholesale, through preflight"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
		mcp.WithArray("nodes", mcp.Required(), mcp.Description("Lite-form nodes")),
		mcp.WithArray("connections", mcp.Description("Lite-form connections")),
		mcp.WithString("approve", mcp.Description("Approval token from a prior pending call")),
	), s.validated("update_workflow_full", Schema{Required: []string{"workflow_id", "nodes"}, Properties: map[string]Schema{
		"workflow_id": strSchema(), "nodes": Schema{Type: "array"}, "connections": Schema{Type: "array"}, "approve": strSchema(),
	}}, s.handleUpdateWorkflowFull))

	s.mcpServer.AddTool(mcp.NewTool("update_workflow_surgical",
		mcp.WithDescription("Apply a sequence of typed edit operations to a just-fetched workflow and write it back"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
		mcp.WithArray("operations", mcp.Required(), mcp.Description("Typed operations: add_node, remove_node, update_node, add_connection, remove_connection, set_disabled, rename_node")),
		mcp.WithString("approve", mcp.Description("Approval token from a prior pending call")),
	), s.validated("update_workflow_surgical", Schema{Required: []string{"workflow_id", "operations"}, Properties: map[string]Schema{
		"workflow_id": strSchema(), "operations": Schema{Type: "array"}, "approve": strSchema(),
	}}, s.handleUpdateWorkflowSurgical))

	s.mcpServer.AddTool(mcp.NewTool("delete_workflow",
		mcp.WithDescription("Permanently delete a workflow; requires explicit confirm:true"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true; guards against accidental deletion")),
		mcp.WithString("approve", mcp.Description("Approval token from a prior pending call")),
	), s.validated("delete_workflow", Schema{Required: []string{"workflow_id", "confirm"}, Properties: map[string]Schema{
		"workflow_id": strSchema(), "confirm": boolSchema(), "approve": strSchema(),
	}}, s.handleDeleteWorkflow))
}

func (s *Server) registerActivationTools() {
	s.mcpServer.AddTool(mcp.NewTool("activate_workflow",
		mcp.WithDescription("Enable a workflow's automatic triggers"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
		mcp.WithString("approve", mcp.Description("Approval token from a prior pending call")),
	), s.validated("activate_workflow", Schema{Required: []string{"workflow_id"}, Properties: map[string]Schema{
		"workflow_id": strSchema(), "approve": strSchema(),
	}}, s.handleActivateWorkflow))

	s.mcpServer.AddTool(mcp.NewTool("deactivate_workflow",
		mcp.WithDescription("Disable a workflow's automatic triggers"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
		mcp.WithString("approve", mcp.Description("Approval token from a prior pending call")),
	), s.validated("deactivate_workflow", Schema{Required: []string{"workflow_id"}, Properties: map[string]Schema{
		"workflow_id": strSchema(), "approve": strSchema(),
	}}, s.handleDeactivateWorkflow))
}

func (s *Server) registerExecutionTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_executions",
		mcp.WithDescription("List executions, optionally filtered by workflow and status"),
		mcp.WithString("workflow_id", mcp.Description("Filter by workflow identity")),
		mcp.WithString("status", mcp.Description("Filter by status (new/running/success/error/canceled/waiting)")),
		mcp.WithString("cursor", mcp.Description("Opaque pagination cursor")),
		mcp.WithNumber("limit", mcp.Description("Maximum executions to return")),
	), s.validated("list_executions", Schema{Properties: map[string]Schema{
		"workflow_id": strSchema(), "status": strSchema(), "cursor": strSchema(), "limit": numSchema(),
	}}, s.handleListExecutions))

	s.mcpServer.AddTool(mcp.NewTool("get_execution",
		mcp.WithDescription("Fetch one execution's details, optionally with per-node run data"),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("Execution identity")),
		mcp.WithBoolean("include_data", mcp.Description("Include resultData.runData per node")),
	), s.validated("get_execution", Schema{Required: []string{"execution_id"}, Properties: map[string]Schema{
		"execution_id": strSchema(), "include_data": boolSchema(),
	}}, s.handleGetExecution))

	s.mcpServer.AddTool(mcp.NewTool("trigger_webhook",
		mcp.WithDescription("Post a payload to a workflow's webhook, production or test path"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Webhook path segment")),
		mcp.WithBoolean("test", mcp.Description("Use the test webhook path instead of production")),
		mcp.WithObject("payload", mcp.Description("JSON payload body")),
		mcp.WithString("approve", mcp.Description("Approval token, required for the production path when approval is enabled")),
	), s.validated("trigger_webhook", Schema{Required: []string{"path"}, Properties: map[string]Schema{
		"path": strSchema(), "test": boolSchema(), "payload": Schema{Type: "object"}, "approve": strSchema(),
	}}, s.handleTriggerWebhook))

	s.mcpServer.AddTool(mcp.NewTool("test_node",
		mcp.WithDescription("Dry-run a single node type and parameters: create a scratch workflow, trigger it, return the result, then delete the scratch workflow"),
		mcp.WithString("node_type", mcp.Required(), mcp.Description("Short or full node type to test")),
		mcp.WithObject("parameters", mcp.Description("Lite-form parameters for the node under test")),
		mcp.WithObject("input", mcp.Description("Manual input payload fed to the node")),
	), s.validated("test_node", Schema{Required: []string{"node_type"}, Properties: map[string]Schema{
		"node_type": strSchema(), "parameters": Schema{Type: "object"}, "input": Schema{Type: "object"},
	}}, s.handleTestNode))
}

func (s *Server) registerVersioningTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_snapshots",
		mcp.WithDescription("List captured pre-mutation snapshots for a workflow, newest first"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
		mcp.WithNumber("limit", mcp.Description("Maximum snapshots to return")),
	), s.validated("list_snapshots", Schema{Required: []string{"workflow_id"}, Properties: map[string]Schema{
		"workflow_id": strSchema(), "limit": numSchema(),
	}}, s.handleListSnapshots))

	s.mcpServer.AddTool(mcp.NewTool("rollback_workflow",
		mcp.WithDescription("Restore a workflow to a previously captured snapshot, safety-snapshotting the current state first"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("Workflow identity")),
		mcp.WithString("snapshot_id", mcp.Required(), mcp.Description("Snapshot identity to restore")),
		mcp.WithString("approve", mcp.Description("Approval token from a prior pending call")),
	), s.validated("rollback_workflow", Schema{Required: []string{"workflow_id", "snapshot_id"}, Properties: map[string]Schema{
		"workflow_id": strSchema(), "snapshot_id": strSchema(), "approve": strSchema(),
	}}, s.handleRollbackWorkflow))
}

func (s *Server) registerKnowledgeTools() {
	s.mcpServer.AddTool(mcp.NewTool("search_nodes",
		mcp.WithDescription("Score and rank node types against a query"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithString("mode", mcp.Description("AND, OR, or FUZZY (default AND)")),
		mcp.WithNumber("limit", mcp.Description("Maximum results")),
		mcp.WithString("source", mcp.Description("Restrict to 'core' or 'langchain'")),
	), s.validated("search_nodes", Schema{Required: []string{"query"}, Properties: map[string]Schema{
		"query": strSchema(), "mode": Schema{Type: "string", Enum: []string{"AND", "OR", "FUZZY"}},
		"limit": numSchema(), "source": strSchema(),
	}}, s.handleSearchNodes))

	s.mcpServer.AddTool(mcp.NewTool("get_node",
		mcp.WithDescription("Resolve a node type or display name to its full schema record"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Full type, short type, or display name")),
	), s.validated("get_node", Schema{Required: []string{"query"}, Properties: map[string]Schema{
		"query": strSchema(),
	}}, s.handleGetNode))

	s.mcpServer.AddTool(mcp.NewTool("search_patterns",
		mcp.WithDescription("Keyword search over documented multi-node patterns"),
		mcp.WithString("query", mcp.Description("Search query")),
	), s.validated("search_patterns", Schema{Properties: map[string]Schema{"query": strSchema()}}, s.handleSearchPatterns))

	s.mcpServer.AddTool(mcp.NewTool("get_pattern",
		mcp.WithDescription("Fetch a named pattern recipe"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Pattern name")),
	), s.validated("get_pattern", Schema{Required: []string{"name"}, Properties: map[string]Schema{
		"name": strSchema(),
	}}, s.handleGetPattern))

	s.mcpServer.AddTool(mcp.NewTool("get_payload_schema",
		mcp.WithDescription("Fetch the documented webhook payload shape for a trigger source"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Trigger source name")),
	), s.validated("get_payload_schema", Schema{Required: []string{"source"}, Properties: map[string]Schema{
		"source": strSchema(),
	}}, s.handleGetPayloadSchema))

	s.mcpServer.AddTool(mcp.NewTool("get_quirks",
		mcp.WithDescription("Fetch documented surprising behaviors for a node type"),
		mcp.WithString("node_type", mcp.Required(), mcp.Description("Node type")),
	), s.validated("get_quirks", Schema{Required: []string{"node_type"}, Properties: map[string]Schema{
		"node_type": strSchema(),
	}}, s.handleGetQuirks))

	s.mcpServer.AddTool(mcp.NewTool("search_expressions",
		mcp.WithDescription("Keyword search over the expression-language cookbook"),
		mcp.WithString("query", mcp.Description("Search query")),
	), s.validated("search_expressions", Schema{Properties: map[string]Schema{"query": strSchema()}}, s.handleSearchExpressions))

	s.mcpServer.AddTool(mcp.NewTool("list_providers",
		mcp.WithDescription("List the node-package sources known to the knowledge index"),
	), s.validated("list_providers", Schema{}, s.handleListProviders))
}

func (s *Server) registerApprovalTools() {
	s.mcpServer.AddTool(mcp.NewTool("set_approval_mode",
		mcp.WithDescription("Toggle the two-phase-commit approval gate at runtime"),
		mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("New approval-gate state")),
	), s.validated("set_approval_mode", Schema{Required: []string{"enabled"}, Properties: map[string]Schema{
		"enabled": boolSchema(),
	}}, s.handleSetApprovalMode))
}
