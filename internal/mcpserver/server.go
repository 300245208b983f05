package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/LunkiBR/n8n-mcp-lite/internal/approval"
	"github.com/LunkiBR/n8n-mcp-lite/internal/engineapi"
	"github.com/LunkiBR/n8n-mcp-lite/internal/knowledge"
	"github.com/LunkiBR/n8n-mcp-lite/internal/logging"
	"github.com/LunkiBR/n8n-mcp-lite/internal/preflight"
	"github.com/LunkiBR/n8n-mcp-lite/internal/snapshot"
)

const (
	serverName    = "n8n-mcp-lite"
	serverVersion = "1.0.0"
)

// Server bundles every core-domain component behind the MCP tool
// surface: the engine client, the preflight pipeline, the snapshot
// store, the approval gate, the audit log, and the knowledge index.
type Server struct {
	mcpServer *server.MCPServer
	engine    *engineapi.Client
	snapshots *snapshot.Store
	approvals *approval.Gate
	audit     *approval.AuditLog
	preflight *preflight.Pipeline
	knowledge *knowledge.Index
}

// New builds a Server and registers every tool in the catalogue.
func New(engine *engineapi.Client, snapshots *snapshot.Store, approvals *approval.Gate, audit *approval.AuditLog, idx *knowledge.Index) *Server {
	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		mcpServer: mcpServer,
		engine:    engine,
		snapshots: snapshots,
		approvals: approvals,
		audit:     audit,
		preflight: preflight.New(idx),
		knowledge: idx,
	}

	s.registerReadTools()
	s.registerWriteTools()
	s.registerActivationTools()
	s.registerExecutionTools()
	s.registerVersioningTools()
	s.registerKnowledgeTools()
	s.registerApprovalTools()

	return s
}

// StartStdio runs the MCP dispatch loop over stdin/stdout. Structured
// logging is confined to stderr so it never corrupts the wire protocol.
func (s *Server) StartStdio(ctx context.Context) error {
	logging.Info("starting stdio transport", "name", serverName, "version", serverVersion)
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// wrapped is the signature every registered handler conforms to
// before schema validation and the approval gate are applied.
type wrapped func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error)

// validated wraps a handler with schema validation: a violation short
// circuits before the handler ever runs.
func (s *Server) validated(tool string, schema Schema, h wrapped) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]interface{})
		if args == nil {
			args = map[string]interface{}{}
		}
		if errs := Validate(schema, args); len(errs) > 0 {
			return mcp.NewToolResultError(FormatValidationError(tool, errs)), nil
		}
		return h(ctx, args)
	}
}
