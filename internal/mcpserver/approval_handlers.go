package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleSetApprovalMode(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	enabled := argBool(args, "enabled")
	s.approvals.SetEnabled(enabled)
	return jsonResult(map[string]interface{}{"approvalEnabled": enabled})
}
