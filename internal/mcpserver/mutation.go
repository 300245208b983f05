package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/LunkiBR/n8n-mcp-lite/internal/approval"
)

// mutationFn performs the actual engine write after the approval gate
// has cleared. It is only invoked once the gate is either disabled or
// the caller has supplied a valid approve token.
type mutationFn func(ctx context.Context) (*mcp.CallToolResult, error)

// guardMutation implements the two-phase-commit contract from §4.9:
// when the gate is disabled, the mutation runs immediately and is
// still audited as approved=true; when enabled, a first call with no
// approve token records a pending operation and returns it without
// running fn; a second call bearing a valid token consumes it and
// runs fn. Every attempt is audited exactly once.
func (s *Server) guardMutation(ctx context.Context, toolName string, args map[string]interface{}, workflowID *string, summary string, fn mutationFn) (*mcp.CallToolResult, error) {
	if s.approvals.Enabled() {
		token := argString(args, "approve")
		if token == "" {
			tok := s.approvals.RequestApproval(toolName, summary)
			s.audit.Append(approval.AuditEntry{
				Timestamp:  time.Now(),
				Tool:       toolName,
				WorkflowID: workflowID,
				Summary:    summary,
				Approved:   false,
			})
			return pendingResult(tok, summary)
		}
		if !s.approvals.Consume(toolName, token) {
			s.audit.Append(approval.AuditEntry{
				Timestamp:  time.Now(),
				Tool:       toolName,
				WorkflowID: workflowID,
				Summary:    summary,
				Approved:   false,
			})
			return mcp.NewToolResultError("approval token is invalid, already used, or expired"), nil
		}
	}

	result, err := fn(ctx)
	s.audit.Append(approval.AuditEntry{
		Timestamp:  time.Now(),
		Tool:       toolName,
		WorkflowID: workflowID,
		Summary:    summary,
		Approved:   true,
	})
	return result, err
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
