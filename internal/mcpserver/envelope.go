package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/LunkiBR/n8n-mcp-lite/internal/engineapi"
	"github.com/LunkiBR/n8n-mcp-lite/internal/preflight"
)

// jsonResult marshals v as indented JSON and wraps it as a tool text
// result. Marshal failures are themselves reported as an error result
// rather than propagated, since a handler's own encoding failure must
// never surface as a transport-level exception.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// engineErrorResult renders an engine API failure per the "Error: "
// taxonomy line.
func engineErrorResult(err error) (*mcp.CallToolResult, error) {
	if apiErr, ok := err.(*engineapi.Error); ok {
		if apiErr.Err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error: %v", apiErr.Err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error: engine returned %d: %s", apiErr.Status, apiErr.Body)), nil
	}
	return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
}

// missingEntityResult renders the "missing entity" taxonomy shape.
func missingEntityResult(kind, id string) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf("%s %q not found", kind, id)), nil
}

// conflictResult renders the "operation conflict" taxonomy shape,
// which is identical to missing-entity's.
func conflictResult(message string) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(message), nil
}

// blockedEnvelope is the structured envelope returned when preflight
// fails a mutation: the remote engine is never called, and the
// snapshot (already written) is surfaced for recovery.
type blockedEnvelope struct {
	Blocked     bool               `json:"blocked"`
	Message     string             `json:"message"`
	Errors      []preflight.Issue  `json:"errors"`
	Warnings    []preflight.Issue  `json:"warnings"`
	SnapshotID  string             `json:"snapshotId,omitempty"`
}

func blockedResult(verdict preflight.Verdict, snapshotID string) (*mcp.CallToolResult, error) {
	return jsonResult(blockedEnvelope{
		Blocked:    true,
		Message:    verdict.Summary,
		Errors:     verdict.Errors,
		Warnings:   verdict.Warnings,
		SnapshotID: snapshotID,
	})
}

// pendingEnvelope is returned to the caller on the first call of a
// two-phase-commit mutation when approval mode is enabled.
type pendingEnvelope struct {
	Pending     bool   `json:"pending"`
	ApproveToken string `json:"approve_token"`
	Summary     string `json:"summary"`
}

func pendingResult(token, summary string) (*mcp.CallToolResult, error) {
	return jsonResult(pendingEnvelope{Pending: true, ApproveToken: token, Summary: summary})
}
