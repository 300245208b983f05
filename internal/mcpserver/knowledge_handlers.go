package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/LunkiBR/n8n-mcp-lite/internal/knowledge"
)

func (s *Server) handleSearchNodes(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	mode := knowledge.SearchMode(argStringDefault(args, "mode", string(knowledge.ModeAND)))
	results := s.knowledge.SearchNodes(argString(args, "query"), mode, argInt(args, "limit", 20), argString(args, "source"))
	return jsonResult(results)
}

func (s *Server) handleGetNode(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	query := argString(args, "query")
	node := s.knowledge.GetNode(query)
	if node == nil {
		return mcp.NewToolResultError(fmt.Sprintf("node %q is not in the knowledge base; try search_nodes to find the correct type", query)), nil
	}
	return jsonResult(node)
}

func (s *Server) handleSearchPatterns(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	return jsonResult(s.knowledge.SearchPatterns(argString(args, "query")))
}

func (s *Server) handleGetPattern(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	name := argString(args, "name")
	p := s.knowledge.GetPattern(name)
	if p == nil {
		return mcp.NewToolResultError(fmt.Sprintf("pattern %q not found; try search_patterns to find the correct name", name)), nil
	}
	return jsonResult(p)
}

func (s *Server) handleGetPayloadSchema(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	source := argString(args, "source")
	p := s.knowledge.GetPayloadSchema(source)
	if p == nil {
		return mcp.NewToolResultError(fmt.Sprintf("payload schema for source %q not found", source)), nil
	}
	return jsonResult(p)
}

func (s *Server) handleGetQuirks(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	return jsonResult(s.knowledge.GetQuirks(argString(args, "node_type")))
}

func (s *Server) handleSearchExpressions(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	return jsonResult(s.knowledge.SearchExpressions(argString(args, "query")))
}

func (s *Server) handleListProviders(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	return jsonResult(s.knowledge.ListProviders())
}
