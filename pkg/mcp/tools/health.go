package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type healthResult struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Teams   *int   `json:"teams,omitempty"`
	Metrics *int   `json:"metrics,omitempty"`
}

// RegisterHealthTool adds a health check tool to the MCP server.
// The tool returns the server status and version, plus glossary counts when a
// session is bound to the request.
func RegisterHealthTool(s *server.MCPServer, version string) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status and version"),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := healthResult{Status: "ok", Version: version}
		if glossary, ok := GlossaryFromContext(ctx); ok {
			teams, metrics := glossary.Stats(ctx)
			result.Teams = &teams
			result.Metrics = &metrics
		}
		return jsonResult(result)
	})
}
