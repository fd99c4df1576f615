package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/mcp/tools"
)

// ServerName is advertised to MCP clients during initialization.
const ServerName = "kpi-translator"

// Server wraps the mcp-go MCPServer.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates a new MCP server instance with no tools registered.
func NewServer(name, version string, logger *zap.Logger, opts ...server.ServerOption) *Server {
	opts = append([]server.ServerOption{server.WithToolCapabilities(true)}, opts...)
	mcpServer := server.NewMCPServer(name, version, opts...)

	return &Server{
		mcp:    mcpServer,
		logger: logger,
	}
}

// NewGlossaryServer creates an MCP server exposing the health and glossary tools.
// Tools resolve their glossary from the request context. Every tool call is
// written to the audit log.
func NewGlossaryServer(version string, logger *zap.Logger) *Server {
	audit := NewAuditLogger(logger)
	s := NewServer(ServerName, version, logger, server.WithHooks(audit.Hooks()))
	tools.RegisterHealthTool(s.mcp, version)
	tools.RegisterGlossaryTools(s.mcp, &tools.GlossaryToolDeps{Logger: logger.Named("mcp-tools")})
	return s
}

// MCP returns the underlying MCPServer for tool registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP server.
// The HTTP mux handles routing to /mcp/{sid}, so no endpoint path is configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// RegisterTool is a convenience wrapper for registering a tool.
func (s *Server) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
}
