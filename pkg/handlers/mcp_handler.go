package handlers

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/mcp"
	mcpsession "github.com/ekaya-inc/kpi-translator/pkg/mcp/session"
	"github.com/ekaya-inc/kpi-translator/pkg/middleware"
)

// MCPHandler handles MCP protocol requests over HTTP.
type MCPHandler struct {
	httpServer *server.StreamableHTTPServer
	logger     *zap.Logger
}

// NewMCPHandler creates a new MCP handler from an MCP server.
func NewMCPHandler(mcpServer *mcp.Server, logger *zap.Logger) *MCPHandler {
	return &MCPHandler{
		httpServer: mcpServer.NewStreamableHTTPServer(),
		logger:     logger,
	}
}

// RegisterRoutes registers the session-scoped MCP endpoint.
// Route: /mcp/{sid} where {sid} names a glossary session.
func (h *MCPHandler) RegisterRoutes(mux *http.ServeMux, sessionMiddleware *mcpsession.Middleware) {
	// Layers, innermost first: JSON-RPC logging, session binding, method check.
	loggedHandler := middleware.MCPRequestLogger(h.logger)(h.httpServer)
	sessionHandler := sessionMiddleware.RequireSession(middleware.SessionPathParam)(loggedHandler)
	mux.Handle("/mcp/{sid}", h.requirePOST(sessionHandler))
}

// requirePOST returns 405 Method Not Allowed for non-POST requests.
// MCP over HTTP Streaming requires POST for JSON-RPC requests.
func (h *MCPHandler) requirePOST(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}
