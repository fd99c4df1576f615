package mcp

import (
	"context"
	"sync"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/logging"
)

// maxPreviewLength bounds the result preview written to the audit log.
const maxPreviewLength = 200

// reportParams are tool arguments holding free-form report text.
var reportParams = map[string]bool{
	"text":       true,
	"definition": true,
}

// AuditLogger writes one structured log entry per MCP tool call.
type AuditLogger struct {
	logger *zap.Logger

	// startTimes tracks when tool calls begin, keyed by request ID.
	startTimes sync.Map
}

// NewAuditLogger creates an AuditLogger that records MCP tool calls.
func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger.Named("mcp-audit"),
	}
}

// Hooks returns mcp-go Hooks configured to capture tool call events.
func (a *AuditLogger) Hooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(a.beforeCallTool)
	hooks.AddAfterCallTool(a.afterCallTool)
	hooks.AddOnError(a.onError)
	return hooks
}

func (a *AuditLogger) beforeCallTool(_ context.Context, id any, _ *mcplib.CallToolRequest) {
	a.startTimes.Store(id, time.Now())
}

func (a *AuditLogger) afterCallTool(_ context.Context, id any, req *mcplib.CallToolRequest, result *mcplib.CallToolResult) {
	fields := a.baseFields(id, req)
	fields = append(fields, summarizeResult(result)...)

	if result != nil && result.IsError {
		a.logger.Warn("MCP tool call rejected", fields...)
		return
	}
	a.logger.Info("MCP tool call", fields...)
}

func (a *AuditLogger) onError(_ context.Context, id any, method mcplib.MCPMethod, message any, err error) {
	if method != mcplib.MethodToolsCall {
		return
	}
	req, ok := message.(*mcplib.CallToolRequest)
	if !ok {
		return
	}

	fields := a.baseFields(id, req)
	fields = append(fields, zap.Error(err))
	a.logger.Error("MCP tool call failed", fields...)
}

func (a *AuditLogger) baseFields(id any, req *mcplib.CallToolRequest) []zap.Field {
	startTime, _ := a.loadAndDeleteStart(id)
	return []zap.Field{
		zap.String("tool", req.Params.Name),
		zap.Any("params", sanitizeParams(req.Params.Arguments)),
		zap.Duration("duration", time.Since(startTime)),
	}
}

func (a *AuditLogger) loadAndDeleteStart(id any) (time.Time, bool) {
	if v, ok := a.startTimes.LoadAndDelete(id); ok {
		return v.(time.Time), true
	}
	return time.Now(), false
}

// sanitizeParams prepares tool arguments for the audit log. Report text is
// excerpted and redacted; other strings are truncated.
func sanitizeParams(args any) map[string]any {
	params, ok := args.(map[string]any)
	if !ok || len(params) == 0 {
		return nil
	}

	sanitized := make(map[string]any, len(params))
	for k, v := range params {
		str, ok := v.(string)
		if !ok {
			sanitized[k] = v
			continue
		}
		if reportParams[k] {
			sanitized[k] = logging.ExcerptReport(str)
			continue
		}
		sanitized[k] = logging.TruncateString(str, logging.MaxExcerptLength)
	}
	return sanitized
}

// summarizeResult returns compact log fields describing a tool result.
func summarizeResult(result *mcplib.CallToolResult) []zap.Field {
	if result == nil {
		return nil
	}

	fields := []zap.Field{zap.Bool("is_error", result.IsError)}
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			fields = append(fields, zap.String("preview", logging.TruncateString(tc.Text, maxPreviewLength)))
			break
		}
	}
	return fields
}
