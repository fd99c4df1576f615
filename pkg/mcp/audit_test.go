package mcp

import (
	"context"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedAuditLogger() (*AuditLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewAuditLogger(zap.New(core)), logs
}

func newCallRequest(name string, args map[string]any) *mcplib.CallToolRequest {
	req := &mcplib.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestSanitizeParams_NilInput(t *testing.T) {
	if got := sanitizeParams(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := sanitizeParams(map[string]any{}); got != nil {
		t.Errorf("expected nil for empty args, got %v", got)
	}
}

func TestSanitizeParams_ExcerptsReportText(t *testing.T) {
	text := "Contact ops@example.com.   " + strings.Repeat("Marketing engagement rose. ", 20)
	got := sanitizeParams(map[string]any{"text": text})

	excerpt, ok := got["text"].(string)
	if !ok {
		t.Fatalf("expected string, got %T", got["text"])
	}
	if strings.Contains(excerpt, "ops@example.com") {
		t.Errorf("expected email to be redacted, got %q", excerpt)
	}
	if strings.Contains(excerpt, "   ") {
		t.Errorf("expected whitespace to be collapsed, got %q", excerpt)
	}
	if !strings.HasSuffix(excerpt, "...") {
		t.Errorf("expected truncated excerpt, got %q", excerpt)
	}
}

func TestSanitizeParams_PreservesSmallValues(t *testing.T) {
	got := sanitizeParams(map[string]any{"team": "Sales", "limit": 3})

	if got["team"] != "Sales" {
		t.Errorf("expected team to be preserved, got %v", got["team"])
	}
	if got["limit"] != 3 {
		t.Errorf("expected non-string value to be preserved, got %v", got["limit"])
	}
}

func TestSummarizeResult(t *testing.T) {
	if got := summarizeResult(nil); got != nil {
		t.Errorf("expected nil fields for nil result, got %v", got)
	}

	result := mcplib.NewToolResultText(strings.Repeat("x", 500))
	fields := summarizeResult(result)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if preview := fields[1].String; len(preview) != maxPreviewLength+len("...") {
		t.Errorf("expected truncated preview, got length %d", len(preview))
	}
}

func TestAuditLogger_ToolCall(t *testing.T) {
	audit, logs := newObservedAuditLogger()
	ctx := context.Background()
	req := newCallRequest("list_metrics", map[string]any{"team": "Sales"})

	audit.beforeCallTool(ctx, 1, req)
	audit.afterCallTool(ctx, 1, req, mcplib.NewToolResultText(`{"count":3}`))

	entries := logs.FilterMessage("MCP tool call").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["tool"] != "list_metrics" {
		t.Errorf("expected tool field, got %v", entries[0].ContextMap()["tool"])
	}
	if _, ok := audit.startTimes.Load(1); ok {
		t.Error("expected start time to be cleared")
	}
}

func TestAuditLogger_RejectedCall(t *testing.T) {
	audit, logs := newObservedAuditLogger()
	req := newCallRequest("get_metric_definition", nil)
	result := mcplib.NewToolResultText(`{"error":true,"code":"not_found"}`)
	result.IsError = true

	audit.afterCallTool(context.Background(), "a", req, result)

	if logs.FilterMessage("MCP tool call rejected").Len() != 1 {
		t.Errorf("expected rejected entry, got %v", logs.All())
	}
}

func TestAuditLogger_OnError(t *testing.T) {
	audit, logs := newObservedAuditLogger()
	req := newCallRequest("list_teams", nil)

	audit.onError(context.Background(), 2, mcplib.MethodToolsList, req, context.Canceled)
	if logs.Len() != 0 {
		t.Fatalf("expected non tool-call errors to be ignored, got %d entries", logs.Len())
	}

	audit.onError(context.Background(), 2, mcplib.MethodToolsCall, req, context.Canceled)
	if logs.FilterMessage("MCP tool call failed").Len() != 1 {
		t.Errorf("expected failure entry, got %v", logs.All())
	}
}
