package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	mcpsession "github.com/ekaya-inc/kpi-translator/pkg/mcp/session"
	"github.com/ekaya-inc/kpi-translator/pkg/services"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

// TestServer_HTTPSessionPropagation verifies that the glossary bound by the
// session middleware reaches MCP tool handlers over the HTTP transport.
func TestServer_HTTPSessionPropagation(t *testing.T) {
	factory := services.NewSeededGlossaryFactory("", taxonomy.Default(), zap.NewNop())
	registry := services.NewSessionRegistry(factory, 2, zap.NewNop())
	session, err := registry.Create(context.Background())
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	s := NewGlossaryServer("1.0.0", zap.NewNop())
	middleware := mcpsession.NewMiddleware(registry, zap.NewNop())

	mux := http.NewServeMux()
	mux.Handle("/mcp/{sid}", middleware.RequireSession("sid")(s.NewStreamableHTTPServer()))

	body, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "tools/call",
		"params": map[string]any{
			"name": "list_teams",
		},
		"id": 1,
	})

	req := httptest.NewRequest(http.MethodPost, "/mcp/"+session.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Result.Content) == 0 {
		t.Fatalf("expected tool content, got %s", rec.Body.String())
	}

	var teams struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(response.Result.Content[0].Text), &teams); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
	if teams.Count != 6 {
		t.Errorf("expected 6 teams, got %d", teams.Count)
	}
}
