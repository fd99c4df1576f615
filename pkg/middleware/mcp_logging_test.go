package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serveMCP(t *testing.T, logger *zap.Logger, reqBody, respBody string) *httptest.ResponseRecorder {
	t.Helper()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(respBody))
	})

	req := httptest.NewRequest(http.MethodPost, "/mcp/session-1", bytes.NewBufferString(reqBody))
	req.SetPathValue(SessionPathParam, "session-1")
	rec := httptest.NewRecorder()
	MCPRequestLogger(logger)(handler).ServeHTTP(rec, req)
	return rec
}

func TestMCPRequestLogger(t *testing.T) {
	t.Run("logs successful tool call", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		serveMCP(t, zap.New(core),
			`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"list_metrics","arguments":{"team":"Sales"}}}`,
			`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"{}"}]}}`)

		require.Equal(t, 2, logs.Len(), "Should log request and response")

		requestLog := logs.All()[0]
		assert.Equal(t, "MCP request", requestLog.Message)
		assert.Equal(t, "tools/call", requestLog.ContextMap()["method"])
		assert.Equal(t, "list_metrics", requestLog.ContextMap()["tool"])
		assert.Equal(t, "session-1", requestLog.ContextMap()["session_id"])

		responseLog := logs.All()[1]
		assert.Equal(t, "MCP response success", responseLog.Message)
		assert.Equal(t, "list_metrics", responseLog.ContextMap()["tool"])
	})

	t.Run("logs JSON-RPC error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		serveMCP(t, zap.New(core),
			`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"list_teams"}}`,
			`{"jsonrpc":"2.0","id":1,"error":{"code":-32603,"message":"no glossary session bound to this request"}}`)

		require.Equal(t, 2, logs.Len())
		responseLog := logs.All()[1]
		assert.Equal(t, "MCP response error", responseLog.Message)
		assert.Equal(t, int64(-32603), responseLog.ContextMap()["error_code"])
		assert.Equal(t, "no glossary session bound to this request", responseLog.ContextMap()["error_message"])
	})

	t.Run("logs tool error result", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		serveMCP(t, zap.New(core),
			`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_metric_definition","arguments":{"team":"Sales","metric":"Nope"}}}`,
			`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"{\"error\":true}"}],"isError":true}}`)

		require.Equal(t, 2, logs.Len())
		assert.Equal(t, "MCP tool error result", logs.All()[1].Message)
	})

	t.Run("passes body through to handler", func(t *testing.T) {
		reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
		var received string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := new(bytes.Buffer)
			buf.ReadFrom(r.Body)
			received = buf.String()
		})

		req := httptest.NewRequest(http.MethodPost, "/mcp/x", bytes.NewBufferString(reqBody))
		MCPRequestLogger(zap.NewNop())(handler).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, reqBody, received)
	})

	t.Run("nil logger passes through", func(t *testing.T) {
		rec := serveMCP(t, nil, `{}`, `{"ok":true}`)
		assert.Equal(t, `{"ok":true}`, rec.Body.String())
	})

	t.Run("tolerates invalid JSON", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		rec := serveMCP(t, zap.New(core), `not json`, `also not json`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.GreaterOrEqual(t, logs.Len(), 2)
	})
}

func TestSanitizeArguments(t *testing.T) {
	assert.Nil(t, sanitizeArguments(nil))

	longName := strings.Repeat("m", 300)
	got := sanitizeArguments(map[string]any{
		"text":        "Email jane@example.com about   Marketing Conversion",
		"metric_name": longName,
		"team":        "Sales",
		"count":       float64(2),
	})

	assert.Equal(t, "Email [REDACTED] about Marketing Conversion", got["text"])
	assert.Len(t, got["metric_name"], 103)
	assert.Equal(t, "Sales", got["team"])
	assert.Equal(t, float64(2), got["count"])
}
