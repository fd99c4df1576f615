package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/services"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

// newTestRegistry returns a registry whose sessions start from the sample glossary.
func newTestRegistry(t *testing.T) services.SessionRegistry {
	t.Helper()
	factory := services.NewSeededGlossaryFactory("", taxonomy.Default(), zap.NewNop())
	return services.NewSessionRegistry(factory, 3, zap.NewNop())
}

// newTestMux wires the session and glossary routes and creates one session.
func newTestMux(t *testing.T) (*http.ServeMux, uuid.UUID) {
	t.Helper()
	registry := newTestRegistry(t)
	session, err := registry.Create(context.Background())
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewSessionHandler(registry, zap.NewNop()).RegisterRoutes(mux)
	NewGlossaryHandler(registry, zap.NewNop()).RegisterRoutes(mux)
	return mux, session.ID
}

func doRequest(mux http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

// decodeData decodes an ApiResponse envelope and unmarshals its data into out.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

// decodeError decodes an ErrorResponse body and returns its error code.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}
