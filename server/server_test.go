package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamjmurray/producer-pal-sub000/live"
	"github.com/adamjmurray/producer-pal-sub000/metrics"
	"github.com/adamjmurray/producer-pal-sub000/tools"
)

func newTestServer() *gin.Engine {
	gin.SetMode(gin.TestMode)
	registry := tools.NewRegistry(live.NewMockClient(live.DemoSong()), metrics.NewSentryMetrics(false))
	return New(registry)
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	decoded := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), "body: %s", w.Body.String())
	}
	return w, decoded
}

func TestHealth(t *testing.T) {
	engine := newTestServer()
	w, body := doRequest(t, engine, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestListTools(t *testing.T) {
	engine := newTestServer()
	w, body := doRequest(t, engine, http.MethodGet, "/api/v1/tools", "")
	assert.Equal(t, http.StatusOK, w.Code)

	list, ok := body["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 7)

	first := list[0].(map[string]any)
	assert.Equal(t, "read-song", first["name"])
	assert.NotContains(t, first, "Handler")
}

func TestCallTool_ReadClip(t *testing.T) {
	engine := newTestServer()
	w, body := doRequest(t, engine, http.MethodPost, "/api/v1/tools/read-clip",
		`{"track": 0, "scene": 0}`)
	assert.Equal(t, http.StatusOK, w.Code)

	result := body["result"].(map[string]any)
	assert.Equal(t, "Bassline", result["name"])
	assert.Equal(t, "1|1 C1 1|2 G1 1|3 C1 1|4 v90 G1", result["notes"])
}

func TestCallTool_WriteThenRead(t *testing.T) {
	engine := newTestServer()

	w, body := doRequest(t, engine, http.MethodPost, "/api/v1/tools/write-clip",
		`{"track": 1, "scene": 0, "notes": "1|1 t2 C3 E3 G3", "name": "Chord"}`)
	require.Equal(t, http.StatusOK, w.Code, "body: %v", body)

	w, body = doRequest(t, engine, http.MethodPost, "/api/v1/tools/read-clip",
		`{"track": 1, "scene": 0}`)
	assert.Equal(t, http.StatusOK, w.Code)
	result := body["result"].(map[string]any)
	assert.Equal(t, "Chord", result["name"])
	assert.Equal(t, "1|1 t2 C3 E3 G3", result["notes"])
}

func TestCallTool_NoBody(t *testing.T) {
	engine := newTestServer()
	w, _ := doRequest(t, engine, http.MethodPost, "/api/v1/tools/read-song", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCallTool_UnknownTool(t *testing.T) {
	engine := newTestServer()
	w, _ := doRequest(t, engine, http.MethodPost, "/api/v1/tools/make-coffee", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCallTool_CodecErrorsBecome400(t *testing.T) {
	engine := newTestServer()

	w, body := doRequest(t, engine, http.MethodPost, "/api/v1/tools/write-clip",
		`{"track": 1, "scene": 0, "notes": "1|1 Z9"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "syntax", body["kind"])
	assert.Contains(t, body["error"], "Z9")

	w, body = doRequest(t, engine, http.MethodPost, "/api/v1/tools/write-clip",
		`{"track": 1, "scene": 0, "notes": "1|1 v200 C3"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "range", body["kind"])
}

func TestCallTool_HostErrorsBecome500(t *testing.T) {
	engine := newTestServer()
	w, _ := doRequest(t, engine, http.MethodPost, "/api/v1/tools/read-track", `{"track": 42}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	engine := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tools", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
