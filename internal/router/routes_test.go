package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aashari/go-worklist-extractor/internal/extraction"
	"github.com/aashari/go-worklist-extractor/internal/handlers"
	"github.com/aashari/go-worklist-extractor/internal/monitoring"
)

type countingExtractor struct {
	calls int
}

func (c *countingExtractor) Extract(context.Context, string) (*extraction.Result, error) {
	c.calls++
	return &extraction.Result{Raw: json.RawMessage(`[{"patientName":"John Doe","accessionID":"AB123","modalityStudy":"CT Chest"}]`), Count: 1}, nil
}

func setup(t *testing.T) (http.Handler, *countingExtractor) {
	t.Helper()
	extractor := &countingExtractor{}
	apiHandlers := handlers.NewAPIHandlers(extractor, handlers.Options{APIKeyConfigured: true, Version: "test"})
	handler := SetupRoutes(apiHandlers)
	require.NotNil(t, handler)
	return handler, extractor
}

func TestSetupRoutes(t *testing.T) {
	handler, _ := setup(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		description    string
	}{
		{
			name:           "health endpoint",
			method:         http.MethodGet,
			path:           "/health",
			expectedStatus: http.StatusOK,
			description:    "Health check should return OK",
		},
		{
			name:           "metrics endpoint",
			method:         http.MethodGet,
			path:           "/metrics",
			expectedStatus: http.StatusOK,
			description:    "Metrics should be served as JSON",
		},
		{
			name:           "swagger ui endpoint",
			method:         http.MethodGet,
			path:           "/swagger/",
			expectedStatus: http.StatusMovedPermanently,
			description:    "Swagger UI should redirect properly",
		},
		{
			name:           "swagger doc",
			method:         http.MethodGet,
			path:           "/swagger/doc.json",
			expectedStatus: http.StatusOK,
			description:    "Registered swagger document should be served",
		},
		{
			name:           "unknown path",
			method:         http.MethodGet,
			path:           "/v1/models",
			expectedStatus: http.StatusNotFound,
			description:    "Unregistered paths should 404",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code, tc.description)
		})
	}
}

func TestSetupRoutes_SwaggerDocDescribesExtract(t *testing.T) {
	handler, _ := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/api/extract-info")
}

func TestSetupRoutes_Extract(t *testing.T) {
	handler, extractor := setup(t)

	for _, path := range []string{ExtractPath, LegacyExtractPath} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"base64ImageData":"abcd"}`))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `[{"patientName":"John Doe","accessionID":"AB123","modalityStudy":"CT Chest"}]`, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
	assert.Equal(t, 2, extractor.calls)
}

func TestSetupRoutes_ExtractMethodNotAllowed(t *testing.T) {
	handler, extractor := setup(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, ExtractPath, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
		})
	}
	assert.Equal(t, 0, extractor.calls)
}

type countingBody struct {
	remaining int
	consumed  int
}

func (c *countingBody) Read(p []byte) (int, error) {
	if c.remaining == 0 {
		return 0, io.EOF
	}
	n := len(p)
	if n > c.remaining {
		n = c.remaining
	}
	for i := 0; i < n; i++ {
		p[i] = 'A'
	}
	c.remaining -= n
	c.consumed += n
	return n, nil
}

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestSetupRoutes_BodyLimitCapsReads(t *testing.T) {
	const limit = 16
	extractor := &countingExtractor{}
	handler := SetupRoutes(handlers.NewAPIHandlers(extractor, handlers.Options{APIKeyConfigured: true, MaxBodyBytes: limit}))

	body := &countingBody{remaining: 8 << 20}
	req := httptest.NewRequest(http.MethodPost, ExtractPath, body)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.LessOrEqual(t, body.consumed, limit+1)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, 0, extractor.calls)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Server error: ")
	assert.Contains(t, resp["error"], "request body too large")
}

func TestSetupRoutes_BodyReadFailureIsJSON(t *testing.T) {
	handler, extractor := setup(t)

	req := httptest.NewRequest(http.MethodPost, ExtractPath, brokenBody{})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Error-Type"))
	assert.Equal(t, 0, extractor.calls)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Server error: failed to read request body: connection reset by peer", resp["error"])
}

func TestSetupFunction_MetricsPathLabelsBounded(t *testing.T) {
	monitoring.GetMetrics().Reset()
	t.Cleanup(monitoring.GetMetrics().Reset)

	handler := SetupFunction(handlers.NewAPIHandlers(&countingExtractor{}, handlers.Options{APIKeyConfigured: true}))
	for i := 0; i < 5000; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/x/%d", i), nil))
	}

	stats := monitoring.GetMetrics().GetStats()
	assert.Len(t, stats.PathRequestCounts, 1)
	assert.Equal(t, int64(5000), stats.PathRequestCounts[monitoring.OtherRoute])
}

func TestSetupRoutes_MetricsPathLabelsBounded(t *testing.T) {
	monitoring.GetMetrics().Reset()
	t.Cleanup(monitoring.GetMetrics().Reset)
	handler, _ := setup(t)

	for i := 0; i < 100; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/unknown/%d", i), nil))
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	stats := monitoring.GetMetrics().GetStats()
	assert.Equal(t, int64(100), stats.PathRequestCounts[monitoring.OtherRoute])
	assert.Equal(t, int64(1), stats.PathRequestCounts["/health"])
	assert.Len(t, stats.PathRequestCounts, 2)
}
