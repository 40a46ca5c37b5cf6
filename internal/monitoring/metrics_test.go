package monitoring

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordRequest(t *testing.T) {
	metrics := NewMetrics()

	metrics.RecordRequest(100*time.Millisecond, 200, "/api/extract-info")

	assert.Equal(t, int64(1), metrics.RequestCount)
	assert.Equal(t, 100*time.Millisecond, metrics.RequestDuration)
	assert.Equal(t, int64(0), metrics.ErrorCount)
	assert.Equal(t, int64(1), metrics.PathRequestCounts["/api/extract-info"])
	assert.Equal(t, int64(1), metrics.StatusCodeCounts[200])

	metrics.RecordRequest(50*time.Millisecond, 500, "/api/extract-info")

	assert.Equal(t, int64(2), metrics.RequestCount)
	assert.Equal(t, 150*time.Millisecond, metrics.RequestDuration)
	assert.Equal(t, int64(1), metrics.ErrorCount)
	assert.Equal(t, int64(2), metrics.PathRequestCounts["/api/extract-info"])
	assert.Equal(t, int64(1), metrics.StatusCodeCounts[500])
}

func TestMetrics_RecordUpstreamAndExtraction(t *testing.T) {
	metrics := NewMetrics()

	metrics.RecordUpstream(200, 300*time.Millisecond)
	metrics.RecordUpstream(429, 100*time.Millisecond)
	metrics.RecordExtraction(3)
	metrics.RecordExtraction(0)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.UpstreamRequests)
	assert.Equal(t, int64(200), stats.UpstreamAverageDuration)
	assert.Equal(t, int64(1), stats.UpstreamStatusCounts[429])
	assert.Equal(t, int64(2), stats.Extractions)
	assert.Equal(t, int64(3), stats.RecordsExtracted)
}

func TestMetrics_GetStatsEmpty(t *testing.T) {
	stats := NewMetrics().GetStats()

	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Equal(t, float64(0), stats.ErrorRate)
	assert.Equal(t, int64(0), stats.AverageDurationMs)
	assert.NotEmpty(t, stats.StartTime)
}

func TestMetrics_Reset(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordRequest(time.Millisecond, 404, "/missing")
	metrics.RecordUpstream(500, time.Millisecond)
	metrics.RecordExtraction(2)

	metrics.Reset()

	stats := metrics.GetStats()
	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Equal(t, int64(0), stats.TotalErrors)
	assert.Empty(t, stats.StatusCodeCounts)
	assert.Empty(t, stats.UpstreamStatusCounts)
	assert.Equal(t, int64(0), stats.RecordsExtracted)
}

type headerCountingWriter struct {
	*httptest.ResponseRecorder
	headerWrites int
}

func (w *headerCountingWriter) WriteHeader(statusCode int) {
	w.headerWrites++
	w.ResponseRecorder.WriteHeader(statusCode)
}

func TestMetricsMiddleware(t *testing.T) {
	GetMetrics().Reset()
	t.Cleanup(GetMetrics().Reset)

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.WriteHeader(http.StatusOK)
	}), "/api/extract-info")

	req := httptest.NewRequest(http.MethodGet, "/api/extract-info", nil)
	rr := &headerCountingWriter{ResponseRecorder: httptest.NewRecorder()}
	handler.ServeHTTP(rr, req)

	assert.Equal(t, 1, rr.headerWrites, "only the first status should reach the client")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	stats := GetMetrics().GetStats()
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.StatusCodeCounts[http.StatusMethodNotAllowed])
	assert.Equal(t, int64(1), stats.PathRequestCounts["/api/extract-info"])
}

func TestMetricsMiddlewareBoundsPathLabels(t *testing.T) {
	GetMetrics().Reset()
	t.Cleanup(GetMetrics().Reset)

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), "/health", "/swagger/")

	for i := 0; i < 500; i++ {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/x/%d", i), nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	for _, path := range []string{"/health", "/swagger/index.html", "/swagger/doc.json"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	stats := GetMetrics().GetStats()
	assert.Len(t, stats.PathRequestCounts, 3)
	assert.Equal(t, int64(500), stats.PathRequestCounts[OtherRoute])
	assert.Equal(t, int64(1), stats.PathRequestCounts["/health"])
	assert.Equal(t, int64(2), stats.PathRequestCounts["/swagger/"])
}

func TestMetricsMiddlewareWithoutRoutes(t *testing.T) {
	GetMetrics().Reset()
	t.Cleanup(GetMetrics().Reset)

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/anything", nil))

	stats := GetMetrics().GetStats()
	assert.Equal(t, map[string]int64{OtherRoute: 1}, stats.PathRequestCounts)
}

func TestMetricsHandler(t *testing.T) {
	GetMetrics().Reset()
	t.Cleanup(GetMetrics().Reset)
	GetMetrics().RecordExtraction(4)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	MetricsHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(4), body["records_extracted"])
	assert.Contains(t, body, "uptime_seconds")
	assert.Contains(t, body, "upstream_status_code_counts")
}
