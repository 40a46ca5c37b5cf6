package monitoring

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aashari/go-worklist-extractor/internal/logger"
	"github.com/aashari/go-worklist-extractor/internal/utils"
)

// Metrics holds application metrics
type Metrics struct {
	mu                   sync.RWMutex
	RequestCount         int64
	RequestDuration      time.Duration
	ErrorCount           int64
	StatusCodeCounts     map[int]int64
	PathRequestCounts    map[string]int64
	UpstreamRequestCount int64
	UpstreamDuration     time.Duration
	UpstreamStatusCounts map[int]int64
	ExtractionCount      int64
	RecordsExtracted     int64
	StartTime            time.Time
}

// NewMetrics creates an empty metrics set
func NewMetrics() *Metrics {
	return &Metrics{
		StatusCodeCounts:     make(map[int]int64),
		PathRequestCounts:    make(map[string]int64),
		UpstreamStatusCounts: make(map[int]int64),
		StartTime:            time.Now(),
	}
}

var globalMetrics = NewMetrics()

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records an inbound request with its duration and status
func (m *Metrics) RecordRequest(duration time.Duration, statusCode int, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount++
	m.RequestDuration += duration
	m.StatusCodeCounts[statusCode]++
	if path != "" {
		m.PathRequestCounts[path]++
	}
	if statusCode >= 400 {
		m.ErrorCount++
	}
}

// RecordUpstream records one call to the model service
func (m *Metrics) RecordUpstream(statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpstreamRequestCount++
	m.UpstreamDuration += duration
	m.UpstreamStatusCounts[statusCode]++
}

// RecordExtraction records a successful extraction and its record count
func (m *Metrics) RecordExtraction(records int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExtractionCount++
	m.RecordsExtracted += int64(records)
}

// Stats is the JSON view served on /metrics
type Stats struct {
	UptimeSeconds           float64          `json:"uptime_seconds"`
	TotalRequests           int64            `json:"total_requests"`
	TotalErrors             int64            `json:"total_errors"`
	AverageDurationMs       int64            `json:"average_duration_ms"`
	RequestsPerSecond       float64          `json:"requests_per_second"`
	ErrorRate               float64          `json:"error_rate"`
	StatusCodeCounts        map[int]int64    `json:"status_code_counts"`
	PathRequestCounts       map[string]int64 `json:"path_requests"`
	UpstreamRequests        int64            `json:"upstream_requests"`
	UpstreamAverageDuration int64            `json:"upstream_average_duration_ms"`
	UpstreamStatusCounts    map[int]int64    `json:"upstream_status_code_counts"`
	Extractions             int64            `json:"extractions"`
	RecordsExtracted        int64            `json:"records_extracted"`
	StartTime               string           `json:"start_time"`
}

// GetStats returns a consistent snapshot of the counters
func (m *Metrics) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uptime := time.Since(m.StartTime)
	stats := Stats{
		UptimeSeconds:        uptime.Seconds(),
		TotalRequests:        m.RequestCount,
		TotalErrors:          m.ErrorCount,
		StatusCodeCounts:     copyIntCounts(m.StatusCodeCounts),
		PathRequestCounts:    make(map[string]int64, len(m.PathRequestCounts)),
		UpstreamRequests:     m.UpstreamRequestCount,
		UpstreamStatusCounts: copyIntCounts(m.UpstreamStatusCounts),
		Extractions:          m.ExtractionCount,
		RecordsExtracted:     m.RecordsExtracted,
		StartTime:            m.StartTime.Format(time.RFC3339),
	}
	for k, v := range m.PathRequestCounts {
		stats.PathRequestCounts[k] = v
	}

	if m.RequestCount > 0 {
		stats.AverageDurationMs = (m.RequestDuration / time.Duration(m.RequestCount)).Milliseconds()
		stats.ErrorRate = float64(m.ErrorCount) / float64(m.RequestCount)
	}
	if uptime > 0 {
		stats.RequestsPerSecond = float64(m.RequestCount) / uptime.Seconds()
	}
	if m.UpstreamRequestCount > 0 {
		stats.UpstreamAverageDuration = (m.UpstreamDuration / time.Duration(m.UpstreamRequestCount)).Milliseconds()
	}

	return stats
}

func copyIntCounts(src map[int]int64) map[int]int64 {
	dst := make(map[int]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestCount = 0
	m.RequestDuration = 0
	m.ErrorCount = 0
	m.StatusCodeCounts = make(map[int]int64)
	m.PathRequestCounts = make(map[string]int64)
	m.UpstreamRequestCount = 0
	m.UpstreamDuration = 0
	m.UpstreamStatusCounts = make(map[int]int64)
	m.ExtractionCount = 0
	m.RecordsExtracted = 0
	m.StartTime = time.Now()
}

// OtherRoute is the path label for requests outside the known routes
const OtherRoute = "other"

// MetricsMiddleware wraps HTTP handlers to collect metrics. Requests are
// counted per route: a path equal to one of routes, or under one ending in
// "/", is counted under that route and everything else under OtherRoute.
func MetricsMiddleware(next http.Handler, routes ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		route := routeLabel(r.URL.Path, routes)
		globalMetrics.RecordRequest(duration, wrapper.statusCode, route)

		logger.DebugCtx(logger.WithComponent(r.Context(), logger.ComponentNames.Middleware), "Request metrics recorded",
			"method", r.Method,
			"route", route,
			"status_code", wrapper.statusCode,
			"duration_ms", duration.Milliseconds(),
		)
	})
}

func routeLabel(path string, routes []string) string {
	for _, route := range routes {
		if path == route {
			return route
		}
		if strings.HasSuffix(route, "/") && strings.HasPrefix(path, route) {
			return route
		}
	}
	return OtherRoute
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.statusCode = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

// MetricsHandler returns current metrics as JSON
//
//	@Summary		Service metrics
//	@Description	In-process request, upstream and extraction counters
//	@Tags			monitoring
//	@Produce		json
//	@Success		200	{object}	monitoring.Stats
//	@Router			/metrics [get]
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	w.Header().Set(utils.HeaderCacheControl, utils.CacheControlNoStore)
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(globalMetrics.GetStats()); err != nil {
		logger.Error("Failed to encode metrics", "error", err)
	}
}
