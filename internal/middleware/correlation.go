package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aashari/go-worklist-extractor/internal/logger"
	"github.com/aashari/go-worklist-extractor/internal/utils"
)

// maxLoggedBody caps how much of a response is kept for logging
const maxLoggedBody = 10 * 1024

// TrackingIDSources contains information about where tracking IDs came from
type TrackingIDSources struct {
	RequestIDSource     string `json:"request_id_source"`
	CorrelationIDSource string `json:"correlation_id_source"`
}

// RequestCorrelationMiddleware attaches request and correlation IDs to the
// context and response, then logs the request and its outcome
func RequestCorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, correlationID, sources := extractTrackingIDs(r)

		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := context.WithValue(r.Context(), logger.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, logger.CorrelationIDKey, correlationID)
		logCtx := logger.WithComponent(ctx, logger.ComponentNames.Middleware)

		logger.DebugCtx(logger.WithStage(logCtx, logger.LogStages.TrackingSetup),
			"Generated tracking IDs",
			"request_id_source", sources.RequestIDSource,
			"correlation_id_source", sources.CorrelationIDSource,
		)

		r = r.WithContext(ctx)

		if r.URL.Path == "/health" {
			handleHealthCheck(logCtx, w, r, next)
			return
		}

		handleGeneralRequest(logCtx, w, r, next)
	})
}

// extractTrackingIDs prefers client supplied IDs, then the CloudFlare ray,
// then a generated ID
func extractTrackingIDs(r *http.Request) (requestID, correlationID string, sources TrackingIDSources) {
	if clientRequestID := r.Header.Get(utils.HeaderRequestID); clientRequestID != "" {
		requestID = clientRequestID
		sources.RequestIDSource = "client-x-request-id"
	} else if cfRay := r.Header.Get(utils.HeaderCloudFlareRay); cfRay != "" {
		requestID = cfRay
		sources.RequestIDSource = "cloudflare-ray"
	} else {
		requestID = utils.GenerateRequestID()
		sources.RequestIDSource = "generated"
	}

	if clientCorrelationID := r.Header.Get(utils.HeaderCorrelationID); clientCorrelationID != "" {
		correlationID = clientCorrelationID
		sources.CorrelationIDSource = "client-x-correlation-id"
	} else {
		correlationID = utils.GenerateCorrelationID()
		sources.CorrelationIDSource = "generated-uuid"
	}

	return requestID, correlationID, sources
}

// handleHealthCheck only logs failed health checks
func handleHealthCheck(ctx context.Context, w http.ResponseWriter, r *http.Request, next http.Handler) {
	start := time.Now()
	wrapper := newResponseWriterWrapper(w)

	next.ServeHTTP(wrapper, r)

	if wrapper.statusCode >= http.StatusBadRequest {
		logger.ErrorCtx(logger.WithStage(ctx, logger.LogStages.HealthCheck),
			"Health check failed",
			"response", map[string]interface{}{
				"status_code": wrapper.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
				"body":        wrapper.body.String(),
			},
		)
	}
}

func handleGeneralRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, next http.Handler) {
	start := time.Now()

	var bodyBytes []byte
	var readErr error
	if r.Body != nil {
		bodyBytes, readErr = io.ReadAll(r.Body)
		r.Body.Close()
		if readErr != nil {
			logger.WarnCtx(logger.WithStage(ctx, logger.LogStages.RequestFailed),
				"Failed to read request body",
				"error", readErr,
				"bytes_read", len(bodyBytes),
			)
			// the handler sees the same failure and answers it
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(bodyBytes), failedBody{err: readErr}))
		} else {
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	logStructuredRequest(ctx, r, bodyBytes, readErr == nil)

	wrapper := newResponseWriterWrapper(w)
	next.ServeHTTP(wrapper, r)

	logStructuredResponse(ctx, wrapper, time.Since(start))
}

// failedBody replays a body read error
type failedBody struct {
	err error
}

func (b failedBody) Read([]byte) (int, error) {
	return 0, b.err
}

// logStructuredRequest logs the incoming request; image data is truncated
func logStructuredRequest(ctx context.Context, r *http.Request, body []byte, complete bool) {
	requestData := map[string]interface{}{
		"method":     r.Method,
		"endpoint":   r.URL.Path,
		"user_agent": r.Header.Get(utils.HeaderUserAgent),
		"client_ip":  getClientIP(r),
		"headers":    utils.SanitizeHeaders(r.Header),
		"body_bytes": len(body),
	}

	if !complete {
		requestData["body"] = "Incomplete body omitted"
	} else if len(body) > 0 {
		var bodyData interface{}
		if err := json.Unmarshal(body, &bodyData); err == nil {
			requestData["body"] = utils.TruncateBase64InData(bodyData)
		} else {
			requestData["body"] = "Non-JSON body omitted"
		}
	}

	logger.InfoCtx(logger.WithStage(ctx, logger.LogStages.RequestReceived),
		"Incoming request",
		"request", requestData,
	)
}

// logStructuredResponse logs the outcome. Successful bodies hold patient
// data and are never logged.
func logStructuredResponse(ctx context.Context, w *responseWriterWrapper, duration time.Duration) {
	responseData := map[string]interface{}{
		"status_code":    w.statusCode,
		"duration_ms":    duration.Milliseconds(),
		"content_length": w.written,
		"headers":        utils.SanitizeHeaders(w.Header()),
	}

	stage := logger.LogStages.RequestCompleted
	if w.statusCode >= http.StatusBadRequest {
		stage = logger.LogStages.RequestFailed
		var bodyData interface{}
		if err := json.Unmarshal(w.body.Bytes(), &bodyData); err == nil {
			responseData["body"] = bodyData
		}
	}

	logger.InfoCtx(logger.WithStage(ctx, stage),
		"Request completed",
		"response", responseData,
	)
}

// getClientIP extracts client IP with priority cascade
func getClientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get(utils.HeaderXForwardedFor); forwardedFor != "" {
		return strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}
	if realIP := r.Header.Get(utils.HeaderXRealIP); realIP != "" {
		return realIP
	}
	if cfIP := r.Header.Get(utils.HeaderCFConnectingIP); cfIP != "" {
		return cfIP
	}
	return r.RemoteAddr
}

// responseWriterWrapper writes through and keeps a bounded copy for logging
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	body        *bytes.Buffer
	written     int
	wroteHeader bool
}

func newResponseWriterWrapper(w http.ResponseWriter) *responseWriterWrapper {
	return &responseWriterWrapper{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		body:           &bytes.Buffer{},
	}
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
	if remaining := maxLoggedBody - w.body.Len(); remaining > 0 {
		if len(data) < remaining {
			remaining = len(data)
		}
		w.body.Write(data[:remaining])
	}
	n, err := w.ResponseWriter.Write(data)
	w.written += n
	return n, err
}

// Flush implements http.Flusher
func (w *responseWriterWrapper) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Header constants
const (
	RequestIDHeader     = utils.HeaderRequestID
	CorrelationIDHeader = utils.HeaderCorrelationID
)
