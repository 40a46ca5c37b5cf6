package lambda

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/aashari/go-worklist-extractor/internal/logger"
)

// Adapter runs an http.Handler behind API Gateway proxy events
type Adapter struct {
	handler http.Handler
}

// NewAdapter wraps handler
func NewAdapter(handler http.Handler) *Adapter {
	return &Adapter{handler: handler}
}

// Handle converts the event into a request, serves it and converts the
// recorded response back. Handler failures are already HTTP responses, so
// the returned error is only set when the event itself is unusable.
func (a *Adapter) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := toHTTPRequest(ctx, event)
	if err != nil {
		logger.ErrorCtx(logger.WithComponent(ctx, logger.ComponentNames.Lambda), "Failed to convert gateway event",
			"error", err,
			"http_method", event.HTTPMethod,
			"path", event.Path,
		)
		return events.APIGatewayProxyResponse{}, err
	}

	rec := newResponseRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec.toProxyResponse(), nil
}

func toHTTPRequest(ctx context.Context, event events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded && event.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 event body: %w", err)
		}
		body = decoded
	}

	path := event.Path
	if path == "" {
		path = "/"
	}

	query := url.Values{}
	for key, values := range event.MultiValueQueryStringParameters {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	for key, value := range event.QueryStringParameters {
		if _, ok := query[key]; !ok {
			query.Set(key, value)
		}
	}

	u := &url.URL{Path: path, RawQuery: query.Encode()}

	method := event.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for key, values := range event.MultiValueHeaders {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	for key, value := range event.Headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	req.RequestURI = u.RequestURI()
	req.RemoteAddr = event.RequestContext.Identity.SourceIP
	if event.RequestContext.RequestID != "" && req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", event.RequestContext.RequestID)
	}

	return req, nil
}

// responseRecorder buffers a handler's response in memory
type responseRecorder struct {
	header      http.Header
	body        bytes.Buffer
	statusCode  int
	wroteHeader bool
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: http.Header{}, statusCode: http.StatusOK}
}

func (r *responseRecorder) Header() http.Header {
	return r.header
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.statusCode = statusCode
	r.wroteHeader = true
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(data)
}

func (r *responseRecorder) toProxyResponse() events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(r.header))
	multi := make(map[string][]string, len(r.header))
	for key, values := range r.header {
		if len(values) == 0 {
			continue
		}
		headers[key] = values[0]
		multi[key] = append([]string(nil), values...)
	}

	return events.APIGatewayProxyResponse{
		StatusCode:        r.statusCode,
		Headers:           headers,
		MultiValueHeaders: multi,
		Body:              r.body.String(),
	}
}
