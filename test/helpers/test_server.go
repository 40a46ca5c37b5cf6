package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aashari/go-worklist-extractor/internal/app"
	"github.com/aashari/go-worklist-extractor/internal/config"
	"github.com/aashari/go-worklist-extractor/internal/logger"
)

// TestServer runs the full application against a model stub
type TestServer struct {
	server     *httptest.Server
	app        *app.App
	upstream   *GeminiStub
	baseURL    string
	httpClient *http.Client
	t          *testing.T
}

// TestConfig holds configuration for test server setup
type TestConfig struct {
	Timeout              time.Duration
	ServiceName          string
	APIKey               string
	StrictErrors         bool
	RedactUpstreamErrors bool
	MaxBodyBytes         int64
	// UpstreamStatus and UpstreamBody seed the model stub
	UpstreamStatus int
	UpstreamBody   string
}

// DefaultTestConfig returns a configured server whose model returns one record
func DefaultTestConfig() TestConfig {
	return TestConfig{
		Timeout:        10 * time.Second,
		ServiceName:    "worklist-extractor-test",
		APIKey:         "test-api-key",
		UpstreamStatus: http.StatusOK,
		UpstreamBody:   Envelope(`[{"patientName":"John Doe","accessionID":"AB123","modalityStudy":"CT Chest"}]`),
	}
}

// NewTestServer wires the application exactly as the server command does
func NewTestServer(t *testing.T, testConfig TestConfig) *TestServer {
	t.Helper()

	if err := logger.Init(logger.Config{
		Level:       logger.LevelWarn,
		Format:      "json",
		Output:      "stderr",
		ServiceName: testConfig.ServiceName,
		Environment: "test",
	}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	upstream := NewGeminiStub(t, testConfig.UpstreamStatus, testConfig.UpstreamBody)

	cfg := config.DefaultConfig()
	cfg.Gemini.BaseURL = upstream.URL()
	cfg.Gemini.APIKey = testConfig.APIKey
	cfg.Extraction.StrictErrors = testConfig.StrictErrors
	cfg.Extraction.RedactUpstreamErrors = testConfig.RedactUpstreamErrors
	cfg.Extraction.MaxBodyBytes = testConfig.MaxBodyBytes

	application, err := app.NewApp(cfg)
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}

	server := httptest.NewServer(application.SetupRoutes())
	t.Cleanup(server.Close)

	return &TestServer{
		server:     server,
		app:        application,
		upstream:   upstream,
		baseURL:    server.URL,
		httpClient: &http.Client{Timeout: testConfig.Timeout},
		t:          t,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.server != nil {
		ts.server.Close()
	}
}

// URL returns the base URL of the test server
func (ts *TestServer) URL() string {
	return ts.baseURL
}

// App returns the application instance
func (ts *TestServer) App() *app.App {
	return ts.app
}

// Upstream returns the model stub behind the server
func (ts *TestServer) Upstream() *GeminiStub {
	return ts.upstream
}

// MakeRequest sends body as JSON, or as-is when it is already a string or []byte
func (ts *TestServer) MakeRequest(method, endpoint string, body interface{}, headers map[string]string) (*http.Response, []byte, error) {
	var reqBody io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = bytes.NewBufferString(b)
	case []byte:
		reqBody = bytes.NewBuffer(b)
	default:
		jsonBody, err := json.Marshal(b)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp, respBody, nil
}

// Extract posts an image to the primary extract endpoint
func (ts *TestServer) Extract(base64ImageData string) (*http.Response, []byte, error) {
	return ts.MakeRequest(http.MethodPost, "/api/extract-info", ExtractRequest{Base64ImageData: base64ImageData}, nil)
}

// AssertStatusCode asserts that the response has the expected status code
func (ts *TestServer) AssertStatusCode(resp *http.Response, expected int) {
	ts.t.Helper()
	if resp.StatusCode != expected {
		ts.t.Errorf("Expected status code %d, got %d", expected, resp.StatusCode)
	}
}

// AssertJSONResponse asserts that the response body is valid JSON and unmarshals it
func (ts *TestServer) AssertJSONResponse(body []byte, target interface{}) {
	ts.t.Helper()
	if err := json.Unmarshal(body, target); err != nil {
		ts.t.Fatalf("Failed to parse JSON response: %v\nBody: %s", err, string(body))
	}
}

// AssertError asserts the status code and the exact error message
func (ts *TestServer) AssertError(resp *http.Response, body []byte, status int, message string) {
	ts.t.Helper()
	ts.AssertStatusCode(resp, status)
	var errResp ErrorResponse
	ts.AssertJSONResponse(body, &errResp)
	if errResp.Error != message {
		ts.t.Errorf("Expected error %q, got %q", message, errResp.Error)
	}
}
