package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func captureLogger(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	originalLogger := Logger
	t.Cleanup(func() { Logger = originalLogger })
	Logger = slog.New(NewStructuredJSONHandler(&buf, level, "test-service", "test"))
	return &buf
}

func decodeEntry(t *testing.T, line string) StructuredLogEntry {
	t.Helper()
	var entry StructuredLogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v (%s)", err, line)
	}
	return entry
}

func TestLoggerInitialization(t *testing.T) {
	buf := captureLogger(t, LevelDebug)

	Info("Test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "Test message") {
		t.Errorf("Expected log message not found in output: %s", output)
	}

	logEntry := decodeEntry(t, output)
	if logEntry.Message != "Test message" {
		t.Errorf("Expected message field to be 'Test message', got: %v", logEntry.Message)
	}
	if logEntry.Service != "test-service" {
		t.Errorf("Expected service field to be 'test-service', got: %v", logEntry.Service)
	}
	if logEntry.Environment != "test" {
		t.Errorf("Expected environment field to be 'test', got: %v", logEntry.Environment)
	}
	if logEntry.Attributes["key"] != "value" {
		t.Errorf("Expected attributes.key field to be 'value', got: %v", logEntry.Attributes["key"])
	}
}

func TestContextAwareLogging(t *testing.T) {
	buf := captureLogger(t, LevelDebug)

	ctx := context.WithValue(context.Background(), RequestIDKey, "test-request-123")
	ctx = context.WithValue(ctx, CorrelationIDKey, "corr-456")
	ctx = WithComponent(ctx, ComponentNames.ExtractHandler)
	ctx = WithStage(ctx, LogStages.VendorRequest)

	InfoCtx(ctx, "Test context logging", "operation", "test")

	logEntry := decodeEntry(t, buf.String())
	if logEntry.Request["request_id"] != "test-request-123" {
		t.Errorf("Expected request.request_id in log output: %v", logEntry.Request)
	}
	if logEntry.Request["correlation_id"] != "corr-456" {
		t.Errorf("Expected request.correlation_id in log output: %v", logEntry.Request)
	}
	if logEntry.Component != "ExtractHandler" {
		t.Errorf("Expected component ExtractHandler, got: %v", logEntry.Component)
	}
	if logEntry.Stage != "VendorRequest" {
		t.Errorf("Expected stage VendorRequest, got: %v", logEntry.Stage)
	}
	if logEntry.Attributes["operation"] != "test" {
		t.Errorf("Expected attributes.operation in log output: %v", logEntry.Attributes)
	}
}

func TestSectionRouting(t *testing.T) {
	buf := captureLogger(t, LevelDebug)

	Info("Routed",
		"request_method", "POST",
		"response_status_code", 200,
		"response_duration", 1500*time.Millisecond,
		"error_kind", "upstream",
		"request", map[string]interface{}{"endpoint": "/api/extract-info"},
	)

	logEntry := decodeEntry(t, buf.String())
	if logEntry.Request["method"] != "POST" || logEntry.Request["endpoint"] != "/api/extract-info" {
		t.Errorf("Expected request section fields: %v", logEntry.Request)
	}
	if logEntry.Response["status_code"] != float64(200) {
		t.Errorf("Expected response status_code in response section: %v", logEntry.Response)
	}
	if logEntry.Response["duration"] != float64(1500) {
		t.Errorf("Expected duration serialized as milliseconds: %v", logEntry.Response)
	}
	if logEntry.Error["kind"] != "upstream" {
		t.Errorf("Expected error section field: %v", logEntry.Error)
	}
}

func TestErrorAttributeMasksAPIKey(t *testing.T) {
	buf := captureLogger(t, LevelDebug)

	err := errors.New(`Post "https://generativelanguage.googleapis.com/v1beta/models/m:generateContent?key=AIzaSecret": dial tcp: timeout`)
	Error("Upstream call failed", "error", err)

	output := buf.String()
	if strings.Contains(output, "AIzaSecret") {
		t.Errorf("API key leaked into log output: %s", output)
	}

	logEntry := decodeEntry(t, output)
	if logEntry.Error["type"] != "*errors.errorString" {
		t.Errorf("Expected error type in error section: %v", logEntry.Error)
	}
}

func TestBase64PayloadTruncated(t *testing.T) {
	buf := captureLogger(t, LevelDebug)

	image := strings.Repeat("/9j/", 500)
	Info("Incoming request", "request", map[string]interface{}{
		"body": map[string]interface{}{"base64ImageData": image},
	})

	output := buf.String()
	if strings.Contains(output, image) {
		t.Errorf("Expected base64 image data to be truncated")
	}
	if !strings.Contains(output, "chars truncated") {
		t.Errorf("Expected truncation marker in output: %s", output)
	}
}

func TestLogLevels(t *testing.T) {
	buf := captureLogger(t, LevelWarn)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("Expected messages below WARN to be filtered: %s", output)
	}
	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Errorf("Expected WARN and ERROR messages in output: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"Error":   LevelError,
		"bogus":   LevelInfo,
	}
	for input, expected := range cases {
		if got := ParseLevel(input); got != expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, expected)
		}
	}
}

func TestWithAttrs(t *testing.T) {
	buf := captureLogger(t, LevelDebug)

	Logger.With("component", ComponentNames.GeminiClient).Info("bound")

	logEntry := decodeEntry(t, buf.String())
	if logEntry.Component != "GeminiClient" {
		t.Errorf("Expected component from bound attrs, got: %v", logEntry.Component)
	}
}
