package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// GeminiStub is an in-process stand-in for the generateContent endpoint
type GeminiStub struct {
	server *httptest.Server

	mu       sync.Mutex
	calls    int
	status   int
	body     string
	requests [][]byte
	paths    []string
}

// NewGeminiStub starts a stub answering every call with status and body
func NewGeminiStub(t *testing.T, status int, body string) *GeminiStub {
	t.Helper()
	stub := &GeminiStub{status: status, body: body}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.serve))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *GeminiStub) serve(w http.ResponseWriter, r *http.Request) {
	payload, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.calls++
	s.requests = append(s.requests, payload)
	s.paths = append(s.paths, r.URL.Path)
	status, body := s.status, s.body
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// URL returns the base URL to configure as the model endpoint
func (s *GeminiStub) URL() string {
	return s.server.URL + "/v1beta"
}

// SetResponse changes what subsequent calls receive
func (s *GeminiStub) SetResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = body
}

// Calls reports how many requests reached the stub
func (s *GeminiStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LastRequest returns the last payload decoded into a generic map
func (s *GeminiStub) LastRequest(t *testing.T) map[string]interface{} {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		t.Fatal("no request reached the model stub")
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(s.requests[len(s.requests)-1], &payload); err != nil {
		t.Fatalf("model stub received invalid JSON: %v", err)
	}
	return payload
}

// LastPath returns the path of the last request
func (s *GeminiStub) LastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.paths) == 0 {
		return ""
	}
	return s.paths[len(s.paths)-1]
}

// Envelope wraps text the way generateContent returns it
func Envelope(text string) string {
	data, _ := json.Marshal(GenerateContentEnvelope{
		Candidates: []EnvelopeCandidate{{
			Content: EnvelopeContent{Role: "model", Parts: []EnvelopePart{{Text: text}}},
		}},
	})
	return string(data)
}
