package helpers

// Common request/response shapes used across the integration tests

// HealthResponse represents the health endpoint response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Services  map[string]string      `json:"services"`
	Details   map[string]interface{} `json:"details"`
}

// ExtractRequest is the body accepted by the extract endpoint
type ExtractRequest struct {
	Base64ImageData string `json:"base64ImageData"`
}

// Record is one worklist entry returned by the extract endpoint
type Record struct {
	PatientName   string `json:"patientName"`
	AccessionID   string `json:"accessionID"`
	ModalityStudy string `json:"modalityStudy"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerateContentEnvelope mirrors the subset of the model response the service reads
type GenerateContentEnvelope struct {
	Candidates []EnvelopeCandidate `json:"candidates"`
}

// EnvelopeCandidate is one generated candidate
type EnvelopeCandidate struct {
	Content EnvelopeContent `json:"content"`
}

// EnvelopeContent holds the generated parts
type EnvelopeContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []EnvelopePart `json:"parts"`
}

// EnvelopePart is a single generated text part
type EnvelopePart struct {
	Text string `json:"text"`
}
