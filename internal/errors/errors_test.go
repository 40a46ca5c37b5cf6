package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorImplementsError(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := NewInternalError(cause)

	var _ error = err
	assert.Equal(t, "Server error: boom", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name           string
		err            *APIError
		expectedType   ErrorType
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "method_not_allowed",
			err:            NewMethodNotAllowedError(),
			expectedType:   ErrorTypeMethodNotAllowed,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedMsg:    "Method Not Allowed",
		},
		{
			name:           "configuration",
			err:            NewConfigurationError(nil),
			expectedType:   ErrorTypeConfiguration,
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "API key not configured.",
		},
		{
			name:           "external",
			err:            NewExternalError(http.StatusTooManyRequests, `{"error":{"code":429}}`, nil),
			expectedType:   ErrorTypeExternal,
			expectedStatus: http.StatusTooManyRequests,
			expectedMsg:    `API request failed: {"error":{"code":429}}`,
		},
		{
			name:           "external_invalid_status",
			err:            NewExternalError(0, "nope", nil),
			expectedType:   ErrorTypeExternal,
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    "API request failed: nope",
		},
		{
			name:           "external_redacted",
			err:            NewRedactedExternalError(http.StatusForbidden, nil),
			expectedType:   ErrorTypeExternal,
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "API request failed: Forbidden",
		},
		{
			name:           "internal",
			err:            NewInternalError(fmt.Errorf("unexpected end of JSON input")),
			expectedType:   ErrorTypeInternal,
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Server error: unexpected end of JSON input",
		},
		{
			name:           "validation_legacy",
			err:            NewValidationError(fmt.Errorf("bad body"), false),
			expectedType:   ErrorTypeValidation,
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Server error: bad body",
		},
		{
			name:           "validation_strict",
			err:            NewValidationError(fmt.Errorf("bad body"), true),
			expectedType:   ErrorTypeValidation,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request: bad body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedType, tt.err.Type)
			assert.Equal(t, tt.expectedStatus, tt.err.StatusCode)
			assert.Equal(t, tt.expectedMsg, tt.err.Message)
		})
	}
}

func TestInternalErrorMasksAPIKey(t *testing.T) {
	err := NewInternalError(fmt.Errorf(`Post "https://host/models/m:generateContent?key=SECRET": EOF`))
	assert.NotContains(t, err.Message, "SECRET")
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		{
			name:           "api_error",
			err:            NewMethodNotAllowedError(),
			expectedStatus: http.StatusMethodNotAllowed,
			expectedType:   "method_not_allowed",
			expectedBody:   "Method Not Allowed",
		},
		{
			name:           "wrapped_api_error",
			err:            fmt.Errorf("handler: %w", NewConfigurationError(nil)),
			expectedStatus: http.StatusInternalServerError,
			expectedType:   "configuration_error",
			expectedBody:   "API key not configured.",
		},
		{
			name:           "plain_error",
			err:            fmt.Errorf("something broke"),
			expectedStatus: http.StatusInternalServerError,
			expectedType:   "internal_error",
			expectedBody:   "Server error: something broke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/extract-info", nil)

			HandleError(w, r, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedType, w.Header().Get("X-Error-Type"))

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Len(t, response, 1)
			assert.Equal(t, tt.expectedBody, response["error"])
		})
	}
}
