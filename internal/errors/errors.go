package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/aashari/go-worklist-extractor/internal/logger"
	"github.com/aashari/go-worklist-extractor/internal/utils"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	ErrorTypeValidation       ErrorType = "validation_error"
	ErrorTypeConfiguration    ErrorType = "configuration_error"
	ErrorTypeExternal         ErrorType = "external_error"
	ErrorTypeInternal         ErrorType = "internal_error"
)

// Fixed client-facing messages
const (
	MessageMethodNotAllowed = "Method Not Allowed"
	MessageAPIKeyMissing    = "API key not configured."
	prefixUpstream          = "API request failed: "
	prefixServer            = "Server error: "
	prefixInvalidRequest    = "Invalid request: "
)

// APIError is an error that knows how it should be rendered over HTTP
type APIError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As
func (e *APIError) Unwrap() error {
	return e.Cause
}

// ErrorResponse is the JSON body written for every error
type ErrorResponse struct {
	Error string `json:"error" example:"Server error: unexpected end of JSON input"`
}

// NewAPIError creates a new APIError
func NewAPIError(errorType ErrorType, message string, statusCode int) *APIError {
	return &APIError{
		Type:       errorType,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewMethodNotAllowedError rejects anything but POST
func NewMethodNotAllowedError() *APIError {
	return NewAPIError(ErrorTypeMethodNotAllowed, MessageMethodNotAllowed, http.StatusMethodNotAllowed)
}

// NewConfigurationError reports a missing model-service credential
func NewConfigurationError(cause error) *APIError {
	e := NewAPIError(ErrorTypeConfiguration, MessageAPIKeyMissing, http.StatusInternalServerError)
	e.Cause = cause
	return e
}

// NewExternalError propagates the upstream status and its raw error text
func NewExternalError(statusCode int, upstreamText string, cause error) *APIError {
	if statusCode < 100 || statusCode > 999 {
		statusCode = http.StatusBadGateway
	}
	e := NewAPIError(ErrorTypeExternal, prefixUpstream+upstreamText, statusCode)
	e.Cause = cause
	return e
}

// NewRedactedExternalError keeps the upstream status but hides its body
func NewRedactedExternalError(statusCode int, cause error) *APIError {
	e := NewExternalError(statusCode, "", cause)
	e.Message = prefixUpstream + http.StatusText(e.StatusCode)
	return e
}

// NewInternalError wraps anything unclassified as a generic server error
func NewInternalError(cause error) *APIError {
	e := NewAPIError(ErrorTypeInternal, prefixServer+causeMessage(cause), http.StatusInternalServerError)
	e.Cause = cause
	return e
}

// NewValidationError reports a malformed inbound request. Unless strict,
// it is rendered exactly like an internal error.
func NewValidationError(cause error, strict bool) *APIError {
	if !strict {
		e := NewInternalError(cause)
		e.Type = ErrorTypeValidation
		return e
	}
	e := NewAPIError(ErrorTypeValidation, prefixInvalidRequest+causeMessage(cause), http.StatusBadRequest)
	e.Cause = cause
	return e
}

func causeMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return utils.MaskAPIKey(err.Error())
}

// HandleError writes a {"error": "..."} response for err. Errors that are not
// *APIError are treated as internal.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var apiError *APIError
	if !stderrors.As(err, &apiError) {
		apiError = NewInternalError(err)
	}

	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	w.Header().Set(utils.HeaderErrorType, string(apiError.Type))
	w.WriteHeader(apiError.StatusCode)

	body, jsonErr := json.Marshal(ErrorResponse{Error: apiError.Message})
	if jsonErr != nil {
		logger.Error("Error marshaling error response", "error", jsonErr)
		body = []byte(`{"error":"Server error"}`)
	}
	_, _ = w.Write(body)

	ctx := logger.WithComponent(r.Context(), logger.ComponentNames.ErrorHandler)
	ctx = logger.WithStage(ctx, logger.LogStages.RequestFailed)
	args := []any{
		"status_code", apiError.StatusCode,
		"error_type", string(apiError.Type),
		"error_message", apiError.Message,
	}
	if apiError.Cause != nil {
		args = append(args, "error", apiError.Cause)
	}
	if apiError.StatusCode >= http.StatusInternalServerError {
		logger.ErrorCtx(ctx, "Function error", args...)
	} else {
		logger.WarnCtx(ctx, "Request rejected", args...)
	}
}
