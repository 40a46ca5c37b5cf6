package gemini

import (
	"errors"
	"fmt"

	"github.com/aashari/go-worklist-extractor/internal/utils"
)

// ErrAPIKeyMissing is returned before any network I/O when no key is set
var ErrAPIKeyMissing = errors.New("gemini API key not configured")

// UpstreamError is a non-2xx answer from the model service. Body is the
// response text exactly as received.
type UpstreamError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini API error [%d]: %s", e.StatusCode, e.Body)
}

// transportError masks the API key in the message of a failed call while
// keeping the cause reachable through errors.Is and errors.As
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return utils.MaskAPIKey(e.err.Error())
}

func (e *transportError) Unwrap() error {
	return e.err
}

// IsUpstreamError reports whether err carries an upstream status
func IsUpstreamError(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}
