package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtractRequest(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		strict        bool
		expectError   bool
		expectedError string
		expectedData  string
	}{
		{
			name:         "valid request",
			body:         `{"base64ImageData":"/9j/4AAQSkZJRg=="}`,
			expectedData: "/9j/4AAQSkZJRg==",
		},
		{
			name:         "data is trusted as-is outside strict mode",
			body:         `{"base64ImageData":"not base64 at all!"}`,
			expectedData: "not base64 at all!",
		},
		{
			name:         "extra fields are ignored",
			body:         `{"base64ImageData":"abcd","mimeType":"image/png"}`,
			expectedData: "abcd",
		},
		{
			name:          "empty body",
			body:          ``,
			expectError:   true,
			expectedError: "unexpected end of JSON input",
		},
		{
			name:          "malformed json",
			body:          `{"base64ImageData":`,
			expectError:   true,
			expectedError: "unexpected end of JSON input",
		},
		{
			name:          "not json",
			body:          `hello`,
			expectError:   true,
			expectedError: "invalid character 'h' looking for beginning of value",
		},
		{
			name:          "missing field",
			body:          `{"image":"abcd"}`,
			expectError:   true,
			expectedError: "base64ImageData is required",
		},
		{
			name:          "empty field",
			body:          `{"base64ImageData":""}`,
			expectError:   true,
			expectedError: "base64ImageData is required",
		},
		{
			name:          "null body",
			body:          `null`,
			expectError:   true,
			expectedError: "base64ImageData is required",
		},
		{
			name:          "wrong type",
			body:          `{"base64ImageData":42}`,
			expectError:   true,
			expectedError: "cannot unmarshal number",
		},
		{
			name:         "strict accepts base64",
			body:         `{"base64ImageData":"/9j/4AAQSkZJRg=="}`,
			strict:       true,
			expectedData: "/9j/4AAQSkZJRg==",
		},
		{
			name:          "strict rejects non base64",
			body:          `{"base64ImageData":"not base64 at all!"}`,
			strict:        true,
			expectError:   true,
			expectedError: "base64ImageData must be valid base64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseExtractRequest([]byte(tt.body), tt.strict)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, req)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedData, req.Base64ImageData)
		})
	}
}
