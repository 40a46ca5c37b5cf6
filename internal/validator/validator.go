package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ExtractRequest is the inbound body of the extract endpoint
type ExtractRequest struct {
	Base64ImageData string `json:"base64ImageData" validate:"required" example:"/9j/4AAQSkZJRgABAQAAAQABAAD..."`
}

// ParseExtractRequest decodes and validates an extract request body. The
// image data is otherwise trusted as-is; strict mode also requires it to be
// well-formed base64.
func ParseExtractRequest(body []byte, strict bool) (*ExtractRequest, error) {
	var req ExtractRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	if err := validate.Struct(&req); err != nil {
		return nil, formatValidationError(err)
	}

	if strict {
		if err := validate.Var(strings.TrimSpace(req.Base64ImageData), "base64"); err != nil {
			return nil, errors.New("base64ImageData must be valid base64")
		}
	}

	return &req, nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	fe := validationErrors[0]
	field := "base64ImageData"
	if fe.Field() != "Base64ImageData" {
		field = fe.Field()
	}
	if fe.Tag() == "required" {
		return fmt.Errorf("%s is required", field)
	}
	return fmt.Errorf("%s failed '%s' validation", field, fe.Tag())
}
