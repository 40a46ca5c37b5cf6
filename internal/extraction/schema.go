package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const arraySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array"
}`

const recordsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "patientName": {"type": "string"},
      "accessionID": {"type": "string"},
      "modalityStudy": {"type": "string"}
    },
    "required": ["patientName", "accessionID", "modalityStudy"]
  }
}`

// outputValidator checks the model's text before it is returned
type outputValidator struct {
	schema *jsonschema.Schema
}

func newOutputValidator(validateRecords bool) (*outputValidator, error) {
	source := arraySchema
	if validateRecords {
		source = recordsSchema
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("records.json", strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("failed to load output schema: %w", err)
	}
	schema, err := compiler.Compile("records.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile output schema: %w", err)
	}
	return &outputValidator{schema: schema}, nil
}

// parse decodes text as JSON, validates it and returns it compacted
func (v *outputValidator) parse(text string) (json.RawMessage, int, error) {
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()

	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("failed to parse model output: %w", err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, 0, fmt.Errorf("failed to parse model output: unexpected data after JSON value")
	}

	if err := v.schema.Validate(doc); err != nil {
		return nil, 0, fmt.Errorf("model output does not match schema: %w", err)
	}

	var compacted bytes.Buffer
	if err := json.Compact(&compacted, []byte(strings.TrimSpace(text))); err != nil {
		return nil, 0, fmt.Errorf("failed to parse model output: %w", err)
	}

	count := 0
	if items, ok := doc.([]any); ok {
		count = len(items)
	}
	return compacted.Bytes(), count, nil
}
