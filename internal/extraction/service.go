package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aashari/go-worklist-extractor/internal/gemini"
	"github.com/aashari/go-worklist-extractor/internal/logger"
	"github.com/aashari/go-worklist-extractor/internal/monitoring"
)

var (
	// ErrAPIKeyMissing is returned when no model-service credential is set
	ErrAPIKeyMissing = gemini.ErrAPIKeyMissing

	// ErrUnexpectedResponse means the envelope had no candidate text
	ErrUnexpectedResponse = errors.New("unexpected response shape: no candidate text")
)

// Options tunes output handling
type Options struct {
	// ValidateRecords requires every item to carry the three string fields
	ValidateRecords bool
}

// Result is the model output for one image
type Result struct {
	// Raw is the array exactly as the model produced it, compacted
	Raw json.RawMessage
	// Count is the number of items in Raw
	Count int
}

// Records decodes Raw into typed records
func (r *Result) Records() ([]Record, error) {
	records := []Record{}
	if err := json.Unmarshal(r.Raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

// Service turns one image into worklist records
type Service struct {
	generator gemini.Generator
	validator *outputValidator
}

// NewService creates an extraction service backed by generator
func NewService(generator gemini.Generator, opts Options) (*Service, error) {
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	validator, err := newOutputValidator(opts.ValidateRecords)
	if err != nil {
		return nil, err
	}
	return &Service{generator: generator, validator: validator}, nil
}

// Extract sends the image to the model once and returns the parsed array.
// Errors from the generator are returned unchanged so callers can classify
// them with errors.Is and errors.As.
func (s *Service) Extract(ctx context.Context, base64ImageData string) (*Result, error) {
	ctx = logger.WithComponent(ctx, logger.ComponentNames.ExtractorService)

	logger.DebugCtx(logger.WithStage(ctx, logger.LogStages.Preparation), "Building generation payload",
		"image_data_length", len(base64ImageData),
	)

	resp, err := s.generator.GenerateContent(ctx, BuildRequest(base64ImageData))
	if err != nil {
		return nil, err
	}

	text, ok := resp.FirstText()
	if !ok {
		return nil, ErrUnexpectedResponse
	}

	raw, count, err := s.validator.parse(text)
	if err != nil {
		logger.WarnCtx(logger.WithStage(ctx, logger.LogStages.OutputParsed), "Model output rejected",
			"error", err,
			"output_length", len(text),
		)
		return nil, err
	}

	monitoring.GetMetrics().RecordExtraction(count)
	logger.InfoCtx(logger.WithStage(ctx, logger.LogStages.OutputParsed), "Records extracted",
		"records", count,
	)

	return &Result{Raw: raw, Count: count}, nil
}
