package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apierrors "github.com/aashari/go-worklist-extractor/internal/errors"
	"github.com/aashari/go-worklist-extractor/internal/extraction"
	"github.com/aashari/go-worklist-extractor/internal/gemini"
	"github.com/aashari/go-worklist-extractor/internal/health"
	"github.com/aashari/go-worklist-extractor/internal/logger"
	"github.com/aashari/go-worklist-extractor/internal/utils"
	"github.com/aashari/go-worklist-extractor/internal/validator"
)

// startTime tracks when the application started
var startTime = time.Now()

// Extractor turns a base64 image into records
type Extractor interface {
	Extract(ctx context.Context, base64ImageData string) (*extraction.Result, error)
}

// Options controls the error surface of the extract endpoint
type Options struct {
	Version              string
	Model                string
	APIKeyConfigured     bool
	StrictErrors         bool
	RedactUpstreamErrors bool
	MaxBodyBytes         int64
}

// APIHandlers contains the dependencies needed for API handlers
type APIHandlers struct {
	Extractor Extractor
	opts      Options
}

// NewAPIHandlers creates a new APIHandlers instance
func NewAPIHandlers(extractor Extractor, opts Options) *APIHandlers {
	if opts.Version == "" {
		opts.Version = "unknown"
	}
	return &APIHandlers{
		Extractor: extractor,
		opts:      opts,
	}
}

// MaxBodyBytes is the configured request body cap, 0 when unlimited
func (h *APIHandlers) MaxBodyBytes() int64 {
	return h.opts.MaxBodyBytes
}

// ExtractHandler reads worklist records from a base64 JPEG
//
//	@Summary		Extract worklist records
//	@Description	Sends the image to the model service once and returns every patient record it finds
//	@Tags			extraction
//	@Accept			json
//	@Produce		json
//	@Param			request	body		validator.ExtractRequest	true	"Base64 encoded JPEG"
//	@Success		200		{array}		extraction.Record			"Extracted records, possibly empty"
//	@Failure		405		{object}	errors.ErrorResponse		"Method Not Allowed"
//	@Failure		500		{object}	errors.ErrorResponse		"Configuration or server error"
//	@Failure		default	{object}	errors.ErrorResponse		"Upstream status propagated with its raw error text"
//	@Router			/api/extract-info [post]
func (h *APIHandlers) ExtractHandler(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithComponent(r.Context(), logger.ComponentNames.ExtractHandler)

	if r.Method != http.MethodPost {
		apierrors.HandleError(w, r, apierrors.NewMethodNotAllowedError())
		return
	}

	logger.InfoCtx(logger.WithStage(ctx, logger.LogStages.RequestReceived), "Extraction request received",
		"content_length", r.ContentLength,
	)

	body, err := h.readBody(w, r)
	if err != nil {
		apierrors.HandleError(w, r, apierrors.NewValidationError(err, h.opts.StrictErrors))
		return
	}

	req, err := validator.ParseExtractRequest(body, h.opts.StrictErrors)
	if err != nil {
		apierrors.HandleError(w, r, apierrors.NewValidationError(err, h.opts.StrictErrors))
		return
	}

	logger.DebugCtx(logger.WithStage(ctx, logger.LogStages.RequestValidated), "Extraction request validated",
		"image_data_length", len(req.Base64ImageData),
	)

	result, err := h.Extractor.Extract(r.Context(), req.Base64ImageData)
	if err != nil {
		apierrors.HandleError(w, r, h.classify(err))
		return
	}

	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Raw); err != nil {
		logger.ErrorCtx(ctx, "Failed to write extraction response",
			"error", err,
			"response_size", len(result.Raw),
		)
		return
	}

	logger.InfoCtx(logger.WithStage(ctx, logger.LogStages.RequestCompleted), "Extraction request completed",
		"records", result.Count,
	)
}

func (h *APIHandlers) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	reader := io.Reader(r.Body)
	if h.opts.MaxBodyBytes > 0 {
		reader = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}

// classify maps service errors onto the HTTP error taxonomy
func (h *APIHandlers) classify(err error) *apierrors.APIError {
	if errors.Is(err, extraction.ErrAPIKeyMissing) {
		return apierrors.NewConfigurationError(err)
	}

	if upstreamErr, ok := gemini.IsUpstreamError(err); ok {
		if h.opts.RedactUpstreamErrors {
			return apierrors.NewRedactedExternalError(upstreamErr.StatusCode, err)
		}
		return apierrors.NewExternalError(upstreamErr.StatusCode, upstreamErr.Body, err)
	}

	return apierrors.NewInternalError(err)
}

// HealthResponse represents the structured health check response
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp string                 `json:"timestamp" example:"2025-06-01T12:00:00Z"`
	Services  map[string]string      `json:"services"`
	Details   map[string]interface{} `json:"details"`
}

// HealthHandler handles the health check endpoint
//
//	@Summary		Health check endpoint
//	@Description	Reports whether the service can serve extractions; degraded when no API key is configured
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	handlers.HealthResponse	"Structured health response"
//	@Router			/health [get]
func (h *APIHandlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	uptime := int64(time.Since(startTime).Seconds())

	checker := health.StandardChecks(h.Extractor != nil, h.opts.APIKeyConfigured)
	status, results := checker.Evaluate(r.Context())
	overallStatus := string(status)

	services := make(map[string]string, len(results))
	for name, result := range results {
		switch result.Status {
		case health.StatusHealthy:
			services[name] = "up"
		case health.StatusDegraded:
			services[name] = "degraded"
		default:
			services[name] = "down"
		}
	}

	healthResponse := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
		Details: map[string]interface{}{
			"version": h.opts.Version,
			"uptime":  uptime,
			"model":   h.opts.Model,
		},
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	w.Header().Set(utils.HeaderCacheControl, utils.CacheControlNoStore)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(healthResponse); err != nil {
		ctx := logger.WithComponent(r.Context(), logger.ComponentNames.HealthHandler)
		logger.ErrorCtx(ctx, "Failed to write health response", "error", err)
	}

	// healthy checks are not logged
	if overallStatus != "healthy" {
		ctx := logger.WithComponent(r.Context(), logger.ComponentNames.HealthHandler)
		logger.WarnCtx(logger.WithStage(ctx, logger.LogStages.HealthCheck), "Health check degraded or unhealthy",
			"overall_status", overallStatus,
			"services_status", services,
			"uptime_seconds", uptime,
		)
	}
}
