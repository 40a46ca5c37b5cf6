package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aashari/go-worklist-extractor/internal/logger"
	"github.com/aashari/go-worklist-extractor/internal/monitoring"
	"github.com/aashari/go-worklist-extractor/internal/utils"
)

// Generator produces content from a prompt. *Client is the production
// implementation.
type Generator interface {
	GenerateContent(ctx context.Context, req *GenerateContentRequest) (*GenerateContentResponse, error)
}

// Options configures a Client
type Options struct {
	BaseURL    string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// Client calls the Gemini REST API
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ Generator = (*Client)(nil)

// NewClient creates a client. A missing API key is not an error here; it is
// reported on every GenerateContent call instead.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		model:      opts.Model,
		apiKey:     opts.APIKey,
		httpClient: httpClient,
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// HasAPIKey reports whether a key is configured
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// GenerateContent sends exactly one generateContent request. There is no
// retry: a failure is returned as-is.
func (c *Client) GenerateContent(ctx context.Context, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	ctx = logger.WithComponent(ctx, logger.ComponentNames.GeminiClient)

	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set(utils.HeaderContentType, utils.ContentTypeJSON)

	logger.InfoCtx(logger.WithStage(ctx, logger.LogStages.VendorRequest), "Sending generateContent request",
		"model", c.model,
		"request_url", utils.MaskURL(endpoint),
		"request_body_bytes", len(body),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		logger.ErrorCtx(logger.WithStage(ctx, logger.LogStages.VendorError), "Model service communication failed",
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
		return nil, fmt.Errorf("failed to send request: %w", &transportError{err: err})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	monitoring.GetMetrics().RecordUpstream(resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.WarnCtx(logger.WithStage(ctx, logger.LogStages.VendorError), "Model service returned an error",
			"response_status_code", resp.StatusCode,
			"response_body", string(respBody),
			"duration_ms", duration.Milliseconds(),
		)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var out GenerateContentResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	logger.InfoCtx(logger.WithStage(ctx, logger.LogStages.VendorResponse), "generateContent response received",
		"response_status_code", resp.StatusCode,
		"candidates", len(out.Candidates),
		"model_version", out.ModelVersion,
		"duration_ms", duration.Milliseconds(),
	)

	return &out, nil
}

func (c *Client) endpoint() (*url.URL, error) {
	u, err := url.Parse(c.baseURL + "/models/" + c.model + ":generateContent")
	if err != nil {
		return nil, fmt.Errorf("invalid model endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u, nil
}
