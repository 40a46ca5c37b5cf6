package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aashari/go-worklist-extractor/internal/config"
	"github.com/aashari/go-worklist-extractor/internal/extraction"
	"github.com/aashari/go-worklist-extractor/internal/gemini"
	"github.com/aashari/go-worklist-extractor/internal/handlers"
	"github.com/aashari/go-worklist-extractor/internal/httpclient"
	"github.com/aashari/go-worklist-extractor/internal/logger"
	"github.com/aashari/go-worklist-extractor/internal/router"
)

// Build information, set with -ldflags at release time
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// App centralizes the application's dependencies and configuration
type App struct {
	Config      *config.Config
	Client      *gemini.Client
	Extractor   *extraction.Service
	APIHandlers *handlers.APIHandlers
}

// Option customizes App construction
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient replaces the outbound client used for the model service
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// NewApp creates a new App instance with all dependencies
func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = httpclient.NewFactory(httpclient.Options{
			Timeout:   cfg.Gemini.Timeout,
			UserAgent: cfg.Gemini.UserAgent,
		}).CreateDefaultClient()
	}

	client := gemini.NewClient(gemini.Options{
		BaseURL:    cfg.Gemini.BaseURL,
		Model:      cfg.Gemini.Model,
		APIKey:     cfg.Gemini.APIKey,
		HTTPClient: httpClient,
	})

	extractor, err := extraction.NewService(client, extraction.Options{
		ValidateRecords: cfg.Extraction.ValidateRecords,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction service: %w", err)
	}

	apiHandlers := handlers.NewAPIHandlers(extractor, handlers.Options{
		Version:              Version,
		Model:                cfg.Gemini.Model,
		APIKeyConfigured:     cfg.APIKeyConfigured(),
		StrictErrors:         cfg.Extraction.StrictErrors,
		RedactUpstreamErrors: cfg.Extraction.RedactUpstreamErrors,
		MaxBodyBytes:         cfg.Extraction.MaxBodyBytes,
	})

	ctx := logger.WithComponent(logger.WithStage(context.Background(), logger.LogStages.Initialization), logger.ComponentNames.Server)
	logger.InfoCtx(ctx, "Application initialized",
		"model", cfg.Gemini.Model,
		"api_key_configured", cfg.APIKeyConfigured(),
		"strict_errors", cfg.Extraction.StrictErrors,
		"redact_upstream_errors", cfg.Extraction.RedactUpstreamErrors,
		"gemini_timeout", cfg.Gemini.Timeout.String(),
	)
	if !cfg.APIKeyConfigured() {
		logger.WarnCtx(ctx, "GEMINI_API_KEY is not set; extraction requests will fail with a configuration error")
	}

	return &App{
		Config:      cfg,
		Client:      client,
		Extractor:   extractor,
		APIHandlers: apiHandlers,
	}, nil
}

// SetupRoutes returns the fully wrapped HTTP handler
func (a *App) SetupRoutes() http.Handler {
	return router.SetupRoutes(a.APIHandlers)
}

// FunctionHandler serves extraction on every path, for hosts that route a
// single function
func (a *App) FunctionHandler() http.Handler {
	return router.SetupFunction(a.APIHandlers)
}
